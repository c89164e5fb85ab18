package omiswath

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Stats summarises the valid cells of a window or a whole field.
// Count == 0 means there were no valid pixels and the other fields are NaN.
type Stats struct {
	Size   int // window edge length; 0 for a whole-field summary
	Count  int
	Mean   float64
	Median float64
	StdDev float64 // population standard deviation
}

// NoData reports whether no valid pixels contributed.
func (s Stats) NoData() bool { return s.Count == 0 }

// NeighborhoodStats computes statistics over the (2*half+1)² window around
// (row, col) as placed by WindowAt. Cells that are NaN, or whose calibrated
// value equals the raw fill value, are skipped.
func (vg *ValueGrid) NeighborhoodStats(row, col, half int) Stats {
	w := WindowAt(row, col, vg.Rows, vg.Cols, half)
	vals := make([]float64, 0, w.Size())
	for i := w.Row0; i <= w.Row1; i++ {
		for j := w.Col0; j <= w.Col1; j++ {
			v := vg.Data.Get(i, j)
			if math.IsNaN(v) || v == vg.Fill {
				continue
			}
			vals = append(vals, v)
		}
	}
	s := summarize(vals)
	s.Size = 2*half + 1
	return s
}

// Summary computes statistics over every valid cell of the field.
func (vg *ValueGrid) Summary() Stats {
	vals := make([]float64, 0, vg.Mask.Count())
	for k, v := range vg.Data.Elements {
		if vg.Mask.Valid(k) && !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	return summarize(vals)
}

// Max returns the largest valid value, or NaN if there is none.
func (vg *ValueGrid) Max() float64 {
	max := math.NaN()
	for k, v := range vg.Data.Elements {
		if !vg.Mask.Valid(k) {
			continue
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}
	return max
}

func summarize(vals []float64) Stats {
	if len(vals) == 0 {
		return Stats{Mean: math.NaN(), Median: math.NaN(), StdDev: math.NaN()}
	}
	mean, std := stat.PopMeanStdDev(vals, nil)
	return Stats{Count: len(vals), Mean: mean, Median: median(vals), StdDev: std}
}

// median averages the two middle values for even counts.
// vals is sorted in place.
func median(vals []float64) float64 {
	sort.Float64s(vals)
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}

// Summary returns the human-readable report for a window.
func (s Stats) Summary() string {
	where := fmt.Sprintf("in a %dx%d grid centered at your entered location.", s.Size, s.Size)
	if s.NoData() {
		return "There are no valid pixels " + where
	}
	verb, noun := "are", "pixels"
	if s.Count == 1 {
		verb, noun = "is", "pixel"
	}
	return fmt.Sprintf("There %s %d valid %s %s\n"+
		"The average value in this grid is: %s\n"+
		"The median value in this grid is: %s\n"+
		"The standard deviation in this grid is: %s",
		verb, s.Count, noun, where, fmt3(s.Mean), fmt3(s.Median), fmt3(s.StdDev))
}

func fmt3(x float64) string { return Value{V: x, Valid: true}.String() }
