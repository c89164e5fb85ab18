package omiswath_test

import (
	"math"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/geal-ai/omiswath"
	"gonum.org/v1/gonum/floats/scalar"
)

const testFill = -1.2676506002282294e+30

// valueGrid calibrates vals, given as rows of raw readings, with cal.
func valueGrid(t *testing.T, cal omiswath.Calibration, vals [][]float64) *omiswath.ValueGrid {
	t.Helper()
	raw := sparse.ZerosDense(len(vals), len(vals[0]))
	for r, row := range vals {
		copy(raw.Elements[r*len(row):], row)
	}
	vg, err := cal.Apply(raw)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return vg
}

var unitCal = omiswath.Calibration{Scale: 1, Fill: testFill, Missing: -999}

func TestNeighborhoodStatsKnownBlock(t *testing.T) {
	vg := valueGrid(t, unitCal, [][]float64{
		{1, 2, 3},
		{4, testFill, 6},
		{7, 8, 9},
	})
	s := vg.NeighborhoodStats(1, 1, 1)
	if s.Count != 8 {
		t.Fatalf("Count = %d, want 8", s.Count)
	}
	if s.Mean != 5 || s.Median != 5 {
		t.Errorf("mean/median = %v/%v, want 5/5", s.Mean, s.Median)
	}
	// Population standard deviation of 1-4, 6-9: sqrt(60/8).
	if want := math.Sqrt(7.5); !scalar.EqualWithinAbsOrRel(s.StdDev, want, 1e-12, 1e-12) {
		t.Errorf("StdDev = %v, want %v", s.StdDev, want)
	}
	if omiswath.Round3(s.StdDev) != 2.739 {
		t.Errorf("rounded StdDev = %v, want 2.739", omiswath.Round3(s.StdDev))
	}
}

func TestNeighborhoodStatsMedianEven(t *testing.T) {
	vg := valueGrid(t, unitCal, [][]float64{
		{10, 1, -999},
		{4, testFill, testFill},
		{testFill, -999, testFill},
	})
	s := vg.NeighborhoodStats(1, 1, 1)
	if s.Count != 3 {
		t.Fatalf("Count = %d, want 3", s.Count)
	}
	if s.Median != 4 {
		t.Errorf("Median = %v, want 4", s.Median)
	}
	vg = valueGrid(t, unitCal, [][]float64{{1, 2}, {10, 20}})
	if s := vg.NeighborhoodStats(0, 0, 1); s.Count != 4 || s.Median != 6 {
		t.Errorf("stats over a 2x2 grid: %+v, want 4 pixels with median 6", s)
	}
}

func TestNeighborhoodStatsEmpty(t *testing.T) {
	vg := valueGrid(t, unitCal, [][]float64{
		{testFill, testFill, testFill, 5},
		{-999, testFill, testFill, 5},
		{testFill, -999, testFill, 5},
	})
	s := vg.NeighborhoodStats(1, 0, 1)
	if !s.NoData() || s.Count != 0 {
		t.Errorf("stats over an empty window: %+v", s)
	}
	if !math.IsNaN(s.Mean) || !math.IsNaN(s.Median) || !math.IsNaN(s.StdDev) {
		t.Errorf("empty window must not report numbers: %+v", s)
	}
	want := "There are no valid pixels in a 3x3 grid centered at your entered location."
	if got := s.Summary(); got != want {
		t.Errorf("Summary:\n got %q\nwant %q", got, want)
	}
}

// TestNeighborhoodStatsFillAfterCalibration checks that a calibrated value
// equal to the raw fill value is screened out of windows but still reported
// as a point value.
func TestNeighborhoodStatsFillAfterCalibration(t *testing.T) {
	cal := omiswath.Calibration{Scale: 2, Fill: 10, Missing: -1}
	vg := valueGrid(t, cal, [][]float64{
		{1, 1, 1},
		{1, 5, 1},
		{1, 1, 1},
	})
	if v := vg.PointValue(1, 1); !v.Valid || v.V != 10 {
		t.Errorf("PointValue(1, 1) = %+v, want 10", v)
	}
	if s := vg.NeighborhoodStats(1, 1, 1); s.Count != 8 || s.Mean != 2 {
		t.Errorf("stats: %+v, want 8 pixels with mean 2", s)
	}
}

func TestStatsSummaryWording(t *testing.T) {
	tests := []struct {
		s    omiswath.Stats
		want string
	}{
		{
			omiswath.Stats{Size: 3, Count: 1, Mean: 2.5, Median: 2.5, StdDev: 0},
			"There is 1 valid pixel in a 3x3 grid centered at your entered location.\n" +
				"The average value in this grid is: 2.5\n" +
				"The median value in this grid is: 2.5\n" +
				"The standard deviation in this grid is: 0.0",
		},
		{
			omiswath.Stats{Size: 5, Count: 2, Mean: 1.23456, Median: 1.23456, StdDev: 0.0004},
			"There are 2 valid pixels in a 5x5 grid centered at your entered location.\n" +
				"The average value in this grid is: 1.235\n" +
				"The median value in this grid is: 1.235\n" +
				"The standard deviation in this grid is: 0.0",
		},
		{
			omiswath.Stats{Size: 5, Count: 0},
			"There are no valid pixels in a 5x5 grid centered at your entered location.",
		},
	}
	for _, tc := range tests {
		if got := tc.s.Summary(); got != tc.want {
			t.Errorf("Summary(%+v):\n got %q\nwant %q", tc.s, got, tc.want)
		}
	}
}

func TestSummaryAndMax(t *testing.T) {
	vg := valueGrid(t, unitCal, [][]float64{
		{testFill, 3, 1},
		{-999, 2, 6},
	})
	s := vg.Summary()
	if s.Count != 4 || s.Mean != 3 || s.Median != 2.5 {
		t.Errorf("Summary = %+v, want count 4, mean 3, median 2.5", s)
	}
	if m := vg.Max(); m != 6 {
		t.Errorf("Max = %v, want 6", m)
	}
	empty := valueGrid(t, unitCal, [][]float64{{testFill, -999}})
	if m := empty.Max(); !math.IsNaN(m) {
		t.Errorf("Max of an empty field = %v, want NaN", m)
	}
	if s := empty.Summary(); !s.NoData() {
		t.Errorf("Summary of an empty field = %+v", s)
	}
}
