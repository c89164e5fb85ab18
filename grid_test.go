package omiswath_test

import (
	"errors"
	"math"
	"testing"

	"github.com/geal-ai/omiswath"
	"gonum.org/v1/gonum/floats/scalar"
)

// testGrid returns a rows×cols grid with pixel (r, c) at (lat0+r*dlat, lon0+c*dlon).
func testGrid(t *testing.T, rows, cols int, lat0, lon0, dlat, dlon float64) *omiswath.Grid {
	t.Helper()
	lat := make([]float64, rows*cols)
	lon := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			lat[r*cols+c] = lat0 + float64(r)*dlat
			lon[r*cols+c] = lon0 + float64(c)*dlon
		}
	}
	g, err := omiswath.NewGrid(rows, cols, lat, lon)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func TestHaversine(t *testing.T) {
	const r = 6371000.0
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"same point", 38.9, -77.0, 38.9, -77.0, 0},
		{"one degree of latitude", 0, 0, 1, 0, r * math.Pi / 180},
		{"one degree of longitude at the equator", 0, 10, 0, 11, r * math.Pi / 180},
		{"quarter meridian", 0, 0, 90, 0, r * math.Pi / 2},
		{"antipodes", 0, 0, 0, 180, r * math.Pi},
		{"across the date line", 0, 179.5, 0, -179.5, r * math.Pi / 180},
	}
	for _, tc := range tests {
		got := omiswath.Haversine(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
		if !scalar.EqualWithinAbsOrRel(got, tc.want, 1e-6, 1e-9) {
			t.Errorf("%s: Haversine = %.6f, want %.6f", tc.name, got, tc.want)
		}
	}
}

func TestNearestExactCell(t *testing.T) {
	g := testGrid(t, 5, 4, -3.2, 100.5, 0.25, 0.4)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			lat, lon := g.At(r, c)
			gr, gc, d := g.Nearest(lat, lon)
			if gr != r || gc != c {
				t.Errorf("Nearest(%v, %v) = (%d, %d), want (%d, %d)", lat, lon, gr, gc, r, c)
			}
			if d > 1e-6 {
				t.Errorf("Nearest(%v, %v): distance %g, want 0", lat, lon, d)
			}
		}
	}
}

func TestNearestIsMinimum(t *testing.T) {
	g := testGrid(t, 7, 6, 40, -80, 0.13, 0.21)
	queries := [][2]float64{{40.05, -79.9}, {40.7, -78.9}, {39.0, -81.0}, {41.1, -78.0}, {40.39, -79.37}}
	for _, q := range queries {
		r, c, d := g.Nearest(q[0], q[1])
		if r < 0 || r >= g.Rows || c < 0 || c >= g.Cols {
			t.Fatalf("Nearest(%v) = (%d, %d): out of bounds", q, r, c)
		}
		for k := range g.Lat {
			if dk := omiswath.Haversine(q[0], q[1], g.Lat[k], g.Lon[k]); dk < d {
				t.Errorf("Nearest(%v) = (%d, %d) at %.3f m, but cell %d is %.3f m away", q, r, c, d, k, dk)
			}
		}
	}
}

func TestNearestTieBreak(t *testing.T) {
	// Cells 1 and 3 share a coordinate; the row-major first one wins.
	lat := []float64{0, 5, 1, 5}
	lon := []float64{0, 5, 1, 5}
	g, err := omiswath.NewGrid(2, 2, lat, lon)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if r, c, _ := g.Nearest(5, 5); r != 0 || c != 1 {
		t.Errorf("Nearest on a tie = (%d, %d), want (0, 1)", r, c)
	}
	// A query equidistant from both cells of a 1×2 grid.
	g2, err := omiswath.NewGrid(1, 2, []float64{0, 0}, []float64{-1, 1})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if r, c, _ := g2.Nearest(0, 0); r != 0 || c != 0 {
		t.Errorf("Nearest midway = (%d, %d), want (0, 0)", r, c)
	}
}

func TestNearestSkipsNaN(t *testing.T) {
	nan := math.NaN()
	g, err := omiswath.NewGrid(2, 2, []float64{nan, 10, 20, 30}, []float64{nan, 10, 20, 30})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if r, c, _ := g.Nearest(0, 0); r != 0 || c != 1 {
		t.Errorf("Nearest = (%d, %d), want (0, 1)", r, c)
	}

	all, err := omiswath.NewGrid(1, 2, []float64{nan, nan}, []float64{nan, nan})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	r, c, d := all.Nearest(0, 0)
	if r != 0 || c != 0 || !math.IsNaN(d) {
		t.Errorf("Nearest on an all-NaN grid = (%d, %d, %v), want (0, 0, NaN)", r, c, d)
	}
}

func TestNewGridShape(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		nlat, nlon int
		what       string
	}{
		{"short latitude", 2, 3, 5, 6, "Latitude"},
		{"short longitude", 2, 3, 6, 4, "Longitude"},
		{"empty", 0, 3, 0, 0, "grid"},
	}
	for _, tc := range tests {
		_, err := omiswath.NewGrid(tc.rows, tc.cols, make([]float64, tc.nlat), make([]float64, tc.nlon))
		var se *omiswath.ShapeError
		if !errors.As(err, &se) {
			t.Errorf("%s: got %v, want *ShapeError", tc.name, err)
			continue
		}
		if se.What != tc.what {
			t.Errorf("%s: ShapeError.What = %q, want %q", tc.name, se.What, tc.what)
		}
	}
}

func TestEnvelope(t *testing.T) {
	g := testGrid(t, 3, 4, -10, 30, 2, 0.5)
	g.Lat[5], g.Lon[5] = math.NaN(), math.NaN()
	env := g.Envelope()
	if env.Y.Lo != -10 || env.Y.Hi != -6 {
		t.Errorf("latitude range: got [%v, %v], want [-10, -6]", env.Y.Lo, env.Y.Hi)
	}
	if env.X.Lo != 30 || env.X.Hi != 31.5 {
		t.Errorf("longitude range: got [%v, %v], want [30, 31.5]", env.X.Lo, env.X.Hi)
	}
}
