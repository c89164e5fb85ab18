// Package ncftest builds small synthetic NetCDF granules for tests.
package ncftest

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/geal-ai/omiswath"
	"github.com/geal-ai/omiswath/internal/ncf"
)

// Grid dimensions of the synthetic granule.
const (
	Rows = 6
	Cols = 5
)

// Fill is the OMI fill value, -2^100.
var Fill = math.Ldexp(-1, 100)

// FirstTime is the Time value of row 0. Row r is scanned at FirstTime + 2r.
const FirstTime = 4.8e8

// Name returns the file name used for product p.
func Name(p omiswath.Product) string {
	if p == omiswath.SO2 {
		return "OMI-Aura_L2-OMSO2_2008m0720t2016-o21357_v003.nc"
	}
	return "OMI-Aura_L2-OMNO2_2008m0720t2016-o21357_v003.nc"
}

// Granule returns a Rows×Cols granule of product p.
// Pixel (r, c) sits at latitude 10+r and longitude 20+c. Each export field
// holds raw value k*(10r+c) for its position k (1-based) in the export list,
// except pixel (0, 0), which is the fill value.
func Granule(p omiswath.Product) *ncf.Granule {
	lat := sparse.ZerosDense(Rows, Cols)
	lon := sparse.ZerosDense(Rows, Cols)
	tm := sparse.ZerosDense(Rows)
	for r := 0; r < Rows; r++ {
		tm.Elements[r] = FirstTime + 2*float64(r)
		for c := 0; c < Cols; c++ {
			lat.Elements[r*Cols+c] = 10 + float64(r)
			lon.Elements[r*Cols+c] = 20 + float64(c)
		}
	}
	g := &ncf.Granule{
		Product: p,
		Geolocation: map[string]*sparse.DenseArray{
			"Latitude":  lat,
			"Longitude": lon,
			"Time":      tm,
		},
	}
	for k, name := range p.Info().Export {
		data := sparse.ZerosDense(Rows, Cols)
		for i := range data.Elements {
			data.Elements[i] = float64((k + 1) * (10*(i/Cols) + i%Cols))
		}
		data.Elements[0] = Fill
		attrs := omiswath.FieldAttrs{
			Calibration: omiswath.Calibration{Scale: 1, Fill: Fill, Missing: Fill},
			Units:       "DU",
		}
		if p == omiswath.SO2 && k == 0 {
			attrs.ValidRange = []float64{-10, 2000}
		}
		g.Fields = append(g.Fields, &omiswath.RawField{Name: name, Data: data, Attrs: attrs})
	}
	return g
}

// Write writes Granule(p) into dir and returns its path.
func Write(tb testing.TB, dir string, p omiswath.Product) string {
	tb.Helper()
	path := filepath.Join(dir, Name(p))
	if err := ncf.Write(path, Granule(p)); err != nil {
		tb.Fatalf("ncf.Write: %v", err)
	}
	return path
}
