package omiswath

import (
	"fmt"
	"io"

	"github.com/golang/geo/r2"
)

// Result is the outcome of a location query against a swath.
type Result struct {
	Row, Col int
	Lat, Lon float64 // coordinate of the nearest pixel
	Distance float64 // metres from the query point
	Value    Value
	Stats3   Stats
	Stats5   Stats
}

// Locate finds the pixel nearest (lat, lon) and summarises its 3×3 and 5×5
// neighbourhoods. Queries outside the swath's lat/lon envelope fail with
// *OutOfRangeError.
//
// The 5×5 window is centred on the 3×3 window's nudged centre, not on the
// nearest pixel itself.
func (s *Swath) Locate(lat, lon float64) (*Result, error) {
	env := s.Grid.Envelope()
	if !env.ContainsPoint(r2.Point{X: lon, Y: lat}) {
		return nil, &OutOfRangeError{Lat: lat, Lon: lon, Envelope: env}
	}
	row, col, d := s.Grid.Nearest(lat, lon)
	plat, plon := s.Grid.At(row, col)

	r3, c3 := ClampCenter(row, col, s.Grid.Rows, s.Grid.Cols, 1)
	return &Result{
		Row:      row,
		Col:      col,
		Lat:      plat,
		Lon:      plon,
		Distance: d,
		Value:    s.Values.PointValue(row, col),
		Stats3:   s.Values.NeighborhoodStats(row, col, 1),
		Stats5:   s.Values.NeighborhoodStats(r3, c3, 2),
	}, nil
}

// Summary returns statistics over every valid pixel of the swath.
func (s *Swath) Summary() Stats { return s.Values.Summary() }

// Report writes the text report for r.
func (s *Swath) Report(w io.Writer, r *Result) error {
	value := r.Value.String()
	if !r.Value.Valid {
		value = FormatFloat32(s.Attrs.Fill) + ", (No Value)"
	}
	_, err := fmt.Fprintf(w, "The nearest pixel to your entered location is at:\n"+
		"Latitude: %s  Longitude: %s\n"+
		"The value of %s at this pixel is %s\n"+
		"%s\n\n%s\n",
		FormatFloat32(r.Lat), FormatFloat32(r.Lon), s.SDS, value,
		r.Stats3.Summary(), r.Stats5.Summary())
	return err
}
