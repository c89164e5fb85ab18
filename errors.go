package omiswath

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r2"
)

var (
	// ErrUnknownProduct is returned when a granule name names neither NO2 nor SO2.
	ErrUnknownProduct = errors.New("not a valid OMI NO2 or SO2 granule")

	// ErrMissingDataset is wrapped by readers when a requested dataset is absent.
	ErrMissingDataset = errors.New("dataset not found")
)

// OutOfRangeError reports a query outside the geographic envelope of a grid.
type OutOfRangeError struct {
	Lat, Lon float64
	Envelope r2.Rect // X = longitude, Y = latitude
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("location (%g, %g) is outside the granule: latitude %g to %g, longitude %g to %g",
		e.Lat, e.Lon, e.Envelope.Y.Lo, e.Envelope.Y.Hi, e.Envelope.X.Lo, e.Envelope.X.Hi)
}

// ShapeError reports arrays whose shapes do not line up.
type ShapeError struct {
	What string
	Want []int
	Got  []int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: shape %v does not match grid %v", e.What, e.Got, e.Want)
}
