package omiswath

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// Source is a granule opened by a file-format reader.
type Source interface {
	// Product reports which product the granule holds.
	Product() Product

	// Geolocation reads a geolocation field such as "Latitude",
	// "Longitude" or "Time".
	Geolocation(name string) (*sparse.DenseArray, error)

	// Field reads a data field with its calibration attributes.
	Field(name string) (*RawField, error)

	// GeolocationInfo lists the geolocation fields and their dimensions.
	GeolocationInfo() ([]DatasetInfo, error)

	Close() error
}

// RawField is an uncalibrated data field.
type RawField struct {
	Name  string
	Data  *sparse.DenseArray
	Attrs FieldAttrs
}

// FieldAttrs are the per-field attributes a Source reports.
type FieldAttrs struct {
	Calibration
	Units      string
	ValidRange []float64 // empty when the field declares none
}

// DatasetInfo names a dataset and its dimensions.
type DatasetInfo struct {
	Name string
	Dims []int
}

// Swath is one calibrated field on its geolocation grid.
type Swath struct {
	Product Product
	SDS     string
	Grid    *Grid
	Values  *ValueGrid
	Attrs   FieldAttrs
}

// Load reads the geolocation grid and the product's primary field from src.
func Load(src Source) (*Swath, error) {
	p := src.Product()
	return LoadField(src, p.Info().SDS)
}

// LoadField reads the geolocation grid and the named data field from src.
func LoadField(src Source, sds string) (*Swath, error) {
	lat, err := src.Geolocation("Latitude")
	if err != nil {
		return nil, fmt.Errorf("reading latitude: %w", err)
	}
	lon, err := src.Geolocation("Longitude")
	if err != nil {
		return nil, fmt.Errorf("reading longitude: %w", err)
	}
	if len(lat.Shape) != 2 {
		return nil, &ShapeError{What: "Latitude (2D required)", Got: lat.Shape}
	}
	if !sameShape(lat.Shape, lon.Shape) {
		return nil, &ShapeError{What: "Longitude", Want: lat.Shape, Got: lon.Shape}
	}
	grid, err := NewGrid(lat.Shape[0], lat.Shape[1], lat.Elements, lon.Elements)
	if err != nil {
		return nil, err
	}

	f, err := src.Field(sds)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", sds, err)
	}
	if !sameShape(lat.Shape, f.Data.Shape) {
		return nil, &ShapeError{What: sds, Want: lat.Shape, Got: f.Data.Shape}
	}
	vg, err := f.Attrs.Calibration.Apply(f.Data)
	if err != nil {
		return nil, err
	}
	return &Swath{Product: src.Product(), SDS: sds, Grid: grid, Values: vg, Attrs: f.Attrs}, nil
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
