// Package export dumps a granule's pixels as a table: one row per pixel in
// row-major order, with the scan time, the coordinate and the calibrated
// export fields of the product.
package export

import (
	"fmt"

	"github.com/geal-ai/omiswath"
)

// timeColumns precede the coordinate and field columns.
var timeColumns = []string{"Year", "Month", "Day", "Hour", "Minute", "Second"}

// Table is a column-major pixel table.
type Table struct {
	Header  []string
	Columns [][]float64 // len(Columns) == len(Header); all columns have Len() values
}

// Len returns the number of pixel rows.
func (t *Table) Len() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0])
}

// Row returns row i.
func (t *Table) Row(i int) []float64 {
	out := make([]float64, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = c[i]
	}
	return out
}

// Build reads the geolocation and every export field of src's product.
// A missing export field is an error. No-data pixels hold the raw fill value
// of their field.
func Build(src omiswath.Source) (*Table, error) {
	lat, err := src.Geolocation("Latitude")
	if err != nil {
		return nil, fmt.Errorf("export: latitude: %w", err)
	}
	lon, err := src.Geolocation("Longitude")
	if err != nil {
		return nil, fmt.Errorf("export: longitude: %w", err)
	}
	tm, err := src.Geolocation("Time")
	if err != nil {
		return nil, fmt.Errorf("export: time: %w", err)
	}
	if len(lat.Shape) != 2 {
		return nil, &omiswath.ShapeError{What: "Latitude (2D required)", Got: lat.Shape}
	}
	rows, cols := lat.Shape[0], lat.Shape[1]
	if len(lon.Elements) != rows*cols {
		return nil, &omiswath.ShapeError{What: "Longitude", Want: lat.Shape, Got: lon.Shape}
	}
	if len(tm.Elements) != rows {
		return nil, &omiswath.ShapeError{What: "Time", Want: lat.Shape[:1], Got: tm.Shape}
	}

	n := rows * cols
	t := &Table{Header: append([]string(nil), timeColumns...)}
	parts := make([][]float64, len(timeColumns))
	for j := range parts {
		parts[j] = make([]float64, n)
	}
	for r := 0; r < rows; r++ {
		st := omiswath.ScanTime(tm.Elements[r])
		fields := [...]float64{
			float64(st.Year()), float64(st.Month()), float64(st.Day()),
			float64(st.Hour()), float64(st.Minute()), float64(st.Second()),
		}
		for c := 0; c < cols; c++ {
			for j, v := range fields {
				parts[j][r*cols+c] = v
			}
		}
	}
	t.Columns = append(parts, lat.Elements, lon.Elements)
	t.Header = append(t.Header, "Latitude", "Longitude")

	for _, name := range src.Product().Info().Export {
		f, err := src.Field(name)
		if err != nil {
			return nil, fmt.Errorf("export: %s: %w", name, err)
		}
		if len(f.Data.Elements) != n {
			return nil, &omiswath.ShapeError{What: name, Want: lat.Shape, Got: f.Data.Shape}
		}
		t.Header = append(t.Header, name)
		t.Columns = append(t.Columns, f.Attrs.Calibration.Export(f.Data.Elements))
	}
	return t, nil
}
