package omiswath

import (
	"math"
	"strconv"
	"strings"

	"github.com/ctessum/sparse"
)

// Calibration holds the per-field linear calibration and no-data sentinels.
// Calibrated values are Scale * (raw - Offset).
type Calibration struct {
	Scale   float64
	Offset  float64
	Fill    float64
	Missing float64
}

// IsSentinel reports whether a raw reading is the fill or missing value.
func (c Calibration) IsSentinel(raw float64) bool {
	return raw == c.Fill || raw == c.Missing
}

// Forward converts one raw reading. Sentinels become NaN.
func (c Calibration) Forward(raw float64) float64 {
	if c.IsSentinel(raw) || math.IsNaN(raw) {
		return math.NaN()
	}
	return c.Scale * (raw - c.Offset)
}

// Inverse recovers the raw reading from a calibrated value.
func (c Calibration) Inverse(v float64) float64 {
	return v/c.Scale + c.Offset
}

// Apply calibrates a 2D raw array into a ValueGrid.
func (c Calibration) Apply(raw *sparse.DenseArray) (*ValueGrid, error) {
	if len(raw.Shape) != 2 {
		return nil, &ShapeError{What: "field (2D required)", Got: raw.Shape}
	}
	rows, cols := raw.Shape[0], raw.Shape[1]
	data := sparse.ZerosDense(rows, cols)
	mask := NewMask(len(raw.Elements))
	for i, r := range raw.Elements {
		v := c.Forward(r)
		data.Elements[i] = v
		if !math.IsNaN(v) {
			mask.Set(i)
		}
	}
	return &ValueGrid{Rows: rows, Cols: cols, Data: data, Mask: mask, Fill: c.Fill}, nil
}

// Export calibrates raw for writing, with no-data cells written back as
// the fill value rather than NaN.
func (c Calibration) Export(raw []float64) []float64 {
	out := make([]float64, len(raw))
	for i, r := range raw {
		v := c.Forward(r)
		if math.IsNaN(v) {
			v = c.Fill
		}
		out[i] = v
	}
	return out
}

// ValueGrid is a calibrated field. No-data cells hold NaN and have their
// mask bit clear.
type ValueGrid struct {
	Rows, Cols int
	Data       *sparse.DenseArray
	Mask       *Mask
	Fill       float64 // raw fill value, still screened for inside windows
}

// Value is a calibrated reading or the absence of one.
type Value struct {
	V     float64
	Valid bool
}

// NoData is the Value of a pixel without an observation.
var NoData = Value{V: math.NaN()}

// String returns the value rounded to 3 decimals, or "No Value".
func (v Value) String() string {
	if !v.Valid {
		return "No Value"
	}
	return FormatFloat(Round3(v.V))
}

// PointValue returns the calibrated value at (row, col), or NoData when the
// pixel was a fill/missing reading or lies outside the grid.
func (vg *ValueGrid) PointValue(row, col int) Value {
	if row < 0 || row >= vg.Rows || col < 0 || col >= vg.Cols {
		return NoData
	}
	k := row*vg.Cols + col
	v := vg.Data.Elements[k]
	if !vg.Mask.Valid(k) || math.IsNaN(v) {
		return NoData
	}
	return Value{V: v, Valid: true}
}

// Round3 rounds x to 3 decimal places the way Python's round(x, 3) does:
// the exact binary value is rounded half-to-even.
func Round3(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 3, 64), 64)
	return r
}

// FormatFloat renders x the way Python prints a float: shortest round-trip
// digits, a trailing ".0" on integral values, and exponent notation below
// 1e-4 or from 1e16 up.
func FormatFloat(x float64) string { return formatFloat(x, 64) }

// FormatFloat32 is FormatFloat for values that were stored as float32,
// such as swath coordinates and fill values.
func FormatFloat32(x float64) string { return formatFloat(x, 32) }

func formatFloat(x float64, bits int) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	if abs := math.Abs(x); x != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(x, 'e', -1, bits)
	}
	s := strconv.FormatFloat(x, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
