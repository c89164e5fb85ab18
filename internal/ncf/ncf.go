// Package ncf reads and writes OMI swath granules converted to NetCDF-3.
//
// The layout mirrors the HDF-EOS5 swath: dimensions nTimes and nXtrack,
// float32 variables Latitude, Longitude and one per data field, a float64
// Time variable over nTimes, and the HDF-EOS5 field attributes (ScaleFactor,
// Offset, _FillValue, MissingValue, Units, ValidRange) carried over verbatim.
// Each variable's Group attribute records which HDF-EOS5 group it came from.
package ncf

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/geal-ai/omiswath"
	"github.com/spf13/cast"
)

const (
	groupGeolocation = "Geolocation Fields"
	groupData        = "Data Fields"

	// maxCells bounds the size of a variable read from a header, so a corrupt
	// or hostile file cannot force a huge allocation. Real OMI swaths are
	// about 1644×60.
	maxCells = 1 << 26
)

// File is an open NetCDF granule. It implements omiswath.Source.
type File struct {
	f       *os.File
	cf      *cdf.File
	product omiswath.Product
}

// Open opens a NetCDF granule. The product is taken from the global Product
// attribute, or from the file name when the attribute is absent.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	cf, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ncf: %s: %w", path, err)
	}
	label := filepath.Base(path)
	if s, ok := cf.Header.GetAttribute("", "Product").(string); ok {
		label = s
	}
	p, err := omiswath.ProductFromName(label)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ncf: %w", err)
	}
	return &File{f: f, cf: cf, product: p}, nil
}

// Product implements omiswath.Source.
func (f *File) Product() omiswath.Product { return f.product }

// Close closes the underlying file.
func (f *File) Close() error { return f.f.Close() }

// Geolocation implements omiswath.Source.
func (f *File) Geolocation(name string) (*sparse.DenseArray, error) {
	return f.read(name)
}

// Field implements omiswath.Source.
func (f *File) Field(name string) (*omiswath.RawField, error) {
	data, err := f.read(name)
	if err != nil {
		return nil, err
	}
	attrs, err := f.attrs(name)
	if err != nil {
		return nil, err
	}
	return &omiswath.RawField{Name: name, Data: data, Attrs: attrs}, nil
}

// GeolocationInfo implements omiswath.Source.
func (f *File) GeolocationInfo() ([]omiswath.DatasetInfo, error) {
	var out []omiswath.DatasetInfo
	for _, v := range f.cf.Header.Variables() {
		if g, _ := f.cf.Header.GetAttribute(v, "Group").(string); g != groupGeolocation {
			continue
		}
		dims := append([]int(nil), f.cf.Header.Lengths(v)...)
		out = append(out, omiswath.DatasetInfo{Name: v, Dims: dims})
	}
	return out, nil
}

func (f *File) read(name string) (*sparse.DenseArray, error) {
	dims := f.cf.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, fmt.Errorf("ncf: variable %q: %w", name, omiswath.ErrMissingDataset)
	}
	n := int64(1)
	for _, d := range dims {
		n *= int64(d)
	}
	if n == 0 || n > maxCells {
		return nil, fmt.Errorf("ncf: variable %q has unsupported size %v", name, dims)
	}
	r := f.cf.Reader(name, nil, nil)
	buf := r.Zero(int(n))
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("ncf: read variable %s: %w", name, err)
	}
	vals, err := floats(buf)
	if err != nil {
		return nil, fmt.Errorf("ncf: variable %s: %w", name, err)
	}
	data := sparse.ZerosDense(append([]int(nil), dims...)...)
	copy(data.Elements, vals)
	return data, nil
}

func (f *File) attrs(name string) (omiswath.FieldAttrs, error) {
	var a omiswath.FieldAttrs
	a.Scale = 1
	scalars := []struct {
		attr     string
		dst      *float64
		required bool
	}{
		{"ScaleFactor", &a.Scale, false},
		{"Offset", &a.Offset, false},
		{"_FillValue", &a.Fill, true},
		{"MissingValue", &a.Missing, true},
	}
	for _, s := range scalars {
		v := f.cf.Header.GetAttribute(name, s.attr)
		if v == nil {
			if s.required {
				return a, fmt.Errorf("ncf: %s has no %s attribute", name, s.attr)
			}
			continue
		}
		vals, err := floats(v)
		if err != nil || len(vals) == 0 {
			return a, fmt.Errorf("ncf: %s:%s: bad value %v", name, s.attr, v)
		}
		*s.dst = vals[0]
	}
	if u, ok := f.cf.Header.GetAttribute(name, "Units").(string); ok {
		a.Units = u
	}
	if v := f.cf.Header.GetAttribute(name, "ValidRange"); v != nil {
		vr, err := floats(v)
		if err != nil {
			return a, fmt.Errorf("ncf: %s:ValidRange: %w", name, err)
		}
		a.ValidRange = vr
	}
	return a, nil
}

// floats converts any numeric slice returned by cdf to []float64.
func floats(v interface{}) ([]float64, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("not numeric: %T", v)
	}
	out := make([]float64, rv.Len())
	for i := range out {
		x, err := cast.ToFloat64E(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}
