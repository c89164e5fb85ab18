// Package he5 reads OMI level-2 HDF-EOS5 granules through the HDF5 C library.
package he5

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/ctessum/sparse"
	"github.com/geal-ai/omiswath"
	"gonum.org/v1/hdf5"
)

// maxCells bounds the size of a dataset read from a granule.
const maxCells = 1 << 26

// File is an open HDF-EOS5 granule. It implements omiswath.Source.
type File struct {
	f       *hdf5.File
	product omiswath.Product
}

// Open opens a granule. The product is detected from the file name.
func Open(path string) (*File, error) {
	p, err := omiswath.ProductFromName(filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if !hdf5.IsHDF5(path) {
		return nil, fmt.Errorf("he5: %s is not an HDF5 file", path)
	}
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("he5: %w", err)
	}
	return &File{f: f, product: p}, nil
}

// Product implements omiswath.Source.
func (f *File) Product() omiswath.Product { return f.product }

// Close closes the granule.
func (f *File) Close() error { return f.f.Close() }

// Geolocation implements omiswath.Source.
func (f *File) Geolocation(name string) (*sparse.DenseArray, error) {
	ds, err := f.open(f.product.GeolocationGroup() + "/" + name)
	if err != nil {
		return nil, err
	}
	defer ds.Close()
	return read(ds, name)
}

// Field implements omiswath.Source.
func (f *File) Field(name string) (*omiswath.RawField, error) {
	ds, err := f.open(f.product.DataFieldPath(name))
	if err != nil {
		return nil, err
	}
	defer ds.Close()
	data, err := read(ds, name)
	if err != nil {
		return nil, err
	}
	attrs, err := fieldAttrs(ds, name)
	if err != nil {
		return nil, err
	}
	return &omiswath.RawField{Name: name, Data: data, Attrs: attrs}, nil
}

// GeolocationInfo implements omiswath.Source.
func (f *File) GeolocationInfo() ([]omiswath.DatasetInfo, error) {
	g, err := f.f.OpenGroup(f.product.GeolocationGroup())
	if err != nil {
		return nil, fmt.Errorf("he5: geolocation group: %w", omiswath.ErrMissingDataset)
	}
	defer g.Close()
	n, err := g.NumObjects()
	if err != nil {
		return nil, fmt.Errorf("he5: %w", err)
	}
	var out []omiswath.DatasetInfo
	for i := uint(0); i < n; i++ {
		typ, err := g.ObjectTypeByIndex(i)
		if err != nil || typ != hdf5.H5G_DATASET {
			continue
		}
		name, err := g.ObjectNameByIndex(i)
		if err != nil {
			return nil, fmt.Errorf("he5: %w", err)
		}
		ds, err := g.OpenDataset(name)
		if err != nil {
			return nil, fmt.Errorf("he5: %s: %w", name, err)
		}
		dims, err := shape(ds)
		ds.Close()
		if err != nil {
			return nil, fmt.Errorf("he5: %s: %w", name, err)
		}
		out = append(out, omiswath.DatasetInfo{Name: name, Dims: dims})
	}
	return out, nil
}

func (f *File) open(path string) (*hdf5.Dataset, error) {
	ds, err := f.f.OpenDataset(path)
	if err != nil {
		return nil, fmt.Errorf("he5: %s: %w", path, omiswath.ErrMissingDataset)
	}
	return ds, nil
}

func shape(ds *hdf5.Dataset) ([]int, error) {
	sp := ds.Space()
	defer sp.Close()
	dims, _, err := sp.SimpleExtentDims()
	if err != nil {
		return nil, err
	}
	out := make([]int, len(dims))
	for i, d := range dims {
		out[i] = int(d)
	}
	return out, nil
}

// read loads a dataset as float64; HDF5 converts from the stored type.
func read(ds *hdf5.Dataset, name string) (*sparse.DenseArray, error) {
	dims, err := shape(ds)
	if err != nil {
		return nil, fmt.Errorf("he5: %s: %w", name, err)
	}
	n := int64(1)
	for _, d := range dims {
		n *= int64(d)
	}
	if len(dims) == 0 || n == 0 || n > maxCells {
		return nil, fmt.Errorf("he5: dataset %q has unsupported size %v", name, dims)
	}
	data := sparse.ZerosDense(dims...)
	if err := ds.Read(&data.Elements); err != nil {
		return nil, fmt.Errorf("he5: read %s: %w", name, err)
	}
	return data, nil
}

func fieldAttrs(ds *hdf5.Dataset, name string) (omiswath.FieldAttrs, error) {
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
		vals, ok, err := doubles(ds, s.attr)
		if err != nil {
			return a, fmt.Errorf("he5: %s:%s: %w", name, s.attr, err)
		}
		if !ok || len(vals) == 0 {
			if s.required {
				return a, fmt.Errorf("he5: %s has no %s attribute", name, s.attr)
			}
			continue
		}
		*s.dst = vals[0]
	}
	vr, ok, err := doubles(ds, "ValidRange")
	if err != nil {
		return a, fmt.Errorf("he5: %s:ValidRange: %w", name, err)
	}
	if ok {
		a.ValidRange = vr
	}
	a.Units = text(ds, "Units")
	return a, nil
}

// doubles reads a numeric attribute. ok is false when the attribute cannot
// be opened, which for OMI granules means it is absent.
func doubles(ds *hdf5.Dataset, attr string) (vals []float64, ok bool, err error) {
	at, err := ds.OpenAttribute(attr)
	if err != nil {
		return nil, false, nil
	}
	defer at.Close()
	sp := at.Space()
	n := sp.SimpleExtentNPoints()
	sp.Close()
	if n <= 0 || n > 16 {
		return nil, false, fmt.Errorf("unexpected attribute size %d", n)
	}
	vals = make([]float64, n)
	if err := at.Read(&vals, hdf5.T_NATIVE_DOUBLE); err != nil {
		return nil, false, err
	}
	return vals, true, nil
}

// text reads a fixed-length string attribute, or returns "" if it cannot.
func text(ds *hdf5.Dataset, attr string) string {
	at, err := ds.OpenAttribute(attr)
	if err != nil {
		return ""
	}
	defer at.Close()
	dt, err := hdf5.T_C_S1.Copy()
	if err != nil {
		return ""
	}
	defer dt.Close()
	var buf [256]byte
	if err := dt.SetSize(uint(len(buf))); err != nil {
		return ""
	}
	if err := at.Read(&buf, dt); err != nil {
		return ""
	}
	return string(bytes.TrimRight(buf[:], "\x00 "))
}
