package ncf

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/geal-ai/omiswath"
)

// Granule is the content written by Write.
type Granule struct {
	Product     omiswath.Product
	Geolocation map[string]*sparse.DenseArray // 2D over (nTimes, nXtrack) or 1D over nTimes
	Fields      []*omiswath.RawField
}

// FromSource reads the geolocation fields and the product's export fields
// out of src. Fields missing from src are skipped and reported in missing.
func FromSource(src omiswath.Source) (g *Granule, missing []string, err error) {
	g = &Granule{Product: src.Product(), Geolocation: make(map[string]*sparse.DenseArray)}
	infos, err := src.GeolocationInfo()
	if err != nil {
		return nil, nil, err
	}
	for _, info := range infos {
		if len(info.Dims) > 2 {
			continue
		}
		a, err := src.Geolocation(info.Name)
		if err != nil {
			return nil, nil, err
		}
		g.Geolocation[info.Name] = a
	}
	for _, name := range g.Product.Info().Export {
		f, err := src.Field(name)
		if err != nil {
			missing = append(missing, name)
			continue
		}
		g.Fields = append(g.Fields, f)
	}
	return g, missing, nil
}

// Write stores g as a NetCDF-3 file at path.
func Write(path string, g *Granule) error {
	lat, ok := g.Geolocation["Latitude"]
	if !ok || len(lat.Shape) != 2 {
		return fmt.Errorf("ncf: granule needs a 2D Latitude field")
	}
	rows, cols := lat.Shape[0], lat.Shape[1]
	if rows == 0 || cols == 0 {
		return fmt.Errorf("ncf: empty granule %v", lat.Shape)
	}
	dimsFor := func(name string, shape []int) ([]string, error) {
		switch {
		case len(shape) == 2 && shape[0] == rows && shape[1] == cols:
			return []string{"nTimes", "nXtrack"}, nil
		case len(shape) == 1 && shape[0] == rows:
			return []string{"nTimes"}, nil
		}
		return nil, &omiswath.ShapeError{What: name, Want: lat.Shape, Got: shape}
	}

	h := cdf.NewHeader([]string{"nTimes", "nXtrack"}, []int{rows, cols})
	h.AddAttribute("", "Product", g.Product.String())

	geoNames := make([]string, 0, len(g.Geolocation))
	for name := range g.Geolocation {
		geoNames = append(geoNames, name)
	}
	sort.Strings(geoNames)
	for _, name := range geoNames {
		a := g.Geolocation[name]
		dims, err := dimsFor(name, a.Shape)
		if err != nil {
			return err
		}
		if name == "Time" {
			h.AddVariable(name, dims, []float64{0})
		} else {
			h.AddVariable(name, dims, []float32{0})
		}
		h.AddAttribute(name, "Group", groupGeolocation)
	}
	for _, f := range g.Fields {
		dims, err := dimsFor(f.Name, f.Data.Shape)
		if err != nil {
			return err
		}
		h.AddVariable(f.Name, dims, []float32{0})
		h.AddAttribute(f.Name, "Group", groupData)
		h.AddAttribute(f.Name, "ScaleFactor", []float64{f.Attrs.Scale})
		h.AddAttribute(f.Name, "Offset", []float64{f.Attrs.Offset})
		h.AddAttribute(f.Name, "_FillValue", []float32{float32(f.Attrs.Fill)})
		h.AddAttribute(f.Name, "MissingValue", []float32{float32(f.Attrs.Missing)})
		if f.Attrs.Units != "" {
			h.AddAttribute(f.Name, "Units", f.Attrs.Units)
		}
		if len(f.Attrs.ValidRange) > 0 {
			h.AddAttribute(f.Name, "ValidRange", float32s(f.Attrs.ValidRange))
		}
	}
	h.Define()

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeData(out, h, geoNames, g); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

func writeData(out *os.File, h *cdf.Header, geoNames []string, g *Granule) error {
	cf, err := cdf.Create(out, h) // writes the header to out
	if err != nil {
		return fmt.Errorf("ncf: %w", err)
	}
	write := func(name string, a *sparse.DenseArray) error {
		var buf interface{} = float32s(a.Elements)
		if name == "Time" {
			buf = a.Elements
		}
		// The writer reports io.EOF once it reaches the end of the variable.
		w := cf.Writer(name, nil, nil)
		if _, err := w.Write(buf); err != nil && err != io.EOF {
			return fmt.Errorf("ncf: writing %s: %w", name, err)
		}
		return nil
	}
	for _, name := range geoNames {
		if err := write(name, g.Geolocation[name]); err != nil {
			return err
		}
	}
	for _, f := range g.Fields {
		if err := write(f.Name, f.Data); err != nil {
			return err
		}
	}
	return nil
}

func float32s(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
