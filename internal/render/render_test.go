package render_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/geal-ai/omiswath"
	"github.com/geal-ai/omiswath/internal/ncf"
	"github.com/geal-ai/omiswath/internal/ncf/ncftest"
	"github.com/geal-ai/omiswath/internal/render"
	"gonum.org/v1/plot/vg"
)

func loadSwath(t *testing.T) *omiswath.Swath {
	t.Helper()
	f, err := ncf.Open(ncftest.Write(t, t.TempDir(), omiswath.NO2))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	s, err := omiswath.Load(f)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func TestMapPNG(t *testing.T) {
	s := loadSwath(t)
	var buf bytes.Buffer
	err := render.Map(&buf, s, render.Options{
		Width:  5 * vg.Inch,
		Height: 3 * vg.Inch,
		Title:  ncftest.Name(omiswath.NO2) + "\n" + s.SDS,
		Label:  s.Attrs.Units,
	})
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	// vgimg renders at 96 dpi by default.
	if cfg.Width != 480 || cfg.Height != 288 {
		t.Errorf("image size: got %dx%d, want 480x288", cfg.Width, cfg.Height)
	}
}

func TestMapNoValidPixels(t *testing.T) {
	s := loadSwath(t)
	for k := range s.Values.Data.Elements {
		s.Values.Data.Elements[k] = ncftest.Fill
	}
	s.Values.Mask = omiswath.NewMask(len(s.Values.Data.Elements))

	var buf bytes.Buffer
	if err := render.Map(&buf, s, render.Options{}); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("output does not start with the PNG signature")
	}
}

func TestMapTooShort(t *testing.T) {
	s := loadSwath(t)
	var buf bytes.Buffer
	if err := render.Map(&buf, s, render.Options{Height: 0.5 * vg.Inch}); err == nil {
		t.Error("Map with no room for the colour bar: expected error")
	}
}
