// Package render draws a calibrated swath on global equirectangular axes.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/geal-ai/omiswath"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DefaultVMaxFrac is the fraction of the field maximum at which the colour
// scale saturates.
const DefaultVMaxFrac = 0.35

// Options control the rendered map.
type Options struct {
	Width, Height vg.Length // whole image, colour bar included
	VMaxFrac      float64   // colour scale covers [0, VMaxFrac*max]
	Title         string
	Label         string // colour bar label, usually the field units
}

func (o *Options) setDefaults() {
	if o.Width <= 0 {
		o.Width = 10 * vg.Inch
	}
	if o.Height <= 0 {
		o.Height = 6 * vg.Inch
	}
	if o.VMaxFrac <= 0 {
		o.VMaxFrac = DefaultVMaxFrac
	}
}

const barHeight = 0.9 * vg.Inch

// Map writes s as a PNG: one square glyph per valid pixel, coloured over
// [0, VMaxFrac*max], with values below 0 drawn white.
func Map(w io.Writer, s *omiswath.Swath, opt Options) error {
	opt.setDefaults()
	if opt.Height <= barHeight {
		return fmt.Errorf("render: height %v leaves no room for the colour bar", opt.Height)
	}

	vmax := opt.VMaxFrac * s.Values.Max()
	if !(vmax > 0) || math.IsInf(vmax, 0) {
		vmax = 1
	}
	cm := palette.Reverse(moreland.ExtendedBlackBody())
	cm.SetMin(0)
	cm.SetMax(vmax)

	p := plot.New()
	p.Title.Text = opt.Title
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.Add(plotter.NewGrid())

	xys, colors := pixels(s, cm, vmax)
	if len(xys) > 0 {
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			return draw.GlyphStyle{Color: colors[i], Radius: vg.Points(1), Shape: draw.BoxGlyph{}}
		}
		p.Add(sc)
	}
	p.X.Min, p.X.Max = -180, 180
	p.Y.Min, p.Y.Max = -90, 90
	p.X.Tick.Marker = degreeTicks(-180, 180, 45)
	p.Y.Tick.Marker = degreeTicks(-90, 90, 30)

	bar := plot.New()
	bar.Add(&plotter.ColorBar{ColorMap: cm})
	bar.HideY()
	bar.X.Padding = 0
	bar.X.Label.Text = opt.Label

	img := vgimg.New(opt.Width, opt.Height)
	dc := draw.New(img)
	p.Draw(draw.Crop(dc, 0, 0, barHeight, 0))
	bar.Draw(draw.Crop(dc, 0.1*opt.Width, -0.1*opt.Width, 0, dc.Min.Y-dc.Max.Y+barHeight))

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// pixels returns the coordinate and colour of every valid pixel.
func pixels(s *omiswath.Swath, cm palette.ColorMap, vmax float64) (plotter.XYs, []color.Color) {
	var xys plotter.XYs
	var colors []color.Color
	for k, v := range s.Values.Data.Elements {
		if !s.Values.Mask.Valid(k) {
			continue
		}
		lat, lon := s.Grid.Lat[k], s.Grid.Lon[k]
		if math.IsNaN(lat) || math.IsNaN(lon) {
			continue
		}
		c := color.Color(color.White)
		if v >= 0 {
			cv, err := cm.At(math.Min(v, vmax))
			if err == nil {
				c = cv
			}
		}
		xys = append(xys, plotter.XY{X: lon, Y: lat})
		colors = append(colors, c)
	}
	return xys, colors
}

// degreeTicks labels every step degrees from min to max.
func degreeTicks(min, max, step float64) plot.ConstantTicks {
	var ticks plot.ConstantTicks
	for v := min; v <= max; v += step {
		ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf("%g°", v)})
	}
	return ticks
}
