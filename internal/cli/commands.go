package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/geal-ai/omiswath"
	"github.com/geal-ai/omiswath/internal/export"
	"github.com/geal-ai/omiswath/internal/ncf"
	"github.com/geal-ai/omiswath/internal/render"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("omiswath v%s\n", Version)
		},
		DisableAutoGenTag: true,
	}
}

func (a *App) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [granule...]",
		Short: "List the geolocation fields of granules",
		Long:  `list prints the name and dimensions of every geolocation field.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			p := newPrompter(cmd.InOrStdin(), out)
			return a.eachGranule(cmd, args, p, out, " Here is a list of SDS in your file:\n", func(g *granule) error {
				infos, err := g.Src.GeolocationInfo()
				if err != nil {
					return err
				}
				for _, info := range infos {
					fmt.Fprintf(out, " %s, dim=%s \n\n", info.Name, tuple(info.Dims))
				}
				return nil
			})
		},
		DisableAutoGenTag: true,
	}
}

// tuple formats dims like a Python shape tuple: (1644, 60) or (1644,).
func tuple(dims []int) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.Itoa(d)
	}
	s := strings.Join(parts, ", ")
	if len(dims) == 1 {
		s += ","
	}
	return "(" + s + ")"
}

func (a *App) locateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate [granule...]",
		Short: "Report the pixel nearest a location",
		Long: `locate finds the pixel nearest --lat/--lon and prints its value together
with the count, mean, median and population standard deviation of the valid
pixels in the 3x3 and 5x5 windows around it. Coordinates that are not set are
asked for, and asked again until they fall inside the granule.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			asJSON := a.Cfg.GetBool("json")
			msg := out
			if asJSON {
				msg = cmd.ErrOrStderr()
			}
			p := newPrompter(cmd.InOrStdin(), msg)
			return a.eachGranule(cmd, args, p, msg, " Here is some information: ", func(g *granule) error {
				s, err := a.loadSwath(g)
				if err != nil {
					return err
				}
				printValidRange(msg, s)
				env := s.Grid.Envelope()
				printRanges(msg, s)

				lat, lon := a.Cfg.GetFloat64("lat"), a.Cfg.GetFloat64("lon")
				if math.IsNaN(lat) || math.IsNaN(lon) {
					if lat, lon, err = p.coordinates(env); err != nil {
						return err
					}
				}
				r, err := s.Locate(lat, lon)
				if err != nil {
					return err
				}
				g.Log.WithFields(logrus.Fields{"row": r.Row, "col": r.Col, "distance_m": r.Distance}).Debug("nearest pixel")
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(newJSONResult(g, s, lat, lon, r))
				}
				fmt.Fprintln(out)
				return s.Report(out, r)
			})
		},
		DisableAutoGenTag: true,
	}
}

func (a *App) loadSwath(g *granule) (*omiswath.Swath, error) {
	sds := a.Cfg.GetString("sds")
	if sds == "" {
		sds = g.Src.Product().Info().SDS
	}
	s, err := omiswath.LoadField(g.Src, sds)
	if err != nil {
		return nil, fmt.Errorf("your OMI file does not contain a usable %s: %w", sds, err)
	}
	return s, nil
}

func printValidRange(w io.Writer, s *omiswath.Swath) {
	if vr := s.Attrs.ValidRange; len(vr) >= 2 {
		fmt.Fprintf(w, "Valid Range is: %s %s\n", omiswath.FormatFloat32(vr[0]), omiswath.FormatFloat32(vr[1]))
	}
}

func printRanges(w io.Writer, s *omiswath.Swath) {
	env := s.Grid.Envelope()
	fmt.Fprintf(w, "The range of latitude in this file is: %s to %s degrees \n"+
		"The range of longitude in this file is: %s to %s degrees\n",
		omiswath.FormatFloat32(env.Y.Lo), omiswath.FormatFloat32(env.Y.Hi),
		omiswath.FormatFloat32(env.X.Lo), omiswath.FormatFloat32(env.X.Hi))
}

func (a *App) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [granule...]",
		Short: "Dump granules as text or a spreadsheet",
		Long: `export writes one row per pixel holding the scan time, the coordinate and
the calibrated export fields of the product. No-data pixels are written as
the fill value. --format txt writes <granule>.txt and --format xlsx writes
<granule>.xlsx with one sheet named after the product.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.ToLower(a.Cfg.GetString("format"))
			if format != "txt" && format != "xlsx" {
				return fmt.Errorf("unknown export format %q", format)
			}
			out := cmd.OutOrStdout()
			p := newPrompter(cmd.InOrStdin(), out)
			err := a.eachGranule(cmd, args, p, out, " Saving... ", func(g *granule) error {
				tab, err := export.Build(g.Src)
				if err != nil {
					return err
				}
				path := a.outPath(g, "."+format)
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				if format == "xlsx" {
					err = export.WriteXLSX(f, g.Src.Product().String(), tab)
				} else {
					err = export.WriteText(f, tab)
				}
				if cerr := f.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					return err
				}
				g.Log.WithFields(logrus.Fields{"path": path, "rows": tab.Len()}).Info("saved")
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "\nAll files have been saved successfully.")
			return nil
		},
		DisableAutoGenTag: true,
	}
}

func (a *App) mapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "map [granule...]",
		Short: "Summarise granules and draw them as PNG maps",
		Long: `map prints the mean, standard deviation and median of the primary field
and the latitude and longitude ranges, then draws the field on global
longitude/latitude axes and saves it as <granule>.png.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			p := newPrompter(cmd.InOrStdin(), out)
			return a.eachGranule(cmd, args, p, out, " Here is some information: ", func(g *granule) error {
				s, err := a.loadSwath(g)
				if err != nil {
					return err
				}
				printValidRange(out, s)
				sum := s.Summary()
				fmt.Fprintf(out, "The average of this data is: %s \nThe standard deviation is: %s \nThe median is: %s\n",
					round3(sum.Mean), round3(sum.StdDev), round3(sum.Median))
				printRanges(out, s)

				if !a.Cfg.GetBool("yes") {
					ok, err := p.yes("\nWould you like to create a map of this data? Please enter Y or N \n")
					if err != nil || !ok {
						return err
					}
				}
				path := a.outPath(g, ".png")
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				err = render.Map(f, s, render.Options{
					Width:    vg.Length(a.Cfg.GetFloat64("width")) * vg.Inch,
					Height:   vg.Length(a.Cfg.GetFloat64("height")) * vg.Inch,
					VMaxFrac: a.Cfg.GetFloat64("vmax-frac"),
					Title:    g.Base() + "\n" + s.SDS,
					Label:    s.Attrs.Units,
				})
				if cerr := f.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					return err
				}
				g.Log.WithField("path", path).Info("saved map")
				return nil
			})
		},
		DisableAutoGenTag: true,
	}
}

func round3(x float64) string { return omiswath.FormatFloat(omiswath.Round3(x)) }

func (a *App) convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [granule...]",
		Short: "Convert granules to NetCDF",
		Long: `convert writes the geolocation fields and the export fields of each granule,
with their attributes, to <granule>.nc.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			p := newPrompter(cmd.InOrStdin(), out)
			return a.eachGranule(cmd, args, p, out, " Converting... ", func(g *granule) error {
				path := a.outPath(g, ".nc")
				if same(path, g.Path) {
					return fmt.Errorf("output %s would overwrite the input", path)
				}
				nc, missing, err := ncf.FromSource(g.Src)
				if err != nil {
					return err
				}
				for _, name := range missing {
					g.Log.WithField("sds", name).Warn("field not in granule; not converted")
				}
				if err := ncf.Write(path, nc); err != nil {
					return err
				}
				g.Log.WithField("path", path).Info("saved")
				return nil
			})
		},
		DisableAutoGenTag: true,
	}
}

func same(a, b string) bool {
	sa, errA := os.Stat(a)
	sb, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(sa, sb)
}
