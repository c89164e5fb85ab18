// Package cli implements the omiswath command line.
//
// Configuration can be given as flags, as environment variables named
// OMISWATH_<flag> (dashes become underscores), or in a file passed with
// --config. Granules come from the positional arguments or, when there are
// none, from the file list, one path or URL per line.
package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/geal-ai/omiswath"
	"github.com/geal-ai/omiswath/internal/ncf"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version is the program version, overridden at link time.
var Version = "0.3.0"

// Opener opens a local granule file.
type Opener func(path string) (omiswath.Source, error)

// App is one instance of the command tree and its configuration.
type App struct {
	Root *cobra.Command
	Cfg  *viper.Viper
	Log  *logrus.Logger

	openers map[string]Opener // by lower-case file extension
}

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// New returns an App that reads NetCDF granules. Other formats are added
// with Register.
func New() *App {
	a := &App{
		Cfg:     viper.New(),
		Log:     logrus.New(),
		openers: make(map[string]Opener),
	}
	a.Register(".nc", func(path string) (omiswath.Source, error) {
		f, err := ncf.Open(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	})

	a.Root = &cobra.Command{
		Use:   "omiswath",
		Short: "Read OMI NO2 and SO2 swath granules.",
		Long: `omiswath reads OMI level-2 NO2 and SO2 swath granules. It lists their
geolocation fields, reports the pixel nearest a location with statistics over
its 3x3 and 5x5 neighbourhoods, dumps the swath as text or a spreadsheet,
draws a map of the primary field, and converts granules to NetCDF.

Granules are named on the command line or listed one per line in the file
given by --filelist. Entries starting with http:// or https:// are downloaded
first. Unless --yes is given, each granule is confirmed before it is read.

Configuration can also be set with environment variables of the form
OMISWATH_<flag>, or in a TOML, YAML or JSON file given with --config.`,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		PersistentPreRunE: a.setConfig,
	}
	listCmd := a.listCmd()
	locateCmd := a.locateCmd()
	exportCmd := a.exportCmd()
	mapCmd := a.mapCmd()
	convertCmd := a.convertCmd()
	a.Root.AddCommand(a.versionCmd(), listCmd, locateCmd, exportCmd, mapCmd, convertCmd)

	root := a.Root.PersistentFlags()
	a.bind([]option{
		{
			name:       "config",
			usage:      "config specifies the configuration file location.",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{root},
		},
		{
			name:       "filelist",
			usage:      "filelist is the file listing one granule path or URL per line, read when no granules are given as arguments.",
			defaultVal: "fileList.txt",
			flagsets:   []*pflag.FlagSet{root},
		},
		{
			name:       "yes",
			usage:      "yes processes every granule without asking for confirmation.",
			shorthand:  "y",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{root},
		},
		{
			name:       "log-level",
			usage:      "log-level is one of panic, fatal, error, warn, info, debug or trace.",
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{root},
		},
		{
			name:       "timeout",
			usage:      "timeout limits each granule download attempt, e.g. 90s or 2m.",
			defaultVal: "2m",
			flagsets:   []*pflag.FlagSet{root},
		},
		{
			name:       "max-bytes",
			usage:      "max-bytes is the largest granule that will be downloaded.",
			defaultVal: 512 << 20,
			flagsets:   []*pflag.FlagSet{root},
		},
		{
			name:       "retries",
			usage:      "retries is the number of times a failed download is retried.",
			defaultVal: 3,
			flagsets:   []*pflag.FlagSet{root},
		},
		{
			name:       "sds",
			usage:      "sds names the data field to read. The default is the product's primary field.",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{locateCmd.Flags(), mapCmd.Flags()},
		},
		{
			name:       "lat",
			usage:      "lat is the latitude to analyze in degrees north. When unset it is asked for.",
			defaultVal: math.NaN(),
			flagsets:   []*pflag.FlagSet{locateCmd.Flags()},
		},
		{
			name:       "lon",
			usage:      "lon is the longitude to analyze in degrees east. When unset it is asked for.",
			defaultVal: math.NaN(),
			flagsets:   []*pflag.FlagSet{locateCmd.Flags()},
		},
		{
			name:       "json",
			usage:      "json prints results as JSON.",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{locateCmd.Flags()},
		},
		{
			name:       "format",
			usage:      "format is the export format: txt or xlsx.",
			shorthand:  "f",
			defaultVal: "txt",
			flagsets:   []*pflag.FlagSet{exportCmd.Flags()},
		},
		{
			name:       "outdir",
			usage:      "outdir is the output directory. The default is the granule's own directory, or the working directory for downloaded granules.",
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{exportCmd.Flags(), mapCmd.Flags(), convertCmd.Flags()},
		},
		{
			name:       "width",
			usage:      "width is the map width in inches.",
			defaultVal: 10.0,
			flagsets:   []*pflag.FlagSet{mapCmd.Flags()},
		},
		{
			name:       "height",
			usage:      "height is the map height in inches.",
			defaultVal: 6.0,
			flagsets:   []*pflag.FlagSet{mapCmd.Flags()},
		},
		{
			name:       "vmax-frac",
			usage:      "vmax-frac is the fraction of the field maximum at which the colour scale saturates.",
			defaultVal: 0.35,
			flagsets:   []*pflag.FlagSet{mapCmd.Flags()},
		},
	})
	return a
}

// Register makes o the opener for files with extension ext, e.g. ".he5".
func (a *App) Register(ext string, o Opener) {
	a.openers[strings.ToLower(ext)] = o
}

// Execute runs the command named by os.Args, or by the arguments set with
// a.Root.SetArgs.
func (a *App) Execute() error { return a.Root.Execute() }

func (a *App) bind(options []option) {
	a.Cfg.SetEnvPrefix("OMISWATH")
	a.Cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.Cfg.AutomaticEnv()

	for _, opt := range options {
		for i, set := range opt.flagsets {
			if i != 0 { // the flag only needs to be created once
				set.AddFlag(opt.flagsets[0].Lookup(opt.name))
				continue
			}
			switch v := opt.defaultVal.(type) {
			case string:
				set.StringP(opt.name, opt.shorthand, v, opt.usage)
			case []string:
				set.StringSliceP(opt.name, opt.shorthand, v, opt.usage)
			case bool:
				set.BoolP(opt.name, opt.shorthand, v, opt.usage)
			case int:
				set.IntP(opt.name, opt.shorthand, v, opt.usage)
			case float64:
				set.Float64P(opt.name, opt.shorthand, v, opt.usage)
			default:
				panic(fmt.Sprintf("option %s: invalid default type %T", opt.name, v))
			}
		}
		// Every flagset holds the same *pflag.Flag, so one binding covers them.
		a.Cfg.BindPFlag(opt.name, opt.flagsets[0].Lookup(opt.name))
	}
}

// setConfig reads the configuration file, if there is one, and configures
// logging.
func (a *App) setConfig(cmd *cobra.Command, _ []string) error {
	if path := a.Cfg.GetString("config"); path != "" {
		a.Cfg.SetConfigFile(path)
		if err := a.Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("omiswath: problem reading configuration file: %w", err)
		}
	}
	lvl, err := logrus.ParseLevel(a.Cfg.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("omiswath: %w", err)
	}
	a.Log.SetLevel(lvl)
	a.Log.SetOutput(cmd.ErrOrStderr())
	return nil
}
