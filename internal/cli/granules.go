package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/geal-ai/omiswath"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// granule is one opened entry of the granule list.
type granule struct {
	Name   string // as listed
	Path   string // local file
	Remote bool
	Src    omiswath.Source
	Log    logrus.FieldLogger
}

// Base returns the local file name without its extension.
func (g *granule) Base() string {
	b := filepath.Base(g.Path)
	return strings.TrimSuffix(b, filepath.Ext(b))
}

// errNoFileList mirrors the message shown when the file list is missing.
var errNoFileList = errors.New("did not find a text file containing file names (perhaps name does not match)")

// granuleNames returns args, or the entries of the file list when args is
// empty. Blank lines and lines starting with # are ignored.
func (a *App) granuleNames(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	path := a.Cfg.GetString("filelist")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, errNoFileList)
	}
	defer f.Close()
	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return names, nil
}

// open opens a local granule with the opener registered for its extension.
func (a *App) open(path string) (omiswath.Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	o, ok := a.openers[ext]
	if !ok {
		return nil, fmt.Errorf("no reader for %q files", ext)
	}
	return o(path)
}

func (a *App) fetcher() (*omiswath.Fetcher, error) {
	timeout, err := time.ParseDuration(a.Cfg.GetString("timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid timeout: %w", err)
	}
	f := omiswath.NewFetcher()
	f.HTTPClient.Timeout = timeout
	f.MaxBytes = a.Cfg.GetInt64("max-bytes")
	f.Retries = uint64(a.Cfg.GetInt("retries"))
	f.Notify = func(err error, wait time.Duration) {
		a.Log.WithError(err).WithField("wait", wait).Warn("download failed; retrying")
	}
	return f, nil
}

// eachGranule confirms, downloads and opens every granule in turn and calls
// fn on it, writing the product banner plus suffix to msg first. Granules
// that cannot be opened or that fn fails on are logged and skipped; the
// returned error then reports how many failed.
func (a *App) eachGranule(cmd *cobra.Command, args []string, p *prompter, msg io.Writer, suffix string, fn func(*granule) error) error {
	names, err := a.granuleNames(args)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var tmp string
	defer func() {
		if tmp != "" {
			os.RemoveAll(tmp)
		}
	}()

	failed := 0
	for _, name := range names {
		if !a.Cfg.GetBool("yes") {
			ok, err := p.confirm(name)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(msg, "Skipping...")
				continue
			}
		}
		g := &granule{Name: name, Path: name, Remote: omiswath.IsURL(name)}
		log := a.Log.WithField("granule", name)
		if g.Remote {
			if tmp == "" {
				if tmp, err = os.MkdirTemp("", "omiswath-"); err != nil {
					return err
				}
			}
			f, err := a.fetcher()
			if err != nil {
				return err
			}
			if g.Path, err = f.Fetch(ctx, name, tmp); err != nil {
				log.WithError(err).Error("download failed")
				failed++
				continue
			}
			log.WithField("path", g.Path).Debug("downloaded")
		}
		if g.Src, err = a.open(g.Path); err != nil {
			if errors.Is(err, omiswath.ErrUnknownProduct) {
				fmt.Fprintf(msg, "The file named : %s  is not a valid OMI file. \n\n", name)
			}
			log.WithError(err).Error("cannot open granule")
			failed++
			continue
		}
		g.Log = log.WithField("product", g.Src.Product())
		fmt.Fprintln(msg, g.Src.Product().Info().Summary+suffix)
		err = fn(g)
		g.Src.Close()
		if err != nil {
			g.Log.WithError(err).Error("granule failed")
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d granules failed", failed, len(names))
	}
	return nil
}

// outPath returns where an output file with extension ext goes for g.
func (a *App) outPath(g *granule, ext string) string {
	dir := a.Cfg.GetString("outdir")
	if dir == "" {
		dir = "."
		if !g.Remote {
			dir = filepath.Dir(g.Path)
		}
	}
	return filepath.Join(dir, g.Base()+ext)
}
