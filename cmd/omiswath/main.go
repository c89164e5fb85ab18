// Command omiswath reads OMI NO2 and SO2 swath granules.
//
// Usage:
//
//	omiswath list [granule...]
//	omiswath locate [--lat N --lon E] [--json] [granule...]
//	omiswath export [--format txt|xlsx] [granule...]
//	omiswath map [granule...]
//	omiswath convert [granule...]
//
// Examples:
//
//	omiswath locate --yes --lat 38.9 --lon -77.0 OMI-Aura_L2-OMNO2_2008m0720t2016-o21357_v003.he5
//	omiswath export --format xlsx --filelist fileList.txt
//	omiswath map -y https://example.org/OMI-Aura_L2-OMSO2_2008m0720t2016-o21357_v003.he5
package main

import (
	"os"

	"github.com/geal-ai/omiswath"
	"github.com/geal-ai/omiswath/internal/cli"
	"github.com/geal-ai/omiswath/internal/he5"
)

func main() {
	app := cli.New()
	openHE5 := func(path string) (omiswath.Source, error) {
		f, err := he5.Open(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	app.Register(".he5", openHE5)
	app.Register(".h5", openHE5)
	if err := app.Execute(); err != nil {
		os.Exit(1)
	}
}
