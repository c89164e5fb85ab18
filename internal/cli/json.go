package cli

import "github.com/geal-ai/omiswath"

// jsonPoint is a coordinate in JSON output.
type jsonPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// jsonNearest is the nearest pixel in JSON output.
type jsonNearest struct {
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	DistanceM float64 `json:"distance_m"`
}

// jsonStats is one window's statistics. Only count is present when the
// window has no valid pixels.
type jsonStats struct {
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean,omitempty"`
	Median *float64 `json:"median,omitempty"`
	StdDev *float64 `json:"stddev,omitempty"`
}

// jsonResult is the JSON form of a locate result.
type jsonResult struct {
	Granule string      `json:"granule"`
	Product string      `json:"product"`
	SDS     string      `json:"sds"`
	Query   jsonPoint   `json:"query"`
	Nearest jsonNearest `json:"nearest"`
	Value   *float64    `json:"value"` // null for no-data pixels
	Stats3  jsonStats   `json:"stats3"`
	Stats5  jsonStats   `json:"stats5"`
}

func newJSONResult(g *granule, s *omiswath.Swath, lat, lon float64, r *omiswath.Result) jsonResult {
	out := jsonResult{
		Granule: g.Name,
		Product: s.Product.String(),
		SDS:     s.SDS,
		Query:   jsonPoint{Lat: lat, Lon: lon},
		Nearest: jsonNearest{Row: r.Row, Col: r.Col, Lat: r.Lat, Lon: r.Lon, DistanceM: r.Distance},
		Stats3:  newJSONStats(r.Stats3),
		Stats5:  newJSONStats(r.Stats5),
	}
	if r.Value.Valid {
		v := r.Value.V
		out.Value = &v
	}
	return out
}

func newJSONStats(s omiswath.Stats) jsonStats {
	js := jsonStats{Count: s.Count}
	if s.NoData() {
		return js
	}
	mean, median, std := s.Mean, s.Median, s.StdDev
	js.Mean, js.Median, js.StdDev = &mean, &median, &std
	return js
}
