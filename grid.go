// Package omiswath reads OMI NO2/SO2 swath granules, calibrates the column
// amounts, and finds the pixel nearest a coordinate together with 3×3 and
// 5×5 neighbourhood statistics around it.
package omiswath

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
)

const earthRadiusM = 6371000.0 // mean Earth radius

// Grid holds the geographic position of every swath pixel.
// Coordinates are stored row-major: Lat[i*Cols+j].
type Grid struct {
	Rows, Cols int
	Lat, Lon   []float64 // degrees
}

// NewGrid returns a Grid over lat and lon, which must both hold rows*cols values.
func NewGrid(rows, cols int, lat, lon []float64) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, &ShapeError{What: "grid", Want: []int{rows, cols}, Got: []int{rows, cols}}
	}
	// int64 product so a hostile header cannot overflow on 32-bit platforms.
	n64 := int64(rows) * int64(cols)
	if int64(len(lat)) != n64 {
		return nil, &ShapeError{What: "Latitude", Want: []int{rows, cols}, Got: []int{len(lat)}}
	}
	if int64(len(lon)) != n64 {
		return nil, &ShapeError{What: "Longitude", Want: []int{rows, cols}, Got: []int{len(lon)}}
	}
	return &Grid{Rows: rows, Cols: cols, Lat: lat, Lon: lon}, nil
}

// At returns the coordinate of pixel (row, col).
func (g *Grid) At(row, col int) (lat, lon float64) {
	k := row*g.Cols + col
	return g.Lat[k], g.Lon[k]
}

// Envelope returns the lat/lon bounding box of the grid with X = longitude
// and Y = latitude. NaN coordinates are ignored.
func (g *Grid) Envelope() r2.Rect {
	env := r2.EmptyRect()
	for k := range g.Lat {
		if math.IsNaN(g.Lat[k]) || math.IsNaN(g.Lon[k]) {
			continue
		}
		env = env.AddPoint(r2.Point{X: g.Lon[k], Y: g.Lat[k]})
	}
	return env
}

// Nearest returns the index of the pixel closest to (lat, lon) by
// great-circle distance, and that distance in metres.
// Pixels are scanned row-major and only a strictly smaller distance replaces
// the current best, so exact ties resolve to the first occurrence.
// A grid with no finite distances yields (0, 0, NaN).
func (g *Grid) Nearest(lat, lon float64) (row, col int, dist float64) {
	best := -1
	dist = math.NaN()
	for k := range g.Lat {
		d := Haversine(lat, lon, g.Lat[k], g.Lon[k])
		if math.IsNaN(d) {
			continue
		}
		if best < 0 || d < dist {
			best, dist = k, d
		}
	}
	if best < 0 {
		return 0, 0, dist
	}
	return best / g.Cols, best % g.Cols, dist
}

// Haversine returns the great-circle distance in metres between the query
// point (lat1, lon1) and (lat2, lon2), all in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := toRad(lat1)
	φ2 := toRad(lat2)
	Δφ := toRad(lat2 - lat1)
	Δλ := toRad(lon2 - lon1)
	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

func toRad(d float64) float64 { return (s1.Angle(d) * s1.Degree).Radians() }
