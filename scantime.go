package omiswath

import (
	"math"
	"time"
)

// ScanEpoch is the zero point of the OMI "Time" geolocation field.
var ScanEpoch = time.Date(1992, time.December, 31, 23, 59, 59, 0, time.UTC)

// ScanTime converts a "Time" value (seconds since ScanEpoch) to UTC.
// Fractional seconds are truncated and leap seconds are not applied.
func ScanTime(sec float64) time.Time {
	if math.IsNaN(sec) || math.IsInf(sec, 0) {
		return time.Time{}
	}
	return ScanEpoch.Add(time.Duration(math.Trunc(sec)) * time.Second)
}
