package ozi

import (
	"math"
	"time"
)

const secondsPerDay = 86400

// epoch is day zero of the serial-day date used by OziExplorer (and Delphi).
var epoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// DaysFromTime converts t to a serial day count. The integer part counts days
// since 1899-12-30, the fractional part is the time of day.
func DaysFromTime(t time.Time) float64 {
	secs := t.Unix() - epoch.Unix()
	return (float64(secs) + float64(t.Nanosecond())/1e9) / secondsPerDay
}

// TimeFromDays converts a serial day count back to a UTC time, rounded to the
// millisecond.
func TimeFromDays(days float64) time.Time {
	ms := int64(math.Round(days * secondsPerDay * 1000))
	return time.UnixMilli(epoch.UnixMilli() + ms).UTC()
}
