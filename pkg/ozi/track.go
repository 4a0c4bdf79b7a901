package ozi

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const trackHeader = `OziExplorer Track Point File Version 2.1
WGS 84
Altitude is in Feet
Reserved 3
`

// Track is an OziExplorer track (.plt). Use NewTrack for the format defaults.
type Track struct {
	LineWidth   int
	Color       Color
	Description string
	SkipValue   int
	Type        int
	FillStyle   int
	FillColor   Color
	Points      []TrackPoint
}

// TrackPoint is a single point of a track.
type TrackPoint struct {
	Latitude  float64
	Longitude float64
	Break     bool     // starts a new track segment
	Altitude  int      // feet, AltitudeUnset when unknown
	Date      *float64 // serial days, nil when unset
}

// NewTrack returns an empty track with the default attributes.
func NewTrack() *Track {
	return &Track{
		LineWidth: 2,
		Color:     RGB(255, 0, 0),
		SkipValue: 1,
	}
}

// NewTrackPoint returns a point at lat/lng with no altitude or date.
func NewTrackPoint(lat, lng float64) TrackPoint {
	return TrackPoint{Latitude: lat, Longitude: lng, Altitude: AltitudeUnset}
}

// TrackWriter writes a complete track file in one call.
type TrackWriter struct {
	w io.Writer
}

// NewTrackWriter returns a writer for w.
func NewTrackWriter(w io.Writer) *TrackWriter {
	return &TrackWriter{w: w}
}

// Write writes the header, the track attributes and every point of t.
func (tw *TrackWriter) Write(t *Track) error {
	var b strings.Builder

	b.WriteString(trackHeader)
	fmt.Fprintf(&b, "0,%d,%d,%s,%d,%d,%d,%d\n",
		t.LineWidth, t.Color, escapeText(t.Description), t.SkipValue, t.Type, t.FillStyle, t.FillColor)
	fmt.Fprintf(&b, "%d\n", len(t.Points))

	for _, p := range t.Points {
		brk := 0
		if p.Break {
			brk = 1
		}
		date := "0"
		if p.Date != nil {
			date = strconv.FormatFloat(*p.Date, 'f', -1, 64)
		}
		fmt.Fprintf(&b, "%.6f,%.6f,%d,%d,%s,,\n", p.Latitude, p.Longitude, brk, p.Altitude, date)
	}

	if _, err := io.WriteString(tw.w, b.String()); err != nil {
		return fmt.Errorf("error writing track: %w", err)
	}
	return nil
}
