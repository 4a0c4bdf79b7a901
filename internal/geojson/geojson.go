// Package geojson exports waypoints as a GeoJSON FeatureCollection.
package geojson

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ozikit/ozi/pkg/ozi"
	geom "github.com/peterstace/simplefeatures/geom"
)

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   geom.Geometry  `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// FromWaypoints builds one point feature per waypoint, in order. A waypoint
// whose position cannot form a point (NaN or infinite coordinates) fails the
// whole collection.
func FromWaypoints(wps []*ozi.Waypoint) (FeatureCollection, error) {
	fc := FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]Feature, 0, len(wps)),
	}
	for i, wp := range wps {
		f, err := fromWaypoint(wp)
		if err != nil {
			return FeatureCollection{}, fmt.Errorf("waypoint %d (%s): %w", i, wp.Name, err)
		}
		fc.Features = append(fc.Features, f)
	}
	return fc, nil
}

func fromWaypoint(wp *ozi.Waypoint) (Feature, error) {
	pt, err := geom.NewPoint(geom.Coordinates{XY: geom.XY{X: wp.Longitude, Y: wp.Latitude}})
	if err != nil {
		return Feature{}, fmt.Errorf("invalid position: %w", err)
	}

	props := map[string]any{
		"number":         wp.Number,
		"name":           wp.Name,
		"symbol":         wp.Symbol,
		"display_format": wp.DisplayFormat.String(),
		"fg_color":       hexColor(wp.FgColor),
		"bg_color":       hexColor(wp.BgColor),
	}
	if wp.Description != "" {
		props["description"] = wp.Description
	}
	if wp.Altitude != ozi.AltitudeUnset {
		props["altitude_ft"] = wp.Altitude
	}
	if t, ok := wp.Time(); ok {
		props["time"] = t.Format(time.RFC3339)
	}

	return Feature{
		Type:       "Feature",
		Geometry:   pt.AsGeometry(),
		Properties: props,
	}, nil
}

func hexColor(c ozi.Color) string {
	r, g, b := c.Components()
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// Write encodes fc to w, indented when pretty is set.
func Write(w io.Writer, fc FeatureCollection, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("error writing GeoJSON: %w", err)
	}
	return nil
}
