// Package convert provides functions to convert GORM models to ozi types
package convert

import (
	"github.com/ozikit/ozi/internal/model"
	"github.com/ozikit/ozi/pkg/ozi"
)

// WaypointFromModel converts a GORM Waypoint to an ozi.Waypoint.
func WaypointFromModel(m model.Waypoint) *ozi.Waypoint {
	wp := &ozi.Waypoint{
		Number:           m.Number,
		Name:             m.Name,
		Latitude:         m.Latitude,
		Longitude:        m.Longitude,
		Symbol:           m.Symbol,
		DisplayFormat:    ozi.DisplayFormat(m.DisplayFormat),
		FgColor:          ozi.Color(m.FgColor),
		BgColor:          ozi.Color(m.BgColor),
		Description:      m.Description,
		PointerDirection: m.PointerDirection,
		Altitude:         m.Altitude,
		FontSize:         m.FontSize,
		FontStyle:        m.FontStyle,
		SymbolSize:       m.SymbolSize,
	}
	if m.Date.Valid {
		date := m.Date.Float64
		wp.Date = &date
	}
	return wp
}

// SetFromModel converts a GORM WaypointSet to file properties and waypoints.
// Waypoints must already be in Seq order.
func SetFromModel(s model.WaypointSet) (ozi.FileProperties, []*ozi.Waypoint) {
	wps := make([]*ozi.Waypoint, len(s.Waypoints))
	for i, w := range s.Waypoints {
		wps[i] = WaypointFromModel(w)
	}
	return ozi.NewFileProperties(s.Datum, s.Version), wps
}
