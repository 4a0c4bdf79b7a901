package convert

import (
	"database/sql"

	"github.com/ozikit/ozi/internal/model"
	"github.com/ozikit/ozi/pkg/ozi"
)

// WaypointToModel converts an ozi.Waypoint to a GORM Waypoint at position seq
// of its set.
func WaypointToModel(wp *ozi.Waypoint, seq int) model.Waypoint {
	m := model.Waypoint{
		Seq:              seq,
		Number:           wp.Number,
		Name:             wp.Name,
		Latitude:         wp.Latitude,
		Longitude:        wp.Longitude,
		Symbol:           wp.Symbol,
		DisplayFormat:    wp.DisplayFormat.Raw(),
		FgColor:          int(wp.FgColor),
		BgColor:          int(wp.BgColor),
		Description:      wp.Description,
		PointerDirection: wp.PointerDirection,
		Altitude:         wp.Altitude,
		FontSize:         wp.FontSize,
		FontStyle:        wp.FontStyle,
		SymbolSize:       wp.SymbolSize,
	}
	if wp.Date != nil {
		m.Date = sql.NullFloat64{Float64: *wp.Date, Valid: true}
	}
	return m
}

// SetToModel converts a named waypoint file to a GORM WaypointSet.
func SetToModel(name string, props ozi.FileProperties, wps []*ozi.Waypoint) model.WaypointSet {
	s := model.WaypointSet{
		Name:      name,
		Datum:     props.Datum(),
		Version:   props.Version(),
		Waypoints: make([]model.Waypoint, len(wps)),
	}
	for i, wp := range wps {
		s.Waypoints[i] = WaypointToModel(wp, i)
	}
	return s
}
