package model

import (
	"database/sql"

	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&WaypointSet{},
	&Waypoint{},
}

// WaypointSet is a stored waypoint file: its header and its records in file
// order.
type WaypointSet struct {
	gorm.Model
	Name      string     `json:"name" gorm:"size:255;uniqueIndex;not null"`
	Datum     string     `json:"datum" gorm:"size:127"`
	Version   string     `json:"version" gorm:"size:15"`
	Waypoints []Waypoint `json:"waypoints" gorm:"constraint:OnDelete:CASCADE"`
}

func (*WaypointSet) TableName() string {
	return "waypoint_sets"
}

// Waypoint is one record of a WaypointSet. Seq keeps the file order.
type Waypoint struct {
	ID               uint            `json:"id" gorm:"primarykey"`
	WaypointSetID    uint            `json:"waypointSetId" gorm:"index;not null"`
	Seq              int             `json:"seq" gorm:"not null"`
	Number           int             `json:"number"`
	Name             string          `json:"name" gorm:"size:255"`
	Latitude         float64         `json:"latitude"`
	Longitude        float64         `json:"longitude"`
	Date             sql.NullFloat64 `json:"date"`
	Symbol           int             `json:"symbol"`
	DisplayFormat    int             `json:"displayFormat"`
	FgColor          int             `json:"fgColor"`
	BgColor          int             `json:"bgColor"`
	Description      string          `json:"description"`
	PointerDirection int             `json:"pointerDirection"`
	Altitude         int             `json:"altitude"`
	FontSize         int             `json:"fontSize"`
	FontStyle        int             `json:"fontStyle"`
	SymbolSize       int             `json:"symbolSize"`
}

func (*Waypoint) TableName() string {
	return "waypoints"
}
