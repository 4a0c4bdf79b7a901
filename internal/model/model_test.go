package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	tests := []struct {
		name     string
		model    interface{ TableName() string }
		expected string
	}{
		{"WaypointSet", &WaypointSet{}, "waypoint_sets"},
		{"Waypoint", &Waypoint{}, "waypoints"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.model.TableName())
		})
	}
}

func TestDatabaseModels(t *testing.T) {
	assert.Len(t, DatabaseModels, 2)
	assert.IsType(t, &WaypointSet{}, DatabaseModels[0])
}
