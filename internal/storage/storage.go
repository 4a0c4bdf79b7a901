// internal/storage/storage.go
package storage

import (
	"errors"
	"time"

	"github.com/ozikit/ozi/pkg/ozi"
)

// ErrSetNotFound is returned when no waypoint set has the requested name.
var ErrSetNotFound = errors.New("waypoint set not found")

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// SaveSet stores wps under name, replacing any set already stored there.
	SaveSet(name string, props ozi.FileProperties, wps []*ozi.Waypoint) error
	// LoadSet returns the header and waypoints of a stored set in file order.
	LoadSet(name string) (ozi.FileProperties, []*ozi.Waypoint, error)
	ListSets() ([]SetInfo, error)
	DeleteSet(name string) error
}

// SetInfo summarizes a stored waypoint set.
type SetInfo struct {
	ID        string
	Name      string
	Datum     string
	Version   string
	Count     int
	UpdatedAt time.Time
}
