// internal/storage/memory/memory.go
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ozikit/ozi/internal/storage"
	"github.com/ozikit/ozi/pkg/ozi"
)

// setRecord groups a stored header with its waypoints
type setRecord struct {
	id        uuid.UUID
	props     ozi.FileProperties
	waypoints []ozi.Waypoint
	updatedAt time.Time
}

// Backend keeps waypoint sets in memory for the lifetime of the process
type Backend struct {
	sets map[string]*setRecord // keyed by set name
	now  func() time.Time
	mu   sync.RWMutex
}

// New creates a new memory backend
func New() *Backend {
	return &Backend{
		sets: make(map[string]*setRecord),
		now:  time.Now,
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// SaveSet stores copies of wps under name. A replaced set keeps its ID.
func (b *Backend) SaveSet(name string, props ozi.FileProperties, wps []*ozi.Waypoint) error {
	copies := make([]ozi.Waypoint, len(wps))
	for i, wp := range wps {
		if wp == nil {
			return fmt.Errorf("waypoint %d is nil", i)
		}
		copies[i] = copyWaypoint(wp)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.sets[name]
	if !ok {
		rec = &setRecord{id: uuid.New()}
		b.sets[name] = rec
	}
	rec.props = props
	rec.waypoints = copies
	rec.updatedAt = b.now()

	return nil
}

// LoadSet returns copies of a stored set
func (b *Backend) LoadSet(name string) (ozi.FileProperties, []*ozi.Waypoint, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	rec, ok := b.sets[name]
	if !ok {
		return ozi.FileProperties{}, nil, fmt.Errorf("%q: %w", name, storage.ErrSetNotFound)
	}

	wps := make([]*ozi.Waypoint, len(rec.waypoints))
	for i := range rec.waypoints {
		wp := copyWaypoint(&rec.waypoints[i])
		wps[i] = &wp
	}
	return rec.props, wps, nil
}

// ListSets returns every stored set ordered by name
func (b *Backend) ListSets() ([]storage.SetInfo, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	infos := make([]storage.SetInfo, 0, len(b.sets))
	for name, rec := range b.sets {
		infos = append(infos, storage.SetInfo{
			ID:        rec.id.String(),
			Name:      name,
			Datum:     rec.props.Datum(),
			Version:   rec.props.Version(),
			Count:     len(rec.waypoints),
			UpdatedAt: rec.updatedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// DeleteSet removes a stored set
func (b *Backend) DeleteSet(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.sets[name]; !ok {
		return fmt.Errorf("%q: %w", name, storage.ErrSetNotFound)
	}
	delete(b.sets, name)
	return nil
}

// copyWaypoint returns a copy of wp that shares no memory with it
func copyWaypoint(wp *ozi.Waypoint) ozi.Waypoint {
	c := *wp
	if wp.Date != nil {
		date := *wp.Date
		c.Date = &date
	}
	return c
}
