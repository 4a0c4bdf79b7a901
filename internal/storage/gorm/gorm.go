// Package gormstorage implements the storage.Backend interface on top of GORM.
// The same code serves SQLite and PostgreSQL; the dialect is chosen by the
// caller when opening the *gorm.DB.
package gormstorage

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ozikit/ozi/internal/database"
	"github.com/ozikit/ozi/internal/logging"
	"github.com/ozikit/ozi/internal/model"
	"github.com/ozikit/ozi/internal/model/convert"
	"github.com/ozikit/ozi/internal/storage"
	"github.com/ozikit/ozi/pkg/ozi"

	"gorm.io/gorm"
)

const insertBatchSize = 500

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB         *gorm.DB
	LogManager *logging.SlogManager
}

// Backend stores waypoint sets in a relational database.
type Backend struct {
	db  *gorm.DB
	log *logging.SlogManager
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	log := deps.LogManager
	if log == nil {
		log = logging.NewSlogManager()
	}
	return &Backend{db: deps.DB, log: log}
}

// Init migrates the schema.
func (b *Backend) Init() error {
	return database.Migrate(b.db)
}

// Close closes the underlying database connection.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

// SaveSet replaces the set called name in a single transaction.
func (b *Backend) SaveSet(name string, props ozi.FileProperties, wps []*ozi.Waypoint) error {
	for i, wp := range wps {
		if wp == nil {
			return fmt.Errorf("waypoint %d is nil", i)
		}
	}

	set := convert.SetToModel(name, props, wps)
	rows := set.Waypoints
	set.Waypoints = nil

	err := b.db.Transaction(func(tx *gorm.DB) error {
		var existing model.WaypointSet
		err := tx.Where("name = ?", name).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("waypoint_set_id = ?", existing.ID).Delete(&model.Waypoint{}).Error; err != nil {
				return fmt.Errorf("failed to delete old waypoints: %w", err)
			}
			set.ID = existing.ID
			set.CreatedAt = existing.CreatedAt
			if err := tx.Save(&set).Error; err != nil {
				return fmt.Errorf("failed to update waypoint set: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&set).Error; err != nil {
				return fmt.Errorf("failed to create waypoint set: %w", err)
			}
		default:
			return err
		}

		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].WaypointSetID = set.ID
		}
		if err := tx.CreateInBatches(&rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert waypoints: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save %q: %w", name, err)
	}

	b.log.Logger().Debug("Saved waypoint set", "name", name, "count", len(rows))
	return nil
}

// LoadSet returns the stored set called name.
func (b *Backend) LoadSet(name string) (ozi.FileProperties, []*ozi.Waypoint, error) {
	var set model.WaypointSet
	err := b.db.
		Preload("Waypoints", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Where("name = ?", name).
		First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ozi.FileProperties{}, nil, fmt.Errorf("%q: %w", name, storage.ErrSetNotFound)
	}
	if err != nil {
		return ozi.FileProperties{}, nil, fmt.Errorf("load %q: %w", name, err)
	}

	props, wps := convert.SetFromModel(set)
	return props, wps, nil
}

// ListSets returns every stored set ordered by name.
func (b *Backend) ListSets() ([]storage.SetInfo, error) {
	var sets []model.WaypointSet
	if err := b.db.Order("name").Find(&sets).Error; err != nil {
		return nil, fmt.Errorf("failed to list waypoint sets: %w", err)
	}

	var counts []struct {
		WaypointSetID uint
		Count         int
	}
	err := b.db.Model(&model.Waypoint{}).
		Select("waypoint_set_id, count(*) as count").
		Group("waypoint_set_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count waypoints: %w", err)
	}
	bySet := make(map[uint]int, len(counts))
	for _, c := range counts {
		bySet[c.WaypointSetID] = c.Count
	}

	infos := make([]storage.SetInfo, len(sets))
	for i, s := range sets {
		infos[i] = storage.SetInfo{
			ID:        strconv.FormatUint(uint64(s.ID), 10),
			Name:      s.Name,
			Datum:     s.Datum,
			Version:   s.Version,
			Count:     bySet[s.ID],
			UpdatedAt: s.UpdatedAt,
		}
	}
	return infos, nil
}

// DeleteSet permanently removes the set called name and its waypoints.
func (b *Backend) DeleteSet(name string) error {
	return b.db.Transaction(func(tx *gorm.DB) error {
		var set model.WaypointSet
		err := tx.Where("name = ?", name).First(&set).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%q: %w", name, storage.ErrSetNotFound)
		}
		if err != nil {
			return fmt.Errorf("delete %q: %w", name, err)
		}

		if err := tx.Where("waypoint_set_id = ?", set.ID).Delete(&model.Waypoint{}).Error; err != nil {
			return fmt.Errorf("delete %q: %w", name, err)
		}
		// unscoped so the name can be reused
		if err := tx.Unscoped().Delete(&set).Error; err != nil {
			return fmt.Errorf("delete %q: %w", name, err)
		}
		return nil
	})
}
