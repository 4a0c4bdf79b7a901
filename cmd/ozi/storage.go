package main

import (
	"fmt"

	"github.com/ozikit/ozi/internal/config"
	"github.com/ozikit/ozi/internal/database"
	"github.com/ozikit/ozi/internal/logging"
	"github.com/ozikit/ozi/internal/storage"
	gormstorage "github.com/ozikit/ozi/internal/storage/gorm"
	"github.com/ozikit/ozi/internal/storage/memory"
)

func createStorageBackend(storageCfg config.StorageConfig, logs *logging.SlogManager) (storage.Backend, error) {
	switch storageCfg.Type {
	case "postgres":
		db, err := database.OpenPostgres(config.GetDBConfig())
		if err != nil {
			return nil, err
		}
		logs.Logger().Debug("Postgres storage backend initialized")
		return gormstorage.New(gormstorage.Dependencies{DB: db, LogManager: logs}), nil

	case "sqlite":
		db, err := database.OpenSQLite(storageCfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		logs.Logger().Debug("SQLite storage backend initialized", "path", storageCfg.SQLite.Path)
		return gormstorage.New(gormstorage.Dependencies{DB: db, LogManager: logs}), nil

	case "memory":
		logs.Logger().Debug("Memory storage backend initialized")
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown storage type: %s", storageCfg.Type)
	}
}
