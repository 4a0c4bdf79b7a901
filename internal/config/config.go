package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the name of the config file looked up by Load.
const FileName = "ozi.cfg.json"

// FileConfig holds the header written to new waypoint files
type FileConfig struct {
	Datum   string `json:"datum" mapstructure:"datum"`
	Version string `json:"version" mapstructure:"version"`
}

// SQLiteConfig holds SQLite storage backend settings
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// StorageConfig selects and configures the storage backend
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// DBConfig holds PostgreSQL connection settings
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// Load sets default values and reads the JSON config file from configDir.
// An empty configDir applies the defaults only. Every key can be overridden
// from the environment with the OZI_ prefix, e.g. OZI_STORAGE_TYPE.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "")

	viper.SetDefault("file.datum", "WGS 84")
	viper.SetDefault("file.version", "1.1")

	viper.SetDefault("storage.type", "sqlite")
	viper.SetDefault("storage.sqlite.path", "./ozi.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "ozi")

	viper.SetDefault("geojson.pretty", true)

	viper.SetEnvPrefix("ozi")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configDir == "" {
		return nil
	}

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFileConfig returns the waypoint file header settings.
func GetFileConfig() FileConfig {
	return FileConfig{
		Datum:   viper.GetString("file.datum"),
		Version: viper.GetString("file.version"),
	}
}

// GetStorageConfig returns the storage backend settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		SQLite: SQLiteConfig{
			Path: viper.GetString("storage.sqlite.path"),
		},
	}
}

// GetDBConfig returns the PostgreSQL connection settings.
func GetDBConfig() DBConfig {
	return DBConfig{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: viper.GetString("db.password"),
		Database: viper.GetString("db.database"),
	}
}
