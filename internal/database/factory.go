package database

import (
	"fmt"
	"os"
	"path/filepath"

	"intake-go/internal/config"
	"intake-go/internal/intake"
)

// FileName is the history database file inside the configured data directory.
const FileName = "intake.db"

// NewDatabaseFromConfig creates a Database implementation based on the database config type.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, clock intake.Clock) (intake.Database, error) {
	path, err := databasePath(cfg)
	if err != nil {
		return nil, err
	}
	db, err := NewSQLiteDatabase(path, clock)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func databasePath(cfg config.DatabaseConfig) (string, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return "", fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return "", fmt.Errorf("creating database directory: %w", err)
		}
		return filepath.Join(cfg.DataDir, FileName), nil
	case "memory":
		return ":memory:", nil
	default:
		return "", fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
