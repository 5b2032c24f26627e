package kv

import (
	"fmt"

	"quizflare/internal/config"
	"quizflare/internal/database"
	"quizflare/internal/domain"
)

// Open returns the store selected by cfg.Driver. The SQLite file is
// migrated before use.
func Open(cfg config.StorageConfig) (domain.KeyValueStore, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite", "":
		db, err := database.NewSQLiteDB(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(db.DB); err != nil {
			db.Close()
			return nil, err
		}
		return NewSQLiteStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
