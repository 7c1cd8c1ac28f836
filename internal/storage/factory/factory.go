// Package factory selects a storage backend from configuration. It lives
// outside package storage so the implementations can reference the Store
// interface without an import cycle.
package factory

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/LimHyeonGyu/wayferecicd/internal/config"
	"github.com/LimHyeonGyu/wayferecicd/internal/storage"
	"github.com/LimHyeonGyu/wayferecicd/internal/storage/gormstore"
	"github.com/LimHyeonGyu/wayferecicd/internal/storage/memory"
)

// NewStore creates a storage backend based on configuration. The db handle
// is required for the database-backed types and ignored by the in-memory one.
func NewStore(cfg config.StorageConfig, db *gorm.DB, log zerolog.Logger) (storage.Store, error) {
	switch cfg.Type {
	case "postgres", "sqlite":
		if db == nil {
			return nil, fmt.Errorf("storage type %q requires a database connection", cfg.Type)
		}
		return gormstore.New(db, log), nil
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
