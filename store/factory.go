package store

import (
	"fmt"

	"go.uber.org/zap"
)

// New creates a Store based on the configuration
func New(cfg Config, logger *zap.Logger) (Store, error) {
	switch cfg.Type {
	case StoreTypeMemory, "":
		return NewMemoryStore(), nil
	case StoreTypeSQLite:
		return NewSQLiteStore(cfg.SQLitePath, logger)
	case StoreTypeMongo:
		return NewMongoStore(cfg.Mongo, logger)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}

// NewOrExit creates a Store or terminates the process on error.
// Only intended for use during application startup.
func NewOrExit(cfg Config, logger *zap.Logger) Store {
	st, err := New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to create store", zap.Error(err))
	}
	return st
}
