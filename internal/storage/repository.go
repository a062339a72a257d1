package storage

import (
	"fmt"

	"github.com/eventboard/server/internal/config"
	"github.com/eventboard/server/internal/domain/categories"
	"github.com/eventboard/server/internal/domain/events"
	"github.com/eventboard/server/internal/domain/users"
	"github.com/eventboard/server/internal/storage/jsonfile"
	"github.com/eventboard/server/internal/storage/sqlite"
)

// Store groups data access by domain.
type Store interface {
	Users() users.Repository
	Categories() categories.Repository
	Events() events.Repository
	Close() error
}

// Open selects and opens the configured persistence backend.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "json":
		return jsonfile.Open(cfg.DataDir)
	case "sqlite":
		return sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
