package store

import (
	"context"
	"fmt"

	"github.com/dvdshelf/dvdshelf/internal/adapter"
	"github.com/dvdshelf/dvdshelf/internal/domain"
)

// Open builds the backend selected by cfg.Backend
func Open(ctx context.Context, cfg adapter.StorageConfig) (domain.Store, error) {
	switch cfg.Backend {
	case adapter.BackendMemory:
		return NewMemoryStore(), nil

	case adapter.BackendBolt, "":
		return NewBoltStore(adapter.ExpandHome(cfg.BoltPath))

	case adapter.BackendPostgres:
		if cfg.Postgres.DSN == "" {
			return nil, fmt.Errorf("postgres backend requires storage.postgres.dsn")
		}
		db, err := OpenPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		s, err := NewPostgresStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Backend)
	}
}
