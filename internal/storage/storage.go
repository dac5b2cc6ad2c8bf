// Package storage opens the configured document store backend.
package storage

import (
	"context"
	"fmt"

	"github.com/lalith-99/practicedesk/internal/config"
	"github.com/lalith-99/practicedesk/internal/db"
	"github.com/lalith-99/practicedesk/internal/docstore"
	"github.com/lalith-99/practicedesk/internal/docstore/firestore"
	"github.com/lalith-99/practicedesk/internal/docstore/memory"
	"github.com/lalith-99/practicedesk/internal/docstore/postgres"
	"go.uber.org/zap"
)

// Handle is an open backend. Close releases its client; it is called once,
// at process exit.
type Handle struct {
	Store  docstore.Store
	Health func(ctx context.Context) error
	Close  func()
}

// Open connects the backend named by cfg.StoreBackend.
//
//   - postgres: the pgx pool plus the documents table, created if missing.
//   - firestore: the practice app's own database.
//   - memory: nothing persists; for local runs and demos.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Handle, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		database, err := db.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		store := postgres.New(database.Pool())
		if err := store.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, err
		}
		return &Handle{Store: store, Health: database.Health, Close: database.Close}, nil

	case config.BackendFirestore:
		store, err := firestore.New(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return nil, err
		}
		logger.Info("firestore client created", zap.String("project_id", cfg.FirestoreProjectID))
		return &Handle{
			Store:  store,
			Health: store.Health,
			Close: func() {
				if err := store.Close(); err != nil {
					logger.Warn("close firestore client", zap.Error(err))
				}
			},
		}, nil

	case config.BackendMemory:
		logger.Warn("using in-memory store, nothing will persist")
		return &Handle{
			Store:  memory.New(),
			Health: func(context.Context) error { return nil },
			Close:  func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}
}
