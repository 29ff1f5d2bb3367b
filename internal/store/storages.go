package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-resto-sync/internal/config"
	"github.com/MKhiriev/go-resto-sync/internal/logger"
)

// Storages groups the reference server repositories.
type Storages struct {
	SyncRepository ServerSyncRepository

	db *DB
}

// NewStorages connects to PostgreSQL, runs the server migrations and wires
// the repositories.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, errors.Join(fmt.Errorf("migration failed: %w", err), db.Close())
	}

	return &Storages{
		SyncRepository: NewServerSyncRepository(db, logger),
		db:             db,
	}, nil
}

func (s *Storages) Close() error {
	return s.db.Close()
}
