package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-resto-sync/internal/config"
	"github.com/MKhiriev/go-resto-sync/internal/logger"
)

// ClientStorages groups the device repositories sharing one sqlite
// connection.
type ClientStorages struct {
	Records LocalRecordRepository
	Queue   SyncQueueRepository
	Audit   ConflictAuditRepository

	db *DB
}

// NewClientStorages opens the sqlite file named by cfg.DB.DSN, creating it
// if needed, runs the client migrations and wires the repositories.
func NewClientStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, errors.Join(fmt.Errorf("migration failed: %w", err), db.Close())
	}

	return &ClientStorages{
		Records: NewLocalRecordRepository(db, logger),
		Queue:   NewSyncQueueRepository(db, logger),
		Audit:   NewConflictAuditRepository(db, logger),
		db:      db,
	}, nil
}

func (c *ClientStorages) Close() error {
	return c.db.Close()
}
