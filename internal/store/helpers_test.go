package store

import (
	"context"
	"path/filepath"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-resto-sync/internal/config"
	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/migrations"
)

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

// openSQLite opens (or reopens) a migrated sqlite database at path.
func openSQLite(t *testing.T, path string) *DB {
	t.Helper()
	db, err := NewConnectSQLite(testContext(), config.DB{DSN: path}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	return db
}

func newSQLiteDB(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agent.db")
	db := openSQLite(t, path)
	t.Cleanup(func() { db.Close() })
	return db, path
}

func newMockPostgres(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &DB{
		DB:                 conn,
		errorClassificator: NewPostgresErrorClassifier(),
		placeholder:        sq.Dollar,
		target:             migrations.Server,
		logger:             logger.Nop(),
	}, mock
}

