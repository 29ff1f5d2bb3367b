// Package migrations embeds the goose schema migrations for the device
// store (sqlite3) and the reference sync server (postgres).
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed client/*.sql server/*.sql
var embedMigrations embed.FS

// Target selects the migration set and goose dialect.
type Target struct {
	Dir     string
	Dialect string
}

var (
	// Client is the device LocalStore and SyncQueue schema.
	Client = Target{Dir: "client", Dialect: "sqlite3"}
	// Server is the reference sync server schema.
	Server = Target{Dir: "server", Dialect: "pgx"}
)

var errNilDB = errors.New("db is nil")

// Migrate applies every pending migration of target to db.
func Migrate(db *sql.DB, target Target) error {
	if db == nil {
		return fmt.Errorf("migration error: %w", errNilDB)
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(target.Dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, target.Dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
