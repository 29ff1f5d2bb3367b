package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/migrations"
)

// DB wraps a *sql.DB together with the placeholder format of its dialect
// and the error classifier used to decide whether a failure is retryable.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	placeholder        sq.PlaceholderFormat
	target             migrations.Target
	logger             *logger.Logger
}

// Migrate applies the embedded migrations for the dialect of db.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.target)
}

// builder returns a squirrel statement builder bound to the db placeholder
// format.
func (db *DB) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(db.placeholder)
}

// Classify reports whether err is worth retrying. Drivers without a
// classifier always report [NonRetryable].
func (db *DB) Classify(err error) ErrorClassification {
	if db.errorClassificator == nil {
		return NonRetryable
	}
	return db.errorClassificator.Classify(err)
}

// inTx runs fn inside a transaction and commits it when fn returns nil.
func (db *DB) inTx(ctx context.Context, funcName string, fn func(tx *sql.Tx) error) error {
	log := logger.FromContext(ctx)

	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// wrapErr wraps err with base and, when the classifier deems it transient,
// with [ErrRetryable].
func (db *DB) wrapErr(base, err error) error {
	if db.Classify(err) == Retryable {
		return fmt.Errorf("%w: %w: %w", ErrRetryable, base, err)
	}
	return fmt.Errorf("%w: %w", base, err)
}
