package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-resto-sync/internal/config"
	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/migrations"
)

const (
	postgresMaxOpenConns = 10
	postgresMaxIdleConns = 4

	// The sync server often starts next to its database container, so the
	// first ping is retried for a short while.
	postgresPingAttempts = 5
	postgresPingDelay    = 500 * time.Millisecond
)

// NewConnectPostgres opens the server database and waits until it answers.
func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("invalid postgres dsn")
		return nil, fmt.Errorf("error opening postgres: %w", err)
	}

	conn.SetMaxOpenConns(postgresMaxOpenConns)
	conn.SetMaxIdleConns(postgresMaxIdleConns)

	if err = pingWithRetry(ctx, conn, log); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("postgres is unreachable: %w", err)
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to postgres")

	return &DB{
		DB:                 conn,
		logger:             log,
		placeholder:        sq.Dollar,
		target:             migrations.Server,
		errorClassificator: NewPostgresErrorClassifier(),
	}, nil
}

func pingWithRetry(ctx context.Context, conn *sql.DB, log *logger.Logger) error {
	b := retry.WithMaxRetries(postgresPingAttempts-1, retry.NewConstant(postgresPingDelay))

	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		if err := conn.PingContext(ctx); err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("postgres ping failed")
			return retry.RetryableError(err)
		}
		return nil
	})
}

func postgresError(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
