package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells whether a failed statement may succeed when
// the same batch operation is sent again.
type ErrorClassification int

const (
	// NonRetryable failures are answered with a rejected result.
	NonRetryable ErrorClassification = iota
	// Retryable failures are answered with a retryable result, so the device
	// keeps the operation queued.
	Retryable
)

// PostgresErrorClassifier classifies pgx errors by their SQLSTATE class.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify reports [Retryable] for connection loss, transaction rollbacks
// (serialization failures and deadlocks included), exhausted resources and
// server shutdowns. Everything else, including constraint violations and
// errors from other drivers, is [NonRetryable].
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return NonRetryable
	}

	code := pgErr.Code
	switch {
	case code == pgerrcode.QueryCanceled:
		return NonRetryable
	case pgerrcode.IsConnectionException(code),
		pgerrcode.IsTransactionRollback(code),
		pgerrcode.IsInsufficientResources(code),
		pgerrcode.IsOperatorIntervention(code):
		return Retryable
	default:
		return NonRetryable
	}
}
