package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrRecordNotFound is returned when no row matches the requested
	// collection and identifier.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrOperationNotFound is returned when a queue operation id is unknown.
	ErrOperationNotFound = errors.New("queue operation was not found")

	// ErrQueueCorrupted is returned when a persisted queue row cannot be
	// decoded into a valid operation.
	ErrQueueCorrupted = errors.New("sync queue is corrupted")

	// ErrUnknownCollection is returned when an entity type has no table.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrInvalidRecordData is returned when stored record data is not a
	// JSON object.
	ErrInvalidRecordData = errors.New("record data is not a json object")

	// ErrRetryable marks a database failure classified as transient
	// (connection loss, serialization failure, deadlock).
	ErrRetryable = errors.New("transient database error")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when multi-row iteration fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
