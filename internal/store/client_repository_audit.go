package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/models"
)

type conflictAuditRepository struct {
	*DB
	logger *logger.Logger
}

func NewConflictAuditRepository(db *DB, logger *logger.Logger) ConflictAuditRepository {
	return &conflictAuditRepository{
		DB:     db,
		logger: logger,
	}
}

func (c *conflictAuditRepository) Append(ctx context.Context, entry models.ConflictAuditEntry) error {
	log := logger.FromContext(ctx)

	query, args, err := c.builder().Insert(auditTable).
		Columns(auditColumns...).
		Values(
			entry.ID,
			string(entry.EntityType),
			entry.LocalID,
			entry.OperationID,
			nullRaw(entry.LocalData),
			nullRaw(entry.ServerData),
			string(entry.Policy),
			entry.Decision,
			entry.CreatedAt.UTC(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = c.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "conflictAuditRepository.Append").
			Str("local_id", entry.LocalID).
			Msg("failed to append conflict audit entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// List returns the newest entries first.
func (c *conflictAuditRepository) List(ctx context.Context, limit int) ([]models.ConflictAuditEntry, error) {
	return c.list(ctx, "conflictAuditRepository.List", nil, limit)
}

// ListFor returns the entries of one record, newest first.
func (c *conflictAuditRepository) ListFor(ctx context.Context, entity models.EntityType, localID string, limit int) ([]models.ConflictAuditEntry, error) {
	return c.list(ctx, "conflictAuditRepository.ListFor", sq.Eq{
		"entity_type": string(entity),
		"local_id":    localID,
	}, limit)
}

func (c *conflictAuditRepository) list(ctx context.Context, funcName string, where sq.Sqlizer, limit int) ([]models.ConflictAuditEntry, error) {
	log := logger.FromContext(ctx)

	q := c.builder().Select(auditColumns...).From(auditTable).OrderBy("created_at DESC")
	if where != nil {
		q = q.Where(where)
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := c.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to query conflict audit")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var entries []models.ConflictAuditEntry
	for rows.Next() {
		entry, scanErr := scanAuditEntry(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return entries, nil
}
