package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/models"
)

// syncQueueRepository is the sqlite-backed [SyncQueueRepository]. The
// AUTOINCREMENT seq column gives FIFO order across restarts.
type syncQueueRepository struct {
	*DB
	logger *logger.Logger
}

func NewSyncQueueRepository(db *DB, logger *logger.Logger) SyncQueueRepository {
	return &syncQueueRepository{
		DB:     db,
		logger: logger,
	}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *syncQueueRepository) Enqueue(ctx context.Context, op models.QueueOperation, plan Planner) (QueuePlan, error) {
	log := logger.FromContext(ctx)

	var applied QueuePlan
	err := s.inTx(ctx, "syncQueueRepository.Enqueue", func(tx *sql.Tx) error {
		pending, err := s.selectOps(ctx, tx, sq.Eq{
			"entity_type":     string(op.EntityType),
			"entity_local_id": op.EntityLocalID,
			"dead_letter":     false,
		}, 0)
		if err != nil {
			return err
		}

		applied = plan(pending, op)

		for _, id := range applied.Remove {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+queueTable+" WHERE id = ?", id); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}

		for _, upd := range applied.Update {
			query, args, err := buildUpdateQueueQuery(s.builder(), upd)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}

		if applied.Insert != nil {
			query, args, err := buildInsertQueueQuery(s.builder(), *applied.Insert)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}

		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "syncQueueRepository.Enqueue").
			Str("entity_type", op.EntityType.String()).
			Str("entity_local_id", op.EntityLocalID).
			Str("kind", string(op.Kind)).
			Msg("failed to enqueue operation")
		return QueuePlan{}, err
	}

	log.Debug().
		Str("func", "syncQueueRepository.Enqueue").
		Str("operation_id", op.ID).
		Bool("inserted", applied.Insert != nil).
		Int("updated", len(applied.Update)).
		Int("removed", len(applied.Remove)).
		Msg("operation enqueued")

	return applied, nil
}

func (s *syncQueueRepository) Append(ctx context.Context, ops ...models.QueueOperation) error {
	return s.inTx(ctx, "syncQueueRepository.Append", func(tx *sql.Tx) error {
		for _, op := range ops {
			query, args, err := buildInsertQueueQuery(s.builder(), op)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}
		return nil
	})
}

func (s *syncQueueRepository) Peek(ctx context.Context, max int) ([]models.QueueOperation, error) {
	return s.selectOps(ctx, s.DB, sq.Eq{"dead_letter": false}, max)
}

func (s *syncQueueRepository) PendingFor(ctx context.Context, entity models.EntityType, localID string) ([]models.QueueOperation, error) {
	return s.selectOps(ctx, s.DB, sq.Eq{
		"entity_type":     string(entity),
		"entity_local_id": localID,
		"dead_letter":     false,
	}, 0)
}

func (s *syncQueueRepository) DeadLetters(ctx context.Context) ([]models.QueueOperation, error) {
	return s.selectOps(ctx, s.DB, sq.Eq{"dead_letter": true}, 0)
}

func (s *syncQueueRepository) Get(ctx context.Context, id string) (models.QueueOperation, error) {
	ops, err := s.selectOps(ctx, s.DB, sq.Eq{"id": id}, 1)
	if err != nil {
		return models.QueueOperation{}, err
	}
	if len(ops) == 0 {
		return models.QueueOperation{}, ErrOperationNotFound
	}
	return ops[0], nil
}

func (s *syncQueueRepository) selectOps(ctx context.Context, q queryer, where sq.Sqlizer, limit int) ([]models.QueueOperation, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectQueueQuery(s.builder(), where, limit)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "syncQueueRepository.selectOps").Msg("failed to query queue")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	ops := make([]models.QueueOperation, 0, max(limit, 8))
	for rows.Next() {
		op, scanErr := scanQueueOperation(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "syncQueueRepository.selectOps").Msg("failed to decode queue row")
			if errors.Is(scanErr, ErrQueueCorrupted) {
				return nil, scanErr
			}
			return nil, fmt.Errorf("%w: %w", ErrQueueCorrupted, scanErr)
		}
		ops = append(ops, op)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return ops, nil
}

// MarkSent stamps ids as handed to the transport. The stamp survives
// restarts, so a later mutation of the same record is queued after the sent
// operation instead of being merged into it.
func (s *syncQueueRepository) MarkSent(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := buildMarkSentQuery(s.builder(), ids, at)
	if err != nil {
		return err
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncQueueRepository.MarkSent").
			Int("operations", len(ids)).
			Msg("failed to mark operations sent")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

// Delete removes an operation. Removing an unknown id is not an error.
func (s *syncQueueRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	if _, err := s.DB.ExecContext(ctx, "DELETE FROM "+queueTable+" WHERE id = ?", id); err != nil {
		log.Err(err).Str("func", "syncQueueRepository.Delete").Str("operation_id", id).Msg("failed to delete operation")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

// MarkFailed increments the retry count and records lastError. Once the
// count exceeds ceiling the operation becomes a dead letter.
func (s *syncQueueRepository) MarkFailed(ctx context.Context, id, lastError string, ceiling int) (models.QueueOperation, error) {
	log := logger.FromContext(ctx)

	var updated models.QueueOperation
	err := s.inTx(ctx, "syncQueueRepository.MarkFailed", func(tx *sql.Tx) error {
		ops, err := s.selectOps(ctx, tx, sq.Eq{"id": id}, 1)
		if err != nil {
			return err
		}
		if len(ops) == 0 {
			return ErrOperationNotFound
		}

		op := ops[0]
		op.RetryCount++
		op.LastError = &lastError
		if op.RetryCount > ceiling {
			op.DeadLetter = true
		}

		query, args, err := buildUpdateQueueQuery(s.builder(), op)
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		updated = op
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrOperationNotFound) {
			log.Err(err).Str("func", "syncQueueRepository.MarkFailed").Str("operation_id", id).Msg("failed to mark operation failed")
		}
		return models.QueueOperation{}, err
	}

	return updated, nil
}

func (s *syncQueueRepository) MoveToDeadLetter(ctx context.Context, id, lastError string) error {
	return s.setFields(ctx, "syncQueueRepository.MoveToDeadLetter", id, map[string]any{
		"dead_letter": true,
		"last_error":  lastError,
	})
}

func (s *syncQueueRepository) ResetDeadLetter(ctx context.Context, id string) error {
	return s.setFields(ctx, "syncQueueRepository.ResetDeadLetter", id, map[string]any{
		"dead_letter": false,
		"retry_count": 0,
		"last_error":  nil,
	})
}

func (s *syncQueueRepository) setFields(ctx context.Context, funcName, id string, set map[string]any) error {
	log := logger.FromContext(ctx)

	query, args, err := s.builder().Update(queueTable).SetMap(set).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Str("operation_id", id).Msg("failed to update operation")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOperationNotFound
	}

	return nil
}

func (s *syncQueueRepository) Counts(ctx context.Context) (models.QueueCounts, error) {
	var counts models.QueueCounts

	row := s.DB.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN dead_letter = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN dead_letter = 1 THEN 1 ELSE 0 END), 0)
		FROM `+queueTable)
	if err := row.Scan(&counts.Pending, &counts.DeadLetter); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "syncQueueRepository.Counts").Msg("failed to count queue")
		return models.QueueCounts{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return counts, nil
}

func (s *syncQueueRepository) Verify(ctx context.Context) error {
	_, err := s.selectOps(ctx, s.DB, nil, 0)
	return err
}

func (s *syncQueueRepository) Truncate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, "DELETE FROM "+queueTable); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "syncQueueRepository.Truncate").Msg("failed to truncate queue")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
