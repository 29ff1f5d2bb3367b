// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/models"
)

// localRecordRepository is the sqlite-backed [LocalRecordRepository].
type localRecordRepository struct {
	*DB
	logger *logger.Logger
}

func NewLocalRecordRepository(db *DB, logger *logger.Logger) LocalRecordRepository {
	return &localRecordRepository{
		DB:     db,
		logger: logger,
	}
}

func (l *localRecordRepository) Save(ctx context.Context, record models.LocalRecord) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpsertRecordQuery(l.builder(), record)
	if err != nil {
		log.Err(err).Str("func", "localRecordRepository.Save").Msg("failed to build upsert query")
		return err
	}

	if _, err = l.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.Save").
			Str("entity_type", record.EntityType.String()).
			Str("local_id", record.LocalID).
			Msg("failed to save record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (l *localRecordRepository) Get(ctx context.Context, entity models.EntityType, localID string) (models.LocalRecord, error) {
	return l.getOne(ctx, entity, sq.Eq{"local_id": localID})
}

func (l *localRecordRepository) GetByServerID(ctx context.Context, entity models.EntityType, serverID string) (models.LocalRecord, error) {
	return l.getOne(ctx, entity, sq.Eq{"server_id": serverID})
}

func (l *localRecordRepository) getOne(ctx context.Context, entity models.EntityType, where sq.Sqlizer) (models.LocalRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectRecordQuery(l.builder(), entity, where)
	if err != nil {
		return models.LocalRecord{}, err
	}

	record, err := scanRecord(l.DB.QueryRowContext(ctx, query, args...), entity)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LocalRecord{}, ErrRecordNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.getOne").
			Str("entity_type", entity.String()).
			Msg("failed to scan record row")
		return models.LocalRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return record, nil
}

func (l *localRecordRepository) List(ctx context.Context, entity models.EntityType, includeDeleted bool) ([]models.LocalRecord, error) {
	query, args, err := buildListRecordsQuery(l.builder(), entity, includeDeleted)
	if err != nil {
		return nil, err
	}

	return l.queryRecords(ctx, "localRecordRepository.List", entity, query, args)
}

func (l *localRecordRepository) queryRecords(ctx context.Context, funcName string, entity models.EntityType, query string, args []any) ([]models.LocalRecord, error) {
	log := logger.FromContext(ctx)

	rows, err := l.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Str("entity_type", entity.String()).Msg("failed to query records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.LocalRecord, 0, 16)
	for rows.Next() {
		record, scanErr := scanRecord(rows, entity)
		if scanErr != nil {
			log.Err(scanErr).Str("func", funcName).Msg("failed to scan record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", funcName).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return records, nil
}

func (l *localRecordRepository) UpdateSyncStatus(ctx context.Context, entity models.EntityType, localID string, status models.SyncStatus, lastError *string) error {
	return l.update(ctx, "localRecordRepository.UpdateSyncStatus", entity, localID, map[string]any{
		"sync_status": string(status),
		"last_error":  nullString(lastError),
	})
}

func (l *localRecordRepository) ApplyServerRecord(ctx context.Context, localID string, server models.ServerRecord) error {
	data := server.Data
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}

	return l.update(ctx, "localRecordRepository.ApplyServerRecord", server.EntityType, localID, map[string]any{
		"server_id":         server.ServerID,
		"data":              string(data),
		"sync_status":       string(models.SyncStatusSynced),
		"server_updated_at": server.UpdatedAt.UTC(),
		"deleted":           server.Deleted,
		"last_error":        nil,
	})
}

func (l *localRecordRepository) AttachServerIdentity(ctx context.Context, entity models.EntityType, localID, serverID string, serverUpdatedAt time.Time) error {
	return l.update(ctx, "localRecordRepository.AttachServerIdentity", entity, localID, map[string]any{
		"server_id":         serverID,
		"server_updated_at": serverUpdatedAt.UTC(),
	})
}

func (l *localRecordRepository) MarkDeleted(ctx context.Context, entity models.EntityType, localID string, status models.SyncStatus) error {
	return l.update(ctx, "localRecordRepository.MarkDeleted", entity, localID, map[string]any{
		"deleted":          true,
		"sync_status":      string(status),
		"last_modified_at": time.Now().UTC(),
	})
}

func (l *localRecordRepository) update(ctx context.Context, funcName string, entity models.EntityType, localID string, set map[string]any) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateRecordQuery(l.builder(), entity, localID, set)
	if err != nil {
		return err
	}

	res, err := l.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Str("entity_type", entity.String()).
			Str("local_id", localID).
			Msg("failed to update record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// PatchField reads, patches and writes the record data inside one
// transaction so a concurrent save cannot interleave.
func (l *localRecordRepository) PatchField(ctx context.Context, entity models.EntityType, localID, field string, value any) error {
	log := logger.FromContext(ctx)

	selectQuery, selectArgs, err := buildSelectRecordQuery(l.builder(), entity, sq.Eq{"local_id": localID})
	if err != nil {
		return err
	}

	return l.inTx(ctx, "localRecordRepository.PatchField", func(tx *sql.Tx) error {
		record, scanErr := scanRecord(tx.QueryRowContext(ctx, selectQuery, selectArgs...), entity)
		if errors.Is(scanErr, sql.ErrNoRows) {
			return ErrRecordNotFound
		}
		if scanErr != nil {
			return fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		fields := map[string]any{}
		if len(record.Data) > 0 {
			if err := json.Unmarshal(record.Data, &fields); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidRecordData, err)
			}
		}
		fields[field] = value

		patched, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRecordData, err)
		}

		updateQuery, updateArgs, err := buildUpdateRecordQuery(l.builder(), entity, localID, map[string]any{
			"data": string(patched),
		})
		if err != nil {
			return err
		}

		if _, err = tx.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
			log.Err(err).
				Str("func", "localRecordRepository.PatchField").
				Str("local_id", localID).
				Str("field", field).
				Msg("failed to patch record")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		if record.ServerID == nil {
			// the pending create brings the server copy back
			return nil
		}

		markQuery, markArgs, err := buildMarkRefreshQuery(l.builder(), entity, *record.ServerID, time.Now().UnixNano())
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, markQuery, markArgs...); err != nil {
			log.Err(err).
				Str("func", "localRecordRepository.PatchField").
				Str("local_id", localID).
				Msg("failed to mark record for refresh")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		return nil
	})
}

func (l *localRecordRepository) MarkForRefresh(ctx context.Context, entity models.EntityType, serverID string) error {
	if _, err := tableFor(entity); err != nil {
		return err
	}

	query, args, err := buildMarkRefreshQuery(l.builder(), entity, serverID, time.Now().UnixNano())
	if err != nil {
		return err
	}

	if _, err = l.DB.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localRecordRepository.MarkForRefresh").
			Str("entity_type", entity.String()).
			Str("server_id", serverID).
			Msg("failed to mark record for refresh")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (l *localRecordRepository) PendingRefresh(ctx context.Context, max int) ([]RefreshMark, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectRefreshQuery(l.builder(), max)
	if err != nil {
		return nil, err
	}

	rows, err := l.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "localRecordRepository.PendingRefresh").Msg("failed to query refresh marks")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var marks []RefreshMark
	for rows.Next() {
		var (
			mark   RefreshMark
			entity string
		)
		if err := rows.Scan(&entity, &mark.ServerID, &mark.MarkedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		mark.EntityType = models.EntityType(entity)
		marks = append(marks, mark)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return marks, nil
}

func (l *localRecordRepository) ClearRefresh(ctx context.Context, marks ...RefreshMark) error {
	return l.inTx(ctx, "localRecordRepository.ClearRefresh", func(tx *sql.Tx) error {
		for _, mark := range marks {
			query, args, err := buildClearRefreshQuery(l.builder(), mark)
			if err != nil {
				return err
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}
		return nil
	})
}

func (l *localRecordRepository) ListUnsynced(ctx context.Context) ([]models.LocalRecord, error) {
	var all []models.LocalRecord
	for _, entity := range models.EntityTypes {
		query, args, err := buildUnsyncedQuery(l.builder(), entity)
		if err != nil {
			return nil, err
		}

		records, err := l.queryRecords(ctx, "localRecordRepository.ListUnsynced", entity, query, args)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}

	return all, nil
}

func (l *localRecordRepository) CountByStatus(ctx context.Context) (map[models.SyncStatus]int, error) {
	log := logger.FromContext(ctx)

	counts := make(map[models.SyncStatus]int, 4)
	for _, entity := range models.EntityTypes {
		query, args, err := buildCountByStatusQuery(l.builder(), entity)
		if err != nil {
			return nil, err
		}

		rows, err := l.DB.QueryContext(ctx, query, args...)
		if err != nil {
			log.Err(err).Str("func", "localRecordRepository.CountByStatus").Msg("failed to count records")
			return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		for rows.Next() {
			var (
				status string
				n      int
			)
			if err := rows.Scan(&status, &n); err != nil {
				rows.Close()
				return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
			}
			counts[models.SyncStatus(status)] += n
		}
		rowsErr := rows.Err()
		rows.Close()
		if rowsErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
		}
	}

	return counts, nil
}
