package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/models"
)

// serverSyncRepository is the PostgreSQL-backed [ServerSyncRepository].
type serverSyncRepository struct {
	*DB
	logger *logger.Logger
}

func NewServerSyncRepository(db *DB, logger *logger.Logger) ServerSyncRepository {
	return &serverSyncRepository{
		DB:     db,
		logger: logger,
	}
}

// FindApplied returns the stored result of an already applied operation,
// or nil when the operation id is new.
func (p *serverSyncRepository) FindApplied(ctx context.Context, operationID string) (*models.BatchResult, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindAppliedQuery(p.builder(), operationID)
	if err != nil {
		return nil, err
	}

	var encoded []byte
	err = p.DB.QueryRowContext(ctx, query, args...).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "serverSyncRepository.FindApplied").
			Str("operation_id", operationID).
			Str("pg_code", postgresError(err)).
			Msg("failed to query applied operation")
		return nil, p.wrapErr(ErrExecutingQuery, err)
	}

	var result models.BatchResult
	if err = json.Unmarshal(encoded, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return &result, nil
}

func (p *serverSyncRepository) FindRecord(ctx context.Context, entity models.EntityType, serverID *string, localID string) (*models.ServerRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindServerRecordQuery(p.builder(), entity, serverID, localID)
	if err != nil {
		return nil, err
	}

	var (
		record models.ServerRecord
		data   []byte
		kind   string
	)
	err = p.DB.QueryRowContext(ctx, query, args...).Scan(
		&record.ServerID,
		&record.LocalID,
		&kind,
		&data,
		&record.UpdatedAt,
		&record.Deleted,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "serverSyncRepository.FindRecord").
			Str("entity_type", entity.String()).
			Str("local_id", localID).
			Str("pg_code", postgresError(err)).
			Msg("failed to query record")
		return nil, p.wrapErr(ErrExecutingQuery, err)
	}

	record.EntityType = models.EntityType(kind)
	record.Data = json.RawMessage(data)
	record.UpdatedAt = record.UpdatedAt.UTC()

	return &record, nil
}

func (p *serverSyncRepository) Commit(ctx context.Context, entity models.EntityType, record *models.ServerRecord, result models.BatchResult) error {
	log := logger.FromContext(ctx)

	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	ledgerQuery, ledgerArgs, err := buildInsertAppliedQuery(p.builder(), entity, result, encoded)
	if err != nil {
		return err
	}

	err = p.inTx(ctx, "serverSyncRepository.Commit", func(tx *sql.Tx) error {
		if record != nil {
			query, args, err := buildUpsertServerRecordQuery(p.builder(), *record)
			if err != nil {
				return err
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				log.Err(err).
					Str("func", "serverSyncRepository.Commit").
					Str("server_id", record.ServerID).
					Str("pg_code", postgresError(err)).
					Msg("failed to upsert record")
				return p.wrapErr(ErrExecutingStatement, err)
			}
		}

		if _, err := tx.ExecContext(ctx, ledgerQuery, ledgerArgs...); err != nil {
			log.Err(err).
				Str("func", "serverSyncRepository.Commit").
				Str("operation_id", result.OperationID).
				Str("pg_code", postgresError(err)).
				Msg("failed to record applied operation")
			return p.wrapErr(ErrExecutingStatement, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	log.Debug().
		Str("func", "serverSyncRepository.Commit").
		Str("operation_id", result.OperationID).
		Str("status", string(result.Status)).
		Msg("operation committed")

	return nil
}
