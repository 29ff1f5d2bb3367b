package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-resto-sync/models"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullRaw(raw json.RawMessage) sql.NullString {
	if len(raw) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(raw), Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func scanRecord(row rowScanner, entity models.EntityType) (models.LocalRecord, error) {
	var (
		r               models.LocalRecord
		serverID        sql.NullString
		data            string
		status          string
		serverUpdatedAt sql.NullTime
		lastError       sql.NullString
	)

	err := row.Scan(
		&r.LocalID,
		&serverID,
		&data,
		&status,
		&r.LastModifiedAt,
		&serverUpdatedAt,
		&r.Deleted,
		&lastError,
	)
	if err != nil {
		return models.LocalRecord{}, err
	}

	r.EntityType = entity
	r.ServerID = stringPtr(serverID)
	r.Data = json.RawMessage(data)
	r.SyncStatus = models.SyncStatus(status)
	r.LastModifiedAt = r.LastModifiedAt.UTC()
	r.ServerUpdatedAt = timePtr(serverUpdatedAt)
	r.LastError = stringPtr(lastError)

	return r, nil
}

// scanQueueOperation decodes one queue row. Rows with an unknown kind or
// collection, or a payload that is not JSON, are reported as corrupted.
func scanQueueOperation(row rowScanner) (models.QueueOperation, error) {
	var (
		op         models.QueueOperation
		entity     string
		kind       string
		payload    sql.NullString
		lastError  sql.NullString
		baseServer sql.NullTime
		sentAt     sql.NullTime
	)

	err := row.Scan(
		&op.ID,
		&entity,
		&op.EntityLocalID,
		&kind,
		&payload,
		&op.EnqueuedAt,
		&op.RetryCount,
		&lastError,
		&op.ForceOverwrite,
		&baseServer,
		&op.DeadLetter,
		&sentAt,
	)
	if err != nil {
		return models.QueueOperation{}, err
	}

	op.EntityType = models.EntityType(entity)
	op.Kind = models.OperationKind(kind)
	op.EnqueuedAt = op.EnqueuedAt.UTC()
	op.LastError = stringPtr(lastError)
	op.BaseServerUpdatedAt = timePtr(baseServer)
	op.SentAt = timePtr(sentAt)
	if payload.Valid {
		op.Payload = json.RawMessage(payload.String)
	}

	if !op.EntityType.Valid() || !op.Kind.Valid() || op.ID == "" || op.EntityLocalID == "" {
		return op, ErrQueueCorrupted
	}
	if len(op.Payload) > 0 && !json.Valid(op.Payload) {
		return op, ErrQueueCorrupted
	}

	return op, nil
}

func scanAuditEntry(row rowScanner) (models.ConflictAuditEntry, error) {
	var (
		e          models.ConflictAuditEntry
		entity     string
		localData  sql.NullString
		serverData sql.NullString
		policy     string
	)

	err := row.Scan(
		&e.ID,
		&entity,
		&e.LocalID,
		&e.OperationID,
		&localData,
		&serverData,
		&policy,
		&e.Decision,
		&e.CreatedAt,
	)
	if err != nil {
		return models.ConflictAuditEntry{}, err
	}

	e.EntityType = models.EntityType(entity)
	e.Policy = models.ConflictPolicy(policy)
	e.CreatedAt = e.CreatedAt.UTC()
	if localData.Valid {
		e.LocalData = json.RawMessage(localData.String)
	}
	if serverData.Valid {
		e.ServerData = json.RawMessage(serverData.String)
	}

	return e, nil
}
