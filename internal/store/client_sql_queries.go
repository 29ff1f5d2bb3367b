// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-resto-sync/models"
)

var recordColumns = []string{
	"local_id",
	"server_id",
	"data",
	"sync_status",
	"last_modified_at",
	"server_updated_at",
	"deleted",
	"last_error",
}

var queueColumns = []string{
	"id",
	"entity_type",
	"entity_local_id",
	"kind",
	"payload",
	"enqueued_at",
	"retry_count",
	"last_error",
	"force_overwrite",
	"base_server_updated_at",
	"dead_letter",
	"sent_at",
}

var auditColumns = []string{
	"id",
	"entity_type",
	"local_id",
	"operation_id",
	"local_data",
	"server_data",
	"policy",
	"decision",
	"created_at",
}

const (
	queueTable   = "sync_queue"
	auditTable   = "conflict_audit"
	refreshTable = "refresh_queue"
)

// tableFor maps a collection to its LocalStore table. Table names never come
// from user input, only from this switch.
func tableFor(entity models.EntityType) (string, error) {
	switch entity {
	case models.EntityOrders:
		return "orders", nil
	case models.EntityInventory:
		return "inventory", nil
	case models.EntityStaff:
		return "staff", nil
	case models.EntityMenu:
		return "menu", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCollection, entity)
}

func buildSelectRecordQuery(b sq.StatementBuilderType, entity models.EntityType, where sq.Sqlizer) (string, []any, error) {
	table, err := tableFor(entity)
	if err != nil {
		return "", nil, err
	}

	query, args, err := b.Select(recordColumns...).From(table).Where(where).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildListRecordsQuery(b sq.StatementBuilderType, entity models.EntityType, includeDeleted bool) (string, []any, error) {
	table, err := tableFor(entity)
	if err != nil {
		return "", nil, err
	}

	q := b.Select(recordColumns...).From(table).OrderBy("last_modified_at", "local_id")
	if !includeDeleted {
		q = q.Where(sq.Eq{"deleted": false})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpsertRecordQuery(b sq.StatementBuilderType, r models.LocalRecord) (string, []any, error) {
	table, err := tableFor(r.EntityType)
	if err != nil {
		return "", nil, err
	}

	query, args, err := b.Insert(table).
		Columns(recordColumns...).
		Values(
			r.LocalID,
			nullString(r.ServerID),
			string(r.Data),
			string(r.SyncStatus),
			r.LastModifiedAt.UTC(),
			nullTime(r.ServerUpdatedAt),
			r.Deleted,
			nullString(r.LastError),
		).
		Suffix(`ON CONFLICT(local_id) DO UPDATE SET
			server_id = excluded.server_id,
			data = excluded.data,
			sync_status = excluded.sync_status,
			last_modified_at = excluded.last_modified_at,
			server_updated_at = excluded.server_updated_at,
			deleted = excluded.deleted,
			last_error = excluded.last_error`).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpdateRecordQuery(b sq.StatementBuilderType, entity models.EntityType, localID string, set map[string]any) (string, []any, error) {
	table, err := tableFor(entity)
	if err != nil {
		return "", nil, err
	}

	query, args, err := b.Update(table).SetMap(set).Where(sq.Eq{"local_id": localID}).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildCountByStatusQuery(b sq.StatementBuilderType, entity models.EntityType) (string, []any, error) {
	table, err := tableFor(entity)
	if err != nil {
		return "", nil, err
	}

	query, args, err := b.Select("sync_status", "COUNT(*)").
		From(table).
		Where(sq.Or{
			sq.Eq{"deleted": false},
			sq.NotEq{"sync_status": string(models.SyncStatusSynced)},
		}).
		GroupBy("sync_status").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUnsyncedQuery(b sq.StatementBuilderType, entity models.EntityType) (string, []any, error) {
	return buildSelectRecordQuery(b, entity, sq.NotEq{"sync_status": string(models.SyncStatusSynced)})
}

func buildInsertQueueQuery(b sq.StatementBuilderType, op models.QueueOperation) (string, []any, error) {
	query, args, err := b.Insert(queueTable).
		Columns(queueColumns...).
		Values(
			op.ID,
			string(op.EntityType),
			op.EntityLocalID,
			string(op.Kind),
			nullRaw(op.Payload),
			op.EnqueuedAt.UTC(),
			op.RetryCount,
			nullString(op.LastError),
			op.ForceOverwrite,
			nullTime(op.BaseServerUpdatedAt),
			op.DeadLetter,
			nullTime(op.SentAt),
		).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpdateQueueQuery(b sq.StatementBuilderType, op models.QueueOperation) (string, []any, error) {
	query, args, err := b.Update(queueTable).
		SetMap(map[string]any{
			"kind":                   string(op.Kind),
			"payload":                nullRaw(op.Payload),
			"retry_count":            op.RetryCount,
			"last_error":             nullString(op.LastError),
			"force_overwrite":        op.ForceOverwrite,
			"base_server_updated_at": nullTime(op.BaseServerUpdatedAt),
			"dead_letter":            op.DeadLetter,
			"sent_at":                nullTime(op.SentAt),
		}).
		Where(sq.Eq{"id": op.ID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildMarkRefreshQuery records that the local copy of a server record is
// provisional. A repeated mark moves marked_at forward.
func buildMarkRefreshQuery(b sq.StatementBuilderType, entity models.EntityType, serverID string, markedAt int64) (string, []any, error) {
	query, args, err := b.Insert(refreshTable).
		Columns("entity_type", "server_id", "marked_at").
		Values(string(entity), serverID, markedAt).
		Suffix("ON CONFLICT(entity_type, server_id) DO UPDATE SET marked_at = excluded.marked_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectRefreshQuery(b sq.StatementBuilderType, limit int) (string, []any, error) {
	q := b.Select("entity_type", "server_id", "marked_at").From(refreshTable).OrderBy("marked_at")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildClearRefreshQuery removes mark only if nobody marked the record again
// since it was read.
func buildClearRefreshQuery(b sq.StatementBuilderType, mark RefreshMark) (string, []any, error) {
	query, args, err := b.Delete(refreshTable).
		Where(sq.Eq{
			"entity_type": string(mark.EntityType),
			"server_id":   mark.ServerID,
			"marked_at":   mark.MarkedAt,
		}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildMarkSentQuery stamps the first send time. Operations already sent keep
// their original stamp.
func buildMarkSentQuery(b sq.StatementBuilderType, ids []string, at time.Time) (string, []any, error) {
	query, args, err := b.Update(queueTable).
		Set("sent_at", at.UTC()).
		Where(sq.And{sq.Eq{"id": ids}, sq.Eq{"sent_at": nil}}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectQueueQuery(b sq.StatementBuilderType, where sq.Sqlizer, limit int) (string, []any, error) {
	q := b.Select(queueColumns...).From(queueTable).OrderBy("seq")
	if where != nil {
		q = q.Where(where)
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
