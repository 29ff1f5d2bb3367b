package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-resto-sync/models"
)

const (
	serverRecordsTable  = "records"
	appliedOpsTable     = "applied_operations"
	upsertRecordsSuffix = `ON CONFLICT (server_id) DO UPDATE SET
		data = EXCLUDED.data,
		updated_at = EXCLUDED.updated_at,
		deleted = EXCLUDED.deleted`
)

var serverRecordColumns = []string{
	"server_id",
	"local_id",
	"entity_type",
	"data",
	"updated_at",
	"deleted",
}

func buildFindAppliedQuery(b sq.StatementBuilderType, operationID string) (string, []any, error) {
	query, args, err := b.Select("result").
		From(appliedOpsTable).
		Where(sq.Eq{"operation_id": operationID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildFindServerRecordQuery looks a record up by server id when the device
// already knows it, otherwise by the device local id.
func buildFindServerRecordQuery(b sq.StatementBuilderType, entity models.EntityType, serverID *string, localID string) (string, []any, error) {
	where := sq.Eq{"entity_type": string(entity)}
	if serverID != nil && *serverID != "" {
		where["server_id"] = *serverID
	} else {
		where["local_id"] = localID
	}

	query, args, err := b.Select(serverRecordColumns...).
		From(serverRecordsTable).
		Where(where).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpsertServerRecordQuery(b sq.StatementBuilderType, r models.ServerRecord) (string, []any, error) {
	data := string(r.Data)
	if data == "" {
		data = "{}"
	}

	query, args, err := b.Insert(serverRecordsTable).
		Columns(serverRecordColumns...).
		Values(r.ServerID, r.LocalID, string(r.EntityType), data, r.UpdatedAt.UTC(), r.Deleted).
		Suffix(upsertRecordsSuffix).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildInsertAppliedQuery(b sq.StatementBuilderType, entity models.EntityType, result models.BatchResult, encoded []byte) (string, []any, error) {
	query, args, err := b.Insert(appliedOpsTable).
		Columns("operation_id", "entity_type", "result").
		Values(result.OperationID, string(entity), string(encoded)).
		Suffix("ON CONFLICT (operation_id) DO NOTHING").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
