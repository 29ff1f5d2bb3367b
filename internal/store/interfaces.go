package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-resto-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ErrorClassificator decides whether a database error is transient.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// LocalRecordRepository is the device LocalStore: one table per collection
// holding business data plus per-record sync bookkeeping.
type LocalRecordRepository interface {
	Save(ctx context.Context, record models.LocalRecord) error
	Get(ctx context.Context, entity models.EntityType, localID string) (models.LocalRecord, error)
	GetByServerID(ctx context.Context, entity models.EntityType, serverID string) (models.LocalRecord, error)
	List(ctx context.Context, entity models.EntityType, includeDeleted bool) ([]models.LocalRecord, error)
	UpdateSyncStatus(ctx context.Context, entity models.EntityType, localID string, status models.SyncStatus, lastError *string) error
	// ApplyServerRecord overwrites the local copy with the server version
	// and marks it synced.
	ApplyServerRecord(ctx context.Context, localID string, server models.ServerRecord) error
	// AttachServerIdentity records server id and version without touching
	// local data or sync status.
	AttachServerIdentity(ctx context.Context, entity models.EntityType, localID, serverID string, serverUpdatedAt time.Time) error
	// PatchField sets one top-level field of the record data. Sync status
	// is left as is. The patch is provisional: a record the server knows is
	// marked for refresh in the same transaction.
	PatchField(ctx context.Context, entity models.EntityType, localID, field string, value any) error
	// MarkForRefresh asks for the server copy of a record at the next cycle.
	// The record does not have to exist locally.
	MarkForRefresh(ctx context.Context, entity models.EntityType, serverID string) error
	// PendingRefresh lists up to max marks, oldest first.
	PendingRefresh(ctx context.Context, max int) ([]RefreshMark, error)
	// ClearRefresh removes marks. A mark renewed after it was listed stays.
	ClearRefresh(ctx context.Context, marks ...RefreshMark) error
	MarkDeleted(ctx context.Context, entity models.EntityType, localID string, status models.SyncStatus) error
	ListUnsynced(ctx context.Context) ([]models.LocalRecord, error)
	CountByStatus(ctx context.Context) (map[models.SyncStatus]int, error)
}

// RefreshMark names a server record whose local copy is stale.
type RefreshMark struct {
	EntityType models.EntityType
	ServerID   string
	// MarkedAt is the mark time in unix nanoseconds. It identifies the mark,
	// so clearing never drops a newer one.
	MarkedAt int64
}

// Ref is the wire form of the mark.
func (m RefreshMark) Ref() models.RecordRef {
	return models.RecordRef{EntityType: m.EntityType, ServerID: m.ServerID}
}

// QueuePlan is the set of changes one enqueue applies to the persisted queue.
type QueuePlan struct {
	Insert *models.QueueOperation
	Update []models.QueueOperation
	Remove []string
}

// Planner computes a [QueuePlan] from the operations already queued for the
// same record (oldest first, dead letters excluded) and the incoming one.
type Planner func(pending []models.QueueOperation, op models.QueueOperation) QueuePlan

// SyncQueueRepository is the durable, ordered operation log.
type SyncQueueRepository interface {
	// Enqueue loads the pending operations of op's record, asks plan what to
	// change and applies the result in one transaction.
	Enqueue(ctx context.Context, op models.QueueOperation, plan Planner) (QueuePlan, error)
	Append(ctx context.Context, ops ...models.QueueOperation) error
	Peek(ctx context.Context, max int) ([]models.QueueOperation, error)
	Get(ctx context.Context, id string) (models.QueueOperation, error)
	PendingFor(ctx context.Context, entity models.EntityType, localID string) ([]models.QueueOperation, error)
	// MarkSent records the first send time of ids. Already stamped
	// operations are left as they are.
	MarkSent(ctx context.Context, ids []string, at time.Time) error
	Delete(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id, lastError string, ceiling int) (models.QueueOperation, error)
	MoveToDeadLetter(ctx context.Context, id, lastError string) error
	ResetDeadLetter(ctx context.Context, id string) error
	DeadLetters(ctx context.Context) ([]models.QueueOperation, error)
	Counts(ctx context.Context) (models.QueueCounts, error)
	// Verify decodes every persisted row and returns [ErrQueueCorrupted]
	// when one is unreadable.
	Verify(ctx context.Context) error
	Truncate(ctx context.Context) error
}

// ConflictAuditRepository retains discarded local versions for review.
type ConflictAuditRepository interface {
	Append(ctx context.Context, entry models.ConflictAuditEntry) error
	List(ctx context.Context, limit int) ([]models.ConflictAuditEntry, error)
	ListFor(ctx context.Context, entity models.EntityType, localID string, limit int) ([]models.ConflictAuditEntry, error)
}

// ServerSyncRepository is the reference server's record store together with
// the applied-operations ledger that makes batch application idempotent.
type ServerSyncRepository interface {
	FindApplied(ctx context.Context, operationID string) (*models.BatchResult, error)
	FindRecord(ctx context.Context, entity models.EntityType, serverID *string, localID string) (*models.ServerRecord, error)
	// Commit writes record (when non-nil) and stores result in the ledger in
	// one transaction.
	Commit(ctx context.Context, entity models.EntityType, record *models.ServerRecord, result models.BatchResult) error
}
