package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/store"
	"github.com/MKhiriev/go-resto-sync/models"
)

type idGenerator interface {
	Generate() string
}

type syncQueue struct {
	repo    store.SyncQueueRepository
	records store.LocalRecordRepository
	prefs   PreferencesSource
	ids     idGenerator
	ceiling int
	now     func() time.Time

	// mu serialises enqueue against checkout so an operation is either
	// coalesced before it is stamped sent or left untouched.
	mu sync.Mutex

	logger *logger.Logger
}

// NewSyncQueue builds the queue over the persisted repository. ceiling is the
// number of transient failures tolerated before an operation is
// dead-lettered.
func NewSyncQueue(repo store.SyncQueueRepository, records store.LocalRecordRepository, prefs PreferencesSource, ids idGenerator, ceiling int, logger *logger.Logger) SyncQueue {
	return &syncQueue{
		repo:     repo,
		records:  records,
		prefs:    prefs,
		ids:      ids,
		ceiling:  ceiling,
		now:      time.Now,
		logger:   logger.WithComponent("queue"),
	}
}

func (q *syncQueue) Enqueue(ctx context.Context, op models.QueueOperation) (bool, error) {
	p := q.prefs.Current()
	if !p.QueueActionsEnabled || !p.Collections.Enabled(op.EntityType) {
		return false, fmt.Errorf("%w: %s", ErrQueueDisabled, op.EntityType)
	}
	return q.enqueue(ctx, op)
}

func (q *syncQueue) Requeue(ctx context.Context, op models.QueueOperation) error {
	_, err := q.enqueue(ctx, op)
	return err
}

func (q *syncQueue) enqueue(ctx context.Context, op models.QueueOperation) (bool, error) {
	if !op.EntityType.Valid() {
		return false, fmt.Errorf("%w: %q", store.ErrUnknownCollection, op.EntityType)
	}
	if !op.Kind.Valid() {
		return false, fmt.Errorf("%w: unknown operation kind %q", ErrInvalidPayload, op.Kind)
	}
	if op.ID == "" {
		op.ID = q.ids.Generate()
	}
	if op.EnqueuedAt.IsZero() {
		op.EnqueuedAt = q.now().UTC()
	}
	op.RetryCount = 0
	op.LastError = nil
	op.DeadLetter = false
	op.SentAt = nil

	q.mu.Lock()
	defer q.mu.Unlock()

	plan, err := q.repo.Enqueue(ctx, op, coalesce)
	if err != nil {
		return false, err
	}

	queued := plan.Insert != nil || len(plan.Update) > 0
	q.logger.Debug().
		Str("entity_type", op.EntityType.String()).
		Str("entity_local_id", op.EntityLocalID).
		Str("kind", string(op.Kind)).
		Bool("queued", queued).
		Bool("coalesced", plan.Insert == nil && queued).
		Int("cancelled", len(plan.Remove)).
		Msg("enqueue")

	return queued, nil
}

func (q *syncQueue) PeekBatch(ctx context.Context, max int) ([]models.QueueOperation, error) {
	return q.repo.Peek(ctx, max)
}

func (q *syncQueue) Checkout(ctx context.Context, max int) ([]models.QueueOperation, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	ops, err := q.repo.Peek(ctx, max)
	if err != nil || len(ops) == 0 {
		return ops, err
	}

	ids := make([]string, len(ops))
	for i, op := range ops {
		ids[i] = op.ID
	}
	now := q.now().UTC()
	if err = q.repo.MarkSent(ctx, ids, now); err != nil {
		return nil, err
	}
	for i := range ops {
		if ops[i].SentAt == nil {
			ops[i].SentAt = &now
		}
	}

	return ops, nil
}

func (q *syncQueue) Ack(ctx context.Context, id string) error {
	return q.repo.Delete(ctx, id)
}

func (q *syncQueue) MarkFailed(ctx context.Context, id string, cause error) (models.QueueOperation, error) {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}

	op, err := q.repo.MarkFailed(ctx, id, msg, q.ceiling)
	if err != nil {
		return models.QueueOperation{}, err
	}

	event := q.logger.Warn()
	if op.DeadLetter {
		event = q.logger.Error()
	}
	event.Str("operation_id", id).
		Int("retry_count", op.RetryCount).
		Bool("dead_letter", op.DeadLetter).
		Str("error", msg).
		Msg("operation failed")

	return op, nil
}

func (q *syncQueue) Reject(ctx context.Context, id, reason string) error {
	if err := q.repo.MoveToDeadLetter(ctx, id, reason); err != nil {
		return err
	}
	q.logger.Error().Str("operation_id", id).Str("error", reason).Msg("operation rejected")
	return nil
}

func (q *syncQueue) PendingFor(ctx context.Context, entity models.EntityType, localID string) ([]models.QueueOperation, error) {
	return q.repo.PendingFor(ctx, entity, localID)
}

func (q *syncQueue) RetryDeadLetter(ctx context.Context, id string) (models.QueueOperation, error) {
	op, err := q.repo.Get(ctx, id)
	if err != nil {
		return models.QueueOperation{}, err
	}
	if !op.DeadLetter {
		return op, nil
	}

	if err = q.repo.ResetDeadLetter(ctx, id); err != nil {
		return models.QueueOperation{}, err
	}

	err = q.records.UpdateSyncStatus(ctx, op.EntityType, op.EntityLocalID, models.SyncStatusPending, nil)
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return models.QueueOperation{}, err
	}

	q.logger.Info().Str("operation_id", id).Msg("dead letter returned to queue")
	return q.repo.Get(ctx, id)
}

func (q *syncQueue) DeadLetters(ctx context.Context) ([]models.QueueOperation, error) {
	return q.repo.DeadLetters(ctx)
}

func (q *syncQueue) Counts(ctx context.Context) (models.QueueCounts, error) {
	return q.repo.Counts(ctx)
}

// Recover rebuilds queue state from the local store.
//
// When a persisted row cannot be decoded the whole queue is dropped and
// every unsynced record is marked pending and queued again. Ordering and
// coalescing history are lost, local changes are not. Otherwise only
// pending records without any queued operation are re-queued; this heals a
// process kill between a local write and its enqueue.
func (q *syncQueue) Recover(ctx context.Context) (int, error) {
	err := q.repo.Verify(ctx)
	corrupted := errors.Is(err, store.ErrQueueCorrupted)
	if err != nil && !corrupted {
		return 0, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if corrupted {
		q.logger.Error().Err(err).Str("func", "syncQueue.Recover").Msg("queue corrupted, rebuilding from local store")
		if err = q.repo.Truncate(ctx); err != nil {
			return 0, err
		}
	}

	records, err := q.records.ListUnsynced(ctx)
	if err != nil {
		return 0, err
	}
	slices.SortStableFunc(records, func(a, b models.LocalRecord) int {
		return a.LastModifiedAt.Compare(b.LastModifiedAt)
	})

	queued := make(map[string]struct{})
	if !corrupted {
		if queued, err = q.queuedRecords(ctx); err != nil {
			return 0, err
		}
	}

	var ops []models.QueueOperation
	for _, record := range records {
		if !corrupted {
			if record.SyncStatus != models.SyncStatusPending {
				continue
			}
			if _, ok := queued[recordKey(record.EntityType, record.LocalID)]; ok {
				continue
			}
		}

		op, ok := operationFromRecord(record)
		if !ok {
			// deleted before it ever reached the server
			if err = q.records.UpdateSyncStatus(ctx, record.EntityType, record.LocalID, models.SyncStatusSynced, nil); err != nil {
				return 0, err
			}
			continue
		}
		op.ID = q.ids.Generate()
		op.EnqueuedAt = q.now().UTC()

		if corrupted && record.SyncStatus != models.SyncStatusPending {
			if err = q.records.UpdateSyncStatus(ctx, record.EntityType, record.LocalID, models.SyncStatusPending, nil); err != nil {
				return 0, err
			}
		}
		ops = append(ops, op)
	}

	if len(ops) == 0 {
		return 0, nil
	}
	if err = q.repo.Append(ctx, ops...); err != nil {
		return 0, err
	}

	q.logger.Warn().Int("operations", len(ops)).Bool("corrupted", corrupted).Msg("queue rebuilt from local store")
	return len(ops), nil
}

func (q *syncQueue) queuedRecords(ctx context.Context) (map[string]struct{}, error) {
	live, err := q.repo.Peek(ctx, 0)
	if err != nil {
		return nil, err
	}
	dead, err := q.repo.DeadLetters(ctx)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]struct{}, len(live)+len(dead))
	for _, op := range append(live, dead...) {
		keys[recordKey(op.EntityType, op.EntityLocalID)] = struct{}{}
	}
	return keys, nil
}

func recordKey(entity models.EntityType, localID string) string {
	return entity.String() + "/" + localID
}

// operationFromRecord derives the operation that brings the server in line
// with record. ok is false when there is nothing to send.
func operationFromRecord(record models.LocalRecord) (models.QueueOperation, bool) {
	op := models.QueueOperation{
		EntityType:          record.EntityType,
		EntityLocalID:       record.LocalID,
		BaseServerUpdatedAt: record.ServerUpdatedAt,
	}

	switch {
	case record.Deleted && record.ServerID == nil:
		return models.QueueOperation{}, false
	case record.Deleted:
		op.Kind = models.OperationDelete
	case record.ServerID == nil:
		op.Kind = models.OperationCreate
		op.Payload = record.Data
	default:
		op.Kind = models.OperationUpdate
		op.Payload = record.Data
	}
	return op, true
}
