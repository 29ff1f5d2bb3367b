package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/store"
	"github.com/MKhiriev/go-resto-sync/models"
)

type recordService struct {
	records store.LocalRecordRepository
	audit   store.ConflictAuditRepository
	queue   SyncQueue
	prefs   PreferencesSource
	ids     idGenerator
	guard   *sync.Mutex
	now     func() time.Time
	logger  *logger.Logger
}

// NewRecordService builds the UI entry point. guard must be the one shared
// with the sync manager.
func NewRecordService(records store.LocalRecordRepository, audit store.ConflictAuditRepository, queue SyncQueue, prefs PreferencesSource, ids idGenerator, guard *sync.Mutex, logger *logger.Logger) RecordService {
	if guard == nil {
		guard = &sync.Mutex{}
	}
	return &recordService{
		records: records,
		audit:   audit,
		queue:   queue,
		prefs:   prefs,
		ids:     ids,
		guard:   guard,
		now:     time.Now,
		logger:  logger.WithComponent("records"),
	}
}

func (r *recordService) Create(ctx context.Context, entity models.EntityType, data []byte) (models.LocalRecord, error) {
	if err := r.checkQueueing(entity); err != nil {
		return models.LocalRecord{}, err
	}
	if err := validateObject(data); err != nil {
		return models.LocalRecord{}, err
	}

	r.guard.Lock()
	defer r.guard.Unlock()

	record := models.LocalRecord{
		LocalID:        r.ids.Generate(),
		EntityType:     entity,
		Data:           compactJSON(data),
		SyncStatus:     models.SyncStatusPending,
		LastModifiedAt: r.now().UTC(),
	}
	if err := r.records.Save(ctx, record); err != nil {
		return models.LocalRecord{}, fmt.Errorf("save created record: %w", err)
	}

	_, err := r.queue.Enqueue(ctx, models.QueueOperation{
		EntityType:    entity,
		EntityLocalID: record.LocalID,
		Kind:          models.OperationCreate,
		Payload:       record.Data,
	})
	if err != nil {
		return models.LocalRecord{}, fmt.Errorf("enqueue create: %w", err)
	}

	return record, nil
}

// Update merges the top-level fields of data into the record. Only the
// changed fields are queued.
func (r *recordService) Update(ctx context.Context, entity models.EntityType, localID string, data []byte) (models.LocalRecord, error) {
	if err := r.checkQueueing(entity); err != nil {
		return models.LocalRecord{}, err
	}
	if err := validateObject(data); err != nil {
		return models.LocalRecord{}, err
	}

	r.guard.Lock()
	defer r.guard.Unlock()

	record, err := r.records.Get(ctx, entity, localID)
	if err != nil {
		return models.LocalRecord{}, fmt.Errorf("get record: %w", err)
	}
	if record.Deleted {
		return models.LocalRecord{}, ErrRecordDeleted
	}
	if record.SyncStatus == models.SyncStatusConflict {
		return models.LocalRecord{}, ErrRecordInConflict
	}

	patch := compactJSON(data)
	record.Data = mergePayload(record.Data, patch)
	record.SyncStatus = models.SyncStatusPending
	record.LastModifiedAt = r.now().UTC()
	record.LastError = nil
	if err = r.records.Save(ctx, record); err != nil {
		return models.LocalRecord{}, fmt.Errorf("save updated record: %w", err)
	}

	kind := models.OperationUpdate
	if record.ServerID == nil {
		kind = models.OperationCreate
	}
	_, err = r.queue.Enqueue(ctx, models.QueueOperation{
		EntityType:    entity,
		EntityLocalID: localID,
		Kind:          kind,
		Payload:       patch,
	})
	if err != nil {
		return models.LocalRecord{}, fmt.Errorf("enqueue update: %w", err)
	}

	return record, nil
}

// Delete marks the record deleted. A record the server never saw is settled
// locally.
func (r *recordService) Delete(ctx context.Context, entity models.EntityType, localID string) error {
	if err := r.checkQueueing(entity); err != nil {
		return err
	}

	r.guard.Lock()
	defer r.guard.Unlock()

	record, err := r.records.Get(ctx, entity, localID)
	if err != nil {
		return fmt.Errorf("get record: %w", err)
	}
	if record.Deleted {
		return nil
	}

	if err = r.records.MarkDeleted(ctx, entity, localID, models.SyncStatusPending); err != nil {
		return fmt.Errorf("mark deleted: %w", err)
	}

	queued, err := r.queue.Enqueue(ctx, models.QueueOperation{
		EntityType:    entity,
		EntityLocalID: localID,
		Kind:          models.OperationDelete,
	})
	if err != nil {
		return fmt.Errorf("enqueue delete: %w", err)
	}

	if !queued {
		// the create never left the device
		return r.records.MarkDeleted(ctx, entity, localID, models.SyncStatusSynced)
	}
	return nil
}

func (r *recordService) Get(ctx context.Context, entity models.EntityType, localID string) (models.LocalRecord, error) {
	return r.records.Get(ctx, entity, localID)
}

func (r *recordService) List(ctx context.Context, entity models.EntityType) ([]models.LocalRecord, error) {
	return r.records.List(ctx, entity, false)
}

// ResolveConflict settles a record left in conflict for the user.
// prefer_server restores the server copy parked in the audit log,
// prefer_local re-sends the local copy with ForceOverwrite.
func (r *recordService) ResolveConflict(ctx context.Context, entity models.EntityType, localID string, policy models.ConflictPolicy) (models.LocalRecord, error) {
	r.guard.Lock()
	defer r.guard.Unlock()

	record, err := r.records.Get(ctx, entity, localID)
	if err != nil {
		return models.LocalRecord{}, fmt.Errorf("get record: %w", err)
	}
	if record.SyncStatus != models.SyncStatusConflict {
		return models.LocalRecord{}, ErrNotInConflict
	}

	switch policy {
	case models.PreferServer:
		entry, err := r.pendingReview(ctx, entity, localID)
		if err != nil {
			return models.LocalRecord{}, err
		}

		local := record.Data
		if len(entry.ServerData) > 0 {
			record.Data = entry.ServerData
		}
		record.SyncStatus = models.SyncStatusSynced
		record.LastError = nil
		if err = r.records.Save(ctx, record); err != nil {
			return models.LocalRecord{}, err
		}

		err = r.audit.Append(ctx, models.ConflictAuditEntry{
			ID:          r.ids.Generate(),
			EntityType:  entity,
			LocalID:     localID,
			OperationID: entry.OperationID,
			LocalData:   local,
			ServerData:  entry.ServerData,
			Policy:      policy,
			Decision:    "server copy kept by user",
			CreatedAt:   r.now().UTC(),
		})
		if err != nil {
			return models.LocalRecord{}, err
		}

	case models.PreferLocal:
		record.SyncStatus = models.SyncStatusPending
		record.LastError = nil
		record.LastModifiedAt = r.now().UTC()
		if err = r.records.Save(ctx, record); err != nil {
			return models.LocalRecord{}, err
		}

		kind := models.OperationUpdate
		if record.ServerID == nil {
			kind = models.OperationCreate
		}
		err = r.queue.Requeue(ctx, models.QueueOperation{
			EntityType:          entity,
			EntityLocalID:       localID,
			Kind:                kind,
			Payload:             record.Data,
			ForceOverwrite:      true,
			BaseServerUpdatedAt: record.ServerUpdatedAt,
		})
		if err != nil {
			return models.LocalRecord{}, err
		}

	default:
		return models.LocalRecord{}, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}

	r.logger.Info().
		Str("entity_type", entity.String()).
		Str("local_id", localID).
		Str("policy", string(policy)).
		Msg("conflict resolved by user")

	return record, nil
}

func (r *recordService) pendingReview(ctx context.Context, entity models.EntityType, localID string) (models.ConflictAuditEntry, error) {
	entries, err := r.audit.ListFor(ctx, entity, localID, 0)
	if err != nil {
		return models.ConflictAuditEntry{}, err
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Decision, AwaitingReview) {
			return e, nil
		}
	}
	return models.ConflictAuditEntry{}, fmt.Errorf("%w: no server copy recorded for %s/%s", ErrNotInConflict, entity, localID)
}

func (r *recordService) checkQueueing(entity models.EntityType) error {
	if !entity.Valid() {
		return fmt.Errorf("%w: %q", store.ErrUnknownCollection, entity)
	}
	p := r.prefs.Current()
	if !p.QueueActionsEnabled || !p.Collections.Enabled(entity) {
		return fmt.Errorf("%w: %s", ErrQueueDisabled, entity)
	}
	return nil
}

func validateObject(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if obj == nil {
		return ErrInvalidPayload
	}
	return nil
}

func compactJSON(data []byte) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return json.RawMessage(data)
	}
	return buf.Bytes()
}
