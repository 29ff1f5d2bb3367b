package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-resto-sync/internal/adapter"
	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/store"
	"github.com/MKhiriev/go-resto-sync/models"
)

// memoryServerRepo is a ServerSyncRepository kept in memory.
type memoryServerRepo struct {
	mu      sync.Mutex
	records map[string]models.ServerRecord
	ledger  map[string]models.BatchResult
}

func (r *memoryServerRepo) FindApplied(_ context.Context, operationID string) (*models.BatchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.ledger[operationID]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (r *memoryServerRepo) FindRecord(_ context.Context, entity models.EntityType, serverID *string, localID string) (*models.ServerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.EntityType != entity {
			continue
		}
		if serverID != nil && *serverID != "" {
			if record.ServerID == *serverID {
				return &record, nil
			}
			continue
		}
		if record.LocalID == localID {
			return &record, nil
		}
	}
	return nil, store.ErrRecordNotFound
}

func (r *memoryServerRepo) Commit(_ context.Context, _ models.EntityType, record *models.ServerRecord, result models.BatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record != nil {
		r.records[record.ServerID] = *record
	}
	r.ledger[result.OperationID] = result
	return nil
}

// memoryServer is a SyncAdapter backed by the real batch service and an
// in-memory repository.
type memoryServer struct {
	repo *memoryServerRepo
	svc  BatchSyncService

	mu      sync.Mutex
	token   string
	batches int
	fetches int
	// lose is returned instead of the response of the next batch, after
	// the batch was committed.
	lose error
}

func newMemoryServer() *memoryServer {
	repo := &memoryServerRepo{
		records: make(map[string]models.ServerRecord),
		ledger:  make(map[string]models.BatchResult),
	}
	return &memoryServer{
		repo: repo,
		svc:  NewBatchSyncService(repo, &seqIDs{prefix: "srv-"}, 0, logger.Nop()),
	}
}

func (s *memoryServer) SetToken(token string)      { s.token = token }
func (s *memoryServer) Token() string              { return s.token }
func (s *memoryServer) Ping(context.Context) error { return nil }

func (s *memoryServer) SyncBatch(ctx context.Context, req models.BatchSyncRequest) (models.BatchSyncResponse, error) {
	resp, err := s.svc.Apply(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches++
	if lose := s.lose; lose != nil {
		s.lose = nil
		return models.BatchSyncResponse{}, lose
	}
	return resp, err
}

func (s *memoryServer) FetchRecords(ctx context.Context, req models.FetchRecordsRequest) (models.FetchRecordsResponse, error) {
	s.mu.Lock()
	s.fetches++
	s.mu.Unlock()
	return s.svc.Fetch(ctx, req)
}

func (s *memoryServer) loseNextResponse(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lose = err
}

func (s *memoryServer) calls() (batches, fetches int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches, s.fetches
}

func (s *memoryServer) put(record models.ServerRecord) {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	s.repo.records[record.ServerID] = record
}

// stored returns the server copies sorted by server id.
func (s *memoryServer) stored() []models.ServerRecord {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	out := make([]models.ServerRecord, 0, len(s.repo.records))
	for _, record := range s.repo.records {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ServerID < out[j].ServerID })
	return out
}

func TestSyncManager_EditAfterLostResponseReachesServer(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer()
	fx := newManagerFixture(t, server)

	order := fx.createOrder(t, `{"table":4,"status":"open"}`)
	server.loseNextResponse(fmt.Errorf("%w: connection reset", adapter.ErrTransient))

	phase, err := fx.manager.SyncOnce(ctx, TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, models.PhasePartialFailure, phase)
	require.Len(t, server.stored(), 1, "the server applied the create")

	_, err = fx.records.Update(ctx, models.EntityOrders, order.LocalID, []byte(`{"tip":5}`))
	require.NoError(t, err)

	ops, err := fx.queue.PendingFor(ctx, models.EntityOrders, order.LocalID)
	require.NoError(t, err)
	require.Len(t, ops, 2, "the edit is queued behind the operation already sent")
	require.NotNil(t, ops[0].SentAt)
	assert.JSONEq(t, `{"table":4,"status":"open"}`, string(ops[0].Payload))
	assert.Nil(t, ops[1].SentAt)
	assert.JSONEq(t, `{"tip":5}`, string(ops[1].Payload))

	phase, err = fx.manager.SyncOnce(ctx, TriggerRetry)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseSuccess, phase)

	stored, err := fx.records.Get(ctx, models.EntityOrders, order.LocalID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusSynced, stored.SyncStatus)
	assert.JSONEq(t, `{"table":4,"status":"open","tip":5}`, string(stored.Data))

	copies := server.stored()
	require.Len(t, copies, 1, "the replayed create did not duplicate the record")
	assert.JSONEq(t, `{"table":4,"status":"open","tip":5}`, string(copies[0].Data))
	require.NotNil(t, stored.ServerID)
	assert.Equal(t, copies[0].ServerID, *stored.ServerID)

	counts, err := fx.queue.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts.Pending)
}

func TestSyncManager_DeleteAfterCancelledSendReachesServer(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer()
	fx := newManagerFixture(t, server)

	order := fx.createOrder(t, `{"table":6}`)
	server.loseNextResponse(context.Canceled)

	phase, err := fx.manager.SyncOnce(ctx, TriggerManual)
	assert.ErrorIs(t, err, ErrSyncCancelled)
	assert.Equal(t, models.PhaseIdle, phase)
	require.Len(t, server.stored(), 1)

	ops, err := fx.queue.PendingFor(ctx, models.EntityOrders, order.LocalID)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Zero(t, ops[0].RetryCount, "a cancelled send is not a failure")
	require.NotNil(t, ops[0].SentAt, "the send is remembered")

	require.NoError(t, fx.records.Delete(ctx, models.EntityOrders, order.LocalID))

	ops, err = fx.queue.PendingFor(ctx, models.EntityOrders, order.LocalID)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, models.OperationDelete, ops[1].Kind)

	phase, err = fx.manager.SyncOnce(ctx, TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseSuccess, phase)

	copies := server.stored()
	require.Len(t, copies, 1)
	assert.True(t, copies[0].Deleted, "the server copy is a tombstone")

	counts, err := fx.queue.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts.Pending)
}

func TestSyncManager_SecondCycleIsNoop(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer()
	fx := newManagerFixture(t, server)

	first := fx.createOrder(t, `{"table":1,"status":"open"}`)
	fx.createOrder(t, `{"table":2,"status":"open"}`)
	_, err := fx.records.Update(ctx, models.EntityOrders, first.LocalID, []byte(`{"status":"served"}`))
	require.NoError(t, err)

	phase, err := fx.manager.SyncOnce(ctx, TriggerManual)
	require.NoError(t, err)
	require.Equal(t, models.PhaseSuccess, phase)

	records, err := fx.records.List(ctx, models.EntityOrders)
	require.NoError(t, err)
	require.Len(t, records, 2)
	copies := server.stored()
	batches, fetches := server.calls()
	state := fx.manager.State()

	phase, err = fx.manager.SyncOnce(ctx, TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseSuccess, phase)

	again, err := fx.records.List(ctx, models.EntityOrders)
	require.NoError(t, err)
	assert.Equal(t, records, again, "local records are unchanged")
	assert.Equal(t, copies, server.stored(), "server copies are unchanged")

	batchesAfter, fetchesAfter := server.calls()
	assert.Equal(t, batches, batchesAfter, "nothing was sent")
	assert.Equal(t, fetches, fetchesAfter)

	counts, err := fx.queue.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts.Pending)
	assert.Zero(t, counts.DeadLetter)

	after := fx.manager.State()
	assert.Equal(t, state.PendingChanges, after.PendingChanges)
	assert.Equal(t, state.Conflicts, after.Conflicts)
	assert.Empty(t, after.LastError)
}

func TestSyncManager_NotificationPullsServerCopy(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer()
	fx := newManagerFixture(t, server)

	updated := serverClock.Add(time.Minute)
	server.put(models.ServerRecord{
		ServerID:   "srv-o1",
		LocalID:    "o1",
		EntityType: models.EntityOrders,
		Data:       json.RawMessage(`{"table":2,"status":"served","waiter":"ann"}`),
		UpdatedAt:  updated,
	})
	base := serverClock
	saveRecord(t, fx.storages, models.LocalRecord{
		LocalID:         "o1",
		EntityType:      models.EntityOrders,
		ServerID:        strPtr("srv-o1"),
		Data:            json.RawMessage(`{"table":2,"status":"open"}`),
		SyncStatus:      models.SyncStatusSynced,
		ServerUpdatedAt: &base,
	})

	bridge := NewNotificationBridge(fx.storages.Records, fx.manager, nil, logger.Nop())
	err := bridge.HandleNotification(ctx, models.PushNotification{Type: "order_updated", OrderID: "srv-o1", Status: "ready"})
	require.NoError(t, err)

	patched, err := fx.records.Get(ctx, models.EntityOrders, "o1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"table":2,"status":"ready"}`, string(patched.Data), "the patch shows at once")

	select {
	case trigger := <-fx.manager.wake:
		assert.Equal(t, TriggerNotification, trigger)
	default:
		t.Fatal("notification did not request a sync")
	}

	phase, err := fx.manager.SyncOnce(ctx, TriggerNotification)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseSuccess, phase)

	batches, fetches := server.calls()
	assert.Zero(t, batches)
	assert.Equal(t, 1, fetches)

	stored, err := fx.records.Get(ctx, models.EntityOrders, "o1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"table":2,"status":"served","waiter":"ann"}`, string(stored.Data))
	assert.Equal(t, models.SyncStatusSynced, stored.SyncStatus)
	require.NotNil(t, stored.ServerUpdatedAt)
	assert.True(t, updated.Equal(*stored.ServerUpdatedAt))

	marks, err := fx.storages.Records.PendingRefresh(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, marks)

	// nothing left to pull
	_, err = fx.manager.SyncOnce(ctx, TriggerManual)
	require.NoError(t, err)
	_, fetches = server.calls()
	assert.Equal(t, 1, fetches)
}

func TestSyncManager_NotificationDownloadsUnknownOrder(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer()
	fx := newManagerFixture(t, server)

	server.put(models.ServerRecord{
		ServerID:   "srv-9",
		LocalID:    "tablet-2-o9",
		EntityType: models.EntityOrders,
		Data:       json.RawMessage(`{"table":9,"status":"open"}`),
		UpdatedAt:  serverClock,
	})

	bridge := NewNotificationBridge(fx.storages.Records, fx.manager, nil, logger.Nop())
	err := bridge.HandleNotification(ctx, models.PushNotification{Type: "order_created", OrderID: "srv-9", Status: "open"})
	require.NoError(t, err)

	phase, err := fx.manager.SyncOnce(ctx, TriggerNotification)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseSuccess, phase)

	records, err := fx.records.List(ctx, models.EntityOrders)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotEqual(t, "tablet-2-o9", records[0].LocalID, "the device assigns its own id")
	require.NotNil(t, records[0].ServerID)
	assert.Equal(t, "srv-9", *records[0].ServerID)
	assert.Equal(t, models.SyncStatusSynced, records[0].SyncStatus)
	assert.JSONEq(t, `{"table":9,"status":"open"}`, string(records[0].Data))

	counts, err := fx.queue.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts.Pending, "downloads are never queued")
}

func TestSyncManager_RefreshSkipsRecordsWithQueuedEdits(t *testing.T) {
	ctx := context.Background()
	fx := newManagerFixture(t, &fakeAdapter{
		syncBatch: func(context.Context, models.BatchSyncRequest) (models.BatchSyncResponse, error) {
			return models.BatchSyncResponse{}, adapter.ErrTransient
		},
		fetch: func(_ context.Context, req models.FetchRecordsRequest) (models.FetchRecordsResponse, error) {
			return models.FetchRecordsResponse{
				Records: []models.ServerRecord{serverVersion("o1")},
				Length:  1,
			}, nil
		},
	})
	seedSynced(t, fx, "o1")
	require.NoError(t, fx.storages.Records.MarkForRefresh(ctx, models.EntityOrders, "srv-o1"))

	phase, err := fx.manager.SyncOnce(ctx, TriggerNotification)
	require.NoError(t, err)
	assert.Equal(t, models.PhasePartialFailure, phase)
	require.Len(t, fx.adapter.fetched(), 1)

	stored, err := fx.records.Get(ctx, models.EntityOrders, "o1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"table":5,"status":"void"}`, string(stored.Data), "queued edits are not overwritten")
	assert.Equal(t, models.SyncStatusPending, stored.SyncStatus)

	marks, err := fx.storages.Records.PendingRefresh(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, marks, "the queued edit brings the server copy back")
}

func TestSyncManager_RefreshFailureKeepsMarks(t *testing.T) {
	ctx := context.Background()
	fx := newManagerFixture(t, &fakeAdapter{
		syncBatch: applyAll,
		fetch: func(context.Context, models.FetchRecordsRequest) (models.FetchRecordsResponse, error) {
			return models.FetchRecordsResponse{}, fmt.Errorf("%w: 503", adapter.ErrTransient)
		},
	})
	require.NoError(t, fx.storages.Records.MarkForRefresh(ctx, models.EntityOrders, "srv-1"))

	phase, err := fx.manager.SyncOnce(ctx, TriggerNotification)
	assert.ErrorIs(t, err, adapter.ErrTransient)
	assert.Equal(t, models.PhasePartialFailure, phase)
	assert.Contains(t, fx.manager.State().LastError, "503")

	marks, err := fx.storages.Records.PendingRefresh(ctx, 0)
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, "srv-1", marks[0].ServerID)

	fx.adapter.fetch = func(_ context.Context, req models.FetchRecordsRequest) (models.FetchRecordsResponse, error) {
		return models.FetchRecordsResponse{Missing: req.Records}, nil
	}
	phase, err = fx.manager.SyncOnce(ctx, TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseSuccess, phase)

	marks, err = fx.storages.Records.PendingRefresh(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, marks, "records the server does not know are not asked for again")
}

func TestSyncManager_FatalRefreshEndsIdle(t *testing.T) {
	ctx := context.Background()
	fx := newManagerFixture(t, &fakeAdapter{
		syncBatch: applyAll,
		fetch: func(context.Context, models.FetchRecordsRequest) (models.FetchRecordsResponse, error) {
			return models.FetchRecordsResponse{}, fmt.Errorf("%w: 401", adapter.ErrUnauthorized)
		},
	})
	require.NoError(t, fx.storages.Records.MarkForRefresh(ctx, models.EntityOrders, "srv-1"))

	phase, err := fx.manager.SyncOnce(ctx, TriggerManual)
	assert.ErrorIs(t, err, adapter.ErrUnauthorized)
	assert.Equal(t, models.PhaseFatalFailure, phase)

	state := fx.manager.State()
	assert.Equal(t, models.PhaseIdle, state.Phase)
	assert.Contains(t, state.LastError, "unauthorized")
	assert.Empty(t, fx.scheduled())
	assert.True(t, fx.manager.RequestSync(TriggerManual), "later cycles are not blocked")
}

func TestSyncManager_CancelDoesNotStopStartedRetryCycle(t *testing.T) {
	ctx := context.Background()
	fx := newManagerFixture(t, &fakeAdapter{
		syncBatch: func(context.Context, models.BatchSyncRequest) (models.BatchSyncResponse, error) {
			return models.BatchSyncResponse{}, adapter.ErrTransient
		},
	})
	fx.createOrder(t, `{"table":1}`)

	_, err := fx.manager.SyncOnce(ctx, TriggerManual)
	require.NoError(t, err)
	require.Equal(t, models.PhaseRetryScheduled, fx.manager.State().Phase)

	// the retry timer fired and its cycle moved to syncing
	fx.manager.mustTransition(models.PhaseSyncing, nil)

	fx.manager.Cancel()
	state := fx.manager.State()
	assert.Equal(t, models.PhaseSyncing, state.Phase)
	assert.True(t, state.IsCurrentlySyncing)

	phase := fx.manager.finishCycle(ctx, cycleOutcome{applied: 1}, nil)
	assert.Equal(t, models.PhaseSuccess, phase)
	state = fx.manager.State()
	assert.Equal(t, models.PhaseIdle, state.Phase)
	assert.NotNil(t, state.LastSync)
	assert.Empty(t, state.LastError)
}

func TestSyncManager_CancelDropsScheduledRetry(t *testing.T) {
	ctx := context.Background()
	fx := newManagerFixture(t, &fakeAdapter{
		syncBatch: func(context.Context, models.BatchSyncRequest) (models.BatchSyncResponse, error) {
			return models.BatchSyncResponse{}, adapter.ErrTransient
		},
	})
	fx.createOrder(t, `{"table":1}`)

	_, err := fx.manager.SyncOnce(ctx, TriggerManual)
	require.NoError(t, err)
	require.Equal(t, models.PhaseRetryScheduled, fx.manager.State().Phase)

	fx.manager.Cancel()
	assert.Equal(t, models.PhaseIdle, fx.manager.State().Phase)

	fx.manager.mu.Lock()
	timer := fx.manager.retryTimer
	fx.manager.mu.Unlock()
	assert.Nil(t, timer)
}
