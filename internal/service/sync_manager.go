package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-resto-sync/internal/adapter"
	"github.com/MKhiriev/go-resto-sync/internal/config"
	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/store"
	"github.com/MKhiriev/go-resto-sync/models"
)

// Trigger names what asked for a sync cycle.
type Trigger string

const (
	TriggerTimer        Trigger = "timer"
	TriggerReconnect    Trigger = "reconnect"
	TriggerNotification Trigger = "notification"
	TriggerManual       Trigger = "manual"
	TriggerRetry        Trigger = "retry"
	TriggerStartup      Trigger = "startup"
)

// retryJitterPercent spreads retries of many devices recovering from the same
// outage.
const retryJitterPercent = 10

// SyncManagerDeps are the collaborators of the sync manager.
type SyncManagerDeps struct {
	Queue    SyncQueue
	Records  store.LocalRecordRepository
	Audit    store.ConflictAuditRepository
	Adapter  adapter.SyncAdapter
	Resolver ConflictResolver
	Prefs    PreferencesSource
	IDs      idGenerator

	// Guard serialises local record writes between the UI, the
	// notification bridge and result application.
	Guard *sync.Mutex
}

type syncManager struct {
	queue    SyncQueue
	records  store.LocalRecordRepository
	audit    store.ConflictAuditRepository
	adapter  adapter.SyncAdapter
	resolver ConflictResolver
	prefs    PreferencesSource
	ids      idGenerator
	guard    *sync.Mutex

	batchSize int
	baseDelay time.Duration
	maxDelay  time.Duration
	grace     time.Duration

	now       func() time.Time
	afterFunc func(d time.Duration, f func()) *time.Timer

	state *statePublisher

	// cycleMu is held for the whole cycle.
	cycleMu sync.Mutex

	mu           sync.Mutex
	cancelCycle  context.CancelFunc
	retryTimer   *time.Timer
	graceTimer   *time.Timer
	background   bool
	graceExpired bool

	// wake holds at most one pending request, so any number of requests made
	// during a cycle collapse into one follow-up cycle.
	wake chan Trigger

	logger *logger.Logger
}

// NewSyncManager builds the manager. The state starts idle and offline until
// the first network status arrives.
func NewSyncManager(deps SyncManagerDeps, cfg config.Sync, logger *logger.Logger) SyncManager {
	guard := deps.Guard
	if guard == nil {
		guard = &sync.Mutex{}
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = config.DefaultBatchSize
	}
	baseDelay := cfg.BaseDelay
	if baseDelay <= 0 {
		baseDelay = config.DefaultBaseDelay
	}

	return &syncManager{
		queue:     deps.Queue,
		records:   deps.Records,
		audit:     deps.Audit,
		adapter:   deps.Adapter,
		resolver:  deps.Resolver,
		prefs:     deps.Prefs,
		ids:       deps.IDs,
		guard:     guard,
		batchSize: batchSize,
		baseDelay: baseDelay,
		maxDelay:  cfg.MaxDelay,
		grace:     cfg.BackgroundGrace,
		now:       time.Now,
		afterFunc: time.AfterFunc,
		state:     newStatePublisher(),
		wake:      make(chan Trigger, 1),
		logger:    logger.WithComponent("sync_manager"),
	}
}

func (m *syncManager) Run(ctx context.Context) error {
	m.Refresh(ctx)
	m.logger.Info().Msg("sync manager started")

	for {
		select {
		case <-ctx.Done():
			m.stopTimers()
			m.logger.Info().Msg("sync manager stopped")
			return nil
		case trigger := <-m.wake:
			_, err := m.SyncOnce(ctx, trigger)
			if err != nil && !errors.Is(err, ErrSyncGated) && !errors.Is(err, ErrSyncCancelled) {
				m.logger.Err(err).Str("func", "syncManager.Run").Str("trigger", string(trigger)).Msg("sync cycle failed")
			}
		}
	}
}

func (m *syncManager) RequestSync(trigger Trigger) bool {
	if err := m.gate(); err != nil {
		m.logger.Debug().Str("trigger", string(trigger)).Err(err).Msg("sync request gated")
		return false
	}

	select {
	case m.wake <- trigger:
	default:
		m.logger.Debug().Str("trigger", string(trigger)).Msg("sync request coalesced")
	}
	return true
}

// gate checks connectivity and preferences. It does not look at whether a
// cycle is running: that case is coalesced, not rejected.
func (m *syncManager) gate() error {
	state := m.state.snapshot()
	if !state.IsOnline {
		return fmt.Errorf("%w: offline", ErrSyncGated)
	}

	p := m.prefs.Current()
	if p.WifiOnly && state.NetworkType != models.NetworkWifi {
		return fmt.Errorf("%w: wifi only, current link is %s", ErrSyncGated, state.NetworkType)
	}

	m.mu.Lock()
	backgroundBlocked := m.background && m.graceExpired && !p.BackgroundSync
	m.mu.Unlock()
	if backgroundBlocked {
		return fmt.Errorf("%w: app is in background", ErrSyncGated)
	}

	return nil
}

func (m *syncManager) SyncOnce(ctx context.Context, trigger Trigger) (models.SyncPhase, error) {
	if err := m.gate(); err != nil {
		return m.state.snapshot().Phase, err
	}
	if !m.cycleMu.TryLock() {
		return models.PhaseSyncing, ErrSyncInProgress
	}
	defer m.cycleMu.Unlock()

	cycleCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	m.mu.Lock()
	m.cancelCycle = cancel
	m.stopRetryLocked()
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.cancelCycle = nil
		m.mu.Unlock()
	}()

	m.mustTransition(models.PhaseSyncing, nil)

	log := m.logger.With().Str("trigger", string(trigger)).Logger()
	log.Info().Msg("sync cycle started")
	started := m.now()

	out, err := m.runCycle(cycleCtx)
	phase := m.finishCycle(ctx, out, err)

	log.Info().
		Str("phase", string(phase)).
		Int("applied", out.applied).
		Int("conflicts", out.conflicts).
		Int("rejected", out.rejected).
		Int("failed", out.failed).
		Int("refreshed", out.refreshed).
		Dur("took", m.now().Sub(started)).
		Msg("sync cycle finished")

	return phase, err
}

// cycleOutcome counts what a cycle did.
type cycleOutcome struct {
	applied   int
	conflicts int
	rejected  int
	failed    int
	refreshed int

	// retryCount is the highest retry count among operations that failed
	// transiently and are still queued.
	retryCount int
}

func (o *cycleOutcome) add(other cycleOutcome) {
	o.applied += other.applied
	o.conflicts += other.conflicts
	o.rejected += other.rejected
	o.failed += other.failed
	o.refreshed += other.refreshed
	o.retryCount = max(o.retryCount, other.retryCount)
}

// errFatal wraps adapter errors that end the cycle without retry.
type errFatal struct{ err error }

func (e errFatal) Error() string { return e.err.Error() }
func (e errFatal) Unwrap() error { return e.err }

// runCycle pushes the queue, then pulls the server copies of records marked
// for refresh.
func (m *syncManager) runCycle(ctx context.Context) (cycleOutcome, error) {
	out, err := m.pushQueue(ctx)
	if err != nil {
		return out, err
	}

	out.refreshed, err = m.refresh(ctx)
	return out, err
}

// pushQueue sends batches until the queue is drained or a batch did not fully
// succeed.
func (m *syncManager) pushQueue(ctx context.Context) (cycleOutcome, error) {
	var total cycleOutcome

	for {
		if ctx.Err() != nil {
			return total, ErrSyncCancelled
		}

		ops, err := m.queue.Checkout(ctx, m.batchSize)
		if err != nil {
			if ctx.Err() != nil {
				return total, ErrSyncCancelled
			}
			return total, fmt.Errorf("checkout: %w", err)
		}
		if len(ops) == 0 {
			return total, nil
		}

		out, err := m.syncBatch(ctx, ops)
		total.add(out)
		if err != nil {
			return total, err
		}
		if out.failed > 0 || out.rejected > 0 {
			return total, nil
		}
	}
}

func (m *syncManager) syncBatch(ctx context.Context, ops []models.QueueOperation) (cycleOutcome, error) {
	req, err := m.buildRequest(ctx, ops)
	if err != nil {
		return cycleOutcome{}, err
	}

	resp, err := m.adapter.SyncBatch(ctx, req)
	switch {
	case err == nil:
	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		return cycleOutcome{}, ErrSyncCancelled
	case adapter.IsFatal(err):
		return cycleOutcome{}, errFatal{err: err}
	default:
		// transient, malformed response or a refused batch: every op
		// counts one failure and the retry ceiling bounds the damage
		return m.failAll(context.WithoutCancel(ctx), ops, err), nil
	}

	// the server has committed the batch, local bookkeeping must finish even
	// if the cycle gets cancelled now
	applyCtx := context.WithoutCancel(ctx)

	results := make(map[string]models.BatchResult, len(resp.Results))
	for _, res := range resp.Results {
		results[res.OperationID] = res
	}

	var out cycleOutcome
	for _, op := range ops {
		res, ok := results[op.ID]
		if !ok {
			m.fail(applyCtx, op, ErrMissingResult, &out)
			continue
		}
		delete(results, op.ID)

		switch res.Status {
		case models.BatchApplied:
			err = m.applyApplied(applyCtx, op, res)
			if err == nil {
				out.applied++
			}
		case models.BatchConflict:
			if res.ServerRecord == nil {
				m.fail(applyCtx, op, fmt.Errorf("%w: conflict without server record", adapter.ErrInvalidResponse), &out)
				continue
			}
			err = m.applyConflict(applyCtx, op, res)
			if err == nil {
				out.conflicts++
			}
		case models.BatchRejected:
			if res.Retryable {
				m.fail(applyCtx, op, fmt.Errorf("%w: %s", adapter.ErrTransient, res.Error), &out)
				continue
			}
			err = m.reject(applyCtx, op, res.Error)
			if err == nil {
				out.rejected++
			}
		default:
			m.fail(applyCtx, op, fmt.Errorf("%w: unknown status %q", adapter.ErrInvalidResponse, res.Status), &out)
			continue
		}
		if err != nil {
			return out, fmt.Errorf("apply result of %s: %w", op.ID, err)
		}
	}

	for id := range results {
		m.logger.Warn().Str("operation_id", id).Msg("result for an operation that was not sent")
	}

	return out, nil
}

// buildRequest converts ops to the wire form. Server identity and base
// version come from the local record at send time, so edits queued before
// the record's create was acknowledged still carry them.
func (m *syncManager) buildRequest(ctx context.Context, ops []models.QueueOperation) (models.BatchSyncRequest, error) {
	req := models.BatchSyncRequest{
		Operations: make([]models.BatchOperation, 0, len(ops)),
		Length:     len(ops),
	}

	for _, op := range ops {
		bop := models.BatchOperation{
			OperationID:         op.ID,
			EntityType:          op.EntityType,
			Kind:                op.Kind,
			LocalID:             op.EntityLocalID,
			Payload:             op.Payload,
			ForceOverwrite:      op.ForceOverwrite,
			BaseServerUpdatedAt: op.BaseServerUpdatedAt,
		}

		record, err := m.records.Get(ctx, op.EntityType, op.EntityLocalID)
		switch {
		case err == nil:
			bop.ServerID = record.ServerID
			if bop.BaseServerUpdatedAt == nil {
				bop.BaseServerUpdatedAt = record.ServerUpdatedAt
			}
		case errors.Is(err, store.ErrRecordNotFound):
		default:
			return models.BatchSyncRequest{}, fmt.Errorf("load record of %s: %w", op.ID, err)
		}

		req.Operations = append(req.Operations, bop)
	}

	return req, nil
}

// applyApplied stores the acknowledged server version and acks op. When
// later edits of the record are still queued only the server identity is
// recorded, the local data stays ahead of the server.
func (m *syncManager) applyApplied(ctx context.Context, op models.QueueOperation, res models.BatchResult) error {
	m.guard.Lock()
	defer m.guard.Unlock()

	later, err := m.hasOtherPending(ctx, op)
	if err != nil {
		return err
	}

	sr := res.ServerRecord
	switch {
	case sr == nil && later:
	case sr == nil:
		err = m.records.UpdateSyncStatus(ctx, op.EntityType, op.EntityLocalID, models.SyncStatusSynced, nil)
	case later:
		err = m.records.AttachServerIdentity(ctx, op.EntityType, op.EntityLocalID, sr.ServerID, sr.UpdatedAt)
	default:
		server := *sr
		server.EntityType = op.EntityType
		server.Deleted = server.Deleted || op.Kind == models.OperationDelete
		err = m.records.ApplyServerRecord(ctx, op.EntityLocalID, server)
	}
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return err
	}

	return m.queue.Ack(ctx, op.ID)
}

func (m *syncManager) hasOtherPending(ctx context.Context, op models.QueueOperation) (bool, error) {
	pending, err := m.queue.PendingFor(ctx, op.EntityType, op.EntityLocalID)
	if err != nil {
		return false, err
	}
	for _, p := range pending {
		if p.ID != op.ID {
			return true, nil
		}
	}
	return false, nil
}

// applyConflict runs the resolver and applies its decision. Unless the local
// side is re-sent, other queued edits of the record are dropped: they are
// based on the same stale version and the decision already covers them.
func (m *syncManager) applyConflict(ctx context.Context, op models.QueueOperation, res models.BatchResult) error {
	m.guard.Lock()
	defer m.guard.Unlock()

	local, err := m.records.Get(ctx, op.EntityType, op.EntityLocalID)
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return err
	}
	if errors.Is(err, store.ErrRecordNotFound) {
		local = models.LocalRecord{
			LocalID:        op.EntityLocalID,
			EntityType:     op.EntityType,
			Data:           op.Payload,
			SyncStatus:     models.SyncStatusPending,
			LastModifiedAt: op.EnqueuedAt,
		}
	}

	server := *res.ServerRecord
	server.EntityType = op.EntityType
	policy := m.prefs.Current().ConflictResolution

	resolution := m.resolver.Resolve(ConflictInput{
		Local:     local,
		Operation: op,
		Server:    server,
		Policy:    policy,
		Now:       m.now(),
	})

	m.logger.Info().
		Str("operation_id", op.ID).
		Str("entity_type", op.EntityType.String()).
		Str("entity_local_id", op.EntityLocalID).
		Str("policy", string(policy)).
		Str("action", string(resolution.Action)).
		Msg("conflict resolved")

	if err = m.records.Save(ctx, resolution.Record); err != nil {
		return err
	}

	if resolution.Audit != nil {
		entry := *resolution.Audit
		if entry.ID == "" {
			entry.ID = m.ids.Generate()
		}
		if err = m.audit.Append(ctx, entry); err != nil {
			return err
		}
	}

	if resolution.Requeue == nil {
		if err = m.dropPending(ctx, op); err != nil {
			return err
		}
	}

	if err = m.queue.Ack(ctx, op.ID); err != nil {
		return err
	}

	if resolution.Requeue != nil {
		return m.queue.Requeue(ctx, *resolution.Requeue)
	}
	return nil
}

func (m *syncManager) dropPending(ctx context.Context, op models.QueueOperation) error {
	pending, err := m.queue.PendingFor(ctx, op.EntityType, op.EntityLocalID)
	if err != nil {
		return err
	}
	for _, p := range pending {
		if p.ID == op.ID {
			continue
		}
		if err = m.queue.Ack(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// reject handles a permanent refusal: the op goes to dead letters and the
// record is marked failed.
func (m *syncManager) reject(ctx context.Context, op models.QueueOperation, reason string) error {
	if reason == "" {
		reason = "rejected by server"
	}

	m.guard.Lock()
	defer m.guard.Unlock()

	if err := m.queue.Reject(ctx, op.ID, reason); err != nil {
		return err
	}
	err := m.records.UpdateSyncStatus(ctx, op.EntityType, op.EntityLocalID, models.SyncStatusFailed, &reason)
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (m *syncManager) failAll(ctx context.Context, ops []models.QueueOperation, cause error) cycleOutcome {
	var out cycleOutcome
	for _, op := range ops {
		m.fail(ctx, op, cause, &out)
	}
	return out
}

// fail counts one failed attempt. An operation over the retry ceiling is a
// dead letter and its record is marked failed.
func (m *syncManager) fail(ctx context.Context, op models.QueueOperation, cause error, out *cycleOutcome) {
	out.failed++

	updated, err := m.queue.MarkFailed(ctx, op.ID, cause)
	if err != nil {
		m.logger.Err(err).Str("func", "syncManager.fail").Str("operation_id", op.ID).Msg("failed to mark operation failed")
		return
	}
	if !updated.DeadLetter {
		out.retryCount = max(out.retryCount, updated.RetryCount)
		return
	}

	msg := cause.Error()
	m.guard.Lock()
	err = m.records.UpdateSyncStatus(ctx, op.EntityType, op.EntityLocalID, models.SyncStatusFailed, &msg)
	m.guard.Unlock()
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		m.logger.Err(err).Str("func", "syncManager.fail").Str("operation_id", op.ID).Msg("failed to mark record failed")
	}
}

// finishCycle moves the state machine through the cycle's outcome and returns
// that outcome. Every path ends in idle except a scheduled retry.
func (m *syncManager) finishCycle(ctx context.Context, out cycleOutcome, err error) models.SyncPhase {
	m.Refresh(context.WithoutCancel(ctx))

	var fatal errFatal
	switch {
	case errors.Is(err, ErrSyncCancelled):
		m.mustTransition(models.PhaseIdle, nil)
		return models.PhaseIdle

	case errors.As(err, &fatal):
		// the error stays in LastError until a later cycle succeeds
		m.mustTransition(models.PhaseFatalFailure, func(s *models.SyncState) {
			s.LastError = fatal.Error()
		})
		m.mustTransition(models.PhaseIdle, nil)
		return models.PhaseFatalFailure

	case err != nil, out.failed > 0, out.rejected > 0:
		m.mustTransition(models.PhasePartialFailure, func(s *models.SyncState) {
			if err != nil {
				s.LastError = err.Error()
			}
		})
		if out.retryCount > 0 {
			delay := m.retryDelay(out.retryCount)
			next := m.now().Add(delay)
			m.mustTransition(models.PhaseRetryScheduled, nil)
			m.scheduleRetry(delay)
			m.logger.Info().Dur("delay", delay).Time("at", next).Int("retry_count", out.retryCount).Msg("retry scheduled")
		} else {
			m.mustTransition(models.PhaseIdle, nil)
		}
		return models.PhasePartialFailure

	default:
		now := m.now().UTC()
		m.mustTransition(models.PhaseSuccess, func(s *models.SyncState) {
			s.LastSync = &now
			s.LastError = ""
		})
		m.mustTransition(models.PhaseIdle, nil)
		return models.PhaseSuccess
	}
}

func (m *syncManager) mustTransition(to models.SyncPhase, fn func(s *models.SyncState)) {
	if _, err := m.state.transition(to, fn); err != nil {
		m.logger.Error().Err(err).Str("func", "syncManager.mustTransition").Msg("sync state machine violation")
	}
}

// retryDelay is base * 2^(retryCount-1) with jitter, capped at maxDelay.
func (m *syncManager) retryDelay(retryCount int) time.Duration {
	b := retry.WithJitterPercent(retryJitterPercent, retry.NewExponential(m.baseDelay))
	if m.maxDelay > 0 {
		b = retry.WithCappedDuration(m.maxDelay, b)
	}

	delay := m.baseDelay
	for range max(retryCount, 1) {
		next, stop := b.Next()
		if stop {
			break
		}
		delay = next
	}
	return delay
}

func (m *syncManager) scheduleRetry(delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopRetryLocked()
	m.retryTimer = m.afterFunc(delay, func() {
		m.RequestSync(TriggerRetry)
	})
}

func (m *syncManager) stopRetryLocked() {
	if m.retryTimer != nil {
		m.retryTimer.Stop()
		m.retryTimer = nil
	}
}

func (m *syncManager) stopTimers() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopRetryLocked()
	if m.graceTimer != nil {
		m.graceTimer.Stop()
		m.graceTimer = nil
	}
}

// Cancel aborts the running cycle and any scheduled retry.
func (m *syncManager) Cancel() {
	m.mu.Lock()
	cancel := m.cancelCycle
	m.stopRetryLocked()
	m.mu.Unlock()

	if cancel != nil {
		m.logger.Info().Msg("cancelling sync cycle")
		cancel()
	}

	// a retry cycle may have started since the timer was stopped, it must
	// not be pushed back to idle
	if _, err := m.state.transitionFrom(models.PhaseRetryScheduled, models.PhaseIdle, nil); err != nil {
		m.logger.Error().Err(err).Str("func", "syncManager.Cancel").Msg("sync state machine violation")
	}
}

// EnterBackground starts the grace period. Once it runs out the current cycle
// is cancelled and new ones are refused, unless background sync is allowed.
func (m *syncManager) EnterBackground() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.background {
		return
	}
	m.background = true
	m.graceExpired = false

	if m.prefs.Current().BackgroundSync {
		return
	}

	m.graceTimer = m.afterFunc(m.grace, func() {
		m.mu.Lock()
		if !m.background {
			m.mu.Unlock()
			return
		}
		m.graceExpired = true
		m.mu.Unlock()

		if m.prefs.Current().BackgroundSync {
			return
		}
		m.logger.Info().Msg("background grace expired")
		m.Cancel()
	})
}

func (m *syncManager) EnterForeground() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.background = false
	m.graceExpired = false
	if m.graceTimer != nil {
		m.graceTimer.Stop()
		m.graceTimer = nil
	}
}

func (m *syncManager) SetNetworkStatus(status models.NetworkStatus) {
	if !status.Online {
		status.Type = models.NetworkNone
	}
	m.state.update(func(s *models.SyncState) {
		s.IsOnline = status.Online
		s.NetworkType = status.Type
	})
}

func (m *syncManager) SetNextScheduledSync(next *time.Time) {
	next = cloneTime(next)
	m.state.update(func(s *models.SyncState) {
		s.NextScheduledSync = next
	})
}

// Refresh derives the counters from the queue and the local store. Records in
// conflict are not part of the pending changes.
func (m *syncManager) Refresh(ctx context.Context) models.SyncState {
	counts, err := m.queue.Counts(ctx)
	if err != nil {
		m.logger.Err(err).Str("func", "syncManager.Refresh").Msg("failed to count queue")
		return m.state.snapshot()
	}
	byStatus, err := m.records.CountByStatus(ctx)
	if err != nil {
		m.logger.Err(err).Str("func", "syncManager.Refresh").Msg("failed to count records")
		return m.state.snapshot()
	}

	return m.state.update(func(s *models.SyncState) {
		s.PendingChanges = byStatus[models.SyncStatusPending] + byStatus[models.SyncStatusFailed]
		s.FailedSyncs = byStatus[models.SyncStatusFailed]
		s.Conflicts = byStatus[models.SyncStatusConflict]
		s.DeadLetters = counts.DeadLetter
	})
}

func (m *syncManager) State() models.SyncState {
	return m.state.snapshot()
}

func (m *syncManager) Subscribe() (<-chan models.SyncState, func()) {
	return m.state.updates.Subscribe()
}
