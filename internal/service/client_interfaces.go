package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-resto-sync/models"
)

// SyncQueue is the durable outbound log of local mutations. It owns
// coalescing: a mutation for a record that already has an unsent operation
// is merged into it instead of being appended. An operation counts as sent
// from its first checkout on, across restarts.
type SyncQueue interface {
	// Enqueue stores op after applying the coalescing rules. It fails with
	// [ErrQueueDisabled] when queueing is switched off globally or for the
	// op's collection. queued is false when op cancelled out a pending
	// create and nothing is left to send.
	Enqueue(ctx context.Context, op models.QueueOperation) (queued bool, err error)

	// PeekBatch returns up to max operations in FIFO order without removing
	// them. Dead letters are skipped.
	PeekBatch(ctx context.Context, max int) ([]models.QueueOperation, error)

	// Checkout is PeekBatch plus stamping the result as sent: sent
	// operations are never coalesced with, so what the server may have
	// applied under an id is what gets acked.
	Checkout(ctx context.Context, max int) ([]models.QueueOperation, error)

	// Ack removes the operation. Acking an unknown id is a no-op.
	Ack(ctx context.Context, id string) error

	// MarkFailed records a transient failure. The returned operation carries
	// the new retry count and is a dead letter once the count exceeds the
	// configured ceiling.
	MarkFailed(ctx context.Context, id string, cause error) (models.QueueOperation, error)

	// Reject dead-letters the operation immediately. Used for permanent
	// validation failures that must never be retried automatically.
	Reject(ctx context.Context, id string, reason string) error

	// Requeue enqueues an engine-generated operation, bypassing the
	// preference gating.
	Requeue(ctx context.Context, op models.QueueOperation) error

	// PendingFor lists the queued, non dead-letter operations of one record.
	PendingFor(ctx context.Context, entity models.EntityType, localID string) ([]models.QueueOperation, error)

	// RetryDeadLetter puts a dead letter back into the queue with a fresh
	// retry budget.
	RetryDeadLetter(ctx context.Context, id string) (models.QueueOperation, error)

	DeadLetters(ctx context.Context) ([]models.QueueOperation, error)
	Counts(ctx context.Context) (models.QueueCounts, error)

	// Recover checks the persisted queue and rebuilds it from the local
	// store when it cannot be decoded. It also re-enqueues pending records
	// that lost their operation. It returns the number of operations
	// written.
	Recover(ctx context.Context) (int, error)
}

// ConflictResolver decides how a server conflict is settled. It has no side
// effects.
type ConflictResolver interface {
	Resolve(in ConflictInput) models.Resolution
}

// SyncManager drives sync cycles and owns the published [models.SyncState].
type SyncManager interface {
	// Run serves sync requests and retry timers until ctx is done.
	Run(ctx context.Context) error

	// RequestSync asks for a cycle. It returns false when gating (offline,
	// wifi-only on another link) rejects the request. A request made while
	// a cycle is running is coalesced into one follow-up cycle.
	RequestSync(trigger Trigger) bool

	// SyncOnce runs a cycle in the calling goroutine.
	SyncOnce(ctx context.Context, trigger Trigger) (models.SyncPhase, error)

	// Cancel aborts the running cycle. Unacknowledged operations stay
	// queued and are not counted as failures.
	Cancel()

	EnterBackground()
	EnterForeground()

	// SetNetworkStatus feeds connectivity transitions into the manager.
	SetNetworkStatus(status models.NetworkStatus)

	// SetNextScheduledSync records the next timer tick in the state.
	SetNextScheduledSync(next *time.Time)

	// Refresh recomputes counts from the queue and the local store and
	// publishes the result.
	Refresh(ctx context.Context) models.SyncState

	State() models.SyncState
	Subscribe() (<-chan models.SyncState, func())
}

// BackgroundScheduler triggers periodic cycles according to preferences.
type BackgroundScheduler interface {
	Run(ctx context.Context) error
}

// NotificationBridge applies push notifications locally and triggers an
// out-of-band sync.
type NotificationBridge interface {
	HandleNotification(ctx context.Context, n models.PushNotification) error
}

// RecordService is the UI-facing entry point for business record edits.
// Every edit is written to the local store first and then queued.
type RecordService interface {
	Create(ctx context.Context, entity models.EntityType, data []byte) (models.LocalRecord, error)
	Update(ctx context.Context, entity models.EntityType, localID string, data []byte) (models.LocalRecord, error)
	Delete(ctx context.Context, entity models.EntityType, localID string) error
	Get(ctx context.Context, entity models.EntityType, localID string) (models.LocalRecord, error)
	List(ctx context.Context, entity models.EntityType) ([]models.LocalRecord, error)

	// ResolveConflict settles a record the resolver left for the user.
	ResolveConflict(ctx context.Context, entity models.EntityType, localID string, policy models.ConflictPolicy) (models.LocalRecord, error)
}

// PreferencesSource exposes the active sync preferences.
type PreferencesSource interface {
	Current() models.SyncPreferences
	Subscribe() (<-chan models.SyncPreferences, func())
}

// NetworkSource exposes connectivity.
type NetworkSource interface {
	Current() models.NetworkStatus
	Subscribe() (<-chan models.NetworkStatus, func())
}
