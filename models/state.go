package models

import "time"

// SyncPhase is the state of the SyncManager state machine.
type SyncPhase string

const (
	PhaseIdle           SyncPhase = "idle"
	PhaseSyncing        SyncPhase = "syncing"
	PhaseSuccess        SyncPhase = "success"
	PhasePartialFailure SyncPhase = "partial_failure"
	PhaseRetryScheduled SyncPhase = "retry_scheduled"
	PhaseFatalFailure   SyncPhase = "fatal_failure"
)

// SyncState is the process-wide sync snapshot observed by the UI.
//
// It is never persisted: the engine derives it from the queue and the local
// store every time something changes. Values are copied to observers, so a
// snapshot never changes after it was published.
type SyncState struct {
	IsOnline           bool        `json:"is_online"`
	NetworkType        NetworkType `json:"network_type"`
	PendingChanges     int         `json:"pending_changes"`
	FailedSyncs        int         `json:"failed_syncs"`
	DeadLetters        int         `json:"dead_letters"`
	Conflicts          int         `json:"conflicts"`
	IsCurrentlySyncing bool        `json:"is_currently_syncing"`
	Phase              SyncPhase   `json:"phase"`
	LastSync           *time.Time  `json:"last_sync,omitempty"`
	NextScheduledSync  *time.Time  `json:"next_scheduled_sync,omitempty"`
	LastError          string      `json:"last_error,omitempty"`
}
