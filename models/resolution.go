package models

// ResolutionAction tells the sync manager how to apply a conflict decision.
type ResolutionAction string

const (
	// ResolveOverwriteLocal replaces the local copy with the server record.
	ResolveOverwriteLocal ResolutionAction = "overwrite_local"
	// ResolveDiscardLocal keeps the server record and drops the local
	// pending operation, leaving an audit entry behind.
	ResolveDiscardLocal ResolutionAction = "keep_server_discard_local"
	// ResolveRequeueLocal re-sends the local mutation with ForceOverwrite.
	ResolveRequeueLocal ResolutionAction = "requeue_local_force"
	// ResolveAcceptDelete applies a deletion, whichever side issued it.
	ResolveAcceptDelete ResolutionAction = "accept_delete"
	// ResolveAskUser parks the record in conflict status for manual review.
	ResolveAskUser ResolutionAction = "ask_user"
)

// Resolution is the output of the conflict resolver. It describes the change
// to make; applying it is the caller's job.
type Resolution struct {
	Action ResolutionAction `json:"action"`

	// Record is the local record as it should be stored after the decision.
	Record LocalRecord `json:"record"`

	// Requeue is the operation to enqueue again, set only for
	// ResolveRequeueLocal.
	Requeue *QueueOperation `json:"requeue,omitempty"`

	// Audit is the entry to retain when the local side was discarded.
	Audit *ConflictAuditEntry `json:"audit,omitempty"`
}
