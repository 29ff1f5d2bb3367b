package service

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-resto-sync/models"
)

// ConflictInput is everything the resolver looks at.
type ConflictInput struct {
	// Local is the device copy of the record.
	Local models.LocalRecord
	// Operation is the queued mutation the server refused.
	Operation models.QueueOperation
	// Server is the authoritative copy returned with the conflict.
	Server models.ServerRecord
	Policy models.ConflictPolicy
	Now    time.Time
}

// AwaitingReview prefixes the audit decision of a conflict left to the user.
const AwaitingReview = "awaiting review"

type conflictResolver struct{}

func NewConflictResolver() ConflictResolver {
	return conflictResolver{}
}

// Resolve settles a conflict at record granularity: the winning side's
// record replaces the other one as a whole.
//
// Deletes win over concurrent updates whatever the policy. A record without
// local edits takes the server copy. When both sides changed, the policy
// picks the winner, and an unknown policy leaves the record in conflict for
// the user.
func (conflictResolver) Resolve(in ConflictInput) models.Resolution {
	local := in.Local
	local.EntityType = in.Operation.EntityType
	local.LocalID = in.Operation.EntityLocalID

	switch {
	case in.Server.Deleted:
		return models.Resolution{
			Action: models.ResolveAcceptDelete,
			Record: serverCopy(local, in.Server),
		}

	case in.Operation.Kind == models.OperationDelete:
		record := local
		record.Deleted = true
		record.SyncStatus = models.SyncStatusPending
		record.ServerID = &in.Server.ServerID
		record.ServerUpdatedAt = timeRef(in.Server.UpdatedAt)

		requeue := forcedRequeue(in.Operation, in.Server)
		requeue.Payload = nil
		return models.Resolution{
			Action:  models.ResolveAcceptDelete,
			Record:  record,
			Requeue: &requeue,
		}

	case local.SyncStatus == models.SyncStatusSynced:
		return models.Resolution{
			Action: models.ResolveOverwriteLocal,
			Record: serverCopy(local, in.Server),
		}
	}

	switch in.Policy {
	case models.PreferServer:
		return models.Resolution{
			Action: models.ResolveDiscardLocal,
			Record: serverCopy(local, in.Server),
			Audit: &models.ConflictAuditEntry{
				EntityType:  local.EntityType,
				LocalID:     local.LocalID,
				OperationID: in.Operation.ID,
				LocalData:   localSide(local, in.Operation),
				ServerData:  in.Server.Data,
				Policy:      in.Policy,
				Decision:    decision("server copy kept", local, in.Server),
				CreatedAt:   in.Now.UTC(),
			},
		}

	case models.PreferLocal:
		record := local
		record.SyncStatus = models.SyncStatusPending
		record.ServerID = &in.Server.ServerID
		record.ServerUpdatedAt = timeRef(in.Server.UpdatedAt)
		record.LastError = nil

		requeue := forcedRequeue(in.Operation, in.Server)
		requeue.Payload = localSide(local, in.Operation)
		return models.Resolution{
			Action:  models.ResolveRequeueLocal,
			Record:  record,
			Requeue: &requeue,
		}

	default:
		record := local
		record.SyncStatus = models.SyncStatusConflict
		record.ServerID = &in.Server.ServerID
		record.ServerUpdatedAt = timeRef(in.Server.UpdatedAt)
		msg := fmt.Sprintf("conflict with server version %s needs review", in.Server.UpdatedAt.UTC().Format(time.RFC3339))
		record.LastError = &msg
		// the server side is parked in the audit log until the user picks
		return models.Resolution{
			Action: models.ResolveAskUser,
			Record: record,
			Audit: &models.ConflictAuditEntry{
				EntityType:  local.EntityType,
				LocalID:     local.LocalID,
				OperationID: in.Operation.ID,
				LocalData:   localSide(local, in.Operation),
				ServerData:  in.Server.Data,
				Policy:      in.Policy,
				Decision:    decision(AwaitingReview, local, in.Server),
				CreatedAt:   in.Now.UTC(),
			},
		}
	}
}

func serverCopy(local models.LocalRecord, server models.ServerRecord) models.LocalRecord {
	record := local
	record.ServerID = &server.ServerID
	if len(server.Data) > 0 {
		record.Data = server.Data
	}
	record.SyncStatus = models.SyncStatusSynced
	record.ServerUpdatedAt = timeRef(server.UpdatedAt)
	record.Deleted = server.Deleted
	record.LastError = nil
	return record
}

// forcedRequeue copies op under a new identity: the server already recorded
// a conflict result for the original id.
func forcedRequeue(op models.QueueOperation, server models.ServerRecord) models.QueueOperation {
	return models.QueueOperation{
		EntityType:          op.EntityType,
		EntityLocalID:       op.EntityLocalID,
		Kind:                requeueKind(op.Kind),
		Payload:             op.Payload,
		ForceOverwrite:      true,
		BaseServerUpdatedAt: timeRef(server.UpdatedAt),
	}
}

// requeueKind turns a create into an update once the server has the record.
func requeueKind(kind models.OperationKind) models.OperationKind {
	if kind == models.OperationCreate {
		return models.OperationUpdate
	}
	return kind
}

func localSide(local models.LocalRecord, op models.QueueOperation) []byte {
	if len(local.Data) > 0 {
		return local.Data
	}
	return op.Payload
}

func decision(what string, local models.LocalRecord, server models.ServerRecord) string {
	return fmt.Sprintf("%s: local edit at %s, server update at %s",
		what,
		local.LastModifiedAt.UTC().Format(time.RFC3339),
		server.UpdatedAt.UTC().Format(time.RFC3339))
}

func timeRef(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	utc := t.UTC()
	return &utc
}
