// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// OperationKind is the mutation carried by a [QueueOperation].
type OperationKind string

const (
	OperationCreate OperationKind = "create"
	OperationUpdate OperationKind = "update"
	OperationDelete OperationKind = "delete"
)

// Valid reports whether k is a supported mutation kind.
func (k OperationKind) Valid() bool {
	return k == OperationCreate || k == OperationUpdate || k == OperationDelete
}

// QueueOperation is a single durable mutation waiting to be transmitted to the
// server. Operations for the same EntityLocalID are applied in enqueue order.
type QueueOperation struct {
	// ID uniquely identifies the operation. The server uses it as the
	// idempotency key, so a re-sent operation is never applied twice.
	ID string `json:"id"`

	// EntityType is the collection the mutated record belongs to.
	EntityType EntityType `json:"entity_type"`

	// EntityLocalID is the device-side identifier of the mutated record.
	EntityLocalID string `json:"entity_local_id"`

	// Kind is the mutation: create, update or delete.
	Kind OperationKind `json:"kind"`

	// Payload is the JSON object with the business fields to write.
	// Empty for deletes.
	Payload json.RawMessage `json:"payload,omitempty"`

	// EnqueuedAt is the time the operation was first queued. Coalescing keeps
	// the original value so ordering is preserved.
	EnqueuedAt time.Time `json:"enqueued_at"`

	// RetryCount is the number of transient failures seen so far.
	RetryCount int `json:"retry_count"`

	// LastError holds the message of the most recent failure, if any.
	LastError *string `json:"last_error,omitempty"`

	// ForceOverwrite asks the server to apply the payload even if its copy
	// is newer. Set when a conflict was resolved in favour of the device.
	ForceOverwrite bool `json:"force_overwrite,omitempty"`

	// BaseServerUpdatedAt is the server version the local edit was based on.
	// The server reports a conflict when its copy is newer than this value.
	BaseServerUpdatedAt *time.Time `json:"base_server_updated_at,omitempty"`

	// SentAt is the first time the operation was handed to the transport.
	// Once set the server may have applied it, so it is never coalesced
	// with or silently cancelled.
	SentAt *time.Time `json:"sent_at,omitempty"`

	// DeadLetter marks an operation that exhausted its retry budget or was
	// permanently rejected. Dead-lettered operations are never sent
	// automatically.
	DeadLetter bool `json:"dead_letter"`
}

// QueueCounts is an aggregate view of the queue used to derive SyncState.
type QueueCounts struct {
	Pending    int `json:"pending"`
	DeadLetter int `json:"dead_letter"`
}
