// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// BatchStatus is the per-operation outcome reported by the batch endpoint.
type BatchStatus string

const (
	BatchApplied  BatchStatus = "applied"
	BatchConflict BatchStatus = "conflict"
	BatchRejected BatchStatus = "rejected"
)

// BatchOperation is the wire form of a [QueueOperation].
type BatchOperation struct {
	OperationID         string          `json:"operation_id"`
	EntityType          EntityType      `json:"entity_type"`
	Kind                OperationKind   `json:"kind"`
	LocalID             string          `json:"local_id"`
	ServerID            *string         `json:"server_id,omitempty"`
	Payload             json.RawMessage `json:"payload,omitempty"`
	ForceOverwrite      bool            `json:"force_overwrite,omitempty"`
	BaseServerUpdatedAt *time.Time      `json:"base_server_updated_at,omitempty"`
}

// BatchSyncRequest is sent to POST /api/sync/batch.
type BatchSyncRequest struct {
	Operations []BatchOperation `json:"operations"`

	// Length is the number of entries in Operations.
	Length int `json:"length"`
}

// ServerRecord is the authoritative server copy of a record.
type ServerRecord struct {
	ServerID   string          `json:"server_id"`
	LocalID    string          `json:"local_id"`
	EntityType EntityType      `json:"entity_type"`
	Data       json.RawMessage `json:"data,omitempty"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Deleted    bool            `json:"deleted"`
}

// BatchResult is the outcome of one operation.
type BatchResult struct {
	OperationID  string        `json:"operation_id"`
	Status       BatchStatus   `json:"status"`
	ServerRecord *ServerRecord `json:"server_record,omitempty"`
	Error        string        `json:"error,omitempty"`

	// Retryable marks a rejection caused by a transient server problem
	// rather than a business-rule failure.
	Retryable bool `json:"retryable,omitempty"`
}

// BatchSyncResponse is returned by POST /api/sync/batch.
type BatchSyncResponse struct {
	Results    []BatchResult `json:"results"`
	ServerTime time.Time     `json:"server_time"`
	Length     int           `json:"length"`
}

// RecordRef names one server record.
type RecordRef struct {
	EntityType EntityType `json:"entity_type"`
	ServerID   string     `json:"server_id"`
}

// FetchRecordsRequest is sent to POST /api/sync/records.
type FetchRecordsRequest struct {
	Records []RecordRef `json:"records"`

	// Length is the number of entries in Records.
	Length int `json:"length"`
}

// FetchRecordsResponse is returned by POST /api/sync/records. Records the
// server does not know are listed in Missing.
type FetchRecordsResponse struct {
	Records    []ServerRecord `json:"records"`
	Missing    []RecordRef    `json:"missing,omitempty"`
	ServerTime time.Time      `json:"server_time"`
	Length     int            `json:"length"`
}
