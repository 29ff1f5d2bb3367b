// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// SyncStatus tracks where a LocalRecord is in the sync lifecycle.
type SyncStatus string

const (
	SyncStatusSynced   SyncStatus = "synced"
	SyncStatusPending  SyncStatus = "pending"
	SyncStatusConflict SyncStatus = "conflict"
	SyncStatusFailed   SyncStatus = "failed"
)

// LocalRecord is a business record held in the device store together with its
// sync bookkeeping.
//
// ServerID is nil only while the record is a pending create that the server
// has never acknowledged.
type LocalRecord struct {
	LocalID         string          `json:"local_id"`
	EntityType      EntityType      `json:"entity_type"`
	ServerID        *string         `json:"server_id,omitempty"`
	Data            json.RawMessage `json:"data"`
	SyncStatus      SyncStatus      `json:"sync_status"`
	LastModifiedAt  time.Time       `json:"last_modified_at"`
	ServerUpdatedAt *time.Time      `json:"server_updated_at,omitempty"`
	Deleted         bool            `json:"deleted"`
	LastError       *string         `json:"last_error,omitempty"`
}

// IsDirty reports whether the record counts towards the user-visible
// pending changes. Records in conflict are excluded until resolved.
func (r LocalRecord) IsDirty() bool {
	return r.SyncStatus == SyncStatusPending || r.SyncStatus == SyncStatusFailed
}

// ConflictAuditEntry keeps the losing side of an automatically resolved
// conflict so the user can inspect what was discarded.
type ConflictAuditEntry struct {
	ID          string          `json:"id"`
	EntityType  EntityType      `json:"entity_type"`
	LocalID     string          `json:"local_id"`
	OperationID string          `json:"operation_id"`
	LocalData   json.RawMessage `json:"local_data,omitempty"`
	ServerData  json.RawMessage `json:"server_data,omitempty"`
	Policy      ConflictPolicy  `json:"policy"`
	Decision    string          `json:"decision"`
	CreatedAt   time.Time       `json:"created_at"`
}
