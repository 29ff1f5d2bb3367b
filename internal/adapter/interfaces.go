// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the device-side transport to the batch-sync
// server.
//
// The primary abstraction is [SyncAdapter], which decouples the sync engine
// from the underlying protocol. The package ships an HTTP/JSON implementation
// ([NewHTTPSyncAdapter]) built on resty.
//
// Transport failures are mapped to the sentinel errors in errors.go so the
// engine can tell a cycle-aborting failure ([IsFatal]) from one that should
// be retried with backoff ([IsTransient]) using [errors.Is].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-resto-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/sync_adapter_mock.go -package=mock

// SyncAdapter sends queued operations to the remote batch-sync endpoint and
// pulls server copies of records whose local state is provisional.
type SyncAdapter interface {
	// SetToken stores the bearer token attached to every request.
	SetToken(token string)

	// Token returns the bearer token currently held, or "".
	Token() string

	// SyncBatch posts req to POST /api/sync/batch and returns the
	// per-operation results. A non-nil error means no result can be trusted:
	// the whole batch stays queued.
	SyncBatch(ctx context.Context, req models.BatchSyncRequest) (models.BatchSyncResponse, error)

	// FetchRecords posts req to POST /api/sync/records and returns the
	// current server copies. Records the server does not know are listed in
	// Missing.
	FetchRecords(ctx context.Context, req models.FetchRecordsRequest) (models.FetchRecordsResponse, error)

	// Ping checks that the sync server answers GET /api/health.
	Ping(ctx context.Context) error
}
