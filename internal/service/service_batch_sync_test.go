// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/mock"
	"github.com/MKhiriev/go-resto-sync/internal/store"
	"github.com/MKhiriev/go-resto-sync/models"
)

var batchNow = time.Date(2026, 7, 1, 8, 30, 0, 0, time.UTC)

func newTestBatchService(t *testing.T, maxBatch int) (*batchSyncService, *mock.MockServerSyncRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockServerSyncRepository(ctrl)
	svc := NewBatchSyncService(repo, &seqIDs{prefix: "srv-"}, maxBatch, logger.Nop()).(*batchSyncService)
	svc.now = func() time.Time { return batchNow }
	return svc, repo
}

func batch(ops ...models.BatchOperation) models.BatchSyncRequest {
	return models.BatchSyncRequest{Operations: ops, Length: len(ops)}
}

func TestBatchSyncService_ValidatesRequest(t *testing.T) {
	svc, _ := newTestBatchService(t, 2)
	op := models.BatchOperation{OperationID: "op-1", EntityType: models.EntityOrders, Kind: models.OperationDelete, LocalID: "o1"}

	_, err := svc.Apply(context.Background(), models.BatchSyncRequest{})
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = svc.Apply(context.Background(), models.BatchSyncRequest{Operations: []models.BatchOperation{op}, Length: 2})
	assert.ErrorIs(t, err, ErrBatchLengthMismatch)

	_, err = svc.Apply(context.Background(), batch(op, op, op))
	assert.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestBatchSyncService_DefaultMaxBatch(t *testing.T) {
	svc, _ := newTestBatchService(t, 0)
	assert.Equal(t, DefaultMaxBatchSize, svc.maxBatch)
}

func TestBatchSyncService_CreateAssignsServerIdentity(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestBatchService(t, 10)

	op := models.BatchOperation{
		OperationID: "op-1",
		EntityType:  models.EntityOrders,
		Kind:        models.OperationCreate,
		LocalID:     "o1",
		Payload:     json.RawMessage(`{"table":3}`),
	}

	repo.EXPECT().FindApplied(gomock.Any(), "op-1").Return(nil, nil)
	repo.EXPECT().FindRecord(gomock.Any(), models.EntityOrders, (*string)(nil), "o1").Return(nil, store.ErrRecordNotFound)
	repo.EXPECT().
		Commit(gomock.Any(), models.EntityOrders, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.EntityType, record *models.ServerRecord, res models.BatchResult) error {
			require.NotNil(t, record)
			assert.Equal(t, "srv-0001", record.ServerID)
			assert.Equal(t, batchNow, record.UpdatedAt)
			assert.Equal(t, models.BatchApplied, res.Status)
			assert.Equal(t, "op-1", res.OperationID)
			return nil
		})

	resp, err := svc.Apply(ctx, batch(op))
	require.NoError(t, err)
	assert.Equal(t, batchNow, resp.ServerTime)
	require.Equal(t, 1, resp.Length)
	res := resp.Results[0]
	assert.Equal(t, models.BatchApplied, res.Status)
	require.NotNil(t, res.ServerRecord)
	assert.Equal(t, "srv-0001", res.ServerRecord.ServerID)
	assert.JSONEq(t, `{"table":3}`, string(res.ServerRecord.Data))
}

func TestBatchSyncService_ReplayReturnsLedgerResult(t *testing.T) {
	svc, repo := newTestBatchService(t, 10)
	prior := &models.BatchResult{
		OperationID:  "op-1",
		Status:       models.BatchApplied,
		ServerRecord: &models.ServerRecord{ServerID: "srv-7", UpdatedAt: batchNow.Add(-time.Hour)},
	}

	repo.EXPECT().FindApplied(gomock.Any(), "op-1").Return(prior, nil)

	resp, err := svc.Apply(context.Background(), batch(models.BatchOperation{
		OperationID: "op-1",
		EntityType:  models.EntityOrders,
		Kind:        models.OperationUpdate,
		LocalID:     "o1",
		Payload:     json.RawMessage(`{"status":"paid"}`),
	}))
	require.NoError(t, err)
	assert.Equal(t, *prior, resp.Results[0])
}

func TestBatchSyncService_Update(t *testing.T) {
	base := batchNow.Add(-time.Hour)
	current := &models.ServerRecord{
		ServerID:   "srv-1",
		LocalID:    "o1",
		EntityType: models.EntityOrders,
		Data:       json.RawMessage(`{"table":3,"status":"open"}`),
		UpdatedAt:  base,
	}
	newer := *current
	newer.UpdatedAt = base.Add(time.Minute)
	deleted := *current
	deleted.Deleted = true

	tests := []struct {
		name       string
		current    *models.ServerRecord
		base       *time.Time
		force      bool
		wantStatus models.BatchStatus
		wantData   string
		wantCommit bool
	}{
		{
			name:       "base matches",
			current:    current,
			base:       &base,
			wantStatus: models.BatchApplied,
			wantData:   `{"table":3,"status":"paid"}`,
			wantCommit: true,
		},
		{
			name:       "no base skips the check",
			current:    &newer,
			wantStatus: models.BatchApplied,
			wantData:   `{"table":3,"status":"paid"}`,
			wantCommit: true,
		},
		{
			name:       "server moved on",
			current:    &newer,
			base:       &base,
			wantStatus: models.BatchConflict,
			wantData:   `{"table":3,"status":"open"}`,
		},
		{
			name:       "forced overwrite",
			current:    &newer,
			base:       &base,
			force:      true,
			wantStatus: models.BatchApplied,
			wantData:   `{"table":3,"status":"paid"}`,
			wantCommit: true,
		},
		{
			name:       "tombstone wins",
			current:    &deleted,
			base:       &base,
			force:      true,
			wantStatus: models.BatchConflict,
			wantData:   `{"table":3,"status":"open"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestBatchService(t, 10)
			op := models.BatchOperation{
				OperationID:         "op-2",
				EntityType:          models.EntityOrders,
				Kind:                models.OperationUpdate,
				LocalID:             "o1",
				ServerID:            strPtr("srv-1"),
				Payload:             json.RawMessage(`{"status":"paid"}`),
				ForceOverwrite:      tt.force,
				BaseServerUpdatedAt: tt.base,
			}

			repo.EXPECT().FindApplied(gomock.Any(), "op-2").Return(nil, nil)
			repo.EXPECT().FindRecord(gomock.Any(), models.EntityOrders, op.ServerID, "o1").Return(tt.current, nil)
			repo.EXPECT().
				Commit(gomock.Any(), models.EntityOrders, gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ models.EntityType, record *models.ServerRecord, _ models.BatchResult) error {
					if tt.wantCommit {
						require.NotNil(t, record)
						assert.True(t, record.UpdatedAt.After(tt.current.UpdatedAt))
					} else {
						assert.Nil(t, record, "a conflict writes only the ledger")
					}
					return nil
				})

			resp, err := svc.Apply(context.Background(), batch(op))
			require.NoError(t, err)
			res := resp.Results[0]
			assert.Equal(t, tt.wantStatus, res.Status)
			require.NotNil(t, res.ServerRecord)
			assert.JSONEq(t, tt.wantData, string(res.ServerRecord.Data))
		})
	}
}

func TestBatchSyncService_VersionIsMonotonic(t *testing.T) {
	svc, _ := newTestBatchService(t, 10)
	future := &models.ServerRecord{UpdatedAt: batchNow.Add(time.Hour)}

	v := svc.version(future)
	assert.True(t, v.After(future.UpdatedAt))
	assert.Equal(t, batchNow, svc.version(nil))
}

func TestBatchSyncService_Delete(t *testing.T) {
	current := &models.ServerRecord{ServerID: "srv-1", LocalID: "o1", EntityType: models.EntityStaff, UpdatedAt: batchNow.Add(-time.Hour)}
	tombstone := *current
	tombstone.Deleted = true

	tests := []struct {
		name       string
		current    *models.ServerRecord
		findErr    error
		wantRecord bool
		wantWrite  bool
	}{
		{name: "live record gets a tombstone", current: current, wantRecord: true, wantWrite: true},
		{name: "already deleted", current: &tombstone, wantRecord: true},
		{name: "unknown record", findErr: store.ErrRecordNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestBatchService(t, 10)
			op := models.BatchOperation{OperationID: "op-3", EntityType: models.EntityStaff, Kind: models.OperationDelete, LocalID: "o1"}

			repo.EXPECT().FindApplied(gomock.Any(), "op-3").Return(nil, nil)
			repo.EXPECT().FindRecord(gomock.Any(), models.EntityStaff, (*string)(nil), "o1").Return(tt.current, tt.findErr)
			repo.EXPECT().
				Commit(gomock.Any(), models.EntityStaff, gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ models.EntityType, record *models.ServerRecord, _ models.BatchResult) error {
					if tt.wantWrite {
						require.NotNil(t, record)
						assert.True(t, record.Deleted)
					} else {
						assert.Nil(t, record)
					}
					return nil
				})

			resp, err := svc.Apply(context.Background(), batch(op))
			require.NoError(t, err)
			res := resp.Results[0]
			assert.Equal(t, models.BatchApplied, res.Status)
			if tt.wantRecord {
				require.NotNil(t, res.ServerRecord)
				assert.True(t, res.ServerRecord.Deleted)
			} else {
				assert.Nil(t, res.ServerRecord)
			}
		})
	}
}

func TestBatchSyncService_RejectsInvalidOperations(t *testing.T) {
	tests := []struct {
		name    string
		op      models.BatchOperation
		wantErr string
	}{
		{
			name:    "unknown collection",
			op:      models.BatchOperation{OperationID: "op-4", EntityType: "tables", Kind: models.OperationCreate, LocalID: "t1", Payload: json.RawMessage(`{}`)},
			wantErr: `unknown entity type "tables"`,
		},
		{
			name:    "unknown kind",
			op:      models.BatchOperation{OperationID: "op-4", EntityType: models.EntityMenu, Kind: "upsert", LocalID: "m1", Payload: json.RawMessage(`{}`)},
			wantErr: `unknown operation kind "upsert"`,
		},
		{
			name:    "no record id",
			op:      models.BatchOperation{OperationID: "op-4", EntityType: models.EntityMenu, Kind: models.OperationCreate, Payload: json.RawMessage(`{}`)},
			wantErr: "record id is required",
		},
		{
			name:    "payload is not an object",
			op:      models.BatchOperation{OperationID: "op-4", EntityType: models.EntityMenu, Kind: models.OperationCreate, LocalID: "m1", Payload: json.RawMessage(`"soup"`)},
			wantErr: "payload must be a JSON object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestBatchService(t, 10)
			repo.EXPECT().FindApplied(gomock.Any(), "op-4").Return(nil, nil)
			repo.EXPECT().
				Commit(gomock.Any(), tt.op.EntityType, (*models.ServerRecord)(nil), gomock.Any()).
				Return(nil)

			resp, err := svc.Apply(context.Background(), batch(tt.op))
			require.NoError(t, err)
			assert.Equal(t, models.BatchRejected, resp.Results[0].Status)
			assert.Equal(t, tt.wantErr, resp.Results[0].Error)
			assert.False(t, resp.Results[0].Retryable)
		})
	}
}

func TestBatchSyncService_UpdateOfUnknownRecordIsRejected(t *testing.T) {
	svc, repo := newTestBatchService(t, 10)
	op := models.BatchOperation{OperationID: "op-5", EntityType: models.EntityOrders, Kind: models.OperationUpdate, LocalID: "o1", Payload: json.RawMessage(`{}`)}

	repo.EXPECT().FindApplied(gomock.Any(), "op-5").Return(nil, nil)
	repo.EXPECT().FindRecord(gomock.Any(), models.EntityOrders, (*string)(nil), "o1").Return(nil, store.ErrRecordNotFound)
	repo.EXPECT().Commit(gomock.Any(), models.EntityOrders, (*models.ServerRecord)(nil), gomock.Any()).Return(nil)

	resp, err := svc.Apply(context.Background(), batch(op))
	require.NoError(t, err)
	assert.Equal(t, models.BatchRejected, resp.Results[0].Status)
}

func TestBatchSyncService_StorageFailures(t *testing.T) {
	svc, repo := newTestBatchService(t, 10)
	retryable := models.BatchOperation{OperationID: "op-6", EntityType: models.EntityOrders, Kind: models.OperationDelete, LocalID: "o1"}
	broken := models.BatchOperation{OperationID: "op-7", EntityType: models.EntityOrders, Kind: models.OperationDelete, LocalID: "o2"}
	missingID := models.BatchOperation{EntityType: models.EntityOrders, Kind: models.OperationDelete, LocalID: "o3"}

	repo.EXPECT().FindApplied(gomock.Any(), "op-6").Return(nil, nil)
	repo.EXPECT().FindRecord(gomock.Any(), models.EntityOrders, (*string)(nil), "o1").Return(nil, store.ErrRecordNotFound)
	repo.EXPECT().Commit(gomock.Any(), models.EntityOrders, gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("%w: serialization failure", store.ErrRetryable))
	repo.EXPECT().FindApplied(gomock.Any(), "op-6").Return(nil, nil)

	repo.EXPECT().FindApplied(gomock.Any(), "op-7").Return(nil, errors.New("disk on fire"))

	resp, err := svc.Apply(context.Background(), batch(retryable, broken, missingID))
	require.NoError(t, err)
	require.Len(t, resp.Results, 3)

	assert.Equal(t, models.BatchRejected, resp.Results[0].Status)
	assert.True(t, resp.Results[0].Retryable)
	assert.Equal(t, "op-6", resp.Results[0].OperationID)

	assert.Equal(t, models.BatchRejected, resp.Results[1].Status)
	assert.False(t, resp.Results[1].Retryable)

	assert.Equal(t, models.BatchRejected, resp.Results[2].Status)
	assert.Equal(t, "operation id is required", resp.Results[2].Error)
}

func TestBatchSyncService_ConcurrentDeliveryReturnsWinner(t *testing.T) {
	svc, repo := newTestBatchService(t, 10)
	op := models.BatchOperation{OperationID: "op-8", EntityType: models.EntityOrders, Kind: models.OperationDelete, LocalID: "o1"}
	winner := &models.BatchResult{OperationID: "op-8", Status: models.BatchApplied}

	repo.EXPECT().FindApplied(gomock.Any(), "op-8").Return(nil, nil)
	repo.EXPECT().FindRecord(gomock.Any(), models.EntityOrders, (*string)(nil), "o1").Return(nil, store.ErrRecordNotFound)
	repo.EXPECT().Commit(gomock.Any(), models.EntityOrders, gomock.Any(), gomock.Any()).Return(errors.New("duplicate key value violates unique constraint"))
	repo.EXPECT().FindApplied(gomock.Any(), "op-8").Return(winner, nil)

	resp, err := svc.Apply(context.Background(), batch(op))
	require.NoError(t, err)
	assert.Equal(t, *winner, resp.Results[0])
}

func TestBatchSyncService_Fetch(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestBatchService(t, 3)

	known := &models.ServerRecord{
		ServerID:   "srv-1",
		LocalID:    "o1",
		EntityType: models.EntityOrders,
		Data:       json.RawMessage(`{"status":"open"}`),
		UpdatedAt:  batchNow.Add(-time.Minute),
	}
	gone := &models.ServerRecord{ServerID: "srv-2", EntityType: models.EntityOrders, Deleted: true, UpdatedAt: batchNow}

	srv1, srv2, srv3 := "srv-1", "srv-2", "srv-3"
	repo.EXPECT().FindRecord(gomock.Any(), models.EntityOrders, &srv1, "").Return(known, nil)
	repo.EXPECT().FindRecord(gomock.Any(), models.EntityOrders, &srv2, "").Return(gone, nil)
	repo.EXPECT().FindRecord(gomock.Any(), models.EntityOrders, &srv3, "").Return(nil, store.ErrRecordNotFound)

	refs := []models.RecordRef{
		{EntityType: models.EntityOrders, ServerID: "srv-1"},
		{EntityType: models.EntityOrders, ServerID: "srv-2"},
		{EntityType: models.EntityOrders, ServerID: "srv-3"},
	}
	resp, err := svc.Fetch(ctx, models.FetchRecordsRequest{Records: refs, Length: len(refs)})
	require.NoError(t, err)

	require.Len(t, resp.Records, 2)
	assert.Equal(t, 2, resp.Length)
	assert.Equal(t, "srv-1", resp.Records[0].ServerID)
	assert.True(t, resp.Records[1].Deleted, "tombstones are returned")
	assert.Equal(t, []models.RecordRef{refs[2]}, resp.Missing)
	assert.Equal(t, batchNow, resp.ServerTime)
}

func TestBatchSyncService_FetchValidatesRequest(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestBatchService(t, 2)
	ref := models.RecordRef{EntityType: models.EntityOrders, ServerID: "srv-1"}

	_, err := svc.Fetch(ctx, models.FetchRecordsRequest{})
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = svc.Fetch(ctx, models.FetchRecordsRequest{Records: []models.RecordRef{ref}, Length: 3})
	assert.ErrorIs(t, err, ErrBatchLengthMismatch)

	_, err = svc.Fetch(ctx, models.FetchRecordsRequest{Records: []models.RecordRef{ref, ref, ref}, Length: 3})
	assert.ErrorIs(t, err, ErrBatchTooLarge)

	// unknown collections never reach the store
	bad := models.RecordRef{EntityType: "payroll", ServerID: "x"}
	resp, err := svc.Fetch(ctx, models.FetchRecordsRequest{Records: []models.RecordRef{bad}, Length: 1})
	require.NoError(t, err)
	assert.Empty(t, resp.Records)
	assert.Equal(t, []models.RecordRef{bad}, resp.Missing)

	repo.EXPECT().FindRecord(gomock.Any(), models.EntityOrders, gomock.Any(), "").Return(nil, store.ErrExecutingQuery)
	_, err = svc.Fetch(ctx, models.FetchRecordsRequest{Records: []models.RecordRef{ref}, Length: 1})
	assert.ErrorIs(t, err, store.ErrExecutingQuery)
}
