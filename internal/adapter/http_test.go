// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-resto-sync/internal/config"
	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/utils"
	"github.com/MKhiriev/go-resto-sync/models"
)

const testSignKey = "test-sign-key"

func validToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateJWTToken("resto-sync", "downtown", time.Hour, testSignKey)
	require.NoError(t, err)
	return token.SignedString
}

// newTestAdapter creates an httpSyncAdapter pointed at the test server.
func newTestAdapter(t *testing.T, serverURL string) *httpSyncAdapter {
	t.Helper()
	a, err := NewHTTPSyncAdapter(config.Adapter{
		HTTPAddress:    serverURL,
		RequestTimeout: 2 * time.Second,
		Token:          validToken(t),
		MaxClockSkew:   5 * time.Minute,
	}, logger.Nop())
	require.NoError(t, err)
	return a.(*httpSyncAdapter)
}

func sampleRequest() models.BatchSyncRequest {
	return models.BatchSyncRequest{Operations: []models.BatchOperation{
		{
			OperationID: "op-1",
			EntityType:  models.EntityOrders,
			Kind:        models.OperationCreate,
			LocalID:     "order-1",
			Payload:     json.RawMessage(`{"status":"new"}`),
		},
		{
			OperationID: "op-2",
			EntityType:  models.EntityMenu,
			Kind:        models.OperationDelete,
			LocalID:     "menu-9",
		},
	}}
}

// ── constructor ──────────────────────────────────────────────────────────────

func TestNewHTTPSyncAdapter_InvalidAddress(t *testing.T) {
	_, err := NewHTTPSyncAdapter(config.Adapter{HTTPAddress: "  "}, logger.Nop())
	require.Error(t, err)
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"localhost:8080", "http://localhost:8080"},
		{"https://sync.example.com/", "https://sync.example.com"},
		{" http://10.0.0.1:9000 ", "http://10.0.0.1:9000"},
	}
	for _, tt := range tests {
		got, err := normalizeBaseURL(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got)
	}

	_, err := normalizeBaseURL("")
	assert.Error(t, err)
}

func TestSetToken_Trims(t *testing.T) {
	a := newTestAdapter(t, "http://localhost")
	a.SetToken("  abc  ")
	assert.Equal(t, "abc", a.Token())
}

// ── SyncBatch ────────────────────────────────────────────────────────────────

func TestSyncBatch_Success(t *testing.T) {
	serverTime := time.Now().UTC().Truncate(time.Second)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sync/batch", r.URL.Path)
		assert.Contains(t, r.Header.Get("Authorization"), "Bearer ")

		var req models.BatchSyncRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 2, req.Length)
		assert.Equal(t, "op-1", req.Operations[0].OperationID)

		_, _ = utils.WriteJSON(w, models.BatchSyncResponse{
			Results: []models.BatchResult{
				{OperationID: "op-1", Status: models.BatchApplied, ServerRecord: &models.ServerRecord{ServerID: "srv-1", LocalID: "order-1"}},
				{OperationID: "op-2", Status: models.BatchApplied},
			},
			ServerTime: serverTime,
			Length:     2,
		}, http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	resp, err := a.SyncBatch(context.Background(), sampleRequest())

	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "srv-1", resp.Results[0].ServerRecord.ServerID)
	assert.True(t, serverTime.Equal(resp.ServerTime))
}

func TestSyncBatch_StatusMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantErr   error
		fatal     bool
		transient bool
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized, true, false},
		{"forbidden", http.StatusForbidden, ErrForbidden, true, false},
		{"bad request", http.StatusBadRequest, ErrBadRequest, false, false},
		{"too large", http.StatusRequestEntityTooLarge, ErrBadRequest, false, false},
		{"internal", http.StatusInternalServerError, ErrTransient, false, true},
		{"bad gateway", http.StatusBadGateway, ErrTransient, false, true},
		{"unavailable", http.StatusServiceUnavailable, ErrTransient, false, true},
		{"throttled", http.StatusTooManyRequests, ErrTransient, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			}))
			defer srv.Close()

			_, err := newTestAdapter(t, srv.URL).SyncBatch(context.Background(), sampleRequest())

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.fatal, IsFatal(err))
			assert.Equal(t, tt.transient, IsTransient(err))
		})
	}
}

func TestSyncBatch_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL).SyncBatch(context.Background(), sampleRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 418")
	assert.False(t, IsFatal(err))
	assert.False(t, IsTransient(err))
}

func TestSyncBatch_ClockSkew(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Date", time.Now().Add(-2*time.Hour).UTC().Format(http.TimeFormat))
		_, _ = utils.WriteJSON(w, models.BatchSyncResponse{}, http.StatusOK)
	}))
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL).SyncBatch(context.Background(), sampleRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClockSkew)
	assert.True(t, IsFatal(err))
}

func TestSyncBatch_ClockSkewCheckedBeforeStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Date", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL).SyncBatch(context.Background(), sampleRequest())

	assert.ErrorIs(t, err, ErrClockSkew)
}

func TestSyncBatch_ExpiredTokenNeverSent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	expired, err := utils.GenerateJWTToken("resto-sync", "downtown", -time.Minute, testSignKey)
	require.NoError(t, err)
	a.SetToken(expired.SignedString)

	_, err = a.SyncBatch(context.Background(), sampleRequest())

	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.True(t, IsFatal(err))
	assert.Equal(t, int32(0), calls.Load())
}

func TestSyncBatch_MissingToken(t *testing.T) {
	a := newTestAdapter(t, "http://127.0.0.1:1")
	a.SetToken("")

	_, err := a.SyncBatch(context.Background(), sampleRequest())

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSyncBatch_NetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestAdapter(t, url).SyncBatch(context.Background(), sampleRequest())

	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestSyncBatch_TimeoutIsTransient(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	a := newTestAdapter(t, srv.URL)
	a.client.SetTimeout(50 * time.Millisecond)

	_, err := a.SyncBatch(context.Background(), sampleRequest())

	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestSyncBatch_CancelledIsNotTransient(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := newTestAdapter(t, srv.URL).SyncBatch(ctx, sampleRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsTransient(err))
	assert.False(t, IsFatal(err))
}

func TestSyncBatch_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":`))
	}))
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL).SyncBatch(context.Background(), sampleRequest())

	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestSyncBatch_LengthMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = utils.WriteJSON(w, models.BatchSyncResponse{
			Results: []models.BatchResult{{OperationID: "op-1", Status: models.BatchApplied}},
			Length:  3,
		}, http.StatusOK)
	}))
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL).SyncBatch(context.Background(), sampleRequest())

	assert.ErrorIs(t, err, ErrInvalidResponse)
}

// ── FetchRecords ─────────────────────────────────────────────────────────────

func TestFetchRecords_Success(t *testing.T) {
	serverTime := time.Now().UTC().Truncate(time.Second)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sync/records", r.URL.Path)
		assert.Contains(t, r.Header.Get("Authorization"), "Bearer ")

		var req models.FetchRecordsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 2, req.Length)

		_, _ = utils.WriteJSON(w, models.FetchRecordsResponse{
			Records: []models.ServerRecord{{
				ServerID:   "srv-1",
				EntityType: models.EntityOrders,
				Data:       json.RawMessage(`{"status":"ready"}`),
				UpdatedAt:  serverTime,
			}},
			Missing:    []models.RecordRef{req.Records[1]},
			ServerTime: serverTime,
			Length:     1,
		}, http.StatusOK)
	}))
	defer srv.Close()

	resp, err := newTestAdapter(t, srv.URL).FetchRecords(context.Background(), models.FetchRecordsRequest{
		Records: []models.RecordRef{
			{EntityType: models.EntityOrders, ServerID: "srv-1"},
			{EntityType: models.EntityOrders, ServerID: "srv-2"},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Records, 1)
	assert.JSONEq(t, `{"status":"ready"}`, string(resp.Records[0].Data))
	require.Len(t, resp.Missing, 1)
	assert.Equal(t, "srv-2", resp.Missing[0].ServerID)
}

func TestFetchRecords_Errors(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusUnauthorized)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if code := int(status.Load()); code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		_, _ = utils.WriteJSON(w, models.FetchRecordsResponse{Length: 2}, http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	req := models.FetchRecordsRequest{Records: []models.RecordRef{{EntityType: models.EntityOrders, ServerID: "srv-1"}}}

	_, err := a.FetchRecords(context.Background(), req)
	assert.True(t, IsFatal(err))

	status.Store(http.StatusServiceUnavailable)
	_, err = a.FetchRecords(context.Background(), req)
	assert.True(t, IsTransient(err))

	status.Store(http.StatusOK)
	_, err = a.FetchRecords(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	a.SetToken("")
	_, err = a.FetchRecords(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// ── Ping ─────────────────────────────────────────────────────────────────────

func TestPing(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		if healthy.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	require.NoError(t, a.Ping(context.Background()))

	healthy.Store(false)
	assert.True(t, IsTransient(a.Ping(context.Background())))
}
