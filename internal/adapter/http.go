package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-resto-sync/internal/config"
	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/utils"
	"github.com/MKhiriev/go-resto-sync/models"
)

const (
	batchSyncPath    = "/api/sync/batch"
	fetchRecordsPath = "/api/sync/records"
	healthPath       = "/api/health"
)

type httpSyncAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	maxClockSkew time.Duration
	now          func() time.Time

	logger *logger.Logger
}

// NewHTTPSyncAdapter constructs the HTTP/JSON implementation of
// [SyncAdapter]. It normalises adapterCfg.HTTPAddress into a base URL and
// loads the configured bearer token.
//
// Returns an error if the address is empty or cannot be parsed as a URL.
func NewHTTPSyncAdapter(adapterCfg config.Adapter, logger *logger.Logger) (SyncAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	a := &httpSyncAdapter{
		client:       utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		maxClockSkew: adapterCfg.MaxClockSkew,
		now:          time.Now,
		logger:       logger.WithComponent("adapter"),
	}
	a.SetToken(adapterCfg.Token)

	return a, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [SyncAdapter].
func (h *httpSyncAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [SyncAdapter].
func (h *httpSyncAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// SyncBatch implements [SyncAdapter].
//
// Before sending, the token expiry is checked locally so an expired token
// surfaces as [ErrTokenExpired] instead of a round trip ending in 401. After
// the response arrives its Date header is compared with the device clock;
// a difference above the configured tolerance is [ErrClockSkew] whatever the
// status code.
func (h *httpSyncAdapter) SyncBatch(ctx context.Context, req models.BatchSyncRequest) (models.BatchSyncResponse, error) {
	if err := h.checkToken(); err != nil {
		return models.BatchSyncResponse{}, err
	}

	req.Length = len(req.Operations)

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(batchSyncPath)
	if err != nil {
		return models.BatchSyncResponse{}, requestError(ctx, "sync batch request", err)
	}

	if err = checkClockSkew(resp, h.now(), h.maxClockSkew); err != nil {
		return models.BatchSyncResponse{}, err
	}
	if err = mapHTTPError(resp); err != nil {
		return models.BatchSyncResponse{}, err
	}

	var out models.BatchSyncResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.BatchSyncResponse{}, fmt.Errorf("%w: decode: %w", ErrInvalidResponse, err)
	}
	if out.Length != len(out.Results) {
		return models.BatchSyncResponse{}, fmt.Errorf("%w: length %d does not match %d results", ErrInvalidResponse, out.Length, len(out.Results))
	}

	h.logger.Debug().
		Int("sent", req.Length).
		Int("results", len(out.Results)).
		Msg("batch synced")

	return out, nil
}

// FetchRecords implements [SyncAdapter]. Token and clock checks are the same
// as for [httpSyncAdapter.SyncBatch].
func (h *httpSyncAdapter) FetchRecords(ctx context.Context, req models.FetchRecordsRequest) (models.FetchRecordsResponse, error) {
	if err := h.checkToken(); err != nil {
		return models.FetchRecordsResponse{}, err
	}

	req.Length = len(req.Records)

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(fetchRecordsPath)
	if err != nil {
		return models.FetchRecordsResponse{}, requestError(ctx, "fetch records request", err)
	}

	if err = checkClockSkew(resp, h.now(), h.maxClockSkew); err != nil {
		return models.FetchRecordsResponse{}, err
	}
	if err = mapHTTPError(resp); err != nil {
		return models.FetchRecordsResponse{}, err
	}

	var out models.FetchRecordsResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.FetchRecordsResponse{}, fmt.Errorf("%w: decode: %w", ErrInvalidResponse, err)
	}
	if out.Length != len(out.Records) {
		return models.FetchRecordsResponse{}, fmt.Errorf("%w: length %d does not match %d records", ErrInvalidResponse, out.Length, len(out.Records))
	}

	h.logger.Debug().
		Int("requested", req.Length).
		Int("found", len(out.Records)).
		Int("missing", len(out.Missing)).
		Msg("records fetched")

	return out, nil
}

// Ping implements [SyncAdapter].
func (h *httpSyncAdapter) Ping(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get(healthPath)
	if err != nil {
		return requestError(ctx, "health request", err)
	}
	return mapHTTPError(resp)
}

func (h *httpSyncAdapter) checkToken() error {
	token := h.Token()
	if token == "" {
		return fmt.Errorf("%w: no token configured", ErrUnauthorized)
	}

	parsed, err := utils.ParseUnverifiedToken(token)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if parsed.ExpiresWithin(h.now(), 0) {
		return fmt.Errorf("%w: expired at %s", ErrTokenExpired, parsed.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return nil
}

func (h *httpSyncAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// requestError keeps caller cancellation distinguishable from a transport
// failure: the engine must not count a cancelled cycle as a failed attempt.
func requestError(ctx context.Context, what string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(ctxErr, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", what, ctxErr)
	}
	return fmt.Errorf("%w: %s: %w", ErrTransient, what, err)
}
