package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-resto-sync/internal/service"
	"github.com/MKhiriev/go-resto-sync/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrEmptyBatch:              http.StatusBadRequest,
	service.ErrBatchLengthMismatch:     http.StatusBadRequest,
	service.ErrBatchTooLarge:           http.StatusRequestEntityTooLarge,
	service.ErrEmptyAccountID:          http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,

	store.ErrUnknownCollection: http.StatusBadRequest,
	store.ErrRetryable:         http.StatusServiceUnavailable,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

// statusFromError maps err to the HTTP status the device adapter
// understands: 4xx stops the cycle, 5xx is retried with backoff.
func statusFromError(err error) int {
	// retryable wins over the concrete sql failure it wraps
	if errors.Is(err, store.ErrRetryable) {
		return http.StatusServiceUnavailable
	}
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
