// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-resto-sync/internal/adapter"
	"github.com/MKhiriev/go-resto-sync/internal/service"
)

// humanizeError turns engine errors into one short line for the status bar.
func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, service.ErrSyncGated):
		return "Sync is not allowed on the current network"
	case errors.Is(err, service.ErrQueueDisabled):
		return "Queueing is switched off for this collection"
	case errors.Is(err, service.ErrRecordInConflict):
		return "Resolve the conflict on this record first"
	case errors.Is(err, service.ErrInvalidPayload):
		return "Record data must be a JSON object"
	case errors.Is(err, adapter.ErrUnauthorized), errors.Is(err, adapter.ErrTokenExpired):
		return "The location token was refused, ask for a new one"
	case errors.Is(err, adapter.ErrClockSkew):
		return "The device clock is off, fix the time and sync again"
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "No network or the sync server is unreachable"
	}

	return err.Error()
}
