// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	// errNoSyncHandler is returned when the sync API router is missing.
	errNoSyncHandler = errors.New("server: sync api handler is not configured")
	// errNoListenAddress is returned when no listen address was configured.
	errNoListenAddress = errors.New("server: listen address is empty")
)
