// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package network reports device connectivity to the sync engine.
//
// A [Monitor] combines a [Checker] that decides whether the sync server is
// reachable with a [TypeDetector] that names the active link. It keeps only
// the last observed [models.NetworkStatus] and emits to subscribers on
// transitions. It never retries on its own; the polling loop in [Monitor.Run]
// and platform pushes through [Monitor.Set] are the only inputs.
package network
