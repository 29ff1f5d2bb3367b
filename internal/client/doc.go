// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the device agent runtime.
//
// It wires the local store, preferences, network monitoring, the sync
// engine, the local device API and the terminal dashboard into a single
// process lifecycle.
package client
