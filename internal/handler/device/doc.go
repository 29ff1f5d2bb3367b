// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package device is the loopback HTTP hook of the device agent. The
// platform push service and the OS connectivity callbacks post here, and
// local tooling reads the current sync state.
package device
