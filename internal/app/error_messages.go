// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// sync server handlers and the device API.
//
// All Msg* constants are human-readable message strings written into HTTP
// error bodies when the underlying error is not meant for the caller.
package app

const (
	// MsgInvalidJSON is returned when a request body cannot be decoded.
	MsgInvalidJSON = "invalid JSON was passed"

	// MsgInvalidGzipBody is returned when a request declares gzip encoding
	// but the body is not a valid gzip stream.
	MsgInvalidGzipBody = "invalid gzip body"

	// MsgBatchTooLarge is returned when a batch request body exceeds the
	// accepted size.
	MsgBatchTooLarge = "batch body too large"

	// MsgDeadLettersUnavailable is returned when the dead-letter list cannot
	// be read from the local queue.
	MsgDeadLettersUnavailable = "error reading dead letters"

	// MsgRetryDeadLetterFailed is returned when a dead letter could not be
	// put back into the queue.
	MsgRetryDeadLetterFailed = "error retrying dead letter"

	// MsgNotificationNotApplied is returned when a push notification could
	// not be written to the local store.
	MsgNotificationNotApplied = "notification not applied"
)
