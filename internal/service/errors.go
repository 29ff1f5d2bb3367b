package service

import "errors"

var (
	ErrQueueDisabled         = errors.New("queueing is disabled for this collection")
	ErrInvalidPayload        = errors.New("record data must be a JSON object")
	ErrRecordDeleted         = errors.New("record is deleted")
	ErrRecordInConflict      = errors.New("record is in conflict and must be resolved first")
	ErrNotInConflict         = errors.New("record is not in conflict")
	ErrUnknownPolicy         = errors.New("unknown conflict policy")
	ErrSyncCancelled         = errors.New("sync cycle cancelled")
	ErrSyncGated             = errors.New("sync not allowed on current network")
	ErrSyncInProgress        = errors.New("sync already in progress")
	ErrInvalidTransition     = errors.New("invalid sync phase transition")
	ErrMissingResult         = errors.New("server returned no result for operation")
	ErrEmptyNotification     = errors.New("notification has no order id")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	ErrEmptyBatch              = errors.New("batch has no operations")
	ErrBatchLengthMismatch     = errors.New("batch length does not match operations")
	ErrBatchTooLarge           = errors.New("batch exceeds maximum size")
	ErrEmptyAccountID          = errors.New("no account id was given")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")
)
