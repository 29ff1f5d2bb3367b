package config

import "errors"

// Validation errors returned when a required configuration group is
// incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates a missing sync server address or
	// request timeout on the device agent.
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates an empty or in-memory DSN.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates a missing listen address or sign key.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidSyncConfigs indicates non-positive engine tuning values.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidNetworkType indicates an unknown SYNC_NETWORK_TYPE override.
	ErrInvalidNetworkType = errors.New("invalid network type override")
	// ErrInvalidAddress indicates a malformed -a or -device-address value.
	ErrInvalidAddress = errors.New("invalid listen address")
)
