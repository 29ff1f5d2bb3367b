// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container. It is populated
// by merging environment variables, command-line flags and an optional JSON
// or TOML file, then projected into [ClientConfig] or [ServerConfig].
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds process-wide settings (version, log file).
	App App `envPrefix:"APP_"`

	// Storage holds the database settings. The device agent uses a sqlite
	// file path, the sync server a PostgreSQL DSN.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the sync server listener and token settings.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the device-side settings for reaching the sync server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds the engine tuning knobs (batch size, retry budget, backoff).
	Sync Sync `envPrefix:"SYNC_"`

	// Device holds the loopback listener used for push hooks.
	Device Device `envPrefix:"DEVICE_"`

	// Prefs points at the user preferences file.
	Prefs Prefs `envPrefix:"PREFS_"`

	// ConfigFilePath is the optional path to a JSON or TOML configuration
	// file, taken from the CONFIG environment variable or the -c / -config
	// flag. The extension picks the format.
	ConfigFilePath string `env:"CONFIG"`
}

// App holds application-level settings.
type App struct {
	// Version is exposed by GET /api/version and the dashboard footer.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogFile is the rotating log file of the device agent.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// Storage groups the persistence settings.
type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// DB holds the connection string.
type DB struct {
	// DSN is a sqlite file path on the device, a PostgreSQL URI on the server.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds the sync server settings.
type Server struct {
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	// Env: SERVER_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`
	// Env: SERVER_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`
	// Env: SERVER_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`
	// IssueTokenFor makes the server print a token for the named location
	// and exit instead of serving.
	// Env: SERVER_ISSUE_TOKEN_FOR
	IssueTokenFor string `env:"ISSUE_TOKEN_FOR"`
	// MaxBatchSize is the largest accepted batch request.
	// Env: SERVER_MAX_BATCH_SIZE
	MaxBatchSize int `env:"MAX_BATCH_SIZE"`
}

// Adapter holds the settings of the outbound batch-sync client.
type Adapter struct {
	// HTTPAddress is the sync server base address, with or without scheme.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	// Token is the bearer token issued to this location.
	// Env: ADAPTER_TOKEN
	Token string `env:"TOKEN"`
	// MaxClockSkew is the largest tolerated difference between the device
	// clock and the server Date header.
	// Env: ADAPTER_MAX_CLOCK_SKEW
	MaxClockSkew time.Duration `env:"MAX_CLOCK_SKEW"`
}

// Sync holds the engine tuning knobs.
type Sync struct {
	// Env: SYNC_BATCH_SIZE
	BatchSize int `env:"BATCH_SIZE"`
	// MaxRetries is the retry ceiling before an operation is dead-lettered.
	// Env: SYNC_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`
	// Env: SYNC_BASE_DELAY
	BaseDelay time.Duration `env:"BASE_DELAY"`
	// Env: SYNC_MAX_DELAY
	MaxDelay time.Duration `env:"MAX_DELAY"`
	// BackgroundGrace is how long a cycle may keep running after the app
	// went to background.
	// Env: SYNC_BACKGROUND_GRACE
	BackgroundGrace time.Duration `env:"BACKGROUND_GRACE"`
	// Env: SYNC_CHECK_INTERVAL
	CheckInterval time.Duration `env:"CHECK_INTERVAL"`
	// Env: SYNC_CHECK_TIMEOUT
	CheckTimeout time.Duration `env:"CHECK_TIMEOUT"`
	// NetworkType overrides interface-based link detection
	// ("wifi", "cellular", "ethernet").
	// Env: SYNC_NETWORK_TYPE
	NetworkType string `env:"NETWORK_TYPE"`
}

// Device holds the loopback listener that receives push payloads.
type Device struct {
	// Env: DEVICE_ADDRESS
	Address string `env:"ADDRESS"`
}

// Prefs points at the preferences file.
type Prefs struct {
	// Env: PREFS_PATH
	Path string `env:"PATH"`
}

// GetStructuredConfig loads, merges and validates configuration from (in
// priority order, last non-zero wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON or TOML file (path resolved from sources 1 and 2)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder(os.Args[1:]).
		withEnv().
		withFlags().
		withFile().
		build()
}
