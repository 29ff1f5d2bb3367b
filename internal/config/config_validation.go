// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks the merged [StructuredConfig] before it is projected.
// Role-specific requirements live on [ClientConfig] and [ServerConfig].
func (cfg *StructuredConfig) validate() error {
	if cfg.Sync.BatchSize < 0 || cfg.Sync.MaxRetries < 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, ":memory:") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.BatchSize <= 0 || cfg.Sync.MaxRetries <= 0 || cfg.Sync.BaseDelay <= 0 ||
		cfg.Sync.MaxDelay < cfg.Sync.BaseDelay {
		return ErrInvalidSyncConfigs
	}

	switch cfg.Sync.NetworkType {
	case "", "wifi", "cellular", "ethernet":
	default:
		return ErrInvalidNetworkType
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.TokenSignKey == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}
