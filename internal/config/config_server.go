package config

import (
	"fmt"
	"time"
)

const (
	DefaultServerAddress = "localhost:8080"
	DefaultTokenIssuer   = "resto-sync"
	DefaultTokenDuration = 30 * 24 * time.Hour
	DefaultMaxBatchSize  = 500
)

// ServerConfig is the reference sync server view of [StructuredConfig].
type ServerConfig struct {
	App     App
	Storage Storage
	Server  Server
}

// GetServerConfig loads, fills defaults and validates the sync server config.
func GetServerConfig() (*ServerConfig, error) {
	structured, err := GetStructuredConfig()
	if err != nil {
		return nil, err
	}

	cfg := NewServerConfig(structured)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	return cfg, nil
}

// NewServerConfig projects cfg into a [ServerConfig] with defaults applied.
func NewServerConfig(cfg *StructuredConfig) *ServerConfig {
	s := &ServerConfig{
		App:     cfg.App,
		Storage: cfg.Storage,
		Server:  cfg.Server,
	}
	if s.Server.HTTPAddress == "" {
		s.Server.HTTPAddress = DefaultServerAddress
	}
	if s.Server.RequestTimeout == 0 {
		s.Server.RequestTimeout = DefaultRequestTimeout
	}
	if s.Server.TokenIssuer == "" {
		s.Server.TokenIssuer = DefaultTokenIssuer
	}
	if s.Server.TokenDuration == 0 {
		s.Server.TokenDuration = DefaultTokenDuration
	}
	if s.Server.MaxBatchSize <= 0 {
		s.Server.MaxBatchSize = DefaultMaxBatchSize
	}

	return s
}
