package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Device agent defaults, applied to zero-valued fields after merging.
const (
	DefaultBatchSize       = 50
	DefaultMaxRetries      = 3
	DefaultBaseDelay       = time.Second
	DefaultMaxDelay        = 5 * time.Minute
	DefaultBackgroundGrace = 30 * time.Second
	DefaultCheckInterval   = 10 * time.Second
	DefaultCheckTimeout    = 3 * time.Second
	DefaultMaxClockSkew    = 5 * time.Minute
	DefaultRequestTimeout  = 30 * time.Second
	DefaultDeviceAddress   = "127.0.0.1:7070"
	DefaultClientDSN       = "resto-sync.db"
	DefaultPrefsFile       = "sync-prefs.toml"
	DefaultClientLogFile   = "sync-agent.log"
)

// ClientConfig is the device agent view of [StructuredConfig].
type ClientConfig struct {
	App     App
	Storage Storage
	Adapter Adapter
	Sync    Sync
	Device  Device
	Prefs   Prefs
}

// GetClientConfig loads the merged configuration, fills defaults and
// validates the result for the device agent.
func GetClientConfig() (*ClientConfig, error) {
	structured, err := GetStructuredConfig()
	if err != nil {
		return nil, err
	}

	cfg := NewClientConfig(structured)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("client config: %w", err)
	}

	return cfg, nil
}

// NewClientConfig projects cfg into a [ClientConfig] with defaults applied.
// Relative file defaults are resolved next to the executable.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	c := &ClientConfig{
		App:     cfg.App,
		Storage: cfg.Storage,
		Adapter: cfg.Adapter,
		Sync:    cfg.Sync,
		Device:  cfg.Device,
		Prefs:   cfg.Prefs,
	}

	if c.Storage.DB.DSN == "" {
		c.Storage.DB.DSN = besideExecutable(DefaultClientDSN)
	}
	if c.Prefs.Path == "" {
		c.Prefs.Path = besideExecutable(DefaultPrefsFile)
	}
	if c.App.LogFile == "" {
		c.App.LogFile = besideExecutable(DefaultClientLogFile)
	}
	if c.Device.Address == "" {
		c.Device.Address = DefaultDeviceAddress
	}
	if c.Adapter.RequestTimeout == 0 {
		c.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if c.Adapter.MaxClockSkew == 0 {
		c.Adapter.MaxClockSkew = DefaultMaxClockSkew
	}

	s := &c.Sync
	setDefault(&s.BatchSize, DefaultBatchSize)
	setDefault(&s.MaxRetries, DefaultMaxRetries)
	setDefault(&s.BaseDelay, DefaultBaseDelay)
	setDefault(&s.MaxDelay, DefaultMaxDelay)
	setDefault(&s.BackgroundGrace, DefaultBackgroundGrace)
	setDefault(&s.CheckInterval, DefaultCheckInterval)
	setDefault(&s.CheckTimeout, DefaultCheckTimeout)

	return c
}

func setDefault[T int | time.Duration](v *T, def T) {
	if *v == 0 {
		*v = def
	}
}

func besideExecutable(name string) string {
	exe, err := os.Executable()
	if err != nil {
		return name
	}
	return filepath.Join(filepath.Dir(exe), name)
}
