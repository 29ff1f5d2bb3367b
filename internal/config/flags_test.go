package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		input    string
		want     NetAddress
		wantText string
		wantErr  bool
	}{
		{input: "localhost:8080", want: NetAddress{Host: "localhost", Port: 8080}, wantText: "localhost:8080"},
		{input: "127.0.0.1:7070", want: NetAddress{Host: "127.0.0.1", Port: 7070}, wantText: "127.0.0.1:7070"},
		{input: ":8080", want: NetAddress{Port: 8080}, wantText: ":8080"},
		{input: "[::1]:9090", want: NetAddress{Host: "::1", Port: 9090}, wantText: "[::1]:9090"},
		{input: "localhost8080", wantErr: true},
		{input: "host:port:extra", wantErr: true},
		{input: "localhost:abc", wantErr: true},
		{input: "localhost:0", wantErr: true},
		{input: "localhost:70000", wantErr: true},
		{input: "kitchen.local:8080", wantErr: true},
		{input: "", wantErr: true},
		{input: ":", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var addr NetAddress
			err := addr.Set(tt.input)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAddress)
				assert.Equal(t, NetAddress{}, addr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, addr)
			assert.Equal(t, tt.wantText, addr.String())
		})
	}
}

func TestNetAddress_StringUnset(t *testing.T) {
	assert.Empty(t, (&NetAddress{}).String())
}

// TestParseFlags tests the ParseFlags function
func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		validate func(t *testing.T, cfg *StructuredConfig)
	}{
		{
			name: "all flags set",
			args: []string{
				"-a", "localhost:8080",
				"-server", "http://sync.local:8080",
				"-device-address", "127.0.0.1:7070",
				"-d", "/var/lib/resto/agent.db",
				"-c", "/path/to/config.json",
				"-prefs", "/etc/resto/prefs.toml",
				"-log-file", "/var/log/resto-agent.log",
				"-token", "bearer-token",
				"-token-sign-key", "jwt_secret",
				"-token-issuer", "test_issuer",
				"-request-timeout", "30s",
				"-batch-size", "25",
				"-max-retries", "5",
				"-network-type", "cellular",
				"-token-duration", "48h",
				"-issue-token", "downtown",
			},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
				assert.Equal(t, "http://sync.local:8080", cfg.Adapter.HTTPAddress)
				assert.Equal(t, "127.0.0.1:7070", cfg.Device.Address)
				assert.Equal(t, "/var/lib/resto/agent.db", cfg.Storage.DB.DSN)
				assert.Equal(t, "/path/to/config.json", cfg.ConfigFilePath)
				assert.Equal(t, "/etc/resto/prefs.toml", cfg.Prefs.Path)
				assert.Equal(t, "/var/log/resto-agent.log", cfg.App.LogFile)
				assert.Equal(t, "bearer-token", cfg.Adapter.Token)
				assert.Equal(t, "jwt_secret", cfg.Server.TokenSignKey)
				assert.Equal(t, "test_issuer", cfg.Server.TokenIssuer)
				assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
				assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
				assert.Equal(t, 25, cfg.Sync.BatchSize)
				assert.Equal(t, 5, cfg.Sync.MaxRetries)
				assert.Equal(t, "cellular", cfg.Sync.NetworkType)
				assert.Equal(t, 48*time.Hour, cfg.Server.TokenDuration)
				assert.Equal(t, "downtown", cfg.Server.IssueTokenFor)
			},
		},
		{
			name: "config alias flag",
			args: []string{"-config", "/path/to/config.json"},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "/path/to/config.json", cfg.ConfigFilePath)
			},
		},
		{
			name: "no flags",
			args: []string{},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Empty(t, cfg.Server.HTTPAddress)
				assert.Empty(t, cfg.Device.Address)
				assert.Empty(t, cfg.Storage.DB.DSN)
				assert.Empty(t, cfg.ConfigFilePath)
				assert.Zero(t, cfg.Sync.BatchSize)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseFlags(tt.args)
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

// TestParseFlags_InvalidAddress tests ParseFlags with invalid addresses
func TestParseFlags_InvalidAddress(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "invalid server address format", args: []string{"-a", "invalid"}},
		{name: "invalid device address format", args: []string{"-device-address", "localhost"}},
		{name: "invalid port in server address", args: []string{"-a", "localhost:abc"}},
		{name: "unknown flag", args: []string{"-grpc-address", "localhost:9090"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseFlags(tt.args)
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}
