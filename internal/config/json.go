package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for the JSON file format.
// Durations are written as strings ("30s", "5m").
type StructuredJSONConfig struct {
	App struct {
		Version string `json:"version"`
		LogFile string `json:"log_file"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		TokenSignKey   string   `json:"token_sign_key"`
		TokenIssuer    string   `json:"token_issuer"`
		TokenDuration  Duration `json:"token_duration"`
		MaxBatchSize   int      `json:"max_batch_size"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		Token          string   `json:"token"`
		MaxClockSkew   Duration `json:"max_clock_skew"`
	} `json:"adapter,omitempty"`

	Sync struct {
		BatchSize       int      `json:"batch_size"`
		MaxRetries      int      `json:"max_retries"`
		BaseDelay       Duration `json:"base_delay"`
		MaxDelay        Duration `json:"max_delay"`
		BackgroundGrace Duration `json:"background_grace"`
		CheckInterval   Duration `json:"check_interval"`
		CheckTimeout    Duration `json:"check_timeout"`
		NetworkType     string   `json:"network_type"`
	} `json:"sync,omitempty"`

	Device struct {
		Address string `json:"address"`
	} `json:"device,omitempty"`

	Prefs struct {
		Path string `json:"path"`
	} `json:"prefs,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	return decodeJSON(jsonFile)
}

func decodeJSON(r io.Reader) (*StructuredConfig, error) {
	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(r).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &StructuredConfig{
		App: App{
			Version: jsonCfg.App.Version,
			LogFile: jsonCfg.App.LogFile,
		},
		Storage: Storage{
			DB: DB{DSN: jsonCfg.Storage.DB.DSN},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			TokenSignKey:   jsonCfg.Server.TokenSignKey,
			TokenIssuer:    jsonCfg.Server.TokenIssuer,
			TokenDuration:  time.Duration(jsonCfg.Server.TokenDuration),
			MaxBatchSize:   jsonCfg.Server.MaxBatchSize,
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			Token:          jsonCfg.Adapter.Token,
			MaxClockSkew:   time.Duration(jsonCfg.Adapter.MaxClockSkew),
		},
		Sync: Sync{
			BatchSize:       jsonCfg.Sync.BatchSize,
			MaxRetries:      jsonCfg.Sync.MaxRetries,
			BaseDelay:       time.Duration(jsonCfg.Sync.BaseDelay),
			MaxDelay:        time.Duration(jsonCfg.Sync.MaxDelay),
			BackgroundGrace: time.Duration(jsonCfg.Sync.BackgroundGrace),
			CheckInterval:   time.Duration(jsonCfg.Sync.CheckInterval),
			CheckTimeout:    time.Duration(jsonCfg.Sync.CheckTimeout),
			NetworkType:     jsonCfg.Sync.NetworkType,
		},
		Device: Device{Address: jsonCfg.Device.Address},
		Prefs:  Prefs{Path: jsonCfg.Prefs.Path},
	}, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as raw nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
