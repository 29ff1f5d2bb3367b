package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// parseConfigFile reads a config file in the format named by its
// extension. Anything that is not .toml is read as JSON.
func parseConfigFile(path string) (*StructuredConfig, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return parseTOML(path)
	}
	return parseJSON(path)
}

// parseTOML accepts the same keys as the JSON file, so
//
//	[sync]
//	batch_size = 50
//	base_delay = "2s"
//
// means the same as {"sync": {"batch_size": 50, "base_delay": "2s"}}.
func parseTOML(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading a toml file: %w", err)
	}

	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("error decoding toml configs: %w", err)
	}

	asJSON, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("error converting toml configs: %w", err)
	}
	return decodeJSON(bytes.NewReader(asJSON))
}
