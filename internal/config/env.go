// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// envOverridePrefix marks variables that win over their unprefixed twin.
// RESTO_SYNC_BATCH_SIZE beats SYNC_BATCH_SIZE, so the agent and the server
// can run on one host with a shared environment.
const envOverridePrefix = "RESTO_"

// parseEnv fills cfg from the process environment using the env tags on
// [StructuredConfig].
func parseEnv(cfg *StructuredConfig) error {
	return parseEnvFrom(cfg, os.Environ())
}

func parseEnvFrom(cfg *StructuredConfig, environ []string) error {
	opts := env.Options{Environment: resolveEnviron(environ)}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("error reading config from environment: %w", err)
	}
	return nil
}

// resolveEnviron turns KEY=VALUE pairs into a map, applying prefixed
// overrides after the plain names regardless of their order.
func resolveEnviron(environ []string) map[string]string {
	vars := make(map[string]string, len(environ))
	overrides := make(map[string]string)
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if name, found := strings.CutPrefix(k, envOverridePrefix); found && name != "" {
			overrides[name] = v
			continue
		}
		vars[k] = v
	}
	for k, v := range overrides {
		vars[k] = v
	}
	return vars
}
