package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// configSource is one layer of configuration and where it came from.
type configSource struct {
	name string
	cfg  *StructuredConfig
}

// configBuilder layers environment, flags and an optional config file.
// Later layers override non-zero fields of earlier ones.
type configBuilder struct {
	args    []string
	sources []configSource
	err     error
}

func newConfigBuilder(args []string) *configBuilder {
	return &configBuilder{
		args:    args,
		sources: make([]configSource, 0, 3),
	}
}

func (b *configBuilder) add(name string, cfg *StructuredConfig, err error) *configBuilder {
	if err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("%s: %w", name, err))
		return b
	}
	b.sources = append(b.sources, configSource{name: name, cfg: cfg})
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	cfg := &StructuredConfig{}
	return b.add("environment", cfg, parseEnv(cfg))
}

func (b *configBuilder) withFlags() *configBuilder {
	cfg, err := ParseFlags(b.args)
	return b.add("flags", cfg, err)
}

// withFile loads the file named by the last layer that set ConfigFilePath.
func (b *configBuilder) withFile() *configBuilder {
	var path string
	for _, src := range b.sources {
		if src.cfg.ConfigFilePath != "" {
			path = src.cfg.ConfigFilePath
		}
	}
	if path == "" {
		return b
	}

	cfg, err := parseConfigFile(path)
	return b.add("file "+path, cfg, err)
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building config: %w", b.err)
	}

	merged := new(StructuredConfig)
	for _, src := range b.sources {
		if err := mergo.Merge(merged, src.cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging %s config: %w", src.name, err)
		}
	}

	return merged, merged.validate()
}
