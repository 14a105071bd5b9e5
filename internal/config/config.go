// Package config loads remedy configuration with koanf.
//
// Settings come from a YAML file overlaid with REMEDY_-prefixed
// environment variables. The engine section is decoded here; the logging
// and telemetry sections are decoded by their owning packages through
// Config.Unmarshal so this package stays a leaf.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/knadh/koanf/v2"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the loaded configuration.
type Config struct {
	Engine EngineConfig `koanf:"engine"`

	k *koanf.Koanf
}

// EngineConfig tunes dispatch.
type EngineConfig struct {
	// MinConfidence discards proposals below the floor; dispatch then
	// continues with the next generator.
	MinConfidence      float64  `koanf:"min_confidence"`
	DisabledGenerators []string `koanf:"disabled_generators"`
	TemplateFallback   bool     `koanf:"template_fallback"`
	TemplatesFile      string   `koanf:"templates_file"`
}

// NewDefaultConfig returns defaults without reading any file.
func NewDefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MinConfidence:    0,
			TemplateFallback: true,
		},
	}
}

// Validate checks the engine section.
func (c *Config) Validate() error {
	e := c.Engine
	if e.MinConfidence < 0 || e.MinConfidence > 1 {
		return fmt.Errorf("%w: engine.min_confidence must be between 0 and 1, got %v", ErrInvalidConfig, e.MinConfidence)
	}
	for _, name := range e.DisabledGenerators {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: engine.disabled_generators contains an empty name", ErrInvalidConfig)
		}
	}
	if e.TemplatesFile != "" {
		if _, err := resolvePath(e.TemplatesFile); err != nil {
			return fmt.Errorf("%w: engine.templates_file: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// GeneratorDisabled reports whether name is listed in
// engine.disabled_generators.
func (e EngineConfig) GeneratorDisabled(name string) bool {
	return slices.Contains(e.DisabledGenerators, name)
}

// Unmarshal decodes the section at path into out. Keys absent from the
// loaded sources leave out's existing values alone, so callers pass a
// struct holding their defaults. A Config that was not loaded is a no-op.
func (c *Config) Unmarshal(path string, out any) error {
	if c == nil || c.k == nil || !c.k.Exists(path) {
		return nil
	}
	if err := c.k.Unmarshal(path, out); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", ErrInvalidConfig, path, err)
	}
	return nil
}

// Keys lists every loaded key, sorted.
func (c *Config) Keys() []string {
	if c == nil || c.k == nil {
		return nil
	}
	keys := c.k.Keys()
	slices.Sort(keys)
	return keys
}
