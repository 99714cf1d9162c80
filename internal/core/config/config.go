// Package config handles configuration loading and validation for memkv.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ColorMode controls styling of diagnostics.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// DefaultPrompt is shown before each line when stdin is a terminal.
const DefaultPrompt = "memkv> "

// Config holds the application configuration.
type Config struct {
	Prompt string      `yaml:"prompt"`
	Color  ColorMode   `yaml:"color"`
	Store  StoreConfig `yaml:"store"`
}

// StoreConfig holds value store settings.
type StoreConfig struct {
	// PurgeOnAccess deletes expired entries when an operation observes them.
	// nil means enabled.
	PurgeOnAccess *bool `yaml:"purge_on_access"`
}

// PurgeEnabled reports whether expired entries are purged on access.
func (s StoreConfig) PurgeEnabled() bool {
	return s.PurgeOnAccess == nil || *s.PurgeOnAccess
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Prompt: DefaultPrompt,
		Color:  ColorAuto,
	}
}

// Load reads configuration from the given path and applies defaults.
// If configPath is empty or doesn't exist, returns defaults. Values are not
// validated; call Validate before use.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Prompt == "" {
		c.Prompt = defaults.Prompt
	}
	if c.Color == "" {
		c.Color = defaults.Color
	}
}
