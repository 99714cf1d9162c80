package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hay-kot/criterio"
)

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = errs.Append("color", fmt.Errorf("must be one of auto, always, never; got %q", c.Color))
	}

	if strings.ContainsAny(c.Prompt, "\r\n") {
		errs = errs.Append("prompt", fmt.Errorf("must be a single line"))
	}

	return errs.ToError()
}

// ValidateDeep validates the configuration and the config file location.
// An empty configPath skips the file check.
func (c *Config) ValidateDeep(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		c.Validate(),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}
