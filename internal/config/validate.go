package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateDefaults(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutDir) == "" {
		return errors.New("paths.out_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateDefaults() error {
	for _, s := range c.Defaults.Selectors {
		if !strings.Contains(s, "=") {
			return fmt.Errorf("defaults.selectors entry %q must be group=value", s)
		}
	}
	for _, p := range c.Defaults.Params {
		if !strings.Contains(p, "=") {
			return fmt.Errorf("defaults.params entry %q must be name=value", p)
		}
	}
	return nil
}
