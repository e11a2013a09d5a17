package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateShotDB(); err != nil {
		return err
	}
	if err := c.validateConverter(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateShotDB() error {
	if c.ShotDB.BaseURL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/plateflow/config.toml"
		}
		return fmt.Errorf("shotdb.base_url is required. Edit %s (create with 'plateflow config init')", defaultPath)
	}
	if c.ShotDB.APIKey == "" {
		return errors.New("shotdb.api_key is required")
	}
	if c.ShotDB.ProjectID <= 0 {
		return errors.New("shotdb.project_id must be a positive identifier")
	}
	return nil
}

func (c *Config) validateConverter() error {
	if strings.TrimSpace(c.Converter.Binary) == "" {
		return errors.New("converter.binary must be set")
	}
	if c.Converter.MaxParallel < 0 {
		return errors.New("converter.max_parallel must be zero or positive")
	}
	if c.Converter.TimeoutSeconds < 0 {
		return errors.New("converter.timeout_seconds must be zero or positive")
	}
	if len(c.Converter.Colorspaces) == 0 {
		return errors.New("converter.colorspaces must list at least one colorspace")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
