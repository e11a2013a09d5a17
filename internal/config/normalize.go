package config

import "strings"

// normalize expands path fields and fills empty values with defaults.
func (c *Config) normalize() error {
	defaults := Default()

	if strings.TrimSpace(c.Paths.ScriptDir) == "" {
		c.Paths.ScriptDir = defaults.Paths.ScriptDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaults.Paths.LogDir
	}
	if strings.TrimSpace(c.Paths.SheetDir) == "" {
		c.Paths.SheetDir = defaults.Paths.SheetDir
	}

	for _, field := range []*string{&c.Paths.ScriptDir, &c.Paths.LogDir, &c.Paths.SheetDir} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.ShotDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.ShotDB.BaseURL), "/")
	c.ShotDB.APIKey = strings.TrimSpace(c.ShotDB.APIKey)
	if c.ShotDB.TimeoutSeconds <= 0 {
		c.ShotDB.TimeoutSeconds = defaults.ShotDB.TimeoutSeconds
	}

	c.Converter.Binary = strings.TrimSpace(c.Converter.Binary)
	if c.Converter.Binary == "" {
		c.Converter.Binary = defaults.Converter.Binary
	}
	if strings.TrimSpace(c.Converter.DefaultCodec) == "" {
		c.Converter.DefaultCodec = defaults.Converter.DefaultCodec
	}
	if len(c.Converter.Colorspaces) == 0 {
		c.Converter.Colorspaces = defaults.Converter.Colorspaces
	}

	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaults.Logging.Format
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaults.Logging.Level
	}

	return nil
}
