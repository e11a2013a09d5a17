// Package config loads, validates, and normalizes plateflow configuration.
//
// Configuration lives in a single TOML file. Load resolves the file path,
// applies defaults for missing values, expands ~ in all path fields, and
// validates the result so downstream packages can trust the config without
// re-checking it.
package config
