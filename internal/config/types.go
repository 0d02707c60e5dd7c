// Package config provides configuration loading for the codec and its
// tooling using Viper. Configuration is loaded from YAML files with
// automatic environment variable binding.
//
// Environment variables use the CDNS_ prefix and underscore-separated
// keys:
//   - CDNS_OUTPUT_FORMAT -> output.format
//   - CDNS_INSPECT_ENABLED -> inspect.enabled
//   - CDNS_INSPECT_HOST -> inspect.host
package config

import (
	"os"
	"strings"
)

// OutputConfig holds the output.format setting, which Load defaults to
// "text" and validates. cmd/cdns-debug does not read it: its rendering
// is chosen by the --json flag.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format" json:"format"` // "text" or "json"
}

// KeyOffsetOverride names a record type and an indexed-map key offset
// for it. Load reads these entries from key_offsets and validates them
// (non-empty record_type, offset of 0 or 1); the codec in internal/cdns
// does not consult them, so decoding always uses each record type's
// built-in key offset.
type KeyOffsetOverride struct {
	RecordType string `yaml:"record_type" mapstructure:"record_type" json:"record_type"`
	Offset     int    `yaml:"offset"      mapstructure:"offset"      json:"offset"`
}

// InspectConfig contains the optional HTTP debug server settings.
//
// Note: APIKey is intentionally treated as a secret and should not be
// returned by inspect endpoints.
type InspectConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Host    string `yaml:"host"    mapstructure:"host"`
	Port    int    `yaml:"port"    mapstructure:"port"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level            string            `yaml:"level"             mapstructure:"level"             json:"level"`
	Structured       bool              `yaml:"structured"        mapstructure:"structured"        json:"structured"`
	StructuredFormat string            `yaml:"structured_format" mapstructure:"structured_format" json:"structured_format"`
	IncludePID       bool              `yaml:"include_pid"       mapstructure:"include_pid"       json:"include_pid"`
	ExtraFields      map[string]string `yaml:"extra_fields"      mapstructure:"extra_fields"      json:"extra_fields,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	Output     OutputConfig        `yaml:"output"      mapstructure:"output"`
	KeyOffsets []KeyOffsetOverride `yaml:"key_offsets" mapstructure:"key_offsets"`
	Logging    LoggingConfig       `yaml:"logging"     mapstructure:"logging"`
	Inspect    InspectConfig       `yaml:"inspect"     mapstructure:"inspect"`
}

// ResolveConfigPath determines the config file path from flag or environment.
func ResolveConfigPath(flagValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	if v := strings.TrimSpace(os.Getenv("CDNS_CONFIG")); v != "" {
		return v
	}
	return ""
}

// Load loads configuration from a YAML file with environment variable overrides.
// This is the main entry point for loading configuration.
//
// Configuration priority (highest to lowest):
//  1. Environment variables (CDNS_*)
//  2. Config file values
//  3. Default values
func Load(path string) (*Config, error) {
	return loadFromSource(path)
}
