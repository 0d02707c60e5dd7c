// Package config provides configuration loading and validation for the
// codec and its tooling.
//
// Configuration is loaded with the following priority (highest to lowest):
//  1. Command-line flags (not handled here, see cmd/cdns-debug/main.go)
//  2. Environment variables (CDNS_* prefix)
//  3. YAML config file (if specified with --config)
//  4. Hardcoded defaults
//
// All configuration is validated during Load() to ensure correctness early.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// initConfig sets up the config loader with defaults, env binding, and config file.
func initConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()

	setDefaults(v)

	// Uses CDNS_ prefix: CDNS_INSPECT_HOST -> inspect.host
	v.SetEnvPrefix("CDNS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output.format", "text")

	v.SetDefault("logging.level", "INFO")
	v.SetDefault("logging.structured", false)
	v.SetDefault("logging.structured_format", "json")
	v.SetDefault("logging.include_pid", false)
	v.SetDefault("logging.extra_fields", map[string]string{})

	v.SetDefault("inspect.enabled", false)
	v.SetDefault("inspect.host", "127.0.0.1")
	v.SetDefault("inspect.port", 8080)
	v.SetDefault("inspect.api_key", "")
}

func loadFromSource(configPath string) (*Config, error) {
	v, err := initConfig(configPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}

	loadOutputConfig(v, cfg)
	loadKeyOffsetsConfig(v, cfg)
	loadLoggingConfig(v, cfg)
	loadInspectConfig(v, cfg)

	if err := normalizeConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadOutputConfig(v *viper.Viper, cfg *Config) {
	cfg.Output.Format = strings.ToLower(v.GetString("output.format"))
}

func loadKeyOffsetsConfig(v *viper.Viper, cfg *Config) {
	if err := v.UnmarshalKey("key_offsets", &cfg.KeyOffsets); err != nil {
		cfg.KeyOffsets = nil
	}
}

func loadLoggingConfig(v *viper.Viper, cfg *Config) {
	cfg.Logging.Level = strings.ToUpper(v.GetString("logging.level"))
	cfg.Logging.Structured = v.GetBool("logging.structured")
	cfg.Logging.StructuredFormat = v.GetString("logging.structured_format")
	cfg.Logging.IncludePID = v.GetBool("logging.include_pid")
	cfg.Logging.ExtraFields = v.GetStringMapString("logging.extra_fields")
}

func loadInspectConfig(v *viper.Viper, cfg *Config) {
	cfg.Inspect.Enabled = v.GetBool("inspect.enabled")
	cfg.Inspect.Host = v.GetString("inspect.host")
	cfg.Inspect.Port = v.GetInt("inspect.port")
	cfg.Inspect.APIKey = v.GetString("inspect.api_key")
}

// normalizeConfig validates and normalizes the configuration.
func normalizeConfig(cfg *Config) error {
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}
	if cfg.Output.Format != "text" && cfg.Output.Format != "json" {
		return errors.New("output.format must be \"text\" or \"json\"")
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	if cfg.Logging.StructuredFormat == "" {
		cfg.Logging.StructuredFormat = "json"
	}
	if cfg.Logging.ExtraFields == nil {
		cfg.Logging.ExtraFields = map[string]string{}
	}

	if cfg.Inspect.Host == "" {
		cfg.Inspect.Host = "127.0.0.1"
	}
	if cfg.Inspect.Enabled {
		if cfg.Inspect.Port <= 0 || cfg.Inspect.Port > 65535 {
			return errors.New("inspect.port must be 1..65535")
		}
	}

	for _, o := range cfg.KeyOffsets {
		if o.Offset < 0 {
			return fmt.Errorf("key_offsets: %s: offset must be >= 0", o.RecordType)
		}
	}

	return nil
}
