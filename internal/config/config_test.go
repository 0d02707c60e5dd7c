package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigPath(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		envValue string
		want     string
	}{
		{"flag takes precedence", "/path/from/flag", "/path/from/env", "/path/from/flag"},
		{"env when no flag", "", "/path/from/env", "/path/from/env"},
		{"empty when neither", "", "", ""},
		{"whitespace flag", "  ", "/path/from/env", "/path/from/env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CDNS_CONFIG", tt.envValue)
			got := ResolveConfigPath(tt.flag)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.False(t, cfg.Inspect.Enabled)
	assert.Equal(t, "127.0.0.1", cfg.Inspect.Host)
	assert.Equal(t, 8080, cfg.Inspect.Port)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	content := `
output:
  format: "json"

key_offsets:
  - record_type: "block_preamble"
    offset: 0

logging:
  level: "DEBUG"
  structured: true
  structured_format: "keyvalue"

inspect:
  enabled: true
  host: "0.0.0.0"
  port: 9090
`
	dir := t.TempDir()
	path := filepath.Join(dir, "test-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output.Format)
	require.Len(t, cfg.KeyOffsets, 1)
	assert.Equal(t, "block_preamble", cfg.KeyOffsets[0].RecordType)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Structured)
	assert.Equal(t, "keyvalue", cfg.Logging.StructuredFormat)
	assert.True(t, cfg.Inspect.Enabled)
	assert.Equal(t, "0.0.0.0", cfg.Inspect.Host)
	assert.Equal(t, 9090, cfg.Inspect.Port)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path/to/config.yaml")
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: [invalid"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestNormalizeInvalidOutputFormat(t *testing.T) {
	content := `
output:
  format: "xml"
`
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestNormalizeInvalidInspectPort(t *testing.T) {
	content := `
inspect:
  enabled: true
  port: 0
`
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestNormalizeRejectsNegativeKeyOffset(t *testing.T) {
	content := `
key_offsets:
  - record_type: "block"
    offset: -1
`
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CDNS_OUTPUT_FORMAT", "json")
	t.Setenv("CDNS_INSPECT_ENABLED", "true")
	t.Setenv("CDNS_INSPECT_HOST", "192.168.1.1")
	t.Setenv("CDNS_INSPECT_PORT", "9999")
	t.Setenv("CDNS_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Inspect.Enabled)
	assert.Equal(t, "192.168.1.1", cfg.Inspect.Host)
	assert.Equal(t, 9999, cfg.Inspect.Port)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}
