package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, ",", cfg.Processing.Delimiter)
	assert.Equal(t, "utf-8", cfg.Processing.Encoding)
	assert.Equal(t, "0", cfg.Processing.FillValue)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "tabproc.yml")
	content := `
logging:
  level: debug
  output: both
  file_path: out/run.log
processing:
  delimiter: ";"
  encoding: latin-1
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg, err := LoadFrom(configFile)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "out/run.log", cfg.Logging.FilePath)
	assert.Equal(t, ";", cfg.Processing.Delimiter)
	assert.Equal(t, "latin-1", cfg.Processing.Encoding)
	// Untouched fields keep their defaults.
	assert.Equal(t, "0", cfg.Processing.FillValue)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "tabproc.yml")
	require.NoError(t, os.WriteFile(configFile, []byte("logging:\n  level: debug\n"), 0644))

	t.Setenv("TABPROC_LOGGING_LEVEL", "error")

	cfg, err := LoadFrom(configFile)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad level", "logging:\n  level: loud\n"},
		{"bad output", "logging:\n  output: syslog\n"},
		{"multi-char delimiter", "processing:\n  delimiter: '||'\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), "tabproc.yml")
			require.NoError(t, os.WriteFile(configFile, []byte(tt.content), 0644))

			_, err := LoadFrom(configFile)
			assert.Error(t, err)
		})
	}
}
