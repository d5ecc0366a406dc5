package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 60*time.Second, cfg.Generator.Timeout)
	assert.Contains(t, cfg.Dataset.Departments, "BSC CSIT")
	assert.Contains(t, cfg.Dataset.Departments, "BIT")
	assert.Equal(t, "sqlite3", cfg.HistoryDriverName())
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pkonnect.yaml")
	content := `
generator:
  model: gemma:2b
  timeout: 30s
dataset:
  data_dir: records
  departments:
    BIT: [bit_data.csv]
cache:
  driver: none
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("OLLAMA_URL", "http://ollama:11434/")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/pk?sslmode=disable")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemma:2b", cfg.Generator.Model)
	assert.Equal(t, 30*time.Second, cfg.Generator.Timeout)
	assert.Equal(t, "http://ollama:11434", cfg.Generator.BaseURL)
	assert.Equal(t, filepath.Join(dir, "records"), cfg.Dataset.DataDir)
	assert.Equal(t, map[string][]string{"BIT": {"bit_data.csv"}}, cfg.Dataset.Departments)
	assert.Equal(t, "none", cfg.Cache.Driver)
	assert.Equal(t, "postgres", cfg.History.Driver)
	assert.Equal(t, "postgres", cfg.HistoryDriverName())
	assert.Equal(t, "postgres://u:p@db/pk?sslmode=disable", cfg.HistoryDSN())
}

func TestLoad_DepartmentsReplaceDefaults(t *testing.T) {
	dir := t.TempDir()

	only := filepath.Join(dir, "only-bit.yaml")
	require.NoError(t, os.WriteFile(only, []byte("dataset: {departments: {BIT: [bit_data.csv]}}\n"), 0o644))

	cfg, err := Load(only)
	require.NoError(t, err)
	assert.NotContains(t, cfg.Dataset.Departments, "BSC CSIT")
	assert.Equal(t, []string{"bit_data.csv"}, cfg.Dataset.Departments["BIT"])

	none := filepath.Join(dir, "no-departments.yaml")
	require.NoError(t, os.WriteFile(none, []byte("dataset: {data_dir: records}\n"), 0o644))

	cfg, err = Load(none)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Dataset.Departments, cfg.Dataset.Departments)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"no model", func(c *Config) { c.Generator.Model = "" }},
		{"no timeout", func(c *Config) { c.Generator.Timeout = 0 }},
		{"no departments", func(c *Config) { c.Dataset.Departments = nil }},
		{"bad cache", func(c *Config) { c.Cache.Driver = "memcached" }},
		{"bad history", func(c *Config) { c.History.Driver = "mysql" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestIsExitWord(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.IsExitWord("quit"))
	assert.True(t, cfg.IsExitWord("  EXIT "))
	assert.False(t, cfg.IsExitWord("exiting"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
