package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), "none.env"), Lookup: env(nil)})
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "auto", cfg.Color)
	assert.Zero(t, cfg.MinimumRegionSize)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
}

func TestTOMLFile(t *testing.T) {
	path := write(t, "lexis.toml", `
environment = "production"
log_level = "debug"
color = "never"
minimum_region_size = 8192
workers = 3
metrics_file = "/tmp/lexis.prom"
`)
	cfg, err := Load(Options{File: path, EnvFile: filepath.Join(t.TempDir(), "none.env"), Lookup: env(nil)})
	require.NoError(t, err)
	assert.Equal(t, Config{
		Environment:       "production",
		LogLevel:          "debug",
		Color:             "never",
		MinimumRegionSize: 8192,
		Workers:           3,
		MetricsFile:       "/tmp/lexis.prom",
	}, *cfg)
}

func TestYAMLFile(t *testing.T) {
	path := write(t, "lexis.yml", "color: always\nworkers: 2\n")
	cfg, err := Load(Options{File: path, EnvFile: filepath.Join(t.TempDir(), "none.env"), Lookup: env(nil)})
	require.NoError(t, err)
	assert.Equal(t, "always", cfg.Color)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestPrecedence(t *testing.T) {
	file := write(t, "lexis.toml", "workers = 3\nlog_level = \"warn\"\ncolor = \"never\"\n")
	dotenv := write(t, ".env", "LEXIS_WORKERS=5\nLEXIS_LOG_LEVEL=error\n")

	cfg, err := Load(Options{
		File:    file,
		EnvFile: dotenv,
		Lookup:  env(map[string]string{"LEXIS_WORKERS": " 7 ", "LEXIS_MINIMUM_REGION_SIZE": "1024"}),
	})
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Workers, "process environment beats .env")
	assert.Equal(t, "error", cfg.LogLevel, ".env beats the config file")
	assert.Equal(t, "never", cfg.Color, "config file beats defaults")
	assert.Equal(t, 1024, cfg.MinimumRegionSize)
}

func TestErrors(t *testing.T) {
	none := filepath.Join(t.TempDir(), "none.env")

	_, err := Load(Options{File: write(t, "lexis.ini", "x=1"), EnvFile: none, Lookup: env(nil)})
	assert.ErrorContains(t, err, "unsupported format")

	_, err = Load(Options{File: write(t, "bad.toml", "workers = ["), EnvFile: none, Lookup: env(nil)})
	assert.ErrorContains(t, err, "parse")

	_, err = Load(Options{File: filepath.Join(t.TempDir(), "missing.toml"), EnvFile: none, Lookup: env(nil)})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(Options{EnvFile: none, Lookup: env(map[string]string{"LEXIS_WORKERS": "many"})})
	assert.ErrorContains(t, err, "LEXIS_WORKERS")

	_, err = Load(Options{EnvFile: none, Lookup: env(map[string]string{"LEXIS_COLOR": "rainbow"})})
	assert.ErrorContains(t, err, "color")

	_, err = Load(Options{EnvFile: none, Lookup: env(map[string]string{"LEXIS_MINIMUM_REGION_SIZE": "-1"})})
	assert.ErrorContains(t, err, "minimum_region_size")
}
