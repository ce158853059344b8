package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "data/input", cfg.Paths.InputDir)
	assert.Equal(t, "customer_id", cfg.Pipeline.JoinKey)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }},
		{name: "bad log output", mutate: func(c *Config) { c.Logging.Output = "syslog" }},
		{name: "bad chart type", mutate: func(c *Config) { c.Pipeline.ChartType = "scatter" }},
		{name: "bad from address", mutate: func(c *Config) { c.Mail.From = "not-an-email" }},
		{name: "bad recipient", mutate: func(c *Config) { c.Mail.To = []string{"nope"} }},
		{name: "empty input dir", mutate: func(c *Config) { c.Paths.InputDir = "" }},
		{name: "zero debounce", mutate: func(c *Config) { c.Watch.Debounce = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestMailEnabled(t *testing.T) {
	var m MailConfig
	assert.False(t, m.Enabled())

	m = MailConfig{APIKey: "k", From: "a@b.test", To: []string{"c@d.test"}}
	assert.True(t, m.Enabled())

	m.To = nil
	assert.False(t, m.Enabled())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := "logging:\n  level: debug\npipeline:\n  chart_type: pie\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "pie", cfg.Pipeline.ChartType)
	// Untouched values keep their defaults
	assert.Equal(t, "report.xlsx", cfg.Pipeline.ReportName)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := "logging:\n  level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("SHEET_LOGGING_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestNewPaths(t *testing.T) {
	base := t.TempDir()
	paths, err := NewPaths(PathsConfig{
		BaseDir:   base,
		InputDir:  "in",
		OutputDir: "/absolute/out",
		LogsDir:   "logs",
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "in"), paths.InputDir)
	assert.Equal(t, "/absolute/out", paths.OutputDir, "absolute paths pass through")
	assert.Equal(t, filepath.Join(base, "in", "sales.csv"), paths.GetInputPath("sales.csv"))
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths, err := NewPaths(PathsConfig{BaseDir: base, InputDir: "in", OutputDir: "out", LogsDir: "logs"})
	require.NoError(t, err)

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{"in", "out", "logs"} {
		info, err := os.Stat(filepath.Join(base, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
