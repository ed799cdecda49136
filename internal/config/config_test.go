package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "*", cfg.Server.CORSOrigin)
	assert.InDelta(t, 0.9, cfg.Pipeline.Recognizer.EscalationThreshold, 1e-9)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"score threshold above one", func(c *Config) { c.Pipeline.Detector.ScoreThreshold = 1.5 }},
		{"negative escalation threshold", func(c *Config) { c.Pipeline.Recognizer.EscalationThreshold = -0.1 }},
		{"negative threads", func(c *Config) { c.Pipeline.NumThreads = -1 }},
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"zero upload size", func(c *Config) { c.Server.MaxUploadMB = 0 }},
		{"zero timeout", func(c *Config) { c.Server.TimeoutSec = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPipelineConfiguration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pipeline.Detector.ScoreThreshold = 0.35
	cfg.Pipeline.Recognizer.EscalationThreshold = 0.8
	cfg.Pipeline.Input.FetchTimeoutSec = 5
	cfg.Pipeline.NumThreads = 2

	pcfg := cfg.PipelineConfiguration()
	assert.InDelta(t, 0.35, pcfg.Detector.ScoreThreshold, 1e-9)
	assert.InDelta(t, 0.8, pcfg.EscalationThreshold, 1e-9)
	assert.Equal(t, 5*time.Second, pcfg.FetchTimeout)
	assert.Equal(t, 2, pcfg.NumThreads)
}

func TestLoaderDefaults(t *testing.T) {
	l := NewLoaderWith(viper.New())
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoaderWithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "yomitoru.yaml")
	data := []byte("log_level: debug\nserver:\n  port: 9090\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	l := NewLoaderWith(viper.New())
	cfg, err := l.LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Unset keys keep their defaults.
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, path, l.GetConfigFileUsed())
}

func TestLoaderWithMissingFile(t *testing.T) {
	l := NewLoaderWith(viper.New())
	_, err := l.LoadWithFile("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestLoaderEnvOverride(t *testing.T) {
	t.Setenv("YOMITORU_LOG_LEVEL", "warn")

	l := NewLoaderWith(viper.New())
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoaderRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "yomitoru.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o600))

	l := NewLoaderWith(viper.New())
	_, err := l.LoadWithFile(path)
	assert.ErrorContains(t, err, "validation failed")
}
