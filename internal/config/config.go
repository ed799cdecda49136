// Package config centralizes application configuration: defaults, config
// files, environment variables and command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/yomitoru/yomitoru/internal/models"
	"github.com/yomitoru/yomitoru/internal/pipeline"
	"github.com/yomitoru/yomitoru/internal/recognizer"
)

// Config represents the complete configuration for the yomitoru OCR
// application. It covers all commands (image, pdf, serve) and supports
// loading from configuration files, environment variables and flags.
type Config struct {
	// Global settings
	ModelsDir string `mapstructure:"models_dir" yaml:"models_dir" json:"models_dir"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose   bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Pipeline configuration
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// PipelineConfig contains OCR pipeline settings.
type PipelineConfig struct {
	Detector   DetectorConfig   `mapstructure:"detector" yaml:"detector" json:"detector"`
	Recognizer RecognizerConfig `mapstructure:"recognizer" yaml:"recognizer" json:"recognizer"`
	Input      InputConfig      `mapstructure:"input" yaml:"input" json:"input"`
	NumThreads int              `mapstructure:"num_threads" yaml:"num_threads" json:"num_threads"`
}

// DetectorConfig contains layout detection settings.
type DetectorConfig struct {
	ScoreThreshold float64 `mapstructure:"score_threshold" yaml:"score_threshold" json:"score_threshold"`
}

// RecognizerConfig contains text recognition settings.
type RecognizerConfig struct {
	EscalationThreshold float64 `mapstructure:"escalation_threshold" yaml:"escalation_threshold" json:"escalation_threshold"`
}

// InputConfig contains input retrieval settings.
type InputConfig struct {
	FetchTimeoutSec int   `mapstructure:"fetch_timeout_sec" yaml:"fetch_timeout_sec" json:"fetch_timeout_sec"`
	FetchMaxMB      int64 `mapstructure:"fetch_max_mb" yaml:"fetch_max_mb" json:"fetch_max_mb"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	pcfg := pipeline.DefaultConfig()
	return Config{
		ModelsDir: models.GetModelsDir(""),
		LogLevel:  "info",
		Verbose:   false,
		Pipeline: PipelineConfig{
			Detector: DetectorConfig{
				ScoreThreshold: pcfg.Detector.ScoreThreshold,
			},
			Recognizer: RecognizerConfig{
				EscalationThreshold: recognizer.DefaultEscalationThreshold,
			},
			Input: InputConfig{
				FetchTimeoutSec: 30,
				FetchMaxMB:      64,
			},
			NumThreads: 0,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     50,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
		},
	}
}

// PipelineConfig converts the configuration into a pipeline config.
func (c *Config) PipelineConfiguration() pipeline.Config {
	pcfg := pipeline.DefaultConfig()
	pcfg.ModelsDir = models.GetModelsDir(c.ModelsDir)
	if c.Pipeline.Detector.ScoreThreshold > 0 {
		pcfg.Detector.ScoreThreshold = c.Pipeline.Detector.ScoreThreshold
	}
	if c.Pipeline.Recognizer.EscalationThreshold > 0 {
		pcfg.EscalationThreshold = c.Pipeline.Recognizer.EscalationThreshold
	}
	pcfg.NumThreads = c.Pipeline.NumThreads
	if c.Pipeline.Input.FetchTimeoutSec > 0 {
		pcfg.FetchTimeout = time.Duration(c.Pipeline.Input.FetchTimeoutSec) * time.Second
	}
	if c.Pipeline.Input.FetchMaxMB > 0 {
		pcfg.FetchMaxMB = c.Pipeline.Input.FetchMaxMB
	}
	return pcfg
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if t := c.Pipeline.Detector.ScoreThreshold; t < 0 || t > 1 {
		return fmt.Errorf("invalid detector score threshold: %f (must be between 0.0 and 1.0)", t)
	}
	if t := c.Pipeline.Recognizer.EscalationThreshold; t < 0 || t > 1 {
		return fmt.Errorf("invalid escalation threshold: %f (must be between 0.0 and 1.0)", t)
	}
	if c.Pipeline.NumThreads < 0 {
		return fmt.Errorf("invalid thread count: %d", c.Pipeline.NumThreads)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("invalid max upload size: %dMB", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec < 1 {
		return fmt.Errorf("invalid server timeout: %ds", c.Server.TimeoutSec)
	}

	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
