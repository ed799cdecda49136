// Package pipeline orchestrates the document OCR flow: input normalization,
// layout detection, reading-order assembly, cascade recognition and result
// serialization.
package pipeline

import (
	"fmt"
	"time"

	"github.com/yomitoru/yomitoru/internal/detector"
	"github.com/yomitoru/yomitoru/internal/fetch"
	"github.com/yomitoru/yomitoru/internal/input"
	"github.com/yomitoru/yomitoru/internal/models"
	"github.com/yomitoru/yomitoru/internal/recognizer"
)

// RecognizerSpec configures one cascade level.
type RecognizerSpec struct {
	ModelName  string
	ImageWidth int
	Capacity   int
}

// Config holds configuration for the OCR pipeline and its components.
type Config struct {
	ModelsDir string
	Detector  detector.Config

	// Cascade levels in ascending capacity plus shared input height.
	Recognizers         []RecognizerSpec
	RecognizerHeight    int
	EscalationThreshold float64
	NumThreads          int

	// Remote retrieval bounds.
	FetchTimeout time.Duration
	FetchMaxMB   int64
}

// DefaultConfig returns a default pipeline config with component defaults.
func DefaultConfig() Config {
	return Config{
		ModelsDir: models.GetModelsDir(""),
		Detector:  detector.DefaultConfig(),
		Recognizers: []RecognizerSpec{
			{ModelName: models.RecognizerShort, ImageWidth: 256, Capacity: 30},
			{ModelName: models.RecognizerMedium, ImageWidth: 384, Capacity: 50},
			{ModelName: models.RecognizerLong, ImageWidth: 768, Capacity: 100},
		},
		RecognizerHeight:    16,
		EscalationThreshold: recognizer.DefaultEscalationThreshold,
		NumThreads:          0,
		FetchTimeout:        30 * time.Second,
		FetchMaxMB:          64,
	}
}

// Registry is the process-wide, read-only model registry: loaded once at
// startup and shared by every invocation.
type Registry struct {
	Detector detector.Detector
	Cascade  *recognizer.Cascade

	closers []func() error
}

// Close releases all loaded model sessions.
func (r *Registry) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.closers = nil
	return firstErr
}

// Builder constructs a Registry and Pipeline from configuration.
type Builder struct {
	cfg Config
}

// NewBuilder creates a builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithModelsDir sets the models directory.
func (b *Builder) WithModelsDir(dir string) *Builder {
	if dir != "" {
		b.cfg.ModelsDir = dir
	}
	return b
}

// WithThreads sets intra-op thread counts for all models (if > 0).
func (b *Builder) WithThreads(n int) *Builder {
	if n > 0 {
		b.cfg.NumThreads = n
	}
	return b
}

// WithScoreThreshold sets the detector score threshold.
func (b *Builder) WithScoreThreshold(th float64) *Builder {
	if th > 0 {
		b.cfg.Detector.ScoreThreshold = th
	}
	return b
}

// WithEscalationThreshold sets the cascade escalation confidence threshold.
func (b *Builder) WithEscalationThreshold(th float64) *Builder {
	if th > 0 {
		b.cfg.EscalationThreshold = th
	}
	return b
}

// WithFetchLimits sets remote retrieval bounds.
func (b *Builder) WithFetchLimits(timeout time.Duration, maxMB int64) *Builder {
	if timeout > 0 {
		b.cfg.FetchTimeout = timeout
	}
	if maxMB > 0 {
		b.cfg.FetchMaxMB = maxMB
	}
	return b
}

// Config returns a copy of the current config.
func (b *Builder) Config() Config { return b.cfg }

// BuildRegistry loads the detector and the recognizer cascade. Models load
// once; the registry is then shared across invocations.
func (b *Builder) BuildRegistry() (*Registry, error) {
	cfg := b.cfg
	reg := &Registry{}

	detCfg := cfg.Detector
	detCfg.ModelPath = models.DetectorModelPath(cfg.ModelsDir)
	detCfg.ClassMappingPath = models.ClassMappingPath(cfg.ModelsDir)
	detCfg.NumThreads = cfg.NumThreads
	det, err := detector.NewDEIM(detCfg)
	if err != nil {
		return nil, fmt.Errorf("init detector: %w", err)
	}
	reg.Detector = det
	reg.closers = append(reg.closers, det.Close)

	charset, err := recognizer.LoadCharset(models.CharsetPath(cfg.ModelsDir))
	if err != nil {
		_ = reg.Close()
		return nil, fmt.Errorf("load charset: %w", err)
	}

	levels := make([]recognizer.Recognizer, 0, len(cfg.Recognizers))
	for _, spec := range cfg.Recognizers {
		rec, err := recognizer.NewPARSeq(recognizer.Config{
			ModelPath:   models.RecognizerModelPath(cfg.ModelsDir, spec.ModelName),
			Charset:     charset,
			ImageHeight: cfg.RecognizerHeight,
			ImageWidth:  spec.ImageWidth,
			Capacity:    spec.Capacity,
			NumThreads:  cfg.NumThreads,
		})
		if err != nil {
			_ = reg.Close()
			return nil, fmt.Errorf("init recognizer %s: %w", spec.ModelName, err)
		}
		levels = append(levels, rec)
		reg.closers = append(reg.closers, rec.Close)
	}

	cascade, err := recognizer.NewCascade(cfg.EscalationThreshold, levels...)
	if err != nil {
		_ = reg.Close()
		return nil, err
	}
	reg.Cascade = cascade
	return reg, nil
}

// Build constructs a ready-to-serve pipeline on top of a freshly built
// registry.
func (b *Builder) Build() (*Pipeline, error) {
	reg, err := b.BuildRegistry()
	if err != nil {
		return nil, err
	}
	fetcher := fetch.NewHTTPFetcher(b.cfg.FetchTimeout, b.cfg.FetchMaxMB*1024*1024)
	return New(reg, fetcher), nil
}

// Pipeline wires the shared model registry to per-invocation processing.
type Pipeline struct {
	registry   *Registry
	normalizer *input.Normalizer
}

// New creates a pipeline over an already-built registry. The registry is
// passed by handle; the pipeline never mutates it.
func New(reg *Registry, fetcher fetch.Fetcher) *Pipeline {
	return &Pipeline{
		registry:   reg,
		normalizer: &input.Normalizer{Fetcher: fetcher},
	}
}

// Close releases the underlying registry.
func (p *Pipeline) Close() error {
	if p.registry != nil {
		return p.registry.Close()
	}
	return nil
}
