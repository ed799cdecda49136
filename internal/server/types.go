// Package server exposes the OCR pipeline over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/yomitoru/yomitoru/internal/pipeline"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// pipelineInterface defines the methods the server needs from a pipeline.
type pipelineInterface interface {
	ProcessRequest(ctx context.Context, req pipeline.Request) pipeline.Response
	Close() error
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	pipeline    pipelineInterface
	corsOrigin  string
	maxUploadMB int64
	timeoutSec  int
}

// Config holds server configuration.
type Config struct {
	Host           string
	Port           int
	CORSOrigin     string
	MaxUploadMB    int64
	TimeoutSec     int
	PipelineConfig pipeline.Config
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// NewServer creates a new OCR server instance, loading all models.
func NewServer(config Config) (*Server, error) {
	b := pipeline.NewBuilder().
		WithModelsDir(config.PipelineConfig.ModelsDir).
		WithThreads(config.PipelineConfig.NumThreads).
		WithScoreThreshold(config.PipelineConfig.Detector.ScoreThreshold).
		WithEscalationThreshold(config.PipelineConfig.EscalationThreshold).
		WithFetchLimits(config.PipelineConfig.FetchTimeout, config.PipelineConfig.FetchMaxMB)

	pl, err := b.Build()
	if err != nil {
		return nil, err
	}

	return &Server{
		pipeline:    pl,
		corsOrigin:  config.CORSOrigin,
		maxUploadMB: config.MaxUploadMB,
		timeoutSec:  config.TimeoutSec,
	}, nil
}

// Close releases server resources.
func (s *Server) Close() error {
	if s.pipeline != nil {
		return s.pipeline.Close()
	}
	return nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ocr", s.corsMiddleware(s.ocrHandler))
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.Handle("/metrics", promhttp.Handler())
}
