package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/yomitoru/yomitoru/internal/pipeline"
	"github.com/yomitoru/yomitoru/internal/version"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("encode health response", "error", err)
	}
}

// ocrHandler processes OCR requests. The request body carries a JSON payload
// with a base64 document or remote reference plus an optional page selection;
// the response is the invocation envelope, with the HTTP status mirroring the
// envelope's status code.
func (s *Server) ocrHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeEnvelope(w, pipeline.Response{
				StatusCode: http.StatusRequestEntityTooLarge,
				Body:       pipeline.Body{Error: "request body too large"},
			})
			return
		}
		s.writeEnvelope(w, pipeline.Response{
			StatusCode: http.StatusBadRequest,
			Body:       pipeline.Body{Error: "invalid JSON payload: " + err.Error()},
		})
		return
	}

	ctx := r.Context()
	if s.timeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.timeoutSec)*time.Second)
		defer cancel()
	}

	start := time.Now()
	resp := s.pipeline.ProcessRequest(ctx, req)
	duration := time.Since(start)

	ocrRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	ocrProcessingDuration.Observe(duration.Seconds())
	if resp.StatusCode == http.StatusOK {
		ocrPagesProcessed.Observe(float64(len(resp.Body.Pages)))
		total := 0
		for _, p := range resp.Body.Pages {
			total += len(p.Text)
		}
		ocrTextLength.Observe(float64(total))
	}

	s.writeEnvelope(w, resp)
}

// writeEnvelope serializes the invocation envelope, mirroring its status
// code as the HTTP status.
func (s *Server) writeEnvelope(w http.ResponseWriter, resp pipeline.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("encode OCR response", "error", err)
	}
}
