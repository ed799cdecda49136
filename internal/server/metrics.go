package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yomitoru_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "yomitoru_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// OCR processing metrics
	ocrRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yomitoru_ocr_requests_total",
			Help: "Total number of OCR invocations",
		},
		[]string{"status"},
	)

	ocrProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "yomitoru_ocr_processing_duration_seconds",
			Help:    "OCR processing duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 25, 50, 100},
		},
	)

	ocrPagesProcessed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "yomitoru_ocr_pages_processed",
			Help:    "Number of pages processed per invocation",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)

	ocrTextLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "yomitoru_ocr_text_length",
			Help:    "Length of extracted text per invocation",
			Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
	)
)
