package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// File driver metrics.
var (
	FilesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "srbcyr_files_processed_total",
		Help: "Input files handled, by direction and result (converted, skipped, error)",
	}, []string{"direction", "result"})

	FileDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "srbcyr_file_duration_seconds",
		Help:    "Time spent converting one input file",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"direction"})

	LinesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "srbcyr_lines_processed_total",
		Help: "Input lines read, by direction",
	}, []string{"direction"})
)

// Engine metrics.
var (
	Tokens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "srbcyr_tokens_total",
		Help: "Word tokens seen by the Latin to Cyrillic engine, by outcome",
	}, []string{"outcome"})
)

// Token outcome labels.
const (
	OutcomeTransliterated = "transliterated"
	OutcomeForeign        = "foreign"
	OutcomePartial        = "partial"
)

// File result labels.
const (
	ResultConverted = "converted"
	ResultSkipped   = "skipped"
	ResultError     = "error"
)
