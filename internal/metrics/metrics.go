// Package metrics holds the Prometheus collectors for the API and the recommendation pipeline
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PipelineCandidates observes how many candidates survive each stage.
	// Labels:
	//   - stage: "retrieved", "filtered", "reranked", "boosted"
	PipelineCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ragcipe_pipeline_candidates",
			Help:    "Number of recipe candidates remaining after each pipeline stage",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 30, 50},
		},
		[]string{"stage"},
	)

	// PipelineOutcomes counts finished queries.
	// Labels:
	//   - outcome: "answered", "choices", "no_recipes", "dependency_error", "error"
	PipelineOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragcipe_pipeline_outcomes_total",
			Help: "Total number of recommendation queries by outcome",
		},
		[]string{"outcome"},
	)

	// DependencyFailures counts fatal failures of external collaborators
	DependencyFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragcipe_dependency_failures_total",
			Help: "Total number of fatal external dependency failures",
		},
		[]string{"dependency"},
	)

	// ProductSearchFailures counts per-ingredient searches that degraded to no matches
	ProductSearchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ragcipe_product_search_failures_total",
			Help: "Total number of ingredient product searches that failed",
		},
	)

	// URLChecks counts link probes.
	// Labels:
	//   - result: "alive", "dead", "cached"
	URLChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragcipe_url_checks_total",
			Help: "Total number of link liveness checks",
		},
		[]string{"result"},
	)

	// HTTPRequestDuration measures API latency
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ragcipe_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route", "status"},
	)
)
