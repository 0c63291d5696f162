// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DialogTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialog_turns_total",
			Help: "Total number of dialog turns by intent and resulting state",
		},
		[]string{"intent", "state"},
	)

	DialogErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialog_errors_total",
			Help: "Total number of dialog turns that failed",
		},
		[]string{"error_code"},
	)

	FulfillmentRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillment_runs_total",
			Help: "Total number of consumer runs by outcome",
		},
		[]string{"outcome"},
	)

	FulfillmentFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillment_failures_total",
			Help: "Total number of consumer runs that failed",
		},
		[]string{"error_code"},
	)

	FulfillmentStepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "fulfillment_step_duration_seconds",
			Help: "Duration of each consumer step in seconds",
		},
		[]string{"step"},
	)

	FulfillmentActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fulfillment_runs_active",
			Help: "Number of consumer runs in progress",
		},
	)
)
