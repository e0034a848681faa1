package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for GenerateRequests.
const (
	OutcomeOK          = "ok"
	OutcomeMalformed   = "malformed"
	OutcomeUnreachable = "unreachable"
)

var (
	GenerateRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_generate_requests_total",
			Help: "Total number of generation requests by model tier and outcome",
		},
		[]string{"tier", "outcome"},
	)

	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_provider_duration_seconds",
			Help:    "Duration of outbound provider calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"model"},
	)
)
