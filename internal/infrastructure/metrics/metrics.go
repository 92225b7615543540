// Package metrics provides Prometheus metrics for the Honey Barrel backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Comparison outcomes
const (
	OutcomeMatch   = "match"
	OutcomeNoMatch = "no_match"
	OutcomeSkipped = "skipped"
	OutcomeError   = "error"
)

// Cache lookup results
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

var (
	// ComparisonsTotal tracks bottle comparisons by retail site and outcome
	ComparisonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "honeybarrel",
			Subsystem: "comparison",
			Name:      "total",
			Help:      "Total number of bottle comparisons by site and outcome",
		},
		[]string{"site", "outcome"},
	)

	// ListingsCacheTotal tracks listings cache lookups
	ListingsCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "honeybarrel",
			Subsystem: "listings_cache",
			Name:      "lookups_total",
			Help:      "Total number of listings cache lookups by result",
		},
		[]string{"result"},
	)

	// MarketplaceRequestsTotal tracks outbound BAXUS API requests
	MarketplaceRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "honeybarrel",
			Subsystem: "baxus_client",
			Name:      "requests_total",
			Help:      "Total number of BAXUS API requests by status code",
		},
		[]string{"status_code"},
	)

	// MarketplaceRequestDuration tracks BAXUS API request duration
	MarketplaceRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "honeybarrel",
			Subsystem: "baxus_client",
			Name:      "request_duration_seconds",
			Help:      "Duration of BAXUS API requests in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// HTTPRequestsTotal tracks inbound API requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "honeybarrel",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of inbound HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)
)
