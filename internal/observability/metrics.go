package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// total requests per endpoint, method and status code
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediation_requests_total",
			Help: "Total API requests received",
		},
		[]string{"endpoint", "method", "status"},
	)

	// request latency in seconds per endpoint/method
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediation_request_duration_seconds",
			Help:    "Histogram of request latencies",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// number of auction requests that found no usable rounds or configuration
	NoAdsCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mediation_no_ads_total",
			Help: "Total auction responses with no ads available",
		},
	)

	// number of bidding requests that produced no winning bid
	NoBidCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mediation_nobid_total",
			Help: "Total no-bid (empty) bidding responses",
		},
	)

	// SDK tracking events recorded, labelled by type
	EventCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediation_events_total",
			Help: "Total SDK events recorded",
		},
		[]string{"type"},
	)

	// outbound demand partner calls labelled by partner and outcome
	DemandRequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediation_demand_requests_total",
			Help: "Total outbound demand partner requests",
		},
		[]string{"demand", "outcome"},
	)

	// latency of outbound demand partner calls
	DemandRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediation_demand_request_duration_seconds",
			Help:    "Duration of outbound demand partner requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"demand"},
	)

	// distribution of winning bid prices in CPM
	WinningBidPrice = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mediation_winning_bid_cpm",
			Help:    "Histogram of winning bid prices (CPM)",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 16),
		},
	)

	// configuration snapshot reloads labelled by result
	ReloadCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediation_config_reloads_total",
			Help: "Total configuration snapshot reloads",
		},
		[]string{"result"},
	)
)

// RegisterMetrics registers all collectors with the default registry. It must
// be called once at startup.
func RegisterMetrics() {
	prometheus.MustRegister(
		RequestCount,
		RequestLatency,
		NoAdsCount,
		NoBidCount,
		EventCount,
		DemandRequestCount,
		DemandRequestLatency,
		WinningBidPrice,
		ReloadCount,
	)
}
