package observability

import "time"

// MetricsRegistry provides an interface for recording application metrics.
// Handlers receive it by injection so tests can swap in the no-op registry.
type MetricsRegistry interface {
	// HTTP request metrics
	IncrementRequests(endpoint, method, status string)
	RecordRequestLatency(endpoint, method string, duration time.Duration)

	// Auction/bidding outcome metrics
	IncrementNoAds()
	IncrementNoBids()
	RecordWinningBidPrice(cpm float64)

	// SDK event tracking metrics
	IncrementEvent(eventType string)

	// Outbound demand partner metrics
	IncrementDemandRequests(demand, outcome string)
	RecordDemandRequestLatency(demand string, duration time.Duration)

	// Configuration reload metrics
	IncrementReloads(result string)
}

// PrometheusRegistry implements MetricsRegistry using the global Prometheus
// collectors defined in metrics.go.
type PrometheusRegistry struct{}

// NewPrometheusRegistry creates a new PrometheusRegistry.
func NewPrometheusRegistry() *PrometheusRegistry {
	return &PrometheusRegistry{}
}

func (r *PrometheusRegistry) IncrementRequests(endpoint, method, status string) {
	RequestCount.WithLabelValues(endpoint, method, status).Inc()
}

func (r *PrometheusRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {
	RequestLatency.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

func (r *PrometheusRegistry) IncrementNoAds() {
	NoAdsCount.Inc()
}

func (r *PrometheusRegistry) IncrementNoBids() {
	NoBidCount.Inc()
}

func (r *PrometheusRegistry) RecordWinningBidPrice(cpm float64) {
	WinningBidPrice.Observe(cpm)
}

func (r *PrometheusRegistry) IncrementEvent(eventType string) {
	EventCount.WithLabelValues(eventType).Inc()
}

func (r *PrometheusRegistry) IncrementDemandRequests(demand, outcome string) {
	DemandRequestCount.WithLabelValues(demand, outcome).Inc()
}

func (r *PrometheusRegistry) RecordDemandRequestLatency(demand string, duration time.Duration) {
	DemandRequestLatency.WithLabelValues(demand).Observe(duration.Seconds())
}

func (r *PrometheusRegistry) IncrementReloads(result string) {
	ReloadCount.WithLabelValues(result).Inc()
}
