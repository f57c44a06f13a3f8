package observability

import "time"

var _ MetricsRegistry = (*NoOpRegistry)(nil)

// NoOpRegistry implements MetricsRegistry with no-op methods for testing.
type NoOpRegistry struct{}

// NewNoOpRegistry creates a new NoOpRegistry.
func NewNoOpRegistry() *NoOpRegistry {
	return &NoOpRegistry{}
}

func (r *NoOpRegistry) IncrementRequests(endpoint, method, status string)                    {}
func (r *NoOpRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {}
func (r *NoOpRegistry) IncrementNoAds()                                                      {}
func (r *NoOpRegistry) IncrementNoBids()                                                     {}
func (r *NoOpRegistry) RecordWinningBidPrice(cpm float64)                                    {}
func (r *NoOpRegistry) IncrementEvent(eventType string)                                      {}
func (r *NoOpRegistry) IncrementDemandRequests(demand, outcome string)                       {}
func (r *NoOpRegistry) RecordDemandRequestLatency(demand string, duration time.Duration)     {}
func (r *NoOpRegistry) IncrementReloads(result string)                                       {}
