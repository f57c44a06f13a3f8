package analytics

import (
	"context"
	"sync"
)

var _ EventSink = (*MockSink)(nil)

// MockSink is an in-memory EventSink for testing. It records every row it
// receives so tests can assert on what was logged.
type MockSink struct {
	mu            sync.Mutex
	AdEvents      []AdEvent
	DemandResults []DemandResult
}

// NewMockSink creates a new mock sink instance
func NewMockSink() *MockSink {
	return &MockSink{}
}

// RecordAdEvent appends the event to the in-memory log.
func (m *MockSink) RecordAdEvent(ctx context.Context, ev AdEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AdEvents = append(m.AdEvents, ev)
	return nil
}

// RecordDemandResult appends the result to the in-memory log.
func (m *MockSink) RecordDemandResult(ctx context.Context, dr DemandResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DemandResults = append(m.DemandResults, dr)
	return nil
}

// Events returns a copy of the recorded ad events.
func (m *MockSink) Events() []AdEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AdEvent, len(m.AdEvents))
	copy(out, m.AdEvents)
	return out
}

// Results returns a copy of the recorded demand results.
func (m *MockSink) Results() []DemandResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]DemandResult, len(m.DemandResults))
	copy(out, m.DemandResults)
	return out
}
