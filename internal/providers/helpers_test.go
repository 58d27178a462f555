package providers

import (
	"sync"
	"time"
)

// nopLogger satisfies Logger for provider tests that do not assert on logs.
type nopLogger struct{}

func (nopLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (nopLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (nopLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (nopLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) {}
func (nopLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (nopLogger) Close()                                        {}

// recordMetrics counts provider-level metric calls by name.
type recordMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func newRecordMetrics() *recordMetrics {
	return &recordMetrics{counts: map[string]int{}}
}

func (m *recordMetrics) inc(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[name]++
}

func (m *recordMetrics) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[name]
}

func (m *recordMetrics) IncRequestsTotal(endpoint string, status int) {
	m.inc("requests:" + endpoint + ":" + httpStatusBucket(status))
}
func (m *recordMetrics) ObserveRequestDuration(endpoint string, _ time.Duration) {
	m.inc("duration:" + endpoint)
}
func (m *recordMetrics) IncCacheHits()   { m.inc("hits") }
func (m *recordMetrics) IncCacheMisses() { m.inc("misses") }
func (m *recordMetrics) IncSlackCalls(method string, ok bool) {
	m.inc("slack:" + method + ":" + boolOutcome(ok))
}
func (m *recordMetrics) ObserveResolveDuration(_ time.Duration) { m.inc("resolve") }
func (m *recordMetrics) ObservePunchDuration(_ time.Duration)   { m.inc("punch") }
func (m *recordMetrics) IncPostsTotal(outcome string)           { m.inc("posts:" + outcome) }
func (m *recordMetrics) IncPresenceUpdates(ok bool)             { m.inc("presence:" + boolOutcome(ok)) }
func (m *recordMetrics) SetTargetsTotal(_ int)                  { m.inc("targets") }
func (m *recordMetrics) SetLifecycleState(_ int)                { m.inc("state") }
