package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"punchd/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncSlackCalls(method string, ok bool)
	ObserveResolveDuration(duration time.Duration)
	ObservePunchDuration(duration time.Duration)
	IncPostsTotal(outcome string)
	IncPresenceUpdates(ok bool)
	SetTargetsTotal(count int)
	SetLifecycleState(state int)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	slackCalls      *prometheus.CounterVec
	resolveDuration prometheus.Histogram
	punchDuration   prometheus.Histogram
	postsTotal      *prometheus.CounterVec
	presenceUpdates *prometheus.CounterVec
	targetsTotal    prometheus.Gauge
	lifecycleState  prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncSlackCalls(method string, ok bool) {
	m.slackCalls.WithLabelValues(method, boolOutcome(ok)).Inc()
}

func (m *MetricsProvider) ObserveResolveDuration(duration time.Duration) {
	m.resolveDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObservePunchDuration(duration time.Duration) {
	m.punchDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncPostsTotal(outcome string) {
	m.postsTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) IncPresenceUpdates(ok bool) {
	m.presenceUpdates.WithLabelValues(boolOutcome(ok)).Inc()
}

func (m *MetricsProvider) SetTargetsTotal(count int) {
	m.targetsTotal.Set(float64(count))
}

func (m *MetricsProvider) SetLifecycleState(state int) {
	m.lifecycleState.Set(float64(state))
}

func boolOutcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "punchd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "punchd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "punchd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "punchd_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		slackCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "punchd_slack_calls_total",
			Help: "Total number of Slack API calls by method",
		}, []string{"method", "outcome"}),

		resolveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "punchd_resolve_duration_seconds",
			Help:    "Duration of conversation resolution passes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		punchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "punchd_punch_duration_seconds",
			Help:    "Duration of punch submissions in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		postsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "punchd_posts_total",
			Help: "Total number of fan-out message posts by outcome",
		}, []string{"outcome"}),

		presenceUpdates: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "punchd_presence_updates_total",
			Help: "Total number of presence update calls",
		}, []string{"outcome"}),

		targetsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "punchd_targets_total",
			Help: "Number of configured conversation targets",
		}),

		lifecycleState: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "punchd_lifecycle_state",
			Help: "Current settings lifecycle state (0=needs-auth 1=needs-reset 2=needs-setup 3=ready)",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncSlackCalls(_ string, _ bool)                   {}
func (n *noopMetrics) ObserveResolveDuration(_ time.Duration)           {}
func (n *noopMetrics) ObservePunchDuration(_ time.Duration)             {}
func (n *noopMetrics) IncPostsTotal(_ string)                           {}
func (n *noopMetrics) IncPresenceUpdates(_ bool)                        {}
func (n *noopMetrics) SetTargetsTotal(_ int)                            {}
func (n *noopMetrics) SetLifecycleState(_ int)                          {}
