package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// StoreQueryLatency records repository call latency by backend, collection and operation.
	StoreQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agora_store_query_latency_seconds",
		Help:    "Repository call latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "collection", "operation"})

	// ActiveSessions is the gauge of sessions held by the in-memory registry.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "agora_sessions_active",
		Help: "Number of live sessions held in process",
	})

	// SessionEvents counts session lifecycle events by type.
	SessionEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_session_events_total",
		Help: "Total session lifecycle events by type",
	}, []string{"event"})

	// SocialEvents counts like, follow and comment mutations by action.
	SocialEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_social_events_total",
		Help: "Total social graph and engagement mutations",
	}, []string{"kind", "action"})

	// CounterCorrections counts denormalized counters repaired by the reconciler.
	CounterCorrections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_counter_corrections_total",
		Help: "Total denormalized counter rows repaired by reconciliation",
	}, []string{"entity"})
)

// StoreMetrics records latency for one repository backend.
type StoreMetrics struct {
	backend string
}

// NewStoreMetrics returns a StoreMetrics for the named backend.
func NewStoreMetrics(backend string) *StoreMetrics {
	return &StoreMetrics{backend: backend}
}

// ObserveQuery records the latency of a repository call.
func (m *StoreMetrics) ObserveQuery(collection, operation string, start time.Time) {
	StoreQueryLatency.WithLabelValues(m.backend, collection, operation).Observe(time.Since(start).Seconds())
}

// RecordSocialEvent increments the social events counter.
func RecordSocialEvent(kind, action string) {
	SocialEvents.WithLabelValues(kind, action).Inc()
}
