package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics covers cart mutations, snapshot persistence and checkout
// submissions. A nil *CartMetrics is a valid no-op recorder.
type CartMetrics struct {
	mutations        *prometheus.CounterVec
	snapshotFailures *prometheus.CounterVec
	submissions      *prometheus.CounterVec
	submitDuration   prometheus.Histogram
	activeSessions   prometheus.Gauge
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	m := &CartMetrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cart_mutations_total",
			Help: "Cart actions dispatched, by action.",
		}, []string{"action"}),
		snapshotFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cart_snapshot_failures_total",
			Help: "Swallowed cart snapshot failures, by operation.",
		}, []string{"op"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkout_submissions_total",
			Help: "Checkout submissions, by outcome.",
		}, []string{"outcome"}),
		submitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "checkout_submit_duration_seconds",
			Help:    "Latency of the order-creation call.",
			Buckets: prometheus.DefBuckets,
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cart_active_sessions",
			Help: "Device sessions currently held in memory.",
		}),
	}
	reg.MustRegister(m.mutations, m.snapshotFailures, m.submissions, m.submitDuration, m.activeSessions)
	return m
}

// IncMutation counts one dispatched cart action.
func (m *CartMetrics) IncMutation(action string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(action)).Inc()
}

// IncSnapshotFailure counts a swallowed snapshot read or write failure.
func (m *CartMetrics) IncSnapshotFailure(op string) {
	if m == nil || m.snapshotFailures == nil {
		return
	}
	m.snapshotFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveSubmission records the outcome and latency of one order call.
func (m *CartMetrics) ObserveSubmission(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	if m.submissions != nil {
		m.submissions.WithLabelValues(normalizeLabel(outcome)).Inc()
	}
	if m.submitDuration != nil {
		m.submitDuration.Observe(duration.Seconds())
	}
}

// SetActiveSessions publishes the in-memory session count.
func (m *CartMetrics) SetActiveSessions(n int) {
	if m == nil || m.activeSessions == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}
