package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Message results.
const (
	ResultLogged  = "logged"
	ResultPartial = "partial"
	ResultFailed  = "failed"
	ResultEmpty   = "empty"
	ResultLimited = "rate_limited"
)

// Metrics holds the pipeline collectors. A nil *Metrics is a valid no-op.
type Metrics struct {
	messages           *prometheus.CounterVec
	segments           *prometheus.CounterVec
	reclassifications  *prometheus.CounterVec
	completionDuration *prometheus.HistogramVec
	queueDepth         prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		messages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "station_ops_messages_total",
				Help: "Chat messages processed, by overall result",
			},
			[]string{"result"},
		),
		segments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "station_ops_segments_total",
				Help: "Message segments processed, by entry type and outcome",
			},
			[]string{"entry_type", "outcome"},
		),
		reclassifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "station_ops_reclassifications_total",
				Help: "Entries retyped by a keyword rule",
			},
			[]string{"rule"},
		),
		completionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "station_ops_completion_duration_seconds",
				Help:    "Duration of completion backend attempts in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
			},
			[]string{"provider", "status"},
		),
		queueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "station_ops_dispatch_queue_depth",
				Help: "Messages waiting for the pipeline worker",
			},
		),
	}
}

// MessageProcessed counts one message by result.
func (m *Metrics) MessageProcessed(result string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(result).Inc()
}

// SegmentProcessed counts one segment. entryType may be empty when the
// completion step failed before a type was known.
func (m *Metrics) SegmentProcessed(entryType, outcome string) {
	if m == nil {
		return
	}
	if entryType == "" {
		entryType = "unknown"
	}
	m.segments.WithLabelValues(entryType, outcome).Inc()
}

// Reclassified counts one fired rule.
func (m *Metrics) Reclassified(rule string) {
	if m == nil || rule == "" {
		return
	}
	m.reclassifications.WithLabelValues(rule).Inc()
}

// ObserveCompletion records one provider attempt.
func (m *Metrics) ObserveCompletion(provider string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.completionDuration.WithLabelValues(provider, status).Observe(d.Seconds())
}

// SetQueueDepth reports the dispatcher backlog.
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}
