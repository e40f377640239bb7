package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	AuditEventsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "navigator_audit_events_total",
			Help: "Total number of audit events built, by type and severity",
		},
		[]string{"event_type", "severity"},
	)

	AuditBufferSize = promauto.With(registerer).NewGauge(
		prometheus.GaugeOpts{
			Name: "navigator_audit_buffer_size",
			Help: "Number of audit events currently buffered for batch flush",
		},
	)

	AuditFlushesTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "navigator_audit_flushes_total",
			Help: "Total number of buffer flushes, by trigger",
		},
		[]string{"trigger"},
	)

	AuditSinkWritesTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "navigator_audit_sink_writes_total",
			Help: "Total number of sink write attempts, by sink and result",
		},
		[]string{"sink", "result"},
	)
)

// Flush trigger labels.
const (
	TriggerBatchSize = "batch_size"
	TriggerInterval  = "interval"
	TriggerShutdown  = "shutdown"
)

// Handler exposes the audit pipeline metrics registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
