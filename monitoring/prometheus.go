// file: monitoring/prometheus.go
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "patient_caller"

// PrometheusRecorder keeps the metrics served on /metrics.
type PrometheusRecorder struct {
	events        *prometheus.CounterVec
	callsEnded    *prometheus.CounterVec
	queueLength   prometheus.Gauge
	professionals prometheus.Gauge
	connections   prometheus.Gauge
	calling       prometheus.Gauge
}

// NewPrometheusRecorder registers the collectors on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Inbound client events handled, by event and result",
		}, []string{"event", "result"}),
		callsEnded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_ended_total",
			Help:      "Patient calls ended, by outcome",
		}, []string{"outcome"}),
		queueLength: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_length",
			Help:      "Patients currently waiting",
		}),
		professionals: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "professionals_logged_in",
			Help:      "Professionals currently logged in",
		}),
		connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Open websocket connections",
		}),
		calling: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "call_active",
			Help:      "1 while a patient is being called",
		}),
	}
}

func (p *PrometheusRecorder) EventHandled(event, result string) {
	p.events.WithLabelValues(event, result).Inc()
}

func (p *PrometheusRecorder) CallEnded(outcome string) {
	p.callsEnded.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) StateChanged(s Snapshot) {
	p.queueLength.Set(float64(s.QueueLength))
	p.professionals.Set(float64(s.Professionals))
	p.connections.Set(float64(s.Connections))
	if s.Calling {
		p.calling.Set(1)
	} else {
		p.calling.Set(0)
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
