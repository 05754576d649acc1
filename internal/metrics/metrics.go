// Package metrics exposes prometheus counters for the projector and the
// console renderer. All methods are safe to call on a nil *Metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AndreyAkinshin/testrelay/internal/event"
)

const namespace = "testrelay"

// Component labels.
const (
	ComponentProjector = "projector"
	ComponentConsole   = "console"
	ComponentStream    = "stream"
)

// Metrics holds the testrelay collectors.
type Metrics struct {
	Events         *prometheus.CounterVec
	ProtocolErrors prometheus.Counter
	WriteErrors    *prometheus.CounterVec
	SkippedLines   prometheus.Counter
}

// New creates the collectors and registers them on reg. A nil reg yields
// unregistered collectors, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Runner events handled, labelled by component and event name.",
		}, []string{"component", "event"}),
		ProtocolErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_errors_total",
			Help:      "Events that broke the runner's ordering contract.",
		}),
		WriteErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_errors_total",
			Help:      "Failed writes to an output sink, labelled by component.",
		}, []string{"component"}),
		SkippedLines: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_skipped_lines_total",
			Help:      "NDJSON lines that could not be decoded into a known event.",
		}),
	}
}

// ObserveEvent counts one event handled by component.
func (m *Metrics) ObserveEvent(component string, kind event.Kind) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(component, kind.String()).Inc()
}

// ObserveProtocolError counts one ordering violation.
func (m *Metrics) ObserveProtocolError() {
	if m == nil {
		return
	}
	m.ProtocolErrors.Inc()
}

// ObserveWriteError counts one failed sink write.
func (m *Metrics) ObserveWriteError(component string) {
	if m == nil {
		return
	}
	m.WriteErrors.WithLabelValues(component).Inc()
}

// ObserveSkippedLine counts one undecodable stream line.
func (m *Metrics) ObserveSkippedLine() {
	if m == nil {
		return
	}
	m.SkippedLines.Inc()
}
