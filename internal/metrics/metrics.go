// Package metrics exposes Prometheus instruments for triggers, draws and
// branch selections.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "numflow"

// Metrics holds the process instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	triggerRequests  *prometheus.CounterVec
	triggerDuration  prometheus.Histogram
	executionsStart  *prometheus.CounterVec
	numbersGenerated prometheus.Histogram
	branchSelections *prometheus.CounterVec
}

// New registers the instruments on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		triggerRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trigger_requests_total",
				Help:      "Trigger requests by HTTP status code.",
			},
			[]string{"code"},
		),
		triggerDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "trigger_duration_seconds",
				Help:      "Time to acknowledge a trigger request.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		executionsStart: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "executions_started_total",
				Help:      "Execution start attempts by result.",
			},
			[]string{"result"},
		),
		numbersGenerated: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generated_number_ratio",
				Help:      "Generated number divided by maxNumber.",
				Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),
		branchSelections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "branch_selections_total",
				Help:      "Branch handler invocations.",
			},
			[]string{"branch"},
		),
	}
	m.registry.MustRegister(
		m.triggerRequests,
		m.triggerDuration,
		m.executionsStart,
		m.numbersGenerated,
		m.branchSelections,
	)
	return m
}

// Registry returns the registry holding the instruments.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// TriggerRequest records one trigger response.
func (m *Metrics) TriggerRequest(code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.triggerRequests.WithLabelValues(strconv.Itoa(code)).Inc()
	m.triggerDuration.Observe(elapsed.Seconds())
}

// ExecutionStarted records a start attempt.
func (m *Metrics) ExecutionStarted(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.executionsStart.WithLabelValues(result).Inc()
}

// NumberGenerated records a draw as a fraction of maxNumber. maxNumber is
// caller controlled, so it is never used as a label.
func (m *Metrics) NumberGenerated(maxNumber, value int) {
	if m == nil || maxNumber <= 0 {
		return
	}
	m.numbersGenerated.Observe(float64(value) / float64(maxNumber))
}

// BranchSelected records a branch handler invocation.
func (m *Metrics) BranchSelected(branch string) {
	if m == nil {
		return
	}
	m.branchSelections.WithLabelValues(branch).Inc()
}
