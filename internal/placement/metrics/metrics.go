package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/armadaproject/placement/internal/placement/model"
	"github.com/armadaproject/placement/internal/placement/scaling"
)

const MetricPrefix = "placement_"

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type Metrics struct {
	decisions          *prometheus.CounterVec
	resourcesCapped    *prometheus.CounterVec
	fallbacks          *prometheus.CounterVec
	validationProblems *prometheus.GaugeVec
}

var (
	once    sync.Once
	metrics *Metrics
)

// Get returns the metrics registered with the default prometheus registry. Engines use
// these unless given WithMetrics; an embedding service exposes them with its own handler.
func Get() *Metrics {
	once.Do(func() {
		metrics = New(MetricPrefix, prometheus.DefaultRegisterer)
	})
	return metrics
}

func New(prefix string, registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "decisions_total",
			Help: "Number of placement decisions grouped by partition role and resolved partition",
		}, []string{"role", "partition"}),
		resourcesCapped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "resource_capped_total",
			Help: "Number of resource requests clamped to a configured ceiling grouped by dimension",
		}, []string{"dimension"}),
		fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "fallback_total",
			Help: "Number of decisions resolved through a fallback chain or the default partition",
		}, []string{"requested_role", "partition"}),
		validationProblems: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: prefix + "validation_problems",
			Help: "Number of problems found by the last configuration validation grouped by category and severity",
		}, []string{"category", "severity"}),
	}
}

func (m *Metrics) RecordDecision(placement model.Placement) {
	m.decisions.With(map[string]string{"role": string(placement.Role), "partition": placement.Partition}).Inc()
}

func (m *Metrics) RecordHints(hints []scaling.Hint) {
	for _, hint := range hints {
		m.resourcesCapped.With(map[string]string{"dimension": hint.Dimension}).Inc()
	}
}

func (m *Metrics) RecordFallback(requested model.Role, placement model.Placement) {
	m.fallbacks.With(map[string]string{"requested_role": string(requested), "partition": placement.Partition}).Inc()
}

func (m *Metrics) RecordValidationProblems(category string, severity Severity, count int) {
	m.validationProblems.With(map[string]string{"category": category, "severity": string(severity)}).Set(float64(count))
}
