package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics aggregates the planner-facing Prometheus collectors.
type Metrics struct {
	PlansTotal    *prometheus.CounterVec
	PlanDuration  prometheus.Histogram
	EditsTotal    *prometheus.CounterVec
	BreadthTotal  *prometheus.CounterVec
	CatalogErrors prometheus.Counter
}

// NewMetrics registers the domain collectors on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PlansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_runs_total",
			Help: "Planning runs by outcome.",
		}, []string{"outcome"}),
		PlanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planner_run_duration_seconds",
			Help:    "Wall-clock duration of planning runs.",
			Buckets: prometheus.DefBuckets,
		}),
		EditsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "editor_operations_total",
			Help: "Editor operations by type and outcome.",
		}, []string{"type", "outcome"}),
		BreadthTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "breadth_requests_total",
			Help: "Breadth recommendation requests by outcome.",
		}, []string{"outcome"}),
		CatalogErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_errors_total",
			Help: "Catalog queries that failed after retries.",
		}),
	}
	reg.MustRegister(m.PlansTotal, m.PlanDuration, m.EditsTotal, m.BreadthTotal, m.CatalogErrors)
	return m
}

// ObservePlan records one planning run.
func (m *Metrics) ObservePlan(start time.Time, err error) {
	if m == nil {
		return
	}
	m.PlanDuration.Observe(time.Since(start).Seconds())
	m.PlansTotal.WithLabelValues(outcome(err)).Inc()
}

// ObserveEdit records one editor operation.
func (m *Metrics) ObserveEdit(opType string, err error) {
	if m == nil {
		return
	}
	m.EditsTotal.WithLabelValues(opType, outcome(err)).Inc()
}

// ObserveBreadth records one breadth request.
func (m *Metrics) ObserveBreadth(err error) {
	if m == nil {
		return
	}
	m.BreadthTotal.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
