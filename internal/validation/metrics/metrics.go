// Package metrics provides observability for the validation module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for bundle evaluation.
type Metrics struct {
	// Decisions by status and recommendation
	Decisions *prometheus.CounterVec

	// Deductions applied, by rule code
	Deductions *prometheus.CounterVec

	// Full bundle evaluation latency
	EvaluateLatency prometheus.Histogram

	// Duplicate documents detected
	Duplicates prometheus.Counter
}

// New creates and registers all validation metrics.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_case_decisions_total",
			Help: "Total case decisions by status and recommendation",
		}, []string{"status", "recommendation"}),

		Deductions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_score_deductions_total",
			Help: "Total applied deductions by rule code",
		}, []string{"code"}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dossier_case_evaluate_duration_seconds",
			Help:    "Duration of full case bundle evaluation",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),

		Duplicates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dossier_duplicate_documents_total",
			Help: "Total documents recognized as previously submitted",
		}),
	}
}

// IncrementDecision records one decision outcome.
func (m *Metrics) IncrementDecision(status, recommendation string) {
	if m != nil {
		m.Decisions.WithLabelValues(status, recommendation).Inc()
	}
}

// IncrementDeduction records one applied deduction.
func (m *Metrics) IncrementDeduction(code string) {
	if m != nil {
		m.Deductions.WithLabelValues(code).Inc()
	}
}

// ObserveEvaluateLatency records the evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// IncrementDuplicate records one duplicate document detection.
func (m *Metrics) IncrementDuplicate() {
	if m != nil {
		m.Duplicates.Inc()
	}
}
