package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tcfw/docverify/pkg/fragment"
	"github.com/tcfw/docverify/pkg/verifier"
)

// Metrics records verifier outcomes and latencies. A nil *Metrics is a no-op.
type Metrics struct {
	// Fragment outcomes by verifier and status
	FragmentOutcome *prometheus.CounterVec

	// Verifier latency, skipped verifiers are not observed
	VerifierLatency *prometheus.HistogramVec

	// Overall report outcomes
	OverallOutcome *prometheus.CounterVec

	// Full verification latency
	VerifyLatency prometheus.Histogram
}

var _ verifier.Observer = (*Metrics)(nil)

// New registers every metric with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	f := promauto.With(reg)

	return &Metrics{
		FragmentOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "docverify_fragment_outcomes_total",
			Help: "Total fragments produced by verifier and status",
		}, []string{"verifier", "status"}),

		VerifierLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docverify_verifier_duration_seconds",
			Help:    "Duration of a single verifier run",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"verifier"}),

		OverallOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "docverify_overall_outcomes_total",
			Help: "Total verification reports by overall status",
		}, []string{"status"}),

		VerifyLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "docverify_verify_duration_seconds",
			Help:    "Duration of a full document verification",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) ObserveFragment(fr fragment.Fragment, d time.Duration) {
	if m != nil {
		m.FragmentOutcome.WithLabelValues(fr.Name, string(fr.Status)).Inc()
		m.VerifierLatency.WithLabelValues(fr.Name).Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveOverall(o fragment.Overall, d time.Duration) {
	if m != nil {
		m.OverallOutcome.WithLabelValues(string(o)).Inc()
		m.VerifyLatency.Observe(d.Seconds())
	}
}
