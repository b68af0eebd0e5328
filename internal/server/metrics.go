package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels of argo_insight_analyses_total.
const (
	outcomeOK           = "ok"
	outcomeInsufficient = "insufficient_data"
	outcomeRejected     = "rejected"
	outcomeFailed       = "failed"
)

// Metrics holds the Prometheus collectors of the HTTP API.
type Metrics struct {
	AnalysisDuration prometheus.Histogram
	Analyses         *prometheus.CounterVec
	BarsAnalyzed     prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "argo_insight_analysis_duration_seconds",
			Help:    "Time spent analysing one bar table",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "argo_insight_analyses_total",
			Help: "Analysis requests by outcome (ok, insufficient_data, rejected, failed)",
		}, []string{"outcome"}),
		BarsAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "argo_insight_bars_analyzed_total",
			Help: "Bars fed through the analysis pipeline",
		}),
	}

	reg.MustRegister(
		m.AnalysisDuration,
		m.Analyses,
		m.BarsAnalyzed,
	)

	return m
}
