package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"TickerLens/internal/model"
)

// Recorder exports analysis and refresh metrics to Prometheus.
type Recorder struct {
	analyses  *prometheus.CounterVec
	failures  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	lastScore *prometheus.GaugeVec
	lastPrice *prometheus.GaugeVec
	refreshes *prometheus.CounterVec
}

// New registers the collectors with reg; pass prometheus.DefaultRegisterer in production.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		analyses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tickerlens_analyses_total",
				Help: "Completed analyses by profile and recommendation",
			},
			[]string{"profile", "recommendation"},
		),
		failures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tickerlens_analysis_failures_total",
				Help: "Failed analyses by kind",
			},
			[]string{"kind"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tickerlens_analysis_duration_seconds",
				Help:    "Duration of analyses in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"profile"},
		),
		lastScore: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tickerlens_signal_score",
				Help: "Latest signal score per symbol",
			},
			[]string{"symbol"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tickerlens_last_price",
				Help: "Latest analyzed close per symbol",
			},
			[]string{"symbol"},
		),
		refreshes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tickerlens_refresh_symbols_total",
				Help: "Symbols processed by scheduled refreshes, by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveAnalysis records a completed report.
func (r *Recorder) ObserveAnalysis(report *model.AnalysisReport, took time.Duration) {
	r.analyses.WithLabelValues(report.Signal.Profile, report.Signal.Recommendation.String()).Inc()
	r.latency.WithLabelValues(report.Signal.Profile).Observe(took.Seconds())
	r.lastScore.WithLabelValues(report.Symbol).Set(float64(report.Signal.Score))
	r.lastPrice.WithLabelValues(report.Symbol).Set(report.CurrentPrice)
}

// ObserveFailure records a failed analysis.
func (r *Recorder) ObserveFailure(kind string) {
	r.failures.WithLabelValues(kind).Inc()
}

// ObserveRefresh records the outcome counts of a refresh run.
func (r *Recorder) ObserveRefresh(succeeded, failed int) {
	r.refreshes.WithLabelValues("ok").Add(float64(succeeded))
	r.refreshes.WithLabelValues("failed").Add(float64(failed))
}
