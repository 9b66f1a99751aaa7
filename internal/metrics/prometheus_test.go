package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"TickerLens/internal/model"
)

func TestRecorder(t *testing.T) {
	r := New(prometheus.NewRegistry())

	report := &model.AnalysisReport{
		Symbol:       "AAPL",
		CurrentPrice: 190.5,
		Signal:       model.SignalResult{Profile: "advanced", Recommendation: model.Buy, Score: 3},
	}
	r.ObserveAnalysis(report, 120*time.Millisecond)
	r.ObserveAnalysis(report, 80*time.Millisecond)
	r.ObserveFailure("no_data")
	r.ObserveRefresh(4, 1)

	if got := testutil.ToFloat64(r.analyses.WithLabelValues("advanced", "BUY")); got != 2 {
		t.Errorf("analyses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.lastScore.WithLabelValues("AAPL")); got != 3 {
		t.Errorf("score gauge = %v, want 3", got)
	}
	if got := testutil.ToFloat64(r.failures.WithLabelValues("no_data")); got != 1 {
		t.Errorf("failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.refreshes.WithLabelValues("failed")); got != 1 {
		t.Errorf("failed refreshes = %v, want 1", got)
	}
}
