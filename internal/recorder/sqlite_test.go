package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"TickerLens/internal/logger"
	"TickerLens/internal/model"
)

func TestSQLiteRecorder(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"), logger.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rec.Close()

	base := time.Date(2024, 5, 1, 16, 0, 0, 0, time.UTC)
	for i, rec2 := range []model.Recommendation{model.Hold, model.Buy} {
		report := &model.AnalysisReport{
			Symbol:       "AAPL",
			AsOf:         base.Add(time.Duration(i) * time.Hour),
			Period:       model.LookbackThreeMonths,
			CurrentPrice: 190,
			Indicators: model.IndicatorSet{
				RSI:  55,
				MACD: &model.MACDValues{MACD: 1, Signal: 0.5},
			},
			Signal: model.SignalResult{
				Profile:        "advanced",
				Recommendation: rec2,
				Label:          rec2.String(),
				Score:          i + 1,
				Findings:       []model.SignalFinding{{Label: "neutral", Weight: 0}, {Label: "strong uptrend", Weight: 2}},
			},
			Risk: model.RiskResult{Tier: model.RiskLow},
		}
		if err := rec.RecordReport(report); err != nil {
			t.Fatalf("record report: %v", err)
		}
	}
	if err := rec.RecordRefresh(&RefreshRun{StartedAt: base, Duration: time.Second, Symbols: 2, Succeeded: 2, Trigger: "CRON"}); err != nil {
		t.Fatalf("record refresh: %v", err)
	}

	rows, err := rec.RecentReports("aapl", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Recommendation != "BUY" || rows[0].Score != 2 || !rows[0].AsOf.Equal(base.Add(time.Hour)) {
		t.Errorf("newest row = %+v", rows[0])
	}

	var findings int
	if err := rec.db.QueryRow(`SELECT COUNT(*) FROM analysis_findings`).Scan(&findings); err != nil {
		t.Fatalf("count findings: %v", err)
	}
	if findings != 4 {
		t.Errorf("findings = %d, want 4", findings)
	}
}
