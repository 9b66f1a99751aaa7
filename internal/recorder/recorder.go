package recorder

import (
	"time"

	"TickerLens/internal/model"
)

// RefreshRun summarizes one scheduled or manual refresh.
type RefreshRun struct {
	StartedAt time.Time
	Duration  time.Duration
	Symbols   int
	Succeeded int
	Failed    int
	Changed   int
	Trigger   string // "CRON", "COMMAND", "API"
}

// ReportRow is a stored report in flattened form.
type ReportRow struct {
	Symbol         string    `json:"symbol"`
	AsOf           time.Time `json:"as_of"`
	Period         string    `json:"period"`
	Profile        string    `json:"profile"`
	Recommendation string    `json:"recommendation"`
	Label          string    `json:"label"`
	Score          int       `json:"score"`
	RiskTier       string    `json:"risk_tier"`
	Price          float64   `json:"price"`
	RSI            float64   `json:"rsi"`
	Volatility     float64   `json:"volatility"`
}

// Recorder persists report history for later inspection.
type Recorder interface {
	RecordReport(report *model.AnalysisReport) error
	RecordRefresh(run *RefreshRun) error
	RecentReports(symbol string, limit int) ([]ReportRow, error)
	Close() error
}
