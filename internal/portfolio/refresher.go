package portfolio

import (
	"context"

	"golang.org/x/sync/errgroup"

	"TickerLens/internal/analysis"
	"TickerLens/internal/logger"
	"TickerLens/internal/model"
)

// Analyzer produces a report for one symbol.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*model.AnalysisReport, error)
}

// Outcome is the per-symbol result of a refresh.
type Outcome struct {
	Symbol   string
	Report   *model.AnalysisReport
	Previous *model.AnalysisReport
	Err      error
}

// Changed reports whether the recommendation moved since the previous report.
// Reports scored under a different profile or lookback are not comparable and never count as a change.
func (o Outcome) Changed() bool {
	if o.Report == nil || o.Previous == nil {
		return false
	}
	if o.Report.Signal.Profile != o.Previous.Signal.Profile || o.Report.Period != o.Previous.Period {
		return false
	}
	return o.Report.Signal.Recommendation != o.Previous.Signal.Recommendation
}

// Refresher re-analyzes symbols with bounded concurrency and stores the results.
type Refresher struct {
	analyzer    Analyzer
	manager     *Manager
	concurrency int
	period      model.Lookback
	profile     string
	log         *logger.Logger
}

func NewRefresher(a Analyzer, m *Manager, concurrency int, period model.Lookback, profile string, log *logger.Logger) *Refresher {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Refresher{
		analyzer:    a,
		manager:     m,
		concurrency: concurrency,
		period:      period,
		profile:     profile,
		log:         log,
	}
}

// Refresh re-analyzes every held and watched symbol.
func (r *Refresher) Refresh(ctx context.Context) []Outcome {
	return r.RefreshSymbols(ctx, r.manager.Symbols())
}

// RefreshSymbols analyzes each symbol independently; one failure never affects the others.
// Outcomes keep the order of symbols.
func (r *Refresher) RefreshSymbols(ctx context.Context, symbols []string) []Outcome {
	outcomes := make([]Outcome, len(symbols))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, sym := range symbols {
		g.Go(func() error {
			report, err := r.analyzer.Analyze(ctx, analysis.Request{Symbol: sym, Period: r.period, Profile: r.profile})
			outcomes[i] = Outcome{Symbol: sym, Report: report, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	for i := range outcomes {
		o := &outcomes[i]
		if o.Err != nil {
			r.log.Warn("refresh failed",
				logger.String("symbol", o.Symbol),
				logger.Bool("retryable", analysis.IsRetryable(o.Err)),
				logger.Error(o.Err))
			continue
		}
		o.Previous, _ = r.manager.ApplyReport(o.Report)
	}
	return outcomes
}
