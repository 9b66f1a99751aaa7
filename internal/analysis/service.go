package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"TickerLens/internal/calculator"
	"TickerLens/internal/collector"
	"TickerLens/internal/logger"
	"TickerLens/internal/model"
	"TickerLens/internal/risk"
	"TickerLens/internal/strategy"
)

// Request selects what to analyze. Empty Period and Profile fall back to the service defaults.
type Request struct {
	Symbol  string
	Period  model.Lookback
	Profile string
}

// Observer receives the outcome of every analysis.
type Observer interface {
	ObserveAnalysis(report *model.AnalysisReport, took time.Duration)
	ObserveFailure(kind string)
}

type nopObserver struct{}

func (nopObserver) ObserveAnalysis(*model.AnalysisReport, time.Duration) {}
func (nopObserver) ObserveFailure(string)                                {}

// Service turns a symbol into an AnalysisReport.
type Service struct {
	fetcher        collector.Fetcher
	log            *logger.Logger
	observer       Observer
	timeout        time.Duration
	profileTimeout time.Duration
	defaultPeriod  model.Lookback
	defaultProfile string
	now            func() time.Time
}

type Option func(*Service)

// WithTimeout bounds each history fetch.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithObserver installs a metrics observer.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithDefaults sets the period and profile used when a request leaves them empty.
func WithDefaults(period model.Lookback, profile string) Option {
	return func(s *Service) {
		s.defaultPeriod = period
		s.defaultProfile = profile
	}
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(fetcher collector.Fetcher, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		fetcher:        fetcher,
		log:            log,
		observer:       nopObserver{},
		timeout:        15 * time.Second,
		profileTimeout: 5 * time.Second,
		defaultPeriod:  model.LookbackThreeMonths,
		defaultProfile: strategy.ProfileAdvanced,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze fetches history for the symbol and produces a fresh report.
// Provider failures and timeouts return *ProviderError, an empty history *NoDataError.
func (s *Service) Analyze(ctx context.Context, req Request) (*model.AnalysisReport, error) {
	started := time.Now()

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		s.observer.ObserveFailure("invalid_request")
		return nil, &ProviderError{Symbol: symbol, Err: ErrEmptySymbol}
	}

	period := req.Period
	if period == "" {
		period = s.defaultPeriod
	}
	if period.Days() == 0 {
		s.observer.ObserveFailure("invalid_request")
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}

	profileName := req.Profile
	if profileName == "" {
		profileName = s.defaultProfile
	}
	profile, err := strategy.ProfileByName(profileName)
	if err != nil {
		s.observer.ObserveFailure("invalid_request")
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, profileName)
	}

	bars, err := s.fetchHistory(ctx, symbol, period)
	if err != nil {
		pe := &ProviderError{Symbol: symbol, Err: err}
		kind := "provider"
		if pe.Timeout() {
			kind = "timeout"
		}
		s.observer.ObserveFailure(kind)
		s.log.Warn("history fetch failed",
			logger.String("symbol", symbol),
			logger.String("provider", s.fetcher.Name()),
			logger.Error(err))
		return nil, pe
	}

	series := model.NewPriceSeries(symbol, bars)
	if series.Len() == 0 {
		s.observer.ObserveFailure("no_data")
		return nil, &NoDataError{Symbol: symbol}
	}

	ind, err := calculator.Compute(series)
	if err != nil {
		return nil, fmt.Errorf("compute indicators for %s: %w", symbol, err)
	}

	report := &model.AnalysisReport{
		Symbol:       symbol,
		AsOf:         s.now(),
		Period:       period,
		CurrentPrice: ind.CurrentPrice,
		Indicators:   *ind,
		Signal:       strategy.Evaluate(profile, ind),
		Risk:         risk.Assess(ind),
		Company:      s.fetchProfile(ctx, symbol),
	}

	took := time.Since(started)
	s.observer.ObserveAnalysis(report, took)
	s.log.Debug("analysis complete",
		logger.String("symbol", symbol),
		logger.String("profile", profile.Name),
		logger.String("recommendation", report.Signal.Label),
		logger.Int("score", report.Signal.Score),
		logger.Int("bars", ind.Bars),
		logger.Duration("took", took))
	return report, nil
}

type fetchResult struct {
	bars []model.Bar
	err  error
}

// fetchHistory enforces the timeout even when the fetcher ignores its context.
func (s *Service) fetchHistory(ctx context.Context, symbol string, period model.Lookback) ([]model.Bar, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ch := make(chan fetchResult, 1)
	go func() {
		bars, err := s.fetcher.FetchHistory(fetchCtx, symbol, period)
		ch <- fetchResult{bars, err}
	}()

	select {
	case r := <-ch:
		return r.bars, r.err
	case <-fetchCtx.Done():
		return nil, fetchCtx.Err()
	}
}

// fetchProfile is best-effort: a missing profile never fails the analysis.
func (s *Service) fetchProfile(ctx context.Context, symbol string) *model.CompanyProfile {
	pctx, cancel := context.WithTimeout(ctx, s.profileTimeout)
	defer cancel()

	p, err := s.fetcher.FetchProfile(pctx, symbol)
	if err != nil {
		s.log.Debug("company profile unavailable", logger.String("symbol", symbol), logger.Error(err))
		return nil
	}
	return p
}
