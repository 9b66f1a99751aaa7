package collector

import (
	"context"
	"math"
	"time"

	"golang.org/x/time/rate"

	"TickerLens/internal/logger"
	"TickerLens/internal/model"
)

// RateLimited wraps a Fetcher with a token-bucket limiter and retries history
// requests with exponential backoff.
type RateLimited struct {
	next       Fetcher
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	log        *logger.Logger
}

// NewRateLimited allows perSecond requests with the given burst.
func NewRateLimited(next Fetcher, perSecond float64, burst, maxRetries int, log *logger.Logger) *RateLimited {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimited{
		next:       next,
		limiter:    rate.NewLimiter(rate.Limit(perSecond), burst),
		maxRetries: maxRetries,
		backoff:    200 * time.Millisecond,
		log:        log,
	}
}

func (r *RateLimited) Name() string { return r.next.Name() }

func (r *RateLimited) FetchHistory(ctx context.Context, symbol string, period model.Lookback) ([]model.Bar, error) {
	var bars []model.Bar
	var err error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		bars, err = r.next.FetchHistory(ctx, symbol, period)
		if err == nil {
			return bars, nil
		}
		if attempt == r.maxRetries || ctx.Err() != nil {
			break
		}

		wait := time.Duration(math.Pow(2, float64(attempt))) * r.backoff
		r.log.Warn("history fetch failed, retrying",
			logger.String("provider", r.next.Name()),
			logger.String("symbol", symbol),
			logger.Int("attempt", attempt+1),
			logger.Duration("backoff", wait),
			logger.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, err
}

func (r *RateLimited) FetchProfile(ctx context.Context, symbol string) (*model.CompanyProfile, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.FetchProfile(ctx, symbol)
}
