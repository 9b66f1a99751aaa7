package collector

import (
	"context"
	"errors"
	"testing"

	"TickerLens/internal/logger"
	"TickerLens/internal/model"
)

type flakyFetcher struct {
	failures int
	calls    int
}

func (f *flakyFetcher) Name() string { return "flaky" }

func (f *flakyFetcher) FetchHistory(_ context.Context, _ string, _ model.Lookback) ([]model.Bar, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("connection reset")
	}
	return []model.Bar{{Close: 1}}, nil
}

func (f *flakyFetcher) FetchProfile(_ context.Context, symbol string) (*model.CompanyProfile, error) {
	return &model.CompanyProfile{Symbol: symbol}, nil
}

func TestRateLimited_RetriesUntilSuccess(t *testing.T) {
	inner := &flakyFetcher{failures: 2}
	r := NewRateLimited(inner, 1000, 10, 2, logger.Nop())
	r.backoff = 0

	bars, err := r.FetchHistory(context.Background(), "X", model.LookbackOneMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 1 || inner.calls != 3 {
		t.Errorf("bars=%d calls=%d, want 1 bar after 3 calls", len(bars), inner.calls)
	}
}

func TestRateLimited_GivesUp(t *testing.T) {
	inner := &flakyFetcher{failures: 5}
	r := NewRateLimited(inner, 1000, 10, 1, logger.Nop())
	r.backoff = 0

	if _, err := r.FetchHistory(context.Background(), "X", model.LookbackOneMonth); err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if inner.calls != 2 {
		t.Errorf("calls = %d, want 2", inner.calls)
	}
}

func TestRateLimited_CancelledContext(t *testing.T) {
	inner := &flakyFetcher{}
	r := NewRateLimited(inner, 1000, 10, 3, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.FetchHistory(ctx, "X", model.LookbackOneMonth); err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if inner.calls != 0 {
		t.Errorf("calls = %d, want 0", inner.calls)
	}
}

func TestStaticFetcher(t *testing.T) {
	s := &StaticFetcher{BasePrice: 100}
	bars, _ := s.FetchHistory(context.Background(), "ANY", model.LookbackThreeMonths)
	if len(bars) != 64 {
		t.Errorf("synthetic bars = %d, want 64", len(bars))
	}
	empty := &StaticFetcher{}
	if bars, _ := empty.FetchHistory(context.Background(), "ANY", model.LookbackOneMonth); len(bars) != 0 {
		t.Errorf("got %d bars, want none", len(bars))
	}
}
