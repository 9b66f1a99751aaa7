package collector

import (
	"context"
	"time"

	"TickerLens/internal/model"
)

// StaticFetcher serves fixed data for development and testing. Symbols without
// fixed bars get a gently rising synthetic series around BasePrice, or nothing
// when BasePrice is zero.
type StaticFetcher struct {
	BasePrice float64
	Bars      map[string][]model.Bar
	Profiles  map[string]*model.CompanyProfile
	Err       error
}

func (s *StaticFetcher) Name() string { return "static" }

func (s *StaticFetcher) FetchHistory(_ context.Context, symbol string, period model.Lookback) ([]model.Bar, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if bars, ok := s.Bars[symbol]; ok {
		return bars, nil
	}
	if s.BasePrice <= 0 {
		return nil, nil
	}
	return generateBars(s.BasePrice, period.Days()*5/7), nil
}

func (s *StaticFetcher) FetchProfile(_ context.Context, symbol string) (*model.CompanyProfile, error) {
	if p, ok := s.Profiles[symbol]; ok {
		return p, nil
	}
	return &model.CompanyProfile{Symbol: symbol}, nil
}

func generateBars(basePrice float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Date:   today.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
