package calculator

import (
	"fmt"

	"TickerLens/internal/model"
)

// Default indicator windows.
const (
	RSIPeriod       = 14
	BollingerPeriod = 20
	BollingerWidth  = 2.0
	WeekBars        = 7
	MonthBars       = 30
)

// Compute derives the full indicator set from a price series. Short histories
// degrade individual indicators to neutral or absent values; only an empty
// series is an error.
func Compute(series model.PriceSeries) (*model.IndicatorSet, error) {
	if series.Len() == 0 {
		return nil, ErrEmptySeries
	}
	closes := series.Closes()
	ind := &model.IndicatorSet{
		CurrentPrice: closes[len(closes)-1],
		Bars:         len(closes),
	}

	var err error
	if ind.RSI, err = CalculateRSI(closes, RSIPeriod); err != nil {
		return nil, fmt.Errorf("rsi: %w", err)
	}
	if ind.MA7, err = CalculateSMA(closes, 7); err != nil {
		return nil, fmt.Errorf("ma7: %w", err)
	}
	if ind.MA20, err = CalculateSMA(closes, 20); err != nil {
		return nil, fmt.Errorf("ma20: %w", err)
	}
	if ind.MA50, err = CalculateSMA(closes, 50); err != nil {
		return nil, fmt.Errorf("ma50: %w", err)
	}
	if ind.MACD, err = CalculateMACD(closes); err != nil {
		return nil, fmt.Errorf("macd: %w", err)
	}
	if ind.Bollinger, err = CalculateBollinger(closes, BollingerPeriod, BollingerWidth); err != nil {
		return nil, fmt.Errorf("bollinger: %w", err)
	}
	if ind.WeekChange, err = CalculateMomentum(closes, WeekBars); err != nil {
		return nil, fmt.Errorf("week change: %w", err)
	}
	if ind.MonthChange, err = CalculateMomentum(closes, MonthBars); err != nil {
		return nil, fmt.Errorf("month change: %w", err)
	}
	if ind.VolumeRatio, err = CalculateVolumeRatio(series.Volumes()); err != nil {
		return nil, fmt.Errorf("volume ratio: %w", err)
	}
	if ind.Volatility, err = CalculateVolatility(closes); err != nil {
		return nil, fmt.Errorf("volatility: %w", err)
	}
	if ind.High52, ind.Low52, err = Calculate52WeekRange(closes); err != nil {
		return nil, fmt.Errorf("52-week range: %w", err)
	}
	return ind, nil
}
