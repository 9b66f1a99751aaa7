package calculator

import (
	"errors"

	"gonum.org/v1/gonum/stat"

	"TickerLens/internal/model"
)

// CalculateBollinger returns bands at width sample standard deviations around the
// period SMA, or nil when fewer than period closes are available.
func CalculateBollinger(closes []float64, period int, width float64) (*model.BollingerBands, error) {
	if period < 2 {
		return nil, errors.New("period must be at least 2")
	}
	if len(closes) == 0 {
		return nil, ErrEmptySeries
	}
	if len(closes) < period {
		return nil, nil
	}

	window := closes[len(closes)-period:]
	mean, sd := stat.MeanStdDev(window, nil)
	return &model.BollingerBands{
		Upper:  mean + width*sd,
		Middle: mean,
		Lower:  mean - width*sd,
	}, nil
}
