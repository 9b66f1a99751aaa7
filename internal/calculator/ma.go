package calculator

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

// ErrEmptySeries is returned when an indicator is asked to work on no data at all.
var ErrEmptySeries = errors.New("empty price series")

// CalculateSMA computes the simple moving average of the last window prices.
// With fewer prices than the window it averages everything available.
func CalculateSMA(prices []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}
	if len(prices) == 0 {
		return 0, ErrEmptySeries
	}
	start := len(prices) - window
	if start < 0 {
		start = 0
	}
	return stat.Mean(prices[start:], nil), nil
}

// CalculateEMA returns the exponential moving average series with alpha = 2/(span+1),
// seeded with the first value.
func CalculateEMA(values []float64, span int) ([]float64, error) {
	if span <= 0 {
		return nil, errors.New("span must be positive")
	}
	if len(values) == 0 {
		return nil, ErrEmptySeries
	}
	alpha := 2.0 / float64(span+1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out, nil
}
