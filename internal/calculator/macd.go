package calculator

import "TickerLens/internal/model"

const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
)

// CalculateMACD returns the latest MACD(12,26,9) values, or nil when fewer than
// 26 closes are available.
func CalculateMACD(closes []float64) (*model.MACDValues, error) {
	if len(closes) == 0 {
		return nil, ErrEmptySeries
	}
	if len(closes) < macdSlow {
		return nil, nil
	}

	fast, err := CalculateEMA(closes, macdFast)
	if err != nil {
		return nil, err
	}
	slow, err := CalculateEMA(closes, macdSlow)
	if err != nil {
		return nil, err
	}
	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}
	signal, err := CalculateEMA(line, macdSignal)
	if err != nil {
		return nil, err
	}

	last := len(line) - 1
	return &model.MACDValues{
		MACD:      line[last],
		Signal:    signal[last],
		Histogram: line[last] - signal[last],
	}, nil
}
