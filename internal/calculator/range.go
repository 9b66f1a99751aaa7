package calculator

// tradingYear is the number of daily bars in a 52-week window.
const tradingYear = 252

// Calculate52WeekRange scans the closes of the most recent 252 bars and returns the high and low.
func Calculate52WeekRange(closes []float64) (high, low float64, err error) {
	if len(closes) == 0 {
		return 0, 0, ErrEmptySeries
	}
	start := len(closes) - tradingYear
	if start < 0 {
		start = 0
	}
	high, low = closes[start], closes[start]
	for _, c := range closes[start+1:] {
		if c > high {
			high = c
		}
		if c < low {
			low = c
		}
	}
	return high, low, nil
}
