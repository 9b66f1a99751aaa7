package calculator

import (
	"gonum.org/v1/gonum/stat"
)

// CalculateMomentum returns the percent change from the close `bars` positions
// before the end to the latest close. Returns 0 with fewer than `bars` closes.
func CalculateMomentum(closes []float64, bars int) (float64, error) {
	if len(closes) == 0 {
		return 0, ErrEmptySeries
	}
	if bars <= 0 || len(closes) < bars {
		return 0, nil
	}
	ref := closes[len(closes)-bars]
	if ref == 0 {
		return 0, nil
	}
	return (closes[len(closes)-1] - ref) / ref * 100, nil
}

// CalculateVolumeRatio compares the latest volume with the mean volume of the window.
// Returns 1.0 when the mean is zero.
func CalculateVolumeRatio(volumes []int64) (float64, error) {
	if len(volumes) == 0 {
		return 0, ErrEmptySeries
	}
	vals := make([]float64, len(volumes))
	for i, v := range volumes {
		vals[i] = float64(v)
	}
	mean := stat.Mean(vals, nil)
	if mean == 0 {
		return 1.0, nil
	}
	return vals[len(vals)-1] / mean, nil
}

// CalculateVolatility returns the sample standard deviation of bar-over-bar percent
// changes, expressed in percent. Returns 0 with fewer than two changes.
func CalculateVolatility(closes []float64) (float64, error) {
	if len(closes) == 0 {
		return 0, ErrEmptySeries
	}
	changes := make([]float64, 0, len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		changes = append(changes, (closes[i]-closes[i-1])/closes[i-1])
	}
	if len(changes) < 2 {
		return 0, nil
	}
	return stat.StdDev(changes, nil) * 100, nil
}
