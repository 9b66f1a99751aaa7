package model

// MACDValues holds the latest MACD line, signal line and histogram.
type MACDValues struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// BollingerBands holds the latest band values.
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// WidthPercent returns the band width relative to price, in percent.
func (b BollingerBands) WidthPercent(price float64) float64 {
	if price == 0 {
		return 0
	}
	return (b.Upper - b.Lower) / price * 100
}

// IndicatorSet holds all computed technical indicators for one series.
// MACD and Bollinger are nil when history is too short to compute them.
type IndicatorSet struct {
	CurrentPrice float64         `json:"current_price"`
	RSI          float64         `json:"rsi"`
	MA7          float64         `json:"ma7"`
	MA20         float64         `json:"ma20"`
	MA50         float64         `json:"ma50"`
	MACD         *MACDValues     `json:"macd,omitempty"`
	Bollinger    *BollingerBands `json:"bollinger,omitempty"`
	WeekChange   float64         `json:"week_change"`  // percent
	MonthChange  float64         `json:"month_change"` // percent
	VolumeRatio  float64         `json:"volume_ratio"`
	Volatility   float64         `json:"volatility"` // percent
	High52       float64         `json:"high_52"`
	Low52        float64         `json:"low_52"`
	Bars         int             `json:"bars"`
}
