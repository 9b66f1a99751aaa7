// Package risk rates how risky a position looks, independently of the directional signal.
package risk

import "TickerLens/internal/model"

var descriptions = map[model.RiskTier]string{
	model.RiskLow:    "Stable price action with contained volatility",
	model.RiskMedium: "Elevated volatility or stretched momentum, size positions carefully",
	model.RiskHigh:   "High volatility and extreme readings, expect large swings",
}

// Assess scores volatility, RSI extremes and Bollinger width into a risk tier.
func Assess(ind *model.IndicatorSet) model.RiskResult {
	points := 0

	switch {
	case ind.Volatility > 4:
		points += 3
	case ind.Volatility > 2:
		points++
	}

	if ind.RSI > 75 || ind.RSI < 25 {
		points += 2
	}

	if ind.Bollinger != nil && ind.Bollinger.WidthPercent(ind.CurrentPrice) > 10 {
		points++
	}

	tier := model.RiskLow
	switch {
	case points >= 5:
		tier = model.RiskHigh
	case points >= 3:
		tier = model.RiskMedium
	}
	return model.RiskResult{Tier: tier, Points: points, Description: descriptions[tier]}
}
