package strategy

import (
	"fmt"

	"TickerLens/internal/model"
)

func finding(label string, weight int, format string, args ...any) (model.SignalFinding, bool) {
	return model.SignalFinding{
		Label:       label,
		Explanation: fmt.Sprintf(format, args...),
		Weight:      weight,
	}, true
}

func none() (model.SignalFinding, bool) { return model.SignalFinding{}, false }

// --- advanced profile ---

func advancedRSI(ind *model.IndicatorSet) (model.SignalFinding, bool) {
	switch {
	case ind.RSI < 30:
		return finding("oversold", 2, "RSI %.1f is below 30", ind.RSI)
	case ind.RSI > 70:
		return finding("overbought", -2, "RSI %.1f is above 70", ind.RSI)
	case ind.RSI >= 45 && ind.RSI <= 55:
		return finding("neutral", 0, "RSI %.1f is in the neutral zone", ind.RSI)
	}
	return none()
}

func advancedMACD(ind *model.IndicatorSet) (model.SignalFinding, bool) {
	m := ind.MACD
	if m == nil {
		return none()
	}
	switch {
	case m.MACD > m.Signal && m.MACD > 0:
		return finding("bullish momentum", 2, "MACD %.3f is above its signal line and positive", m.MACD)
	case m.MACD < m.Signal && m.MACD < 0:
		return finding("bearish momentum", -2, "MACD %.3f is below its signal line and negative", m.MACD)
	}
	return none()
}

func advancedBollinger(ind *model.IndicatorSet) (model.SignalFinding, bool) {
	b := ind.Bollinger
	if b == nil {
		return none()
	}
	switch {
	case ind.CurrentPrice < b.Lower:
		return finding("oversold reversal candidate", 1, "price %.2f is below the lower band %.2f", ind.CurrentPrice, b.Lower)
	case ind.CurrentPrice > b.Upper:
		return finding("overbought reversal candidate", -1, "price %.2f is above the upper band %.2f", ind.CurrentPrice, b.Upper)
	}
	return none()
}

func advancedMovingAverages(ind *model.IndicatorSet) (model.SignalFinding, bool) {
	switch {
	case ind.MA7 > ind.MA20 && ind.MA20 > ind.MA50:
		return finding("strong uptrend", 2, "MA7 %.2f > MA20 %.2f > MA50 %.2f", ind.MA7, ind.MA20, ind.MA50)
	case ind.MA7 < ind.MA20 && ind.MA20 < ind.MA50:
		return finding("strong downtrend", -2, "MA7 %.2f < MA20 %.2f < MA50 %.2f", ind.MA7, ind.MA20, ind.MA50)
	case ind.MA7 > ind.MA20:
		return finding("short-term uptrend", 1, "MA7 %.2f is above MA20 %.2f", ind.MA7, ind.MA20)
	}
	return none()
}

func advancedMomentum(ind *model.IndicatorSet) (model.SignalFinding, bool) {
	switch {
	case ind.MonthChange > 10:
		return finding("strong momentum", 1, "up %.1f%% over the month", ind.MonthChange)
	case ind.MonthChange < -10:
		return finding("weak momentum", -1, "down %.1f%% over the month", -ind.MonthChange)
	}
	return none()
}

func advancedVolume(ind *model.IndicatorSet) (model.SignalFinding, bool) {
	switch {
	case ind.VolumeRatio > 2:
		return finding("volume spike", 1, "volume is %.1fx the average", ind.VolumeRatio)
	case ind.VolumeRatio < 0.5:
		return finding("low conviction", 0, "volume is only %.1fx the average", ind.VolumeRatio)
	}
	return none()
}

func advancedVolatility(ind *model.IndicatorSet) (model.SignalFinding, bool) {
	if ind.Volatility > 3 {
		return finding("high volatility", 0, "daily volatility is %.1f%%", ind.Volatility)
	}
	return none()
}

// --- standard profile ---

func standardRSI(ind *model.IndicatorSet) (model.SignalFinding, bool) {
	switch {
	case ind.RSI < 30:
		return finding("oversold", 1, "RSI %.1f is below 30", ind.RSI)
	case ind.RSI > 70:
		return finding("overbought", -1, "RSI %.1f is above 70", ind.RSI)
	case ind.RSI >= 45 && ind.RSI <= 55:
		return finding("neutral", 0, "RSI %.1f is in the neutral zone", ind.RSI)
	}
	return none()
}

func standardTrend(ind *model.IndicatorSet) (model.SignalFinding, bool) {
	switch {
	case ind.MA7 > ind.MA20:
		return finding("short-term uptrend", 1, "MA7 %.2f is above MA20 %.2f", ind.MA7, ind.MA20)
	case ind.MA7 < ind.MA20:
		return finding("short-term downtrend", -1, "MA7 %.2f is below MA20 %.2f", ind.MA7, ind.MA20)
	}
	return none()
}

func standardMomentum(ind *model.IndicatorSet) (model.SignalFinding, bool) {
	switch {
	case ind.WeekChange > 5:
		return finding("strong momentum", 1, "up %.1f%% over the week", ind.WeekChange)
	case ind.WeekChange < -5:
		return finding("weak momentum", -1, "down %.1f%% over the week", -ind.WeekChange)
	}
	return none()
}

func standardVolume(ind *model.IndicatorSet) (model.SignalFinding, bool) {
	if ind.VolumeRatio > 2 {
		return finding("volume spike", 0, "volume is %.1fx the average", ind.VolumeRatio)
	}
	return none()
}
