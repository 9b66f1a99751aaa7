package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"TickerLens/internal/model"
	"TickerLens/internal/portfolio"
)

const topFindings = 3

var hundred = decimal.NewFromInt(100)

var severityIcons = map[model.Severity]string{
	model.SeverityGreen:      "🟢",
	model.SeverityLightGreen: "🟢",
	model.SeverityGray:       "⚪",
	model.SeverityOrange:     "🟠",
	model.SeverityRed:        "🔴",
}

var riskIcons = map[model.RiskTier]string{
	model.RiskLow:    "🟢",
	model.RiskMedium: "🟡",
	model.RiskHigh:   "🔴",
}

// FormatReport formats a full analysis report into a Telegram message.
func FormatReport(r *model.AnalysisReport) string {
	var b strings.Builder
	ind := r.Indicators

	title := html.EscapeString(r.Symbol)
	if name := r.Company.DisplayName(); name != "" && name != r.Symbol {
		title += " · " + html.EscapeString(name)
	}
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n", title, r.AsOf.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Price: %.2f | Period: %s | Profile: %s\n\n", r.CurrentPrice, r.Period, r.Signal.Profile))

	b.WriteString(fmt.Sprintf("%s <b>%s</b> (score %+d)\n", severityIcons[r.Signal.Severity], r.Signal.Label, r.Signal.Score))
	if r.Signal.Rationale != "" {
		b.WriteString(html.EscapeString(r.Signal.Rationale) + "\n")
	}

	b.WriteString("\n📈 <b>Indicators:</b>\n")
	b.WriteString(fmt.Sprintf("  RSI(14): %.1f\n", ind.RSI))
	b.WriteString(fmt.Sprintf("  MA7 %.2f | MA20 %.2f | MA50 %.2f\n", ind.MA7, ind.MA20, ind.MA50))
	if ind.MACD != nil {
		b.WriteString(fmt.Sprintf("  MACD %.3f | signal %.3f | hist %+.3f\n", ind.MACD.MACD, ind.MACD.Signal, ind.MACD.Histogram))
	} else {
		b.WriteString("  MACD: n/a\n")
	}
	if ind.Bollinger != nil {
		b.WriteString(fmt.Sprintf("  Bollinger %.2f / %.2f / %.2f\n", ind.Bollinger.Lower, ind.Bollinger.Middle, ind.Bollinger.Upper))
	}
	b.WriteString(fmt.Sprintf("  Week %+.2f%% | Month %+.2f%%\n", ind.WeekChange, ind.MonthChange))
	b.WriteString(fmt.Sprintf("  Volume %.2fx | Volatility %.2f%%\n", ind.VolumeRatio, ind.Volatility))
	b.WriteString(fmt.Sprintf("  Range %.2f to %.2f\n", ind.Low52, ind.High52))

	if findings := r.Signal.TopFindings(topFindings); len(findings) > 0 {
		b.WriteString("\n🔎 <b>Key signals:</b>\n")
		for _, f := range findings {
			b.WriteString(fmt.Sprintf("  • %s (%+d): %s\n", f.Label, f.Weight, html.EscapeString(f.Explanation)))
		}
	}

	b.WriteString(fmt.Sprintf("\n%s <b>Risk:</b> %s (%d pts)\n", riskIcons[r.Risk.Tier], r.Risk.Tier, r.Risk.Points))
	if r.Risk.Description != "" {
		b.WriteString("  " + r.Risk.Description + "\n")
	}

	if r.Company != nil {
		b.WriteString(formatCompany(r.Company))
	}
	return b.String()
}

func formatCompany(c *model.CompanyProfile) string {
	parts := []string{"Sector: " + html.EscapeString(c.SectorOrDefault())}
	if c.MarketCap.Valid {
		parts = append(parts, "Cap: "+humanize(c.MarketCap.Float64))
	}
	if c.TrailingPE.Valid {
		parts = append(parts, fmt.Sprintf("P/E: %.1f", c.TrailingPE.Float64))
	}
	if c.DividendYield.Valid {
		parts = append(parts, fmt.Sprintf("Yield: %.2f%%", c.DividendYield.Float64*100))
	}
	if c.Beta.Valid {
		parts = append(parts, fmt.Sprintf("Beta: %.2f", c.Beta.Float64))
	}
	return "\n🏢 " + strings.Join(parts, " | ") + "\n"
}

func humanize(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func shortCall(r *model.AnalysisReport) string {
	if r == nil {
		return "not analyzed yet"
	}
	return fmt.Sprintf("%s %s (%+d) @ %.2f, risk %s",
		severityIcons[r.Signal.Severity], r.Signal.Label, r.Signal.Score, r.CurrentPrice, r.Risk.Tier)
}

// FormatPortfolio formats holdings with their latest calls and the aggregate gain/loss.
func FormatPortfolio(state model.PortfolioState, sum portfolio.Summary) string {
	var b strings.Builder
	b.WriteString("💼 <b>Portfolio</b>\n\n")
	if len(state.Holdings) == 0 {
		b.WriteString("No holdings. Add one with /add SYMBOL SHARES COST\n")
		return b.String()
	}
	for _, h := range state.Holdings {
		b.WriteString(fmt.Sprintf("<b>%s</b> %s @ %s\n", html.EscapeString(h.Symbol), h.Shares.String(), h.CostBasis.StringFixed(2)))
		b.WriteString("  " + shortCall(h.Report) + "\n")
		if h.Report != nil && h.Cost().IsPositive() {
			pl := h.MarketValue().Sub(h.Cost())
			pct := pl.Div(h.Cost()).Mul(hundred)
			b.WriteString(fmt.Sprintf("  P/L: %s (%s%%)\n", signed(pl.StringFixed(2)), signed(pct.StringFixed(1))))
		}
	}
	b.WriteString(fmt.Sprintf("\nAnalyzed %d/%d | Cost %s | Value %s | P/L %s\n",
		sum.Analyzed, sum.Positions, sum.TotalCost.StringFixed(2), sum.MarketValue.StringFixed(2), signed(sum.GainLoss.StringFixed(2))))
	if !state.UpdatedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Updated: %s\n", state.UpdatedAt.Format("2006-01-02 15:04")))
	}
	return b.String()
}

// FormatWatchlist formats watched symbols with their latest calls.
func FormatWatchlist(state model.PortfolioState) string {
	var b strings.Builder
	b.WriteString("👀 <b>Watchlist</b>\n\n")
	if len(state.Watchlist) == 0 {
		b.WriteString("Nothing watched. Add a symbol with /watch SYMBOL\n")
		return b.String()
	}
	for _, w := range state.Watchlist {
		b.WriteString(fmt.Sprintf("<b>%s</b>: %s\n", html.EscapeString(w.Symbol), shortCall(w.Report)))
	}
	return b.String()
}

// FormatRefreshDigest summarizes a refresh, listing recommendation changes first.
func FormatRefreshDigest(outcomes []portfolio.Outcome) string {
	var b strings.Builder
	var changed, failed, steady []portfolio.Outcome
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			failed = append(failed, o)
		case o.Changed():
			changed = append(changed, o)
		default:
			steady = append(steady, o)
		}
	}

	b.WriteString(fmt.Sprintf("🔄 <b>Refresh</b> | %d symbols, %d changed, %d failed\n", len(outcomes), len(changed), len(failed)))
	if len(outcomes) == 0 {
		b.WriteString("\nNothing to refresh.\n")
		return b.String()
	}
	if len(changed) > 0 {
		b.WriteString("\n⚡ <b>Changed:</b>\n")
		for _, o := range changed {
			b.WriteString(fmt.Sprintf("  <b>%s</b>: %s → %s %s\n",
				html.EscapeString(o.Symbol), o.Previous.Signal.Label, severityIcons[o.Report.Signal.Severity], o.Report.Signal.Label))
		}
	}
	if len(steady) > 0 {
		b.WriteString("\n<b>Unchanged:</b>\n")
		for _, o := range steady {
			b.WriteString(fmt.Sprintf("  <b>%s</b>: %s\n", html.EscapeString(o.Symbol), shortCall(o.Report)))
		}
	}
	if len(failed) > 0 {
		b.WriteString("\n❌ <b>Failed:</b>\n")
		for _, o := range failed {
			b.WriteString(fmt.Sprintf("  %s\n", html.EscapeString(o.Err.Error())))
		}
	}
	return b.String()
}

func signed(s string) string {
	if strings.HasPrefix(s, "-") {
		return s
	}
	return "+" + s
}
