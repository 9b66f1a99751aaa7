package strategy

import (
	"fmt"
	"strings"

	"TickerLens/internal/model"
)

// Rule inspects an indicator set and reports at most one finding.
type Rule func(ind *model.IndicatorSet) (model.SignalFinding, bool)

// Band maps every score >= MinScore to a recommendation. Bands are scanned in order.
type Band struct {
	MinScore       int
	Recommendation model.Recommendation
}

// Profile is a named scoring rubric.
type Profile struct {
	Name        string
	Description string
	Rules       []Rule
	Bands       []Band
	// Labels overrides the display label of individual recommendations.
	Labels map[model.Recommendation]string
}

const (
	ProfileStandard = "standard"
	ProfileAdvanced = "advanced"
)

var rationales = map[model.Recommendation]string{
	model.StrongBuy:  "Multiple bullish indicators align",
	model.Buy:        "Bullish indicators outweigh bearish ones",
	model.Hold:       "Mixed or neutral signals",
	model.Sell:       "Bearish indicators outweigh bullish ones",
	model.StrongSell: "Multiple bearish indicators align",
}

// Standard is the lightweight profile: RSI, short-term trend and weekly momentum, each worth one point.
var Standard = Profile{
	Name:        ProfileStandard,
	Description: "RSI, short-term trend and weekly momentum, one point each",
	Rules: []Rule{
		standardRSI,
		standardTrend,
		standardMomentum,
		standardVolume,
	},
	Bands: []Band{
		{2, model.StrongBuy},
		{1, model.Buy},
		{0, model.Hold},
		{-1, model.Sell},
	},
}

// Advanced is the weighted multi-indicator profile.
var Advanced = Profile{
	Name:        ProfileAdvanced,
	Description: "Weighted RSI, MACD, Bollinger, moving-average stack, momentum, volume and volatility",
	Rules: []Rule{
		advancedRSI,
		advancedMACD,
		advancedBollinger,
		advancedMovingAverages,
		advancedMomentum,
		advancedVolume,
		advancedVolatility,
	},
	Bands: []Band{
		{4, model.StrongBuy},
		{2, model.Buy},
		{-1, model.Hold},
		{-3, model.Sell},
	},
	Labels: map[model.Recommendation]string{
		model.Sell: "CONSIDER_SELLING",
	},
}

// Profiles lists the available scoring profiles.
func Profiles() []Profile {
	return []Profile{Standard, Advanced}
}

// ProfileByName looks up a profile, case-insensitively.
func ProfileByName(name string) (Profile, error) {
	for _, p := range Profiles() {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("unknown profile %q", name)
}

// mapRecommendation maps a total score through the profile's bands.
func (p Profile) mapRecommendation(score int) model.Recommendation {
	for _, b := range p.Bands {
		if score >= b.MinScore {
			return b.Recommendation
		}
	}
	return model.StrongSell
}

// Label returns the display label of a recommendation under this profile.
func (p Profile) Label(rec model.Recommendation) string {
	if l, ok := p.Labels[rec]; ok {
		return l
	}
	return rec.String()
}

// Evaluate runs every rule in order, sums the finding weights and maps the score.
func Evaluate(p Profile, ind *model.IndicatorSet) model.SignalResult {
	findings := make([]model.SignalFinding, 0, len(p.Rules))
	score := 0
	for _, rule := range p.Rules {
		if f, ok := rule(ind); ok {
			findings = append(findings, f)
			score += f.Weight
		}
	}

	rec := p.mapRecommendation(score)
	return model.SignalResult{
		Profile:        p.Name,
		Recommendation: rec,
		Label:          p.Label(rec),
		Rationale:      rationales[rec],
		Severity:       model.SeverityFor(rec),
		Findings:       findings,
		Score:          score,
	}
}
