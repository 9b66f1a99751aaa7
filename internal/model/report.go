package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// RiskTier is the qualitative risk rating.
type RiskTier string

const (
	RiskLow    RiskTier = "LOW"
	RiskMedium RiskTier = "MEDIUM"
	RiskHigh   RiskTier = "HIGH"
)

// RiskResult is the output of the risk rubric.
type RiskResult struct {
	Tier        RiskTier `json:"tier"`
	Points      int      `json:"points"`
	Description string   `json:"description"`
}

// CompanyProfile is provider metadata. Every field may be absent.
type CompanyProfile struct {
	Symbol        string      `json:"symbol"`
	Name          null.String `json:"name"`
	Sector        null.String `json:"sector"`
	Industry      null.String `json:"industry"`
	Currency      null.String `json:"currency"`
	MarketCap     null.Float  `json:"market_cap"`
	TrailingPE    null.Float  `json:"trailing_pe"`
	ForwardPE     null.Float  `json:"forward_pe"`
	DividendYield null.Float  `json:"dividend_yield"`
	Beta          null.Float  `json:"beta"`
}

// DisplayName returns the company name, or the symbol when the provider has none.
func (c *CompanyProfile) DisplayName() string {
	if c == nil {
		return ""
	}
	if c.Name.Valid && c.Name.String != "" {
		return c.Name.String
	}
	return c.Symbol
}

// SectorOrDefault returns the sector or "Unknown".
func (c *CompanyProfile) SectorOrDefault() string {
	if c == nil || !c.Sector.Valid || c.Sector.String == "" {
		return "Unknown"
	}
	return c.Sector.String
}

// AnalysisReport is the immutable result of analyzing one symbol.
type AnalysisReport struct {
	Symbol       string          `json:"symbol"`
	AsOf         time.Time       `json:"as_of"`
	Period       Lookback        `json:"period"`
	CurrentPrice float64         `json:"current_price"`
	Indicators   IndicatorSet    `json:"indicators"`
	Signal       SignalResult    `json:"signal"`
	Risk         RiskResult      `json:"risk"`
	Company      *CompanyProfile `json:"company,omitempty"`
}
