package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is a position the user owns. Report is the last analysis applied to it.
type Holding struct {
	Symbol    string          `json:"symbol"`
	Shares    decimal.Decimal `json:"shares"`
	CostBasis decimal.Decimal `json:"cost_basis"` // per share
	AddedAt   time.Time       `json:"added_at"`
	Report    *AnalysisReport `json:"report,omitempty"`
}

// MarketValue is shares times the last analyzed price, zero when never analyzed.
func (h Holding) MarketValue() decimal.Decimal {
	if h.Report == nil {
		return decimal.Zero
	}
	return h.Shares.Mul(decimal.NewFromFloat(h.Report.CurrentPrice))
}

// Cost is shares times cost basis.
func (h Holding) Cost() decimal.Decimal {
	return h.Shares.Mul(h.CostBasis)
}

// WatchItem is a symbol tracked without a position.
type WatchItem struct {
	Symbol  string          `json:"symbol"`
	AddedAt time.Time       `json:"added_at"`
	Report  *AnalysisReport `json:"report,omitempty"`
}

// PortfolioState is the persisted holdings and watchlist.
type PortfolioState struct {
	Holdings  []Holding   `json:"holdings"`
	Watchlist []WatchItem `json:"watchlist"`
	UpdatedAt time.Time   `json:"updated_at"`
}
