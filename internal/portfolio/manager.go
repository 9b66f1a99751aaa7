package portfolio

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"TickerLens/internal/logger"
	"TickerLens/internal/model"
)

var (
	ErrNotFound      = errors.New("symbol not in portfolio")
	ErrInvalidShares = errors.New("shares must be positive")
)

// Manager owns the holdings and watchlist with concurrency safety. Every mutation is persisted.
type Manager struct {
	mu       sync.Mutex
	state    *model.PortfolioState
	filePath string
	log      *logger.Logger
}

// NewManager creates a Manager, loading state from disk.
func NewManager(filePath string, log *logger.Logger) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	return &Manager{state: state, filePath: filePath, log: log}, nil
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() model.PortfolioState {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := model.PortfolioState{UpdatedAt: m.state.UpdatedAt}
	out.Holdings = append([]model.Holding(nil), m.state.Holdings...)
	out.Watchlist = append([]model.WatchItem(nil), m.state.Watchlist...)
	return out
}

// AddHolding opens a position or adds to an existing one at a weighted-average cost basis.
func (m *Manager) AddHolding(symbol string, shares, costBasis decimal.Decimal) (model.Holding, error) {
	symbol = normalize(symbol)
	if symbol == "" {
		return model.Holding{}, errors.New("symbol is empty")
	}
	if !shares.IsPositive() {
		return model.Holding{}, ErrInvalidShares
	}
	if costBasis.IsNegative() {
		return model.Holding{}, errors.New("cost basis must not be negative")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.state.Holdings {
		h := &m.state.Holdings[i]
		if h.Symbol != symbol {
			continue
		}
		total := h.Shares.Add(shares)
		h.CostBasis = h.Cost().Add(shares.Mul(costBasis)).Div(total)
		h.Shares = total
		return *h, m.save()
	}

	h := model.Holding{Symbol: symbol, Shares: shares, CostBasis: costBasis, AddedAt: time.Now()}
	m.state.Holdings = append(m.state.Holdings, h)
	return h, m.save()
}

// RemoveHolding closes a position.
func (m *Manager) RemoveHolding(symbol string) error {
	symbol = normalize(symbol)
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, h := range m.state.Holdings {
		if h.Symbol == symbol {
			m.state.Holdings = append(m.state.Holdings[:i], m.state.Holdings[i+1:]...)
			return m.save()
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, symbol)
}

// Watch adds a symbol to the watchlist. Watching an already watched symbol is a no-op.
func (m *Manager) Watch(symbol string) error {
	symbol = normalize(symbol)
	if symbol == "" {
		return errors.New("symbol is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range m.state.Watchlist {
		if w.Symbol == symbol {
			return nil
		}
	}
	m.state.Watchlist = append(m.state.Watchlist, model.WatchItem{Symbol: symbol, AddedAt: time.Now()})
	return m.save()
}

// Unwatch removes a symbol from the watchlist.
func (m *Manager) Unwatch(symbol string) error {
	symbol = normalize(symbol)
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, w := range m.state.Watchlist {
		if w.Symbol == symbol {
			m.state.Watchlist = append(m.state.Watchlist[:i], m.state.Watchlist[i+1:]...)
			return m.save()
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, symbol)
}

// Symbols lists every held or watched symbol once, sorted.
func (m *Manager) Symbols() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	for _, h := range m.state.Holdings {
		seen[h.Symbol] = true
	}
	for _, w := range m.state.Watchlist {
		seen[w.Symbol] = true
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// ApplyReport replaces the stored report of every entry for the report's symbol
// and returns the report it replaced, if any.
func (m *Manager) ApplyReport(report *model.AnalysisReport) (previous *model.AnalysisReport, found bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.state.Holdings {
		if m.state.Holdings[i].Symbol == report.Symbol {
			if previous == nil {
				previous = m.state.Holdings[i].Report
			}
			m.state.Holdings[i].Report = report
			found = true
		}
	}
	for i := range m.state.Watchlist {
		if m.state.Watchlist[i].Symbol == report.Symbol {
			if previous == nil {
				previous = m.state.Watchlist[i].Report
			}
			m.state.Watchlist[i].Report = report
			found = true
		}
	}
	if !found {
		return nil, false
	}
	if err := m.save(); err != nil {
		m.log.Error("failed to save portfolio", logger.String("symbol", report.Symbol), logger.Error(err))
	}
	return previous, true
}

// Summary aggregates the holdings.
type Summary struct {
	Positions   int             `json:"positions"`
	Analyzed    int             `json:"analyzed"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	MarketValue decimal.Decimal `json:"market_value"`
	GainLoss    decimal.Decimal `json:"gain_loss"`
}

// Summary sums cost and market value over analyzed holdings.
func (m *Manager) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Summary{Positions: len(m.state.Holdings)}
	for _, h := range m.state.Holdings {
		if h.Report == nil {
			continue
		}
		s.Analyzed++
		s.TotalCost = s.TotalCost.Add(h.Cost())
		s.MarketValue = s.MarketValue.Add(h.MarketValue())
	}
	s.GainLoss = s.MarketValue.Sub(s.TotalCost)
	return s
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}
