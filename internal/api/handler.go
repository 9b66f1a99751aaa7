package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"TickerLens/internal/analysis"
	"TickerLens/internal/cache"
	"TickerLens/internal/logger"
	"TickerLens/internal/model"
	"TickerLens/internal/portfolio"
	"TickerLens/internal/recorder"
	"TickerLens/internal/scheduler"
	"TickerLens/internal/strategy"
)

// Analyzer produces a report for one symbol.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*model.AnalysisReport, error)
}

// RefreshRunner re-analyzes the whole portfolio.
type RefreshRunner interface {
	RunRefresh(trigger string) []portfolio.Outcome
}

type AnalyzeRequest struct {
	Symbol  string `query:"symbol" validate:"required,max=15"`
	Period  string `query:"period" validate:"omitempty,oneof=1mo 3mo 1y"`
	Profile string `query:"profile" validate:"omitempty,oneof=standard advanced"`
	Fresh   bool   `query:"fresh"`
}

type HoldingRequest struct {
	Symbol    string          `json:"symbol" validate:"required,max=15"`
	Shares    decimal.Decimal `json:"shares"`
	CostBasis decimal.Decimal `json:"cost_basis"`
}

type WatchRequest struct {
	Symbol string `json:"symbol" validate:"required,max=15"`
}

type SymbolParam struct {
	Symbol string `param:"symbol" validate:"required,max=15"`
}

type HistoryRequest struct {
	Symbol string `param:"symbol" validate:"required,max=15"`
	Limit  int    `query:"limit" default:"20" validate:"gte=1,lte=500"`
}

type PortfolioResponse struct {
	Holdings  []model.Holding   `json:"holdings"`
	Watchlist []model.WatchItem `json:"watchlist"`
	Summary   portfolio.Summary `json:"summary"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type RefreshItem struct {
	Symbol         string `json:"symbol"`
	Recommendation string `json:"recommendation,omitempty"`
	Previous       string `json:"previous,omitempty"`
	Changed        bool   `json:"changed"`
	Error          string `json:"error,omitempty"`
}

type ProfileInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Handler serves the analysis and portfolio API.
type Handler struct {
	analyzer  Analyzer
	portfolio *portfolio.Manager
	recorder  recorder.Recorder
	cache     cache.Store
	cacheTTL  time.Duration
	refresher RefreshRunner
	log       *logger.Logger
}

// NewHandler wires the API. store and refresher may be nil to disable caching and
// the refresh endpoint.
func NewHandler(a Analyzer, pm *portfolio.Manager, rec recorder.Recorder, store cache.Store, ttl time.Duration,
	refresher RefreshRunner, log *logger.Logger) *Handler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Handler{
		analyzer:  a,
		portfolio: pm,
		recorder:  rec,
		cache:     store,
		cacheTTL:  ttl,
		refresher: refresher,
		log:       log,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/analyze", h.Analyze)
	g.GET("/profiles", h.Profiles)
	g.GET("/history/:symbol", h.History)
	g.GET("/portfolio", h.Portfolio)
	g.POST("/portfolio/holdings", h.AddHolding)
	g.DELETE("/portfolio/holdings/:symbol", h.RemoveHolding)
	g.POST("/portfolio/refresh", h.Refresh)
	g.POST("/watchlist", h.Watch)
	g.DELETE("/watchlist/:symbol", h.Unwatch)
}

func cacheKey(req *AnalyzeRequest) string {
	return fmt.Sprintf("analysis:%s:%s:%s",
		strings.ToUpper(strings.TrimSpace(req.Symbol)), strings.ToLower(req.Period), strings.ToLower(req.Profile))
}

func (h *Handler) Analyze(c echo.Context) error {
	req := &AnalyzeRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}
	ctx := c.Request().Context()
	key := cacheKey(req)

	if h.cache != nil && !req.Fresh {
		report, err := cache.GetJSON[model.AnalysisReport](ctx, h.cache, key)
		if err == nil {
			c.Response().Header().Set("X-Cache", "HIT")
			return SuccessResponse(c, report)
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			h.log.Warn("cache read failed", logger.String("key", key), logger.Error(err))
		}
	}

	report, err := h.analyzer.Analyze(ctx, analysis.Request{
		Symbol:  req.Symbol,
		Period:  model.Lookback(req.Period),
		Profile: req.Profile,
	})
	if err != nil {
		h.log.Warn("analyze failed", logger.String("symbol", req.Symbol), logger.Error(err))
		return AppErrorResponse(c, err)
	}

	if err := h.recorder.RecordReport(report); err != nil {
		h.log.Error("record report failed", logger.String("symbol", report.Symbol), logger.Error(err))
	}
	h.portfolio.ApplyReport(report)
	if h.cache != nil {
		if err := cache.SetJSON(ctx, h.cache, key, report, h.cacheTTL); err != nil {
			h.log.Warn("cache write failed", logger.String("key", key), logger.Error(err))
		}
	}
	c.Response().Header().Set("X-Cache", "MISS")
	return SuccessResponse(c, report)
}

func (h *Handler) Profiles(c echo.Context) error {
	profiles := strategy.Profiles()
	out := make([]ProfileInfo, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, ProfileInfo{Name: p.Name, Description: p.Description})
	}
	return SuccessResponse(c, out)
}

func (h *Handler) History(c echo.Context) error {
	req := &HistoryRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}
	rows, err := h.recorder.RecentReports(req.Symbol, req.Limit)
	if err != nil {
		h.log.Error("history query failed", logger.String("symbol", req.Symbol), logger.Error(err))
		return AppErrorResponse(c, err)
	}
	if rows == nil {
		rows = []recorder.ReportRow{}
	}
	return SuccessResponse(c, rows)
}

func (h *Handler) Portfolio(c echo.Context) error {
	state := h.portfolio.Snapshot()
	return SuccessResponse(c, PortfolioResponse{
		Holdings:  state.Holdings,
		Watchlist: state.Watchlist,
		Summary:   h.portfolio.Summary(),
		UpdatedAt: state.UpdatedAt,
	})
}

func (h *Handler) AddHolding(c echo.Context) error {
	req := &HoldingRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}
	holding, err := h.portfolio.AddHolding(req.Symbol, req.Shares, req.CostBasis)
	if err != nil {
		if errors.Is(err, portfolio.ErrInvalidShares) {
			return AppErrorResponse(c, err)
		}
		return BadRequestResponse(c, []ValidationError{{Code: "ERR_BAD_REQUEST", Message: err.Error()}})
	}
	return CreatedResponse(c, holding)
}

func (h *Handler) RemoveHolding(c echo.Context) error {
	req := &SymbolParam{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}
	if err := h.portfolio.RemoveHolding(req.Symbol); err != nil {
		return AppErrorResponse(c, err)
	}
	return NoContentResponse(c)
}

func (h *Handler) Watch(c echo.Context) error {
	req := &WatchRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}
	if err := h.portfolio.Watch(req.Symbol); err != nil {
		return AppErrorResponse(c, err)
	}
	return CreatedResponse(c, map[string]string{"symbol": strings.ToUpper(strings.TrimSpace(req.Symbol))})
}

func (h *Handler) Unwatch(c echo.Context) error {
	req := &SymbolParam{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}
	if err := h.portfolio.Unwatch(req.Symbol); err != nil {
		return AppErrorResponse(c, err)
	}
	return NoContentResponse(c)
}

// Refresh runs a portfolio refresh synchronously.
func (h *Handler) Refresh(c echo.Context) error {
	if h.refresher == nil {
		return AppErrorResponse(c, NewAppError("ERR_UNAVAILABLE", "refresh is not configured", http.StatusServiceUnavailable))
	}
	outcomes := h.refresher.RunRefresh(scheduler.TriggerAPI)
	if outcomes == nil {
		return AppErrorResponse(c, NewAppError("ERR_CONFLICT", "a refresh is already running", http.StatusConflict))
	}
	items := make([]RefreshItem, 0, len(outcomes))
	for _, o := range outcomes {
		item := RefreshItem{Symbol: o.Symbol, Changed: o.Changed()}
		if o.Err != nil {
			item.Error = o.Err.Error()
		}
		if o.Report != nil {
			item.Recommendation = o.Report.Signal.Recommendation.String()
		}
		if o.Previous != nil {
			item.Previous = o.Previous.Signal.Recommendation.String()
		}
		items = append(items, item)
	}
	return SuccessResponse(c, items)
}
