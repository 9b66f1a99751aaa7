package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"TickerLens/internal/analysis"
	"TickerLens/internal/cache"
	"TickerLens/internal/collector"
	"TickerLens/internal/logger"
	"TickerLens/internal/model"
	"TickerLens/internal/portfolio"
	"TickerLens/internal/recorder"
	"TickerLens/internal/scheduler"
)

type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type testAPI struct {
	srv *Server
	pm  *portfolio.Manager
}

func newTestAPI(t *testing.T, fetcher collector.Fetcher) *testAPI {
	t.Helper()
	log := logger.Nop()
	dir := t.TempDir()

	svc := analysis.NewService(fetcher, log)
	pm, err := portfolio.NewManager(filepath.Join(dir, "portfolio.json"), log)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(dir, "test.db"), log)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	t.Cleanup(func() { rec.Close() })
	store := cache.NewMemoryCache(100, time.Minute)
	t.Cleanup(func() { store.Close() })

	sched := scheduler.NewScheduler(context.Background(), scheduler.Deps{
		Analyzer:  svc,
		Portfolio: pm,
		Refresher: portfolio.NewRefresher(svc, pm, 2, "", "", log),
		Recorder:  rec,
		Log:       log,
	})
	h := NewHandler(svc, pm, rec, store, time.Minute, sched, log)
	return &testAPI{srv: NewServer(h, log, WithMetrics(prometheus.NewRegistry())), pm: pm}
}

func (a *testAPI) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	a.srv.Echo().ServeHTTP(rec, req)

	var env envelope
	if rec.Code != http.StatusNoContent && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode: %v\n%s", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

func errorCode(t *testing.T, env envelope) string {
	t.Helper()
	var errs []struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(env.Data, &errs); err != nil || len(errs) == 0 {
		t.Fatalf("data is not an error list: %s", env.Data)
	}
	return errs[0].Code
}

func staticFetcher() *collector.StaticFetcher {
	return &collector.StaticFetcher{BasePrice: 100, Bars: map[string][]model.Bar{"EMPTY": nil}}
}

func TestAnalyze_CachesReports(t *testing.T) {
	api := newTestAPI(t, staticFetcher())

	rec, env := api.do(t, http.MethodGet, "/api/analyze?symbol=aapl&period=1mo", "")
	if rec.Code != http.StatusOK || rec.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first call: code %d cache %q", rec.Code, rec.Header().Get("X-Cache"))
	}
	var report model.AnalysisReport
	if err := json.Unmarshal(env.Data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Symbol != "AAPL" || report.Period != model.LookbackOneMonth || report.Signal.Profile != "advanced" {
		t.Errorf("report = %s %s %s", report.Symbol, report.Period, report.Signal.Profile)
	}

	rec, env = api.do(t, http.MethodGet, "/api/analyze?symbol=AAPL&period=1mo", "")
	if rec.Header().Get("X-Cache") != "HIT" {
		t.Errorf("second call should hit the cache")
	}
	var cached model.AnalysisReport
	if err := json.Unmarshal(env.Data, &cached); err != nil {
		t.Fatalf("decode cached: %v", err)
	}
	if cached.Signal.Recommendation != report.Signal.Recommendation || cached.Signal.Score != report.Signal.Score {
		t.Errorf("cached signal = %+v, want %+v", cached.Signal, report.Signal)
	}

	rec, _ = api.do(t, http.MethodGet, "/api/analyze?symbol=AAPL&period=1mo&fresh=true", "")
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("fresh=true should bypass the cache")
	}

	_, env = api.do(t, http.MethodGet, "/api/history/aapl?limit=10", "")
	var rows []recorder.ReportRow
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("history rows = %d, want 2", len(rows))
	}
}

func TestAnalyze_Validation(t *testing.T) {
	api := newTestAPI(t, staticFetcher())
	tests := []struct {
		name  string
		query string
		code  string
	}{
		{"missing symbol", "", "ERR_REQUIRED"},
		{"bad period", "?symbol=AAPL&period=5y", "ERR_ONEOF"},
		{"bad profile", "?symbol=AAPL&profile=yolo", "ERR_ONEOF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := api.do(t, http.MethodGet, "/api/analyze"+tt.query, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("code = %d, want 400", rec.Code)
			}
			if got := errorCode(t, env); got != tt.code {
				t.Errorf("error code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestAnalyze_ErrorMapping(t *testing.T) {
	rec, env := newTestAPI(t, staticFetcher()).do(t, http.MethodGet, "/api/analyze?symbol=empty", "")
	if rec.Code != http.StatusNotFound || errorCode(t, env) != "ERR_NO_DATA" {
		t.Errorf("no data: code %d body %s", rec.Code, rec.Body.String())
	}

	broken := &collector.StaticFetcher{Err: errors.New("upstream down")}
	rec, env = newTestAPI(t, broken).do(t, http.MethodGet, "/api/analyze?symbol=AAPL", "")
	if rec.Code != http.StatusBadGateway || errorCode(t, env) != "ERR_PROVIDER" {
		t.Errorf("provider: code %d body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "could not fetch data for AAPL") {
		t.Errorf("provider error message missing: %s", rec.Body.String())
	}
}

func TestPortfolioEndpoints(t *testing.T) {
	api := newTestAPI(t, staticFetcher())

	rec, _ := api.do(t, http.MethodPost, "/api/portfolio/holdings", `{"symbol":"aapl","shares":"10","cost_basis":150}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add holding: %d %s", rec.Code, rec.Body.String())
	}
	rec, _ = api.do(t, http.MethodPost, "/api/portfolio/holdings", `{"symbol":"msft","shares":0,"cost_basis":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("zero shares: code %d, want 400", rec.Code)
	}
	rec, _ = api.do(t, http.MethodPost, "/api/watchlist", `{"symbol":"msft"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("watch: %d %s", rec.Code, rec.Body.String())
	}

	_, env := api.do(t, http.MethodPost, "/api/portfolio/refresh", "")
	var items []RefreshItem
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decode refresh: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("refresh items = %d, want 2", len(items))
	}
	for _, it := range items {
		if it.Error != "" || it.Recommendation == "" {
			t.Errorf("refresh item = %+v", it)
		}
	}

	_, env = api.do(t, http.MethodGet, "/api/portfolio", "")
	var pr PortfolioResponse
	if err := json.Unmarshal(env.Data, &pr); err != nil {
		t.Fatalf("decode portfolio: %v", err)
	}
	if len(pr.Holdings) != 1 || pr.Holdings[0].Report == nil || pr.Summary.Analyzed != 1 {
		t.Errorf("portfolio = %+v", pr)
	}
	if len(pr.Watchlist) != 1 || pr.Watchlist[0].Symbol != "MSFT" {
		t.Errorf("watchlist = %+v", pr.Watchlist)
	}

	if rec, _ := api.do(t, http.MethodDelete, "/api/portfolio/holdings/AAPL", ""); rec.Code != http.StatusNoContent {
		t.Errorf("remove: code %d", rec.Code)
	}
	rec, env = api.do(t, http.MethodDelete, "/api/portfolio/holdings/AAPL", "")
	if rec.Code != http.StatusNotFound || errorCode(t, env) != "ERR_NOT_FOUND" {
		t.Errorf("remove again: code %d", rec.Code)
	}
	if rec, _ := api.do(t, http.MethodDelete, "/api/watchlist/msft", ""); rec.Code != http.StatusNoContent {
		t.Errorf("unwatch: code %d", rec.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t, staticFetcher())

	if rec, _ := api.do(t, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz = %d", rec.Code)
	}
	api.do(t, http.MethodGet, "/api/profiles", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	api.srv.Echo().ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), `tickerlens_http_requests_total{method="GET",path="/api/profiles",status="200"} 1`) {
		t.Errorf("metrics missing request counter:\n%s", rec.Body.String())
	}
}
