package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/guregu/null/v6"

	"TickerLens/internal/model"
)

// RESTFetcher implements Fetcher against a generic bar service:
//
//	GET {base}/api/v1/bars/daily?symbol=X&limit=N   -> [restBar]
//	GET {base}/api/v1/profile?symbol=X             -> restProfile
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

type restProfile struct {
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

func (f *RESTFetcher) do(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	return f.Client.Do(req)
}

// FetchHistory requests one bar per calendar day of the window; the service returns trading days only.
func (f *RESTFetcher) FetchHistory(ctx context.Context, symbol string, period model.Lookback) ([]model.Bar, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&limit=%d",
		f.BaseURL, url.QueryEscape(symbol), period.Days())
	resp, err := f.do(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}

	var raw []restBar
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	bars := make([]model.Bar, len(raw))
	for i, rb := range raw {
		bars[i] = model.Bar{
			Date:   time.Unix(rb.Timestamp, 0).UTC(),
			Open:   rb.Open,
			High:   rb.High,
			Low:    rb.Low,
			Close:  rb.Close,
			Volume: rb.Volume,
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func (f *RESTFetcher) FetchProfile(ctx context.Context, symbol string) (*model.CompanyProfile, error) {
	endpoint := fmt.Sprintf("%s/api/v1/profile?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	resp, err := f.do(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch profile: status %d", resp.StatusCode)
	}

	var rp restProfile
	if err := json.NewDecoder(resp.Body).Decode(&rp); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &model.CompanyProfile{
		Symbol:        symbol,
		Name:          rp.Name,
		Sector:        rp.Sector,
		Industry:      rp.Industry,
		Currency:      rp.Currency,
		MarketCap:     rp.MarketCap,
		TrailingPE:    rp.TrailingPE,
		ForwardPE:     rp.ForwardPE,
		DividendYield: rp.DividendYield,
		Beta:          rp.Beta,
	}, nil
}
