package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"TickerLens/internal/model"
)

// Fetcher retrieves market data for a symbol. An unknown symbol or an empty
// window yields an empty slice and a nil error; transport failures are errors.
type Fetcher interface {
	FetchHistory(ctx context.Context, symbol string, period model.Lookback) ([]model.Bar, error)
	FetchProfile(ctx context.Context, symbol string) (*model.CompanyProfile, error)
	Name() string
}

// newHTTPClient builds a client with optional proxy support.
func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}
