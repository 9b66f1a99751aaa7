package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TickerLens/internal/model"
)

func TestRESTFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization = %q", got)
		}
		switch r.URL.Path {
		case "/api/v1/bars/daily":
			if r.URL.Query().Get("symbol") == "GONE" {
				http.NotFound(w, r)
				return
			}
			if got := r.URL.Query().Get("limit"); got != "30" {
				t.Errorf("limit = %q, want 30", got)
			}
			w.Write([]byte(`[{"timestamp":1704326400,"close":11,"volume":20},{"timestamp":1704240000,"close":10,"volume":10}]`))
		case "/api/v1/profile":
			w.Write([]byte(`{"name":"Acme","sector":null,"beta":0.9}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "secret", "", 5*time.Second)
	ctx := context.Background()

	bars, err := f.FetchHistory(ctx, "ACME", model.LookbackOneMonth)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(bars) != 2 || bars[0].Close != 10 || bars[1].Volume != 20 {
		t.Errorf("unexpected bars: %+v", bars)
	}

	bars, err = f.FetchHistory(ctx, "GONE", model.LookbackOneMonth)
	if err != nil || len(bars) != 0 {
		t.Errorf("unknown symbol: got %d bars, %v; want none, nil", len(bars), err)
	}

	p, err := f.FetchProfile(ctx, "ACME")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.DisplayName() != "Acme" || p.SectorOrDefault() != "Unknown" || p.Beta.Float64 != 0.9 {
		t.Errorf("unexpected profile: %+v", p)
	}
}
