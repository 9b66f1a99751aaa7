package model

import (
	"testing"
	"time"
)

func day(d, h int) time.Time {
	return time.Date(2024, time.January, d, h, 0, 0, 0, time.UTC)
}

func TestNewPriceSeries(t *testing.T) {
	tests := []struct {
		name       string
		symbol     string
		bars       []Bar
		wantSymbol string
		wantCloses []float64
	}{
		{
			name:       "empty",
			symbol:     "aapl",
			wantSymbol: "AAPL",
			wantCloses: []float64{},
		},
		{
			name:   "shuffled input is sorted",
			symbol: " msft ",
			bars: []Bar{
				{Date: day(4, 0), Close: 3},
				{Date: day(2, 0), Close: 1},
				{Date: day(3, 0), Close: 2},
			},
			wantSymbol: "MSFT",
			wantCloses: []float64{1, 2, 3},
		},
		{
			name:   "identical timestamps keep the later entry",
			symbol: "AAPL",
			bars: []Bar{
				{Date: day(2, 0), Close: 1},
				{Date: day(3, 0), Close: 2},
				{Date: day(3, 0), Close: 5},
			},
			wantSymbol: "AAPL",
			wantCloses: []float64{1, 5},
		},
		{
			name:   "same day at different times keeps the later bar",
			symbol: "AAPL",
			bars: []Bar{
				{Date: day(3, 20), Close: 7},
				{Date: day(2, 14), Close: 1},
				{Date: day(3, 14), Close: 2},
			},
			wantSymbol: "AAPL",
			wantCloses: []float64{1, 7},
		},
		{
			name:   "same day in another zone",
			symbol: "AAPL",
			bars: []Bar{
				{Date: day(3, 14), Close: 2},
				{Date: day(3, 21).In(time.FixedZone("EST", -5*3600)), Close: 9},
			},
			wantSymbol: "AAPL",
			wantCloses: []float64{9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewPriceSeries(tt.symbol, tt.bars)
			if s.Symbol != tt.wantSymbol {
				t.Errorf("Symbol = %q, want %q", s.Symbol, tt.wantSymbol)
			}
			got := s.Closes()
			if len(got) != len(tt.wantCloses) {
				t.Fatalf("Closes() = %v, want %v", got, tt.wantCloses)
			}
			for i := range got {
				if got[i] != tt.wantCloses[i] {
					t.Errorf("Closes()[%d] = %v, want %v", i, got[i], tt.wantCloses[i])
				}
			}
			if s.FetchedAt.IsZero() {
				t.Error("FetchedAt not set")
			}
		})
	}
}

func TestNewPriceSeries_DoesNotModifyInput(t *testing.T) {
	bars := []Bar{
		{Date: day(3, 0), Close: 2},
		{Date: day(2, 0), Close: 1},
	}
	NewPriceSeries("AAPL", bars)
	if bars[0].Close != 2 || bars[1].Close != 1 {
		t.Errorf("input reordered: %+v", bars)
	}
}

func TestPriceSeries_LastAndVolumes(t *testing.T) {
	s := NewPriceSeries("AAPL", []Bar{
		{Date: day(3, 0), Close: 2, Volume: 20},
		{Date: day(2, 0), Close: 1, Volume: 10},
	})
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if s.Last().Close != 2 {
		t.Errorf("Last().Close = %v, want 2", s.Last().Close)
	}
	if v := s.Volumes(); v[0] != 10 || v[1] != 20 {
		t.Errorf("Volumes() = %v, want [10 20]", v)
	}
}

func TestParseLookback(t *testing.T) {
	tests := []struct {
		in      string
		want    Lookback
		wantErr bool
	}{
		{"1mo", LookbackOneMonth, false},
		{" 3MO ", LookbackThreeMonths, false},
		{"1y", LookbackOneYear, false},
		{"5d", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLookback(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLookback(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLookback(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
