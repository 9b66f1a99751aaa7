package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Bar represents a single daily candlestick.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries holds the bars of one symbol in strictly increasing date order.
type PriceSeries struct {
	Symbol    string    `json:"symbol"`
	Bars      []Bar     `json:"bars"`
	FetchedAt time.Time `json:"fetched_at"`
}

// NewPriceSeries sorts bars chronologically and collapses bars that fall on the same
// UTC calendar day, keeping the later entry.
func NewPriceSeries(symbol string, bars []Bar) PriceSeries {
	sorted := make([]Bar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	out := make([]Bar, 0, len(sorted))
	for _, b := range sorted {
		if n := len(out); n > 0 && sameDay(out[n-1].Date, b.Date) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return PriceSeries{
		Symbol:    strings.ToUpper(strings.TrimSpace(symbol)),
		Bars:      out,
		FetchedAt: time.Now(),
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func (s PriceSeries) Len() int { return len(s.Bars) }

// Last returns the most recent bar. Callers must check Len first.
func (s PriceSeries) Last() Bar { return s.Bars[len(s.Bars)-1] }

// Closes extracts closing prices in chronological order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Volumes extracts traded volumes in chronological order.
func (s PriceSeries) Volumes() []int64 {
	vols := make([]int64, len(s.Bars))
	for i, b := range s.Bars {
		vols[i] = b.Volume
	}
	return vols
}

// Lookback is the requested history window.
type Lookback string

const (
	LookbackOneMonth    Lookback = "1mo" // basic analysis
	LookbackThreeMonths Lookback = "3mo" // advanced analysis
	LookbackOneYear     Lookback = "1y"
)

// Days returns the calendar-day span of the window.
func (l Lookback) Days() int {
	switch l {
	case LookbackOneMonth:
		return 30
	case LookbackThreeMonths:
		return 90
	case LookbackOneYear:
		return 365
	default:
		return 0
	}
}

// ParseLookback validates a lookback string.
func ParseLookback(s string) (Lookback, error) {
	l := Lookback(strings.ToLower(strings.TrimSpace(s)))
	if l.Days() == 0 {
		return "", fmt.Errorf("unknown lookback %q (want 1mo, 3mo or 1y)", s)
	}
	return l, nil
}
