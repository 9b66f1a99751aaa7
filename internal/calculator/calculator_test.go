package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"TickerLens/internal/model"
)

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func ramp(start float64, n int, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func seriesOf(closes []float64) model.PriceSeries {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{Date: base.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return model.NewPriceSeries("test", bars)
}

func TestCalculateRSI(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		period int
		want   float64
	}{
		{"insufficient history", ramp(10, 14, 1), 14, 50},
		{"strictly increasing", ramp(100, 30, 1), 14, 100},
		{"strictly decreasing", ramp(100, 30, -1), 14, 0},
		{"mixed", []float64{10, 11, 10, 12}, 3, 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateRSI(tt.closes, tt.period)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !approx(got, tt.want, 1e-9) {
				t.Errorf("RSI = %.4f, want %.4f", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("RSI out of range: %.4f", got)
			}
		})
	}
}

func TestCalculateRSI_Errors(t *testing.T) {
	if _, err := CalculateRSI(nil, 14); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("empty input: got %v, want ErrEmptySeries", err)
	}
	if _, err := CalculateRSI(ramp(1, 30, 1), 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateSMA(t *testing.T) {
	prices := ramp(1, 10, 1)
	if got, _ := CalculateSMA(prices, 3); !approx(got, 9, 1e-9) {
		t.Errorf("SMA(3) = %.4f, want 9", got)
	}
	if got, _ := CalculateSMA(prices, 20); !approx(got, 5.5, 1e-9) {
		t.Errorf("SMA(20) on 10 prices = %.4f, want mean of all 5.5", got)
	}
	if _, err := CalculateSMA(prices, 0); err == nil {
		t.Error("expected error for zero window")
	}
	if _, err := CalculateSMA(nil, 5); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("empty input: got %v, want ErrEmptySeries", err)
	}
}

func TestCalculateEMA(t *testing.T) {
	got, err := CalculateEMA([]float64{1, 2, 3}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{1, 1.5, 2.25}
	for i := range want {
		if !approx(got[i], want[i], 1e-9) {
			t.Errorf("EMA[%d] = %.4f, want %.4f", i, got[i], want[i])
		}
	}
}

func TestCalculateMACD(t *testing.T) {
	if m, err := CalculateMACD(ramp(100, 25, 1)); err != nil || m != nil {
		t.Errorf("25 closes: got %+v, %v; want nil, nil", m, err)
	}

	flat := make([]float64, 30)
	for i := range flat {
		flat[i] = 50
	}
	m, err := CalculateMACD(flat)
	if err != nil || m == nil {
		t.Fatalf("flat series: got %+v, %v", m, err)
	}
	if !approx(m.MACD, 0, 1e-9) || !approx(m.Signal, 0, 1e-9) || !approx(m.Histogram, 0, 1e-9) {
		t.Errorf("flat series MACD = %+v, want zeros", m)
	}

	m, _ = CalculateMACD(ramp(100, 30, 1))
	if m.MACD <= 0 || m.MACD <= m.Signal {
		t.Errorf("rising series MACD = %+v, want positive and above signal", m)
	}
	if !approx(m.Histogram, m.MACD-m.Signal, 1e-12) {
		t.Errorf("histogram %.6f != macd - signal %.6f", m.Histogram, m.MACD-m.Signal)
	}
}

func TestCalculateBollinger(t *testing.T) {
	if b, err := CalculateBollinger(ramp(1, 19, 1), 20, 2); err != nil || b != nil {
		t.Errorf("19 closes: got %+v, %v; want nil, nil", b, err)
	}

	b, err := CalculateBollinger(ramp(1, 20, 1), 20, 2)
	if err != nil || b == nil {
		t.Fatalf("unexpected result %+v, %v", b, err)
	}
	sd := math.Sqrt(35) // sample variance of 1..20
	if !approx(b.Middle, 10.5, 1e-9) {
		t.Errorf("middle = %.4f, want 10.5", b.Middle)
	}
	if !approx(b.Upper, 10.5+2*sd, 1e-9) || !approx(b.Lower, 10.5-2*sd, 1e-9) {
		t.Errorf("bands = %+v, want ±%.4f", b, 2*sd)
	}
	if !(b.Lower <= b.Middle && b.Middle <= b.Upper) {
		t.Errorf("band ordering violated: %+v", b)
	}
}

func TestCalculateMomentum(t *testing.T) {
	closes := ramp(1, 10, 1)
	if got, _ := CalculateMomentum(closes, 7); !approx(got, 150, 1e-9) {
		t.Errorf("week change = %.4f, want 150", got)
	}
	if got, _ := CalculateMomentum(closes, 30); got != 0 {
		t.Errorf("month change on 10 closes = %.4f, want 0", got)
	}
}

func TestCalculateVolumeRatio(t *testing.T) {
	if got, _ := CalculateVolumeRatio([]int64{100, 100, 100, 400}); !approx(got, 400.0/175.0, 1e-9) {
		t.Errorf("ratio = %.4f, want %.4f", got, 400.0/175.0)
	}
	if got, _ := CalculateVolumeRatio([]int64{0, 0, 0}); got != 1.0 {
		t.Errorf("zero mean ratio = %.4f, want 1.0", got)
	}
	if _, err := CalculateVolumeRatio(nil); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("empty input: got %v, want ErrEmptySeries", err)
	}
}

func TestCalculateVolatility(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   float64
	}{
		{"single bar", []float64{100}, 0},
		{"constant", []float64{5, 5, 5, 5}, 0},
		{"alternating", []float64{100, 110, 99}, math.Sqrt(0.02) * 100},
	}
	for _, tt := range tests {
		got, err := CalculateVolatility(tt.closes)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if !approx(got, tt.want, 1e-9) {
			t.Errorf("%s: volatility = %.6f, want %.6f", tt.name, got, tt.want)
		}
	}
}

func TestCalculate52WeekRange(t *testing.T) {
	closes := make([]float64, 0, 300)
	for i := 0; i < 48; i++ {
		closes = append(closes, 1000)
	}
	closes = append(closes, ramp(1, 252, 1)...)

	high, low, err := Calculate52WeekRange(closes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if high != 252 || low != 1 {
		t.Errorf("range = [%.0f, %.0f], want [1, 252]", low, high)
	}
}

func TestCompute_ShortHistory(t *testing.T) {
	ind, err := Compute(seriesOf([]float64{10, 11, 12, 13, 14, 13, 12, 11, 10, 9}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ind.RSI != 50 {
		t.Errorf("RSI = %.2f, want 50", ind.RSI)
	}
	if ind.MACD != nil {
		t.Errorf("MACD = %+v, want absent", ind.MACD)
	}
	if ind.Bollinger != nil {
		t.Errorf("Bollinger = %+v, want absent", ind.Bollinger)
	}
	if ind.VolumeRatio != 1.0 {
		t.Errorf("volume ratio = %.2f, want 1.0", ind.VolumeRatio)
	}
	if !approx(ind.MA7, 82.0/7.0, 1e-9) {
		t.Errorf("MA7 = %.4f, want %.4f", ind.MA7, 82.0/7.0)
	}
	if !approx(ind.MA20, 11.5, 1e-9) || !approx(ind.MA50, 11.5, 1e-9) {
		t.Errorf("MA20/MA50 = %.4f/%.4f, want mean of all 11.5", ind.MA20, ind.MA50)
	}
	if ind.MonthChange != 0 {
		t.Errorf("month change = %.2f, want 0", ind.MonthChange)
	}
	if ind.CurrentPrice != 9 || ind.Bars != 10 {
		t.Errorf("price/bars = %.2f/%d, want 9/10", ind.CurrentPrice, ind.Bars)
	}
}

func TestCompute_SingleBar(t *testing.T) {
	ind, err := Compute(seriesOf([]float64{42}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ind.MA7 != 42 || ind.MA20 != 42 || ind.MA50 != 42 {
		t.Errorf("moving averages = %.2f/%.2f/%.2f, want 42", ind.MA7, ind.MA20, ind.MA50)
	}
	if ind.Volatility != 0 || ind.WeekChange != 0 {
		t.Errorf("volatility/week change = %.2f/%.2f, want 0", ind.Volatility, ind.WeekChange)
	}
	if ind.High52 != 42 || ind.Low52 != 42 {
		t.Errorf("52-week range = [%.2f, %.2f], want 42", ind.Low52, ind.High52)
	}
}

func TestCompute_EmptySeries(t *testing.T) {
	if _, err := Compute(model.PriceSeries{Symbol: "X"}); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("got %v, want ErrEmptySeries", err)
	}
}

func TestIndicators_EmptyInput(t *testing.T) {
	tests := []struct {
		name string
		call func([]float64) error
	}{
		{"MACD", func(c []float64) error { _, err := CalculateMACD(c); return err }},
		{"Bollinger", func(c []float64) error { _, err := CalculateBollinger(c, 20, 2); return err }},
		{"Momentum", func(c []float64) error { _, err := CalculateMomentum(c, 10); return err }},
		{"Volatility", func(c []float64) error { _, err := CalculateVolatility(c); return err }},
		{"52WeekRange", func(c []float64) error { _, _, err := Calculate52WeekRange(c); return err }},
		{"EMA", func(c []float64) error { _, err := CalculateEMA(c, 12); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(nil); !errors.Is(err, ErrEmptySeries) {
				t.Errorf("nil input: got %v, want ErrEmptySeries", err)
			}
			if err := tt.call([]float64{}); !errors.Is(err, ErrEmptySeries) {
				t.Errorf("empty input: got %v, want ErrEmptySeries", err)
			}
		})
	}
}
