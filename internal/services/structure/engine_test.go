package structure

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEngineAnalyzeBasic(t *testing.T) {
	highs := []float64{1, 2, 3, 10, 3, 2, 1, 5, 6, 7}
	lows := []float64{5, 4, 3, 2, 4, 1, 3, 4, 5, 6}
	candles := mkCandles(highs, lows)

	var s Settings
	if err := s.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}

	got := NewEngine().Analyze("BTCUSDT", "1h", candles, &s)
	if got.Symbol != "BTCUSDT" || got.Timeframe != "1h" || got.Bars != 10 {
		t.Fatalf("unexpected header %+v", got)
	}
	if len(got.SwingHighs) != 1 || got.SwingHighs[0].BarIndex != 3 {
		t.Fatalf("unexpected swing highs %+v", got.SwingHighs)
	}
	if len(got.SwingLows) != 1 || got.SwingLows[0].BarIndex != 5 {
		t.Fatalf("unexpected swing lows %+v", got.SwingLows)
	}
	// Rays default off; the slices still encode as arrays, not null.
	if got.RayHighs == nil || got.RayLows == nil {
		t.Fatalf("ray slices must not be nil")
	}
	// Ten bars cannot feed the default 50-bar slow average.
	if got.Regime != nil {
		t.Fatalf("regime must be nil on short series, got %+v", got.Regime)
	}

	raw, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"ray_highs":[]`) {
		t.Fatalf("ray highs must encode as an empty array: %s", raw)
	}
}

func TestEngineAnalyzeTrending(t *testing.T) {
	// A rising staircase with periodic pullbacks: swings on both sides,
	// rays enabled, and enough bars for the shortened averages to print a
	// regime assessment.
	var highs, lows []float64
	for i := 0; i < 60; i++ {
		base := float64(i)
		if i%5 == 3 {
			highs = append(highs, base+6)
			lows = append(lows, base+2)
		} else if i%5 == 4 {
			highs = append(highs, base+1)
			lows = append(lows, base-3)
		} else {
			highs = append(highs, base+2)
			lows = append(lows, base)
		}
	}
	candles := mkCandles(highs, lows)

	s := Settings{
		EnableRays:   true,
		FastMALength: 5,
		SlowMALength: 10,
	}
	if err := s.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}

	got := NewEngine().Analyze("ETHUSDT", "4h", candles, &s)
	if len(got.SwingHighs) != s.MaxSwingPoints {
		t.Fatalf("expected %d swing highs, got %d", s.MaxSwingPoints, len(got.SwingHighs))
	}
	if len(got.SwingLows) != s.MaxSwingPoints {
		t.Fatalf("expected %d swing lows, got %d", s.MaxSwingPoints, len(got.SwingLows))
	}
	if len(got.RayHighs) == 0 || len(got.RayHighs) > s.NumRaysToShow {
		t.Fatalf("unexpected ray highs %+v", got.RayHighs)
	}
	if got.Regime == nil {
		t.Fatalf("expected regime on trending series")
	}
	if got.Regime.FastMA <= got.Regime.SlowMA {
		t.Fatalf("fast average must sit above slow on an uptrend: %+v", got.Regime)
	}
	if last := got.LastSwingHigh(); last == nil || last.BarIndex != got.SwingHighs[len(got.SwingHighs)-1].BarIndex {
		t.Fatalf("unexpected last swing high %+v", last)
	}
}

func TestEngineRegimeSwitch(t *testing.T) {
	var highs, lows []float64
	for i := 0; i < 30; i++ {
		highs = append(highs, float64(100+i))
		lows = append(lows, float64(98+i))
	}
	candles := mkCandles(highs, lows)

	off := false
	s := Settings{ShowRegime: &off, FastMALength: 3, SlowMALength: 5}
	if err := s.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}

	got := NewEngine().Analyze("SOLUSDT", "1d", candles, &s)
	if got.Regime != nil {
		t.Fatalf("regime disabled but present: %+v", got.Regime)
	}
}
