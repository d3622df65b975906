package structure

import (
	"testing"
	"time"

	"SwingSight/internal/domain/models"
)

func mkCloseCandles(closes []float64) []models.Candle {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{
			Bucket: base.Add(time.Duration(i) * time.Hour),
			Symbol: "ETHUSDT",
			Open:   c,
			High:   c + 100, // wicks far from closes, rays must ignore them
			Low:    c - 100,
			Close:  c,
			Volume: 10,
		}
	}
	return out
}

func TestScanRaysDisabled(t *testing.T) {
	candles := mkCloseCandles([]float64{1, 2, 9, 2, 1, 2, 3, 4})
	h, l := ScanRays(candles, 2, 3, false)
	if h != nil || l != nil {
		t.Fatalf("disabled rays must return nil, got %v / %v", h, l)
	}
}

func TestScanRaysUsesClose(t *testing.T) {
	closes := []float64{1, 2, 9, 2, 1, 0.5, 2, 3, 4, 5}
	candles := mkCloseCandles(closes)

	h, l := ScanRays(candles, 2, 3, true)
	if len(h) != 1 || h[0].BarIndex != 2 || h[0].Price != 9 {
		t.Fatalf("unexpected ray highs %+v", h)
	}
	if len(l) != 1 || l[0].BarIndex != 5 || l[0].Price != 0.5 {
		t.Fatalf("unexpected ray lows %+v", l)
	}
}

func TestScanRaysBothSidesAlways(t *testing.T) {
	// Ray scanning ignores the high/low display switches; only its own
	// enable flag gates it. Verified indirectly: the engine test covers
	// the wiring, here we confirm both sides come back from one call.
	closes := []float64{5, 1, 5, 9, 5, 1, 5, 9, 5}
	candles := mkCloseCandles(closes)

	h, l := ScanRays(candles, 1, 5, true)
	if len(h) == 0 || len(l) == 0 {
		t.Fatalf("expected rays on both sides, got %d/%d", len(h), len(l))
	}
}

func TestScanRaysCap(t *testing.T) {
	var closes []float64
	for i := 0; i < 50; i++ {
		if i%4 == 1 {
			closes = append(closes, 20+float64(i))
		} else {
			closes = append(closes, 1)
		}
	}
	candles := mkCloseCandles(closes)

	h, _ := ScanRays(candles, 1, 3, true)
	if len(h) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(h))
	}
	for i := 1; i < len(h); i++ {
		if h[i-1].BarIndex >= h[i].BarIndex {
			t.Fatalf("rays out of order: %+v", h)
		}
	}
}
