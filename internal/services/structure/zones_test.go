package structure

import (
	"testing"
	"time"

	"SwingSight/internal/domain/models"
)

func mkCandles(highs, lows []float64) []models.Candle {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, len(highs))
	for i := range highs {
		mid := (highs[i] + lows[i]) / 2
		out[i] = models.Candle{
			Bucket: base.Add(time.Duration(i) * time.Hour),
			Symbol: "BTCUSDT",
			Open:   mid,
			High:   highs[i],
			Low:    lows[i],
			Close:  mid,
			Volume: 100,
		}
	}
	return out
}

func TestScanZonesSingleHigh(t *testing.T) {
	highs := []float64{1, 2, 3, 10, 3, 2, 1, 5, 6, 7}
	lows := []float64{5, 4, 3, 2, 4, 1, 3, 4, 5, 6}
	candles := mkCandles(highs, lows)

	gotHighs, gotLows := ScanZones(candles, 2, 10, true, true)
	if len(gotHighs) != 1 {
		t.Fatalf("expected 1 swing high, got %d", len(gotHighs))
	}
	h := gotHighs[0]
	if h.BarIndex != 3 || h.Price != 10 || h.Kind != models.PointHigh {
		t.Fatalf("unexpected swing high %+v", h)
	}
	if len(gotLows) != 1 || gotLows[0].BarIndex != 5 || gotLows[0].Price != 1 {
		t.Fatalf("unexpected swing lows %+v", gotLows)
	}
	if gotLows[0].Kind != models.PointLow {
		t.Fatalf("unexpected kind %v", gotLows[0].Kind)
	}
}

func TestScanZonesConfirmationLag(t *testing.T) {
	// Pivot at bar 3 with sensitivity 2 needs bars through index 7 before
	// the scan can confirm it.
	highs := []float64{1, 2, 3, 10, 3, 2, 1, 0.5}
	lows := []float64{0, 0, 0, 0, 0, 0, 0, 0}

	short := mkCandles(highs[:7], lows[:7])
	got, _ := ScanZones(short, 2, 10, true, false)
	if len(got) != 0 {
		t.Fatalf("pivot confirmed before lag elapsed: %+v", got)
	}

	full := mkCandles(highs, lows)
	got, _ = ScanZones(full, 2, 10, true, false)
	if len(got) != 1 || got[0].BarIndex != 3 {
		t.Fatalf("expected confirmed pivot at 3, got %+v", got)
	}
}

func TestScanZonesRecencyCap(t *testing.T) {
	// Alternating peaks every 4 bars produce many pivots; only the last
	// two should survive the cap, in chronological order.
	var highs, lows []float64
	for i := 0; i < 40; i++ {
		if i%4 == 2 {
			highs = append(highs, 10+float64(i))
		} else {
			highs = append(highs, 1)
		}
		lows = append(lows, 0)
	}
	candles := mkCandles(highs, lows)

	got, _ := ScanZones(candles, 1, 2, true, false)
	if len(got) != 2 {
		t.Fatalf("expected cap of 2, got %d", len(got))
	}
	if got[0].BarIndex >= got[1].BarIndex {
		t.Fatalf("capped points out of order: %+v", got)
	}
	// The peak at 38 sits inside the confirmation window, so 34 is the
	// most recent confirmed pivot.
	if got[0].BarIndex != 30 || got[1].BarIndex != 34 {
		t.Fatalf("expected pivots 30 and 34, got %+v", got)
	}
}

func TestScanZonesSwitches(t *testing.T) {
	highs := []float64{1, 2, 10, 2, 1}
	lows := []float64{5, 4, 0.5, 4, 5}
	candles := mkCandles(highs, lows)

	h, l := ScanZones(candles, 1, 10, false, true)
	if len(h) != 0 {
		t.Fatalf("highs disabled but returned %+v", h)
	}
	if len(l) != 1 {
		t.Fatalf("expected 1 low, got %+v", l)
	}

	h, l = ScanZones(candles, 1, 10, true, false)
	if len(h) != 1 || len(l) != 0 {
		t.Fatalf("lows disabled but got highs=%d lows=%d", len(h), len(l))
	}
}

func TestScanZonesShortSeries(t *testing.T) {
	candles := mkCandles([]float64{1, 9, 1}, []float64{0, 0, 0})
	h, l := ScanZones(candles, 2, 10, true, true)
	if len(h) != 0 || len(l) != 0 {
		t.Fatalf("series too short for any confirmed pivot, got %d/%d", len(h), len(l))
	}
	h, l = ScanZones(nil, 2, 10, true, true)
	if h != nil || l != nil {
		t.Fatalf("empty input must return nil")
	}
}

func TestCapRecent(t *testing.T) {
	pts := []models.SwingPoint{{BarIndex: 1}, {BarIndex: 2}, {BarIndex: 3}}
	got := capRecent(pts, 2)
	if len(got) != 2 || got[0].BarIndex != 2 || got[1].BarIndex != 3 {
		t.Fatalf("unexpected cap result %+v", got)
	}
	if got := capRecent(pts, 5); len(got) != 3 {
		t.Fatalf("cap above length must be a no-op")
	}
}
