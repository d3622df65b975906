package structure

import (
	"testing"

	"SwingSight/internal/domain/models"
)

func TestSmaAt(t *testing.T) {
	closes := []float64{1, 2, 3, 4}
	got, ok := smaAt(closes, 2, 3)
	if !ok || got != 3.5 {
		t.Fatalf("unexpected sma %v ok=%v", got, ok)
	}
	if _, ok := smaAt(closes, 3, 1); ok {
		t.Fatalf("sma with insufficient history must not be ok")
	}
	if _, ok := smaAt(closes, 2, 4); ok {
		t.Fatalf("sma past end must not be ok")
	}
	if _, ok := smaAt(closes, 0, 3); ok {
		t.Fatalf("zero period must not be ok")
	}
}

func TestClassifyRegimeBull(t *testing.T) {
	candles := mkCloseCandles([]float64{1, 2, 3, 4, 5})
	got := ClassifyRegime(candles, 2, 3)
	if got == nil {
		t.Fatalf("expected assessment")
	}
	if got.State != models.RegimeBull {
		t.Fatalf("expected bull, got %s", got.State)
	}
	if got.Color != "#26A69A" || got.Recommendation == "" {
		t.Fatalf("unexpected display fields %+v", got)
	}
	if got.FastMA != 4.5 || got.SlowMA != 4 || got.Close != 5 {
		t.Fatalf("unexpected averages %+v", got)
	}
}

func TestClassifyRegimeBear(t *testing.T) {
	candles := mkCloseCandles([]float64{5, 4, 3, 2, 1})
	got := ClassifyRegime(candles, 2, 3)
	if got == nil || got.State != models.RegimeBear {
		t.Fatalf("expected bear, got %+v", got)
	}
	if got.Color != "#EF5350" {
		t.Fatalf("unexpected color %s", got.Color)
	}
}

func TestClassifyRegimeRange(t *testing.T) {
	candles := mkCloseCandles([]float64{3, 3, 3, 3, 3})
	got := ClassifyRegime(candles, 2, 3)
	if got == nil || got.State != models.RegimeRange {
		t.Fatalf("expected range, got %+v", got)
	}
	if got.Color != "#787B86" {
		t.Fatalf("unexpected color %s", got.Color)
	}
}

func TestClassifyRegimeCloseGate(t *testing.T) {
	// Averages rising and stacked but last close dips below the fast
	// average, so the bull label does not apply.
	candles := mkCloseCandles([]float64{1, 2, 3, 10, 4})
	got := ClassifyRegime(candles, 2, 3)
	if got == nil || got.State != models.RegimeRange {
		t.Fatalf("expected range when close sits under fast MA, got %+v", got)
	}
}

func TestClassifyRegimeTooShort(t *testing.T) {
	if got := ClassifyRegime(mkCloseCandles([]float64{1, 2}), 2, 3); got != nil {
		t.Fatalf("series shorter than slow length must yield nil, got %+v", got)
	}
	// Exactly slowLen bars: current averages exist but the previous slow
	// average does not, so no trend direction can be established.
	if got := ClassifyRegime(mkCloseCandles([]float64{1, 2, 3}), 2, 3); got != nil {
		t.Fatalf("expected nil when previous slow MA undefined, got %+v", got)
	}
	if got := ClassifyRegime(nil, 2, 3); got != nil {
		t.Fatalf("expected nil for empty series")
	}
}
