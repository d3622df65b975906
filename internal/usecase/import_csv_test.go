package usecase

import (
	"context"
	"strings"
	"testing"

	domrepo "SwingSight/internal/domain/repository"
)

const sampleCSV = `time,open,high,low,close,volume
2025-06-01T00:00:00Z,100,105,99,104,1200
2025-06-01T01:00:00Z,104,110,103,109,900
1748750400,109,112,108,111,450
`

func TestParseCandleCSV(t *testing.T) {
	candles, err := ParseCandleCSV(strings.NewReader(sampleCSV), "BTCUSDT")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(candles) != 3 {
		t.Fatalf("expected 3 candles, got %d", len(candles))
	}
	c := candles[0]
	if c.Symbol != "BTCUSDT" || c.Open != 100 || c.High != 105 || c.Low != 99 || c.Close != 104 || c.Volume != 1200 {
		t.Fatalf("unexpected first candle %+v", c)
	}
	if candles[2].Bucket.Unix() != 1748750400 {
		t.Fatalf("unix timestamp row mis-parsed: %v", candles[2].Bucket)
	}
}

func TestParseCandleCSVNoHeader(t *testing.T) {
	raw := "2025-06-01T00:00:00Z,1,2,0.5,1.5\n"
	candles, err := ParseCandleCSV(strings.NewReader(raw), "ETHUSDT")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(candles) != 1 || candles[0].Volume != 0 {
		t.Fatalf("unexpected candles %+v", candles)
	}
}

func TestParseCandleCSVBadRows(t *testing.T) {
	if _, err := ParseCandleCSV(strings.NewReader("time,open,high,low,close\nnot-a-time,1,2,3,4\n"), "X"); err == nil {
		t.Fatalf("bad timestamp past header must fail")
	}
	if _, err := ParseCandleCSV(strings.NewReader("2025-06-01T00:00:00Z,1,2\n"), "X"); err == nil {
		t.Fatalf("short row must fail")
	}
	if _, err := ParseCandleCSV(strings.NewReader("2025-06-01T00:00:00Z,1,x,0.5,1.5\n"), "X"); err == nil {
		t.Fatalf("bad price must fail")
	}
}

func TestCSVImportJobHandle(t *testing.T) {
	store := newFakeStore()
	metrics := newFakeMetrics()
	invalidated := ""
	job := NewCSVImportJob(store, metrics, testLogger(t), func(_ context.Context, symbol string) {
		invalidated = symbol
	})

	payload := map[string]interface{}{
		"symbol":    "BTCUSDT",
		"timeframe": "1h",
		"data":      sampleCSV,
	}
	if err := job.Handle(context.Background(), payload); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if store.inserted != 3 {
		t.Fatalf("expected 3 inserted, got %d", store.inserted)
	}
	if metrics.imported != 3 {
		t.Fatalf("import metric not recorded")
	}
	if invalidated != "BTCUSDT" {
		t.Fatalf("completion hook not called")
	}
	if got := store.candles[domrepo.TF1h]; len(got) != 3 {
		t.Fatalf("candles landed in wrong timeframe: %+v", store.candles)
	}
}

func TestCSVImportJobRejectsMissingSymbol(t *testing.T) {
	job := NewCSVImportJob(newFakeStore(), newFakeMetrics(), testLogger(t), nil)
	err := job.Handle(context.Background(), CSVImportPayload{Data: sampleCSV})
	if err == nil {
		t.Fatalf("missing symbol must fail")
	}
}
