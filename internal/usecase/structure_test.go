package usecase

import (
	"context"
	"testing"
	"time"

	"SwingSight/internal/domain/models"
	domrepo "SwingSight/internal/domain/repository"
	"SwingSight/internal/services/structure"
	"SwingSight/pkg/cache"
	"SwingSight/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func seedCandles(t *testing.T, store *fakeStore, symbol string, tf domrepo.Timeframe, highs, lows []float64) {
	t.Helper()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, len(highs))
	for i := range highs {
		mid := (highs[i] + lows[i]) / 2
		candles[i] = models.Candle{
			Bucket: base.Add(time.Duration(i) * time.Hour),
			Symbol: symbol,
			Open:   mid,
			High:   highs[i],
			Low:    lows[i],
			Close:  mid,
			Volume: 1,
		}
	}
	if err := store.InsertCandles(context.Background(), tf, candles); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestStructureAnalyze(t *testing.T) {
	store := newFakeStore()
	seedCandles(t, store, "BTCUSDT", domrepo.TF1h,
		[]float64{1, 2, 3, 10, 3, 2, 1, 5, 6, 7},
		[]float64{5, 4, 3, 2, 4, 1, 3, 4, 5, 6})

	metrics := newFakeMetrics()
	uc := NewStructureUseCase(store, structure.NewEngine(), nil, metrics, testLogger(t), 0)

	got, err := uc.Analyze(context.Background(), AnalyzeParams{Symbol: "BTCUSDT", Timeframe: domrepo.TF1h, N: 150})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(got.SwingHighs) != 1 || got.SwingHighs[0].Price != 10 {
		t.Fatalf("unexpected swing highs %+v", got.SwingHighs)
	}
	if metrics.analyses != 1 {
		t.Fatalf("expected 1 recorded analysis, got %d", metrics.analyses)
	}
}

func TestStructureAnalyzeCaches(t *testing.T) {
	store := newFakeStore()
	seedCandles(t, store, "BTCUSDT", domrepo.TF1h,
		[]float64{1, 2, 3, 10, 3, 2, 1, 5, 6, 7},
		[]float64{5, 4, 3, 2, 4, 1, 3, 4, 5, 6})

	metrics := newFakeMetrics()
	mem := cache.NewMemoryCache()
	uc := NewStructureUseCase(store, structure.NewEngine(), mem, metrics, testLogger(t), time.Minute)

	p := AnalyzeParams{Symbol: "BTCUSDT", Timeframe: domrepo.TF1h, N: 150}
	first, err := uc.Analyze(context.Background(), p)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	second, err := uc.Analyze(context.Background(), p)
	if err != nil {
		t.Fatalf("analyze cached: %v", err)
	}
	if metrics.hits != 1 || metrics.misses != 1 {
		t.Fatalf("expected one hit and one miss, got %d/%d", metrics.hits, metrics.misses)
	}
	if metrics.analyses != 1 {
		t.Fatalf("cached call must not rerun the engine")
	}
	if len(second.SwingHighs) != len(first.SwingHighs) {
		t.Fatalf("cached result differs: %+v vs %+v", second, first)
	}

	// Different settings must not share the cache entry.
	p2 := p
	p2.Settings.Sensitivity = 3
	if _, err := uc.Analyze(context.Background(), p2); err != nil {
		t.Fatalf("analyze alt settings: %v", err)
	}
	if metrics.analyses != 2 {
		t.Fatalf("distinct settings must recompute, analyses=%d", metrics.analyses)
	}
}

func TestStructureAnalyzeValidatesSettings(t *testing.T) {
	uc := NewStructureUseCase(newFakeStore(), structure.NewEngine(), nil, newFakeMetrics(), testLogger(t), 0)
	p := AnalyzeParams{Symbol: "BTCUSDT", Timeframe: domrepo.TF1h}
	p.Settings.Sensitivity = -4
	if _, err := uc.Analyze(context.Background(), p); err == nil {
		t.Fatalf("invalid settings must fail")
	}
	if _, err := uc.Analyze(context.Background(), AnalyzeParams{}); err == nil {
		t.Fatalf("missing symbol must fail")
	}
}

func TestStructureAnalyzeWithContext(t *testing.T) {
	store := newFakeStore()
	seedCandles(t, store, "ETHUSDT", domrepo.TF4h,
		[]float64{1, 2, 3, 10, 3, 2, 1, 5, 6, 7},
		[]float64{5, 4, 3, 2, 4, 1, 3, 4, 5, 6})

	uc := NewStructureUseCase(store, structure.NewEngine(), nil, newFakeMetrics(), testLogger(t), 0)
	analysis, mc, err := uc.AnalyzeWithContext(context.Background(), AnalyzeParams{Symbol: "ETHUSDT", Timeframe: domrepo.TF4h, N: 150})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if mc.Symbol != analysis.Symbol || mc.Bars != analysis.Bars {
		t.Fatalf("context out of sync with analysis: %+v vs %+v", mc, analysis)
	}
	if len(mc.Resistance) != 1 || mc.Resistance[0] != 10 {
		t.Fatalf("unexpected resistance %+v", mc.Resistance)
	}
	if mc.Summary == "" {
		t.Fatalf("expected summary text")
	}
}
