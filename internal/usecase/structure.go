package usecase

import (
	"context"
	"fmt"
	"time"

	"SwingSight/internal/domain/models"
	domrepo "SwingSight/internal/domain/repository"
	"SwingSight/internal/services/advisor"
	"SwingSight/internal/services/structure"
	"SwingSight/pkg/cache"
	"SwingSight/pkg/logger"
)

// StructureUseCase runs structure analysis over stored candles, with a
// cache keyed by window and settings so repeated chart refreshes skip
// recomputation.
type StructureUseCase struct {
	store    domrepo.CandleStore
	engine   *structure.Engine
	cache    cache.Service
	metrics  domrepo.Metrics
	log      *logger.Logger
	cacheTTL time.Duration
}

func NewStructureUseCase(
	store domrepo.CandleStore,
	engine *structure.Engine,
	cacheSvc cache.Service,
	metrics domrepo.Metrics,
	log *logger.Logger,
	cacheTTL time.Duration,
) *StructureUseCase {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &StructureUseCase{
		store:    store,
		engine:   engine,
		cache:    cacheSvc,
		metrics:  metrics,
		log:      log,
		cacheTTL: cacheTTL,
	}
}

type AnalyzeParams struct {
	Symbol    string
	Timeframe domrepo.Timeframe
	N         int
	Settings  structure.Settings
}

// Analyze loads the latest N candles and runs the engine. Settings are
// normalized here so callers can pass partially filled structs.
func (uc *StructureUseCase) Analyze(ctx context.Context, p AnalyzeParams) (*models.StructureAnalysis, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.N <= 0 {
		p.N = 150
	}
	if err := p.Settings.Normalize(); err != nil {
		return nil, err
	}

	key := uc.cacheKey(p)
	if uc.cache != nil {
		var cached models.StructureAnalysis
		if err := uc.cache.Get(ctx, key, &cached); err == nil {
			uc.metrics.RecordCacheLookup(true)
			return &cached, nil
		}
		uc.metrics.RecordCacheLookup(false)
	}

	analysis, _, err := uc.analyzeFresh(ctx, p)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, analysis, uc.cacheTTL); err != nil {
			uc.log.Warn("structure cache set failed", logger.String("key", key), logger.Error(err))
		}
	}
	return analysis, nil
}

// AnalyzeWithContext runs the analysis and builds the market-context
// digest in one pass, bypassing the cache so the digest always reflects
// the candles it quotes.
func (uc *StructureUseCase) AnalyzeWithContext(ctx context.Context, p AnalyzeParams) (*models.StructureAnalysis, *advisor.MarketContext, error) {
	if p.Symbol == "" {
		return nil, nil, fmt.Errorf("symbol required")
	}
	if p.N <= 0 {
		p.N = 150
	}
	if err := p.Settings.Normalize(); err != nil {
		return nil, nil, err
	}

	analysis, candles, err := uc.analyzeFresh(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	return analysis, advisor.Build(analysis, candles), nil
}

func (uc *StructureUseCase) analyzeFresh(ctx context.Context, p AnalyzeParams) (*models.StructureAnalysis, []models.Candle, error) {
	candles, err := uc.store.GetLatestNCandles(ctx, p.Symbol, p.N, p.Timeframe)
	if err != nil {
		uc.metrics.RecordError("candle_load")
		return nil, nil, fmt.Errorf("load candles: %w", err)
	}

	start := time.Now()
	analysis := uc.engine.Analyze(p.Symbol, string(p.Timeframe), candles, &p.Settings)
	uc.metrics.RecordAnalysis(string(p.Timeframe), time.Since(start).Seconds())
	uc.metrics.RecordLevels("swing_high", len(analysis.SwingHighs))
	uc.metrics.RecordLevels("swing_low", len(analysis.SwingLows))
	if p.Settings.EnableRays {
		uc.metrics.RecordLevels("ray_high", len(analysis.RayHighs))
		uc.metrics.RecordLevels("ray_low", len(analysis.RayLows))
	}
	if analysis.Regime != nil {
		uc.metrics.RecordRegime(string(analysis.Regime.State))
	}

	uc.log.Debug("structure analysis",
		logger.String("symbol", p.Symbol),
		logger.String("timeframe", string(p.Timeframe)),
		logger.Int("bars", analysis.Bars),
		logger.Int("swing_highs", len(analysis.SwingHighs)),
		logger.Int("swing_lows", len(analysis.SwingLows)))

	return analysis, candles, nil
}

func (uc *StructureUseCase) cacheKey(p AnalyzeParams) string {
	return fmt.Sprintf("structure:%s:%s:%d:%s", p.Symbol, p.Timeframe, p.N, p.Settings.Fingerprint())
}

// Invalidate drops cached analyses for a symbol, called after new candles
// land for it.
func (uc *StructureUseCase) Invalidate(ctx context.Context, symbol string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, fmt.Sprintf("structure:%s:*", symbol)); err != nil {
		uc.log.Warn("structure cache invalidate failed", logger.String("symbol", symbol), logger.Error(err))
	}
}
