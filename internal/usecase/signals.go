package usecase

import (
	"context"
	"fmt"
	"time"

	"SwingSight/internal/domain/models"
	domrepo "SwingSight/internal/domain/repository"
	"SwingSight/pkg/logger"
)

// SignalUseCase turns a structure analysis into a journaled signal event.
// The mapping is deliberately blunt: a confirmed bull regime suggests a
// long near the last swing low, a bear regime a short near the last swing
// high, and anything else stands aside. The journal exists for later
// review, not for execution.
type SignalUseCase struct {
	journal   domrepo.SignalJournal
	publisher domrepo.SignalPublisher
	metrics   domrepo.Metrics
	log       *logger.Logger
}

func NewSignalUseCase(
	journal domrepo.SignalJournal,
	publisher domrepo.SignalPublisher,
	metrics domrepo.Metrics,
	log *logger.Logger,
) *SignalUseCase {
	return &SignalUseCase{journal: journal, publisher: publisher, metrics: metrics, log: log}
}

// Derive maps an analysis to a signal event without persisting it.
func Derive(analysis *models.StructureAnalysis, at time.Time) *models.SignalEvent {
	ev := &models.SignalEvent{
		Symbol:    analysis.Symbol,
		Timeframe: analysis.Timeframe,
		Time:      at,
		Action:    models.ActionStandAside,
	}
	if analysis.Regime != nil {
		ev.Regime = analysis.Regime.State
		ev.Close = analysis.Regime.Close
	}
	if low := analysis.LastSwingLow(); low != nil {
		ev.Support = low.Price
	}
	if high := analysis.LastSwingHigh(); high != nil {
		ev.Resistance = high.Price
	}

	if analysis.Regime == nil {
		ev.Note = "insufficient history for regime"
		return ev
	}
	switch analysis.Regime.State {
	case models.RegimeBull:
		ev.Action = models.ActionEnterLong
		ev.Note = "bull regime, look for entries near support"
	case models.RegimeBear:
		ev.Action = models.ActionEnterShort
		ev.Note = "bear regime, look for entries near resistance"
	default:
		ev.Note = "no trend, stand aside"
	}
	return ev
}

// Record derives, journals, and publishes the signal for an analysis.
func (uc *SignalUseCase) Record(ctx context.Context, analysis *models.StructureAnalysis) (*models.SignalEvent, error) {
	ev := Derive(analysis, time.Now().UTC())

	if err := uc.journal.Append(ctx, ev); err != nil {
		uc.metrics.RecordError("signal_journal")
		return nil, fmt.Errorf("journal signal: %w", err)
	}
	uc.metrics.RecordSignal(string(ev.Action))

	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, ev); err != nil {
			// Journaled already; publication is best effort.
			uc.metrics.RecordError("signal_publish")
			uc.log.Warn("signal publish failed",
				logger.String("symbol", ev.Symbol), logger.Error(err))
		}
	}
	return ev, nil
}

// Recent returns the latest journaled signals for a symbol.
func (uc *SignalUseCase) Recent(ctx context.Context, symbol string, limit int) ([]models.SignalEvent, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 500 {
		limit = 500
	}
	events, err := uc.journal.Recent(ctx, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("load signals: %w", err)
	}
	return events, nil
}
