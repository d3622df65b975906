package repository

import (
	"context"

	"SwingSight/internal/domain/models"
)

// SignalJournal persists derived signal events for strategy evaluation.
type SignalJournal interface {
	Append(ctx context.Context, ev *models.SignalEvent) error
	Recent(ctx context.Context, symbol string, limit int) ([]models.SignalEvent, error)
}

// SignalPublisher fans journaled signals out to downstream consumers.
type SignalPublisher interface {
	Publish(ctx context.Context, ev *models.SignalEvent) error
	Close() error
}

// Metrics records operational metrics for the analysis pipeline.
type Metrics interface {
	RecordAnalysis(timeframe string, seconds float64)
	RecordLevels(kind string, count int)
	RecordRegime(state string)
	RecordSignal(action string)
	RecordCacheLookup(hit bool)
	RecordImportedCandles(symbol string, count int)
	RecordError(kind string)
}
