package usecase

import (
	"context"
	"sync"
	"time"

	"SwingSight/internal/domain/models"
	domrepo "SwingSight/internal/domain/repository"
)

type fakeStore struct {
	mu       sync.Mutex
	candles  map[domrepo.Timeframe][]models.Candle
	inserted int
	err      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{candles: make(map[domrepo.Timeframe][]models.Candle)}
}

func (f *fakeStore) GetCandles(_ context.Context, symbol string, from, to time.Time, tf domrepo.Timeframe) ([]models.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Candle
	for _, c := range f.candles[tf] {
		if c.Symbol == symbol && !c.Bucket.Before(from) && !c.Bucket.After(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) GetLatestNCandles(_ context.Context, symbol string, n int, tf domrepo.Timeframe) ([]models.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Candle
	for _, c := range f.candles[tf] {
		if c.Symbol == symbol {
			out = append(out, c)
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out, nil
}

func (f *fakeStore) InsertCandles(_ context.Context, tf domrepo.Timeframe, candles []models.Candle) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candles[tf] = append(f.candles[tf], candles...)
	f.inserted += len(candles)
	return nil
}

type fakeJournal struct {
	mu     sync.Mutex
	events []models.SignalEvent
	err    error
}

func (f *fakeJournal) Append(_ context.Context, ev *models.SignalEvent) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, *ev)
	return nil
}

func (f *fakeJournal) Recent(_ context.Context, symbol string, limit int) ([]models.SignalEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.SignalEvent
	for i := len(f.events) - 1; i >= 0 && len(out) < limit; i-- {
		if f.events[i].Symbol == symbol {
			out = append(out, f.events[i])
		}
	}
	return out, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []models.SignalEvent
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, ev *models.SignalEvent) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, *ev)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type fakeMetrics struct {
	mu       sync.Mutex
	analyses int
	hits     int
	misses   int
	signals  map[string]int
	imported int
	errors   map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{signals: make(map[string]int), errors: make(map[string]int)}
}

func (f *fakeMetrics) RecordAnalysis(string, float64) {
	f.mu.Lock()
	f.analyses++
	f.mu.Unlock()
}
func (f *fakeMetrics) RecordLevels(string, int) {}
func (f *fakeMetrics) RecordRegime(string)      {}
func (f *fakeMetrics) RecordSignal(action string) {
	f.mu.Lock()
	f.signals[action]++
	f.mu.Unlock()
}
func (f *fakeMetrics) RecordCacheLookup(hit bool) {
	f.mu.Lock()
	if hit {
		f.hits++
	} else {
		f.misses++
	}
	f.mu.Unlock()
}
func (f *fakeMetrics) RecordImportedCandles(_ string, count int) {
	f.mu.Lock()
	f.imported += count
	f.mu.Unlock()
}
func (f *fakeMetrics) RecordError(kind string) {
	f.mu.Lock()
	f.errors[kind]++
	f.mu.Unlock()
}

var (
	_ domrepo.CandleStore     = (*fakeStore)(nil)
	_ domrepo.SignalJournal   = (*fakeJournal)(nil)
	_ domrepo.SignalPublisher = (*fakePublisher)(nil)
	_ domrepo.Metrics         = (*fakeMetrics)(nil)
)
