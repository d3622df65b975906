package usecase

import (
	"context"
	"testing"

	domrepo "SwingSight/internal/domain/repository"
)

func TestKafkaCandlesHandler(t *testing.T) {
	store := newFakeStore()
	metrics := newFakeMetrics()
	var invalidated string
	h := NewKafkaCandlesHandler("swingsight.candles", store, metrics, func(_ context.Context, symbol string) {
		invalidated = symbol
	})

	if h.Topic() != "swingsight.candles" {
		t.Fatalf("unexpected topic %s", h.Topic())
	}

	msg := []byte(`{"symbol":"BTCUSDT","tf":"4h","t":1748750400,"o":100,"h":105,"l":99,"c":104,"v":12}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	got := store.candles[domrepo.TF4h]
	if len(got) != 1 || got[0].Close != 104 || got[0].Bucket.Unix() != 1748750400 {
		t.Fatalf("unexpected stored candle %+v", got)
	}
	if invalidated != "BTCUSDT" {
		t.Fatalf("store hook not called")
	}
}

func TestKafkaCandlesHandlerMillis(t *testing.T) {
	store := newFakeStore()
	h := NewKafkaCandlesHandler("t", store, newFakeMetrics(), nil)

	msg := []byte(`{"symbol":"ETHUSDT","tf":"1h","t":1748750400000,"o":1,"h":2,"l":0.5,"c":1.5,"v":3}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	got := store.candles[domrepo.TF1h]
	if len(got) != 1 || got[0].Bucket.Unix() != 1748750400 {
		t.Fatalf("millisecond timestamp not normalized: %+v", got)
	}
}

func TestKafkaCandlesHandlerBadMessages(t *testing.T) {
	metrics := newFakeMetrics()
	h := NewKafkaCandlesHandler("t", newFakeStore(), metrics, nil)

	if err := h.Handle(context.Background(), []byte("{broken")); err == nil {
		t.Fatalf("malformed json must fail")
	}
	if err := h.Handle(context.Background(), []byte(`{"tf":"1h","t":123}`)); err == nil {
		t.Fatalf("missing symbol must fail")
	}
	if metrics.errors["consumer_unmarshal"] != 1 || metrics.errors["consumer_schema"] != 1 {
		t.Fatalf("error metrics not recorded: %+v", metrics.errors)
	}
}

func TestKafkaCandlesHandlerUnknownTimeframe(t *testing.T) {
	store := newFakeStore()
	h := NewKafkaCandlesHandler("t", store, newFakeMetrics(), nil)

	msg := []byte(`{"symbol":"SOLUSDT","tf":"7m","t":1748750400,"o":1,"h":2,"l":0.5,"c":1.5,"v":3}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := store.candles[domrepo.DefaultTimeframe()]; len(got) != 1 {
		t.Fatalf("unknown timeframe must fall back to default: %+v", store.candles)
	}
}
