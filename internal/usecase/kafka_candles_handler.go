package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SwingSight/internal/domain/models"
	domrepo "SwingSight/internal/domain/repository"
	pkgkafka "SwingSight/pkg/kafka"
)

// KafkaCandlesHandler consumes closed-bar candle messages and writes them
// to storage. Partial bars are the producer's problem; everything arriving
// here is treated as final.
type KafkaCandlesHandler struct {
	topic   string
	store   domrepo.CandleStore
	metrics domrepo.Metrics
	onStore func(ctx context.Context, symbol string)
}

func NewKafkaCandlesHandler(
	topic string,
	store domrepo.CandleStore,
	metrics domrepo.Metrics,
	onStore func(ctx context.Context, symbol string),
) *KafkaCandlesHandler {
	return &KafkaCandlesHandler{topic: topic, store: store, metrics: metrics, onStore: onStore}
}

func (h *KafkaCandlesHandler) Topic() string { return h.topic }

// incoming message schema: {symbol, tf, t, o, h, l, c, v}
func (h *KafkaCandlesHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbol string  `json:"symbol"`
		TF     string  `json:"tf"`
		T      int64   `json:"t"`
		O      float64 `json:"o"`
		H      float64 `json:"h"`
		L      float64 `json:"l"`
		C      float64 `json:"c"`
		V      float64 `json:"v"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.Symbol == "" || m.T <= 0 {
		h.metrics.RecordError("consumer_schema")
		return fmt.Errorf("candle message missing symbol or time")
	}
	if m.T > 1e11 { // ms
		m.T = m.T / 1000
	}

	tf := domrepo.NormalizeTimeframe(m.TF)
	candle := models.Candle{
		Bucket: time.Unix(m.T, 0).UTC(),
		Symbol: m.Symbol,
		Open:   m.O,
		High:   m.H,
		Low:    m.L,
		Close:  m.C,
		Volume: m.V,
	}
	if err := h.store.InsertCandles(ctx, tf, []models.Candle{candle}); err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordImportedCandles(m.Symbol, 1)

	if h.onStore != nil {
		h.onStore(ctx, m.Symbol)
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaCandlesHandler)(nil)
