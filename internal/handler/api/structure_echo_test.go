package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SwingSight/internal/domain/models"
	domrepo "SwingSight/internal/domain/repository"
	"SwingSight/internal/services/structure"
	"SwingSight/internal/usecase"
	xhttp "SwingSight/pkg/http"
	xlogger "SwingSight/pkg/logger"

	"github.com/labstack/echo/v4"
)

type memStore struct {
	candles []models.Candle
}

func (s *memStore) GetCandles(_ context.Context, symbol string, from, to time.Time, _ domrepo.Timeframe) ([]models.Candle, error) {
	var out []models.Candle
	for _, c := range s.candles {
		if c.Symbol == symbol && !c.Bucket.Before(from) && !c.Bucket.After(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memStore) GetLatestNCandles(_ context.Context, symbol string, n int, _ domrepo.Timeframe) ([]models.Candle, error) {
	var out []models.Candle
	for _, c := range s.candles {
		if c.Symbol == symbol {
			out = append(out, c)
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out, nil
}

func (s *memStore) InsertCandles(_ context.Context, _ domrepo.Timeframe, candles []models.Candle) error {
	s.candles = append(s.candles, candles...)
	return nil
}

type memJournal struct {
	events []models.SignalEvent
}

func (j *memJournal) Append(_ context.Context, ev *models.SignalEvent) error {
	j.events = append(j.events, *ev)
	return nil
}

func (j *memJournal) Recent(_ context.Context, symbol string, limit int) ([]models.SignalEvent, error) {
	var out []models.SignalEvent
	for i := len(j.events) - 1; i >= 0 && len(out) < limit; i-- {
		if j.events[i].Symbol == symbol {
			out = append(out, j.events[i])
		}
	}
	return out, nil
}

type nopMetrics struct{}

func (nopMetrics) RecordAnalysis(string, float64)    {}
func (nopMetrics) RecordLevels(string, int)          {}
func (nopMetrics) RecordRegime(string)               {}
func (nopMetrics) RecordSignal(string)               {}
func (nopMetrics) RecordCacheLookup(bool)            {}
func (nopMetrics) RecordImportedCandles(string, int) {}
func (nopMetrics) RecordError(string)                {}

type capturedJob struct {
	msgType string
	payload interface{}
}

type memQueue struct {
	jobs []capturedJob
}

func (q *memQueue) PublishMessage(_ context.Context, msgType string, payload interface{}) error {
	q.jobs = append(q.jobs, capturedJob{msgType: msgType, payload: payload})
	return nil
}

func newTestHandler(t *testing.T, store *memStore, journal *memJournal, jobs *memQueue) (*StructureHandler, *echo.Echo) {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	structureUC := usecase.NewStructureUseCase(store, structure.NewEngine(), nil, nopMetrics{}, log, 0)
	candlesUC := usecase.NewCandlesUseCase(store)
	signalsUC := usecase.NewSignalUseCase(journal, nil, nopMetrics{}, log)

	h := NewStructureHandler(log, structureUC, candlesUC, signalsUC, jobs)
	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func seedStore(symbol string) *memStore {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	highs := []float64{1, 2, 3, 10, 3, 2, 1, 5, 6, 7}
	lows := []float64{5, 4, 3, 2, 4, 1, 3, 4, 5, 6}
	store := &memStore{}
	for i := range highs {
		mid := (highs[i] + lows[i]) / 2
		store.candles = append(store.candles, models.Candle{
			Bucket: base.Add(time.Duration(i) * time.Hour),
			Symbol: symbol,
			Open:   mid,
			High:   highs[i],
			Low:    lows[i],
			Close:  mid,
			Volume: 1,
		})
	}
	return store
}

func doRequest(e *echo.Echo, method, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, "text/csv")
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestStructureEndpoint(t *testing.T) {
	_, e := newTestHandler(t, seedStore("BTCUSDT"), &memJournal{}, &memQueue{})

	rec := doRequest(e, http.MethodGet, "/api/structure?symbol=BTCUSDT&n=150&tf=1h", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Status int                      `json:"status"`
		Data   models.StructureAnalysis `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Status != http.StatusOK {
		t.Fatalf("unexpected envelope status %d", env.Status)
	}
	if len(env.Data.SwingHighs) != 1 || env.Data.SwingHighs[0].BarIndex != 3 {
		t.Fatalf("unexpected swing highs %+v", env.Data.SwingHighs)
	}
	if env.Data.RayHighs == nil {
		t.Fatalf("ray highs must encode as empty array")
	}
}

func TestStructureEndpointValidation(t *testing.T) {
	_, e := newTestHandler(t, seedStore("BTCUSDT"), &memJournal{}, &memQueue{})

	rec := doRequest(e, http.MethodGet, "/api/structure", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected transport status %d", rec.Code)
	}
	var env struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Status != http.StatusBadRequest {
		t.Fatalf("missing symbol must return 400 envelope, got %d", env.Status)
	}

	rec = doRequest(e, http.MethodGet, "/api/structure?symbol=BTCUSDT&tf=7m", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Status != http.StatusBadRequest {
		t.Fatalf("bad timeframe must return 400 envelope, got %d", env.Status)
	}
}

func TestStructureEndpointJournal(t *testing.T) {
	journal := &memJournal{}
	_, e := newTestHandler(t, seedStore("BTCUSDT"), journal, &memQueue{})

	rec := doRequest(e, http.MethodGet, "/api/structure?symbol=BTCUSDT&journal=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if len(journal.events) != 1 {
		t.Fatalf("expected journaled event, got %d", len(journal.events))
	}
	// Ten bars cannot print a regime; the journaled stance is stand aside.
	if journal.events[0].Action != models.ActionStandAside {
		t.Fatalf("unexpected action %s", journal.events[0].Action)
	}
}

func TestImportEndpoint(t *testing.T) {
	jobs := &memQueue{}
	_, e := newTestHandler(t, &memStore{}, &memJournal{}, jobs)

	csv := "time,open,high,low,close,volume\n2025-06-01T00:00:00Z,1,2,0.5,1.5,10\n"
	rec := doRequest(e, http.MethodPost, "/api/candles/import?symbol=ETHUSDT&tf=4h", csv)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var env struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Status != http.StatusAccepted {
		t.Fatalf("expected 202 envelope, got %d", env.Status)
	}
	if len(jobs.jobs) != 1 || jobs.jobs[0].msgType != usecase.CSVImportJobType {
		t.Fatalf("job not enqueued: %+v", jobs.jobs)
	}
	payload, ok := jobs.jobs[0].payload.(usecase.CSVImportPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", jobs.jobs[0].payload)
	}
	if payload.Symbol != "ETHUSDT" || payload.Timeframe != "4h" || !strings.Contains(payload.Data, "2025-06-01") {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestImportEndpointRejectsEmpty(t *testing.T) {
	jobs := &memQueue{}
	_, e := newTestHandler(t, &memStore{}, &memJournal{}, jobs)

	rec := doRequest(e, http.MethodPost, "/api/candles/import?symbol=ETHUSDT", "")
	var env struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Status != http.StatusBadRequest {
		t.Fatalf("empty body must return 400 envelope, got %d", env.Status)
	}
	if len(jobs.jobs) != 0 {
		t.Fatalf("no job should be enqueued")
	}
}

func TestCandlesEndpoint(t *testing.T) {
	_, e := newTestHandler(t, seedStore("BTCUSDT"), &memJournal{}, &memQueue{})

	rec := doRequest(e, http.MethodGet, "/api/candles?symbol=BTCUSDT&from=2025-06-01T00:00:00Z&to=2025-06-02T00:00:00Z", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var env struct {
		Status int `json:"status"`
		Data   struct {
			Count   int             `json:"Count"`
			Candles []models.Candle `json:"Candles"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Count != 10 || len(env.Data.Candles) != 10 {
		t.Fatalf("unexpected candle count %d", env.Data.Count)
	}
}

func TestSignalsEndpoint(t *testing.T) {
	journal := &memJournal{}
	journal.events = append(journal.events, models.SignalEvent{
		Symbol: "BTCUSDT", Action: models.ActionEnterLong, Time: time.Now(),
	})
	_, e := newTestHandler(t, &memStore{}, journal, &memQueue{})

	rec := doRequest(e, http.MethodGet, "/api/signals?symbol=BTCUSDT", "")
	var env struct {
		Status int                  `json:"status"`
		Data   []models.SignalEvent `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data) != 1 || env.Data[0].Action != models.ActionEnterLong {
		t.Fatalf("unexpected signals %+v", env.Data)
	}
}

func TestContextEndpoint(t *testing.T) {
	_, e := newTestHandler(t, seedStore("BTCUSDT"), &memJournal{}, &memQueue{})

	rec := doRequest(e, http.MethodGet, "/api/context?symbol=BTCUSDT", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var env struct {
		Data struct {
			Summary    string    `json:"summary"`
			Resistance []float64 `json:"resistance"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Summary == "" || len(env.Data.Resistance) != 1 {
		t.Fatalf("unexpected context payload %+v", env.Data)
	}
}

var (
	_ domrepo.CandleStore   = (*memStore)(nil)
	_ domrepo.SignalJournal = (*memJournal)(nil)
	_ domrepo.Metrics       = nopMetrics{}
	_ xhttp.Handler         = (*StructureHandler)(nil)
)
