package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"SwingSight/internal/domain/models"
	domrepo "SwingSight/internal/domain/repository"
	"SwingSight/pkg/logger"
	"SwingSight/pkg/queue"
	"SwingSight/pkg/util"
)

const CSVImportJobType = "candles_csv_import"

// CSVImportPayload is the queued import request. Data is the raw CSV
// text: an optional header then time,open,high,low,close[,volume] rows.
// Timestamps accept RFC3339 or Unix seconds.
type CSVImportPayload struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
	Data      string `json:"data"`
}

// CSVImportJob parses uploaded candle history and writes it to the store.
// Imports run through the queue so large files never block a request.
type CSVImportJob struct {
	store   domrepo.CandleStore
	metrics domrepo.Metrics
	log     *logger.Logger
	onDone  func(ctx context.Context, symbol string)
}

func NewCSVImportJob(
	store domrepo.CandleStore,
	metrics domrepo.Metrics,
	log *logger.Logger,
	onDone func(ctx context.Context, symbol string),
) *CSVImportJob {
	return &CSVImportJob{store: store, metrics: metrics, log: log, onDone: onDone}
}

func (j *CSVImportJob) Name() string { return "candles-csv-import" }
func (j *CSVImportJob) Type() string { return CSVImportJobType }

func (j *CSVImportJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[CSVImportPayload](payload)
	if err != nil {
		return fmt.Errorf("csv import payload: %w", err)
	}
	if p.Symbol == "" {
		return fmt.Errorf("csv import: symbol required")
	}
	tf := domrepo.NormalizeTimeframe(p.Timeframe)

	candles, err := ParseCandleCSV(strings.NewReader(p.Data), p.Symbol)
	if err != nil {
		j.metrics.RecordError("csv_parse")
		return fmt.Errorf("csv import %s: %w", p.Symbol, err)
	}
	if len(candles) == 0 {
		j.log.Warn("csv import had no rows", logger.String("symbol", p.Symbol))
		return nil
	}

	if err := j.store.InsertCandles(ctx, tf, candles); err != nil {
		j.metrics.RecordError("csv_insert")
		return fmt.Errorf("csv import insert %s: %w", p.Symbol, err)
	}
	j.metrics.RecordImportedCandles(p.Symbol, len(candles))
	j.log.Info("csv import complete",
		logger.String("symbol", p.Symbol),
		logger.String("timeframe", string(tf)),
		logger.Int("candles", len(candles)))

	if j.onDone != nil {
		j.onDone(ctx, p.Symbol)
	}
	return nil
}

var _ queue.Job = (*CSVImportJob)(nil)

// ParseCandleCSV reads time,open,high,low,close[,volume] rows. A header
// row is detected by a non-numeric first field and skipped. Rows are
// returned in file order; callers needing ascending series should import
// files already sorted by time, which is how exchanges export them.
func ParseCandleCSV(r io.Reader, symbol string) ([]models.Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []models.Candle
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line+1, err)
		}
		line++
		if len(rec) < 5 {
			return nil, fmt.Errorf("row %d: expected at least 5 fields, got %d", line, len(rec))
		}

		ts, ok := util.ParseTime(rec[0])
		if !ok {
			if line == 1 {
				continue // header
			}
			return nil, fmt.Errorf("row %d: bad timestamp %q", line, rec[0])
		}

		var vals [4]float64
		for i := 0; i < 4; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad field %q", line, rec[i+1])
			}
			vals[i] = v
		}
		var volume float64
		if len(rec) > 5 && strings.TrimSpace(rec[5]) != "" {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[5]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad volume %q", line, rec[5])
			}
			volume = v
		}

		out = append(out, models.Candle{
			Bucket: ts.UTC().Truncate(time.Second),
			Symbol: symbol,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: volume,
		})
	}
	return out, nil
}
