package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	analysisDuration *prometheus.HistogramVec
	levelsFound      *prometheus.HistogramVec
	regimeTotal      *prometheus.CounterVec
	signalsTotal     *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	importedCandles  *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		analysisDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "swingsight_analysis_duration_seconds",
				Help:    "Duration of structure analysis runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"timeframe"},
		),
		levelsFound: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "swingsight_levels_found",
				Help:    "Structure levels returned per analysis, by kind",
				Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
			},
			[]string{"kind"},
		),
		regimeTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swingsight_regime_total",
				Help: "Regime classifications by resulting state",
			},
			[]string{"state"},
		),
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swingsight_signals_total",
				Help: "Journaled signal events by action",
			},
			[]string{"action"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swingsight_analysis_cache_lookups_total",
				Help: "Analysis cache lookups by outcome",
			},
			[]string{"outcome"},
		),
		importedCandles: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swingsight_imported_candles_total",
				Help: "Candles written to storage, by symbol",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swingsight_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordAnalysis records one analysis run duration.
func (r *Recorder) RecordAnalysis(timeframe string, seconds float64) {
	r.analysisDuration.WithLabelValues(timeframe).Observe(seconds)
}

// RecordLevels records how many levels of a kind an analysis produced.
func (r *Recorder) RecordLevels(kind string, count int) {
	r.levelsFound.WithLabelValues(kind).Observe(float64(count))
}

// RecordRegime counts a regime classification outcome.
func (r *Recorder) RecordRegime(state string) {
	r.regimeTotal.WithLabelValues(state).Inc()
}

// RecordSignal counts a journaled signal by action.
func (r *Recorder) RecordSignal(action string) {
	r.signalsTotal.WithLabelValues(action).Inc()
}

// RecordCacheLookup counts an analysis cache hit or miss.
func (r *Recorder) RecordCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cacheLookups.WithLabelValues(outcome).Inc()
}

// RecordImportedCandles counts candles written to storage.
func (r *Recorder) RecordImportedCandles(symbol string, count int) {
	r.importedCandles.WithLabelValues(symbol).Add(float64(count))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
