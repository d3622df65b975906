package structure

import (
	"SwingSight/internal/domain/models"
)

// Engine runs the full structure analysis over a candle series. Stateless;
// safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Analyze applies zone scanning, optional ray scanning, and regime
// classification to the given series using the supplied settings. The
// settings must already be normalized. Level slices in the result are
// never nil so the JSON encoding stays stable.
func (e *Engine) Analyze(symbol, timeframe string, candles []models.Candle, s *Settings) *models.StructureAnalysis {
	highs, lows := ScanZones(candles, s.Sensitivity, s.MaxSwingPoints, s.showHighs(), s.showLows())
	rayHighs, rayLows := ScanRays(candles, s.RaySensitivity, s.NumRaysToShow, s.EnableRays)

	var regime *models.RegimeAssessment
	if s.showRegime() {
		regime = ClassifyRegime(candles, s.FastMALength, s.SlowMALength)
	}

	return &models.StructureAnalysis{
		Symbol:     symbol,
		Timeframe:  timeframe,
		Bars:       len(candles),
		SwingHighs: ensure(highs),
		SwingLows:  ensure(lows),
		RayHighs:   ensure(rayHighs),
		RayLows:    ensure(rayLows),
		Regime:     regime,
	}
}

func ensure(points []models.SwingPoint) []models.SwingPoint {
	if points == nil {
		return []models.SwingPoint{}
	}
	return points
}
