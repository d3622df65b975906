package structure

import (
	"SwingSight/internal/domain/models"
)

// ScanRays finds pivots on the close series for horizontal ray levels.
// Rays anchor to closes rather than wicks so the level marks where the
// market actually settled. Both sides are always scanned; display
// filtering does not apply here. Returns nil slices when disabled.
func ScanRays(candles []models.Candle, sensitivity, maxRays int, enabled bool) (rayHighs, rayLows []models.SwingPoint) {
	if !enabled || sensitivity < 1 || len(candles) == 0 {
		return nil, nil
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	seenHighs := make(map[int]struct{})
	seenLows := make(map[int]struct{})

	for i := sensitivity * 2; i < len(candles)-sensitivity; i++ {
		idx := i - sensitivity
		if IsPivotHigh(closes, sensitivity, sensitivity, idx) {
			if _, ok := seenHighs[idx]; !ok {
				seenHighs[idx] = struct{}{}
				rayHighs = append(rayHighs, models.SwingPoint{
					BarIndex: idx,
					Price:    candles[idx].Close,
					Kind:     models.PointHigh,
					Time:     candles[idx].Bucket,
				})
			}
		}
		if IsPivotLow(closes, sensitivity, sensitivity, idx) {
			if _, ok := seenLows[idx]; !ok {
				seenLows[idx] = struct{}{}
				rayLows = append(rayLows, models.SwingPoint{
					BarIndex: idx,
					Price:    candles[idx].Close,
					Kind:     models.PointLow,
					Time:     candles[idx].Bucket,
				})
			}
		}
	}

	return capRecent(rayHighs, maxRays), capRecent(rayLows, maxRays)
}
