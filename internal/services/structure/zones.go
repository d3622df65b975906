package structure

import (
	"SwingSight/internal/domain/models"
)

// ScanZones walks the candle series in chronological order and collects
// confirmed swing highs and lows. A pivot at bar k needs sensitivity bars
// of strictly lower (or higher, for lows) prices on each side, so it is
// only confirmed once the bar at k+sensitivity has closed. The scan index
// tracks the confirming bar; the candidate sits sensitivity bars behind it.
// Each returned slice is capped to the most recent maxPoints pivots.
func ScanZones(candles []models.Candle, sensitivity, maxPoints int, wantHighs, wantLows bool) (highs, lows []models.SwingPoint) {
	if sensitivity < 1 || len(candles) == 0 {
		return nil, nil
	}

	highSeries := make([]float64, len(candles))
	lowSeries := make([]float64, len(candles))
	for i, c := range candles {
		highSeries[i] = c.High
		lowSeries[i] = c.Low
	}

	seenHighs := make(map[int]struct{})
	seenLows := make(map[int]struct{})

	for i := sensitivity * 2; i < len(candles)-sensitivity; i++ {
		idx := i - sensitivity
		if wantHighs && IsPivotHigh(highSeries, sensitivity, sensitivity, idx) {
			if _, ok := seenHighs[idx]; !ok {
				seenHighs[idx] = struct{}{}
				highs = append(highs, models.SwingPoint{
					BarIndex: idx,
					Price:    candles[idx].High,
					Kind:     models.PointHigh,
					Time:     candles[idx].Bucket,
				})
			}
		}
		if wantLows && IsPivotLow(lowSeries, sensitivity, sensitivity, idx) {
			if _, ok := seenLows[idx]; !ok {
				seenLows[idx] = struct{}{}
				lows = append(lows, models.SwingPoint{
					BarIndex: idx,
					Price:    candles[idx].Low,
					Kind:     models.PointLow,
					Time:     candles[idx].Bucket,
				})
			}
		}
	}

	return capRecent(highs, maxPoints), capRecent(lows, maxPoints)
}

// capRecent keeps the last n points, preserving chronological order.
func capRecent(points []models.SwingPoint, n int) []models.SwingPoint {
	if n <= 0 || len(points) <= n {
		return points
	}
	return points[len(points)-n:]
}
