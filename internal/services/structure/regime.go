package structure

import (
	"SwingSight/internal/domain/models"
)

const (
	bullColor  = "#26A69A"
	bearColor  = "#EF5350"
	rangeColor = "#787B86"

	bullAdvice  = "Uptrend confirmed. Favor long setups at support."
	bearAdvice  = "Downtrend confirmed. Favor short setups at resistance."
	rangeAdvice = "No clear trend. Trade the range or stand aside."
)

// smaAt computes the simple moving average of the period values ending at
// pos. The second return is false when fewer than period values precede
// and include pos.
func smaAt(closes []float64, period, pos int) (float64, bool) {
	if period < 1 || pos >= len(closes) || pos+1 < period {
		return 0, false
	}
	var sum float64
	for i := pos - period + 1; i <= pos; i++ {
		sum += closes[i]
	}
	return sum / float64(period), true
}

// ClassifyRegime labels the current market regime from two moving
// averages over the close series. A bull regime needs the fast average
// above the slow, both averages rising bar over bar, and the latest close
// above the fast average; a bear regime is the mirror. Anything else is a
// range. Returns nil when the series is too short to compute both
// averages at the current and previous bar.
func ClassifyRegime(candles []models.Candle, fastLen, slowLen int) *models.RegimeAssessment {
	if fastLen < 1 || slowLen < 1 || len(candles) < slowLen {
		return nil
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	cur := len(closes) - 1
	prev := cur - 1

	fastCur, ok := smaAt(closes, fastLen, cur)
	if !ok {
		return nil
	}
	slowCur, ok := smaAt(closes, slowLen, cur)
	if !ok {
		return nil
	}
	fastPrev, ok := smaAt(closes, fastLen, prev)
	if !ok {
		return nil
	}
	slowPrev, ok := smaAt(closes, slowLen, prev)
	if !ok {
		return nil
	}

	lastClose := closes[cur]
	assessment := &models.RegimeAssessment{
		FastMA: fastCur,
		SlowMA: slowCur,
		Close:  lastClose,
	}

	switch {
	case fastCur > slowCur && fastCur > fastPrev && slowCur > slowPrev && lastClose > fastCur:
		assessment.State = models.RegimeBull
		assessment.Recommendation = bullAdvice
		assessment.Color = bullColor
	case fastCur < slowCur && fastCur < fastPrev && slowCur < slowPrev && lastClose < fastCur:
		assessment.State = models.RegimeBear
		assessment.Recommendation = bearAdvice
		assessment.Color = bearColor
	default:
		assessment.State = models.RegimeRange
		assessment.Recommendation = rangeAdvice
		assessment.Color = rangeColor
	}
	return assessment
}
