package advisor

import (
	"fmt"
	"strings"

	"SwingSight/internal/domain/models"
)

// MarketContext is a compact, human-readable digest of one analysis,
// shaped for pasting into a review journal or an LLM prompt. It carries
// no advice beyond the regime recommendation already attached upstream.
type MarketContext struct {
	Symbol     string                   `json:"symbol"`
	Timeframe  string                   `json:"timeframe"`
	Bars       int                      `json:"bars"`
	LastClose  float64                  `json:"last_close"`
	Support    []float64                `json:"support"`
	Resistance []float64                `json:"resistance"`
	Regime     *models.RegimeAssessment `json:"regime,omitempty"`
	Summary    string                   `json:"summary"`
}

// Build assembles the context digest from an analysis and the candle
// window it was computed over.
func Build(analysis *models.StructureAnalysis, candles []models.Candle) *MarketContext {
	mc := &MarketContext{
		Symbol:     analysis.Symbol,
		Timeframe:  analysis.Timeframe,
		Bars:       analysis.Bars,
		Support:    levels(analysis.SwingLows),
		Resistance: levels(analysis.SwingHighs),
		Regime:     analysis.Regime,
	}
	if len(candles) > 0 {
		mc.LastClose = candles[len(candles)-1].Close
	}
	mc.Summary = summarize(mc)
	return mc
}

func levels(points []models.SwingPoint) []float64 {
	out := make([]float64, 0, len(points))
	for _, p := range points {
		out = append(out, p.Price)
	}
	return out
}

func summarize(mc *MarketContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s, %d bars, last close %s.", mc.Symbol, mc.Timeframe, mc.Bars, trimFloat(mc.LastClose))
	if len(mc.Resistance) > 0 {
		fmt.Fprintf(&b, " Resistance: %s.", joinLevels(mc.Resistance))
	}
	if len(mc.Support) > 0 {
		fmt.Fprintf(&b, " Support: %s.", joinLevels(mc.Support))
	}
	if mc.Regime != nil {
		fmt.Fprintf(&b, " Regime: %s. %s", mc.Regime.State, mc.Regime.Recommendation)
	} else {
		b.WriteString(" Regime: insufficient history.")
	}
	return b.String()
}

func joinLevels(levels []float64) string {
	parts := make([]string, 0, len(levels))
	for _, l := range levels {
		parts = append(parts, trimFloat(l))
	}
	return strings.Join(parts, ", ")
}

func trimFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}
