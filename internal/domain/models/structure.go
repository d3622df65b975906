package models

import "time"

// PointKind distinguishes swing highs from swing lows.
type PointKind string

const (
	PointHigh PointKind = "high"
	PointLow  PointKind = "low"
)

// SwingPoint is one confirmed structure point. BarIndex is the position of
// the pivot bar inside the candle slice passed to that analysis call; it
// carries no meaning across calls and is exposed for display and debugging
// only. Zone points are priced at the pivot bar extreme; ray points at the
// pivot bar close.
type SwingPoint struct {
	BarIndex int       `json:"bar_index"`
	Price    float64   `json:"price"`
	Kind     PointKind `json:"kind"`
	Time     time.Time `json:"time"`
}

// Unix returns the point time as Unix seconds for chart-axis alignment.
func (p SwingPoint) Unix() int64 { return p.Time.Unix() }

// RegimeState is the point-in-time trend classification of the final bar.
type RegimeState string

const (
	RegimeBull  RegimeState = "bull_trend"
	RegimeBear  RegimeState = "bear_trend"
	RegimeRange RegimeState = "range"
)

// RegimeAssessment labels the final bar of a close series. Recommendation
// and Color are fixed presentation constants per state, consumed by the
// chart renderer and the commentary prompt builder.
type RegimeAssessment struct {
	State          RegimeState `json:"state"`
	Recommendation string      `json:"recommendation"`
	Color          string      `json:"color"`
	FastMA         float64     `json:"fast_ma"`
	SlowMA         float64     `json:"slow_ma"`
	Close          float64     `json:"close"`
}

// StructureAnalysis is the full engine output for one candle window.
// Regime is nil when the series is too short to classify.
type StructureAnalysis struct {
	Symbol     string            `json:"symbol,omitempty"`
	Timeframe  string            `json:"timeframe,omitempty"`
	Bars       int               `json:"bars"`
	SwingHighs []SwingPoint      `json:"swing_highs"`
	SwingLows  []SwingPoint      `json:"swing_lows"`
	RayHighs   []SwingPoint      `json:"ray_highs"`
	RayLows    []SwingPoint      `json:"ray_lows"`
	Regime     *RegimeAssessment `json:"regime,omitempty"`
}

// LastSwingHigh returns the most recently confirmed swing high, or nil.
func (a *StructureAnalysis) LastSwingHigh() *SwingPoint {
	if len(a.SwingHighs) == 0 {
		return nil
	}
	return &a.SwingHighs[len(a.SwingHighs)-1]
}

// LastSwingLow returns the most recently confirmed swing low, or nil.
func (a *StructureAnalysis) LastSwingLow() *SwingPoint {
	if len(a.SwingLows) == 0 {
		return nil
	}
	return &a.SwingLows[len(a.SwingLows)-1]
}
