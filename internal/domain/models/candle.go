package models

import "time"

// Candle represents one OHLCV bar. Series handed to the structure engine
// are ordered by Bucket ascending; the engine assumes but never re-sorts.
type Candle struct {
	Bucket time.Time `json:"time"`
	Symbol string    `json:"symbol"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Unix returns the bar open time as Unix seconds for chart alignment.
func (c Candle) Unix() int64 { return c.Bucket.Unix() }
