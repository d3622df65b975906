package models

import "time"

// SignalAction is the coarse stance derived from structure and regime.
type SignalAction string

const (
	ActionEnterLong  SignalAction = "enter_long"
	ActionEnterShort SignalAction = "enter_short"
	ActionStandAside SignalAction = "stand_aside"
)

// SignalEvent is one journaled decision-support signal. Events are stored
// for later strategy evaluation and published for downstream consumers.
type SignalEvent struct {
	Symbol     string       `json:"symbol"`
	Timeframe  string       `json:"timeframe"`
	Time       time.Time    `json:"time"`
	Action     SignalAction `json:"action"`
	Regime     RegimeState  `json:"regime"`
	Close      float64      `json:"close"`
	Support    float64      `json:"support,omitempty"`
	Resistance float64      `json:"resistance,omitempty"`
	Note       string       `json:"note,omitempty"`
}
