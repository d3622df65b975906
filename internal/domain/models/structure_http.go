package models

// Requests for the structure HTTP endpoints. Defined in domain for
// consistency and reuse.

// StructureRequest carries the candle window plus the engine knobs.
// Zero-valued knobs mean "use the engine default"; the switches are
// pointers so an explicit false survives defaulting.
type StructureRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	N      int    `query:"n" json:"n" default:"150" validate:"gte=10,lte=5000"`
	TF     string `query:"tf" json:"tf" default:"1h" validate:"oneof=1m 5m 15m 1h 4h 1d"`

	ShowHighs      *bool `query:"show_highs" json:"show_highs"`
	ShowLows       *bool `query:"show_lows" json:"show_lows"`
	Sensitivity    int   `query:"sensitivity" json:"sensitivity" validate:"omitempty,gte=1,lte=100"`
	MaxSwingPoints int   `query:"max_swing_points" json:"max_swing_points" validate:"omitempty,gte=1,lte=100"`

	ShowRegime             *bool `query:"show_regime" json:"show_regime"`
	FastMALength           int   `query:"fast_ma" json:"fast_ma" validate:"omitempty,gte=1,lte=500"`
	SlowMALength           int   `query:"slow_ma" json:"slow_ma" validate:"omitempty,gte=1,lte=1000"`
	RegimeConfirmationBars int   `query:"regime_confirmation_bars" json:"regime_confirmation_bars" validate:"omitempty,gte=0,lte=100"`

	EnableRays     bool `query:"enable_rays" json:"enable_rays"`
	RaySensitivity int  `query:"ray_sensitivity" json:"ray_sensitivity" validate:"omitempty,gte=1,lte=100"`
	NumRaysToShow  int  `query:"num_rays" json:"num_rays" validate:"omitempty,gte=1,lte=100"`

	// Journal records the derived signal event alongside the analysis.
	Journal bool `query:"journal" json:"journal"`
}

// CandlesRequest queries a stored candle window.
type CandlesRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	TF     string `query:"tf" json:"tf" default:"1h" validate:"oneof=1m 5m 15m 1h 4h 1d"`
	Limit  int    `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=50000"`
}

// ImportRequest describes a CSV dataset import.
type ImportRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	TF     string `query:"tf" json:"tf" default:"1h" validate:"oneof=1m 5m 15m 1h 4h 1d"`
}

// SignalsRequest lists recent journaled signals.
type SignalsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Limit  int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=1000"`
}

// ContextRequest builds the commentary prompt context payload.
type ContextRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	N      int    `query:"n" json:"n" default:"150" validate:"gte=10,lte=5000"`
	TF     string `query:"tf" json:"tf" default:"1h" validate:"oneof=1m 5m 15m 1h 4h 1d"`
}
