package structure

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Settings tunes the structure engine. Zero-valued numeric knobs are filled
// with the documented defaults; the display switches are pointers so an
// explicit false survives defaulting. The preset labels some UIs attach to
// these knobs ("Aggressive", "Balanced", "Conservative") are presentation
// sugar and not part of this contract.
type Settings struct {
	ShowHighs      *bool `json:"show_highs" default:"true"`
	ShowLows       *bool `json:"show_lows" default:"true"`
	Sensitivity    int   `json:"sensitivity" default:"2" validate:"gte=1,lte=100"`
	MaxSwingPoints int   `json:"max_swing_points" default:"2" validate:"gte=1,lte=100"`

	ShowRegime   *bool `json:"show_regime" default:"true"`
	FastMALength int   `json:"fast_ma_length" default:"21" validate:"gte=1,lte=500"`
	SlowMALength int   `json:"slow_ma_length" default:"50" validate:"gte=1,lte=1000"`

	// RegimeConfirmationBars is accepted for forward compatibility but is
	// not consulted by the classifier.
	RegimeConfirmationBars int `json:"regime_confirmation_bars" default:"3" validate:"gte=0,lte=100"`

	EnableRays     bool `json:"enable_rays"`
	RaySensitivity int  `json:"ray_sensitivity" default:"2" validate:"gte=1,lte=100"`
	NumRaysToShow  int  `json:"num_rays_to_show" default:"3" validate:"gte=1,lte=100"`
}

// Normalize fills defaults and bounds-checks the knobs.
func (s *Settings) Normalize() error {
	if err := defaults.Set(s); err != nil {
		return fmt.Errorf("settings defaults: %w", err)
	}
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}

func (s *Settings) showHighs() bool  { return s.ShowHighs == nil || *s.ShowHighs }
func (s *Settings) showLows() bool   { return s.ShowLows == nil || *s.ShowLows }
func (s *Settings) showRegime() bool { return s.ShowRegime == nil || *s.ShowRegime }

// Fingerprint is a stable string covering every knob, used as a cache key
// component so distinct settings never share a cached analysis.
func (s *Settings) Fingerprint() string {
	return fmt.Sprintf("h%t.l%t.s%d.m%d.r%t.f%d.sl%d.cb%d.er%t.rs%d.nr%d",
		s.showHighs(), s.showLows(), s.Sensitivity, s.MaxSwingPoints,
		s.showRegime(), s.FastMALength, s.SlowMALength, s.RegimeConfirmationBars,
		s.EnableRays, s.RaySensitivity, s.NumRaysToShow)
}
