package structure

import "testing"

func TestSettingsDefaults(t *testing.T) {
	var s Settings
	if err := s.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !s.showHighs() || !s.showLows() || !s.showRegime() {
		t.Fatalf("display switches must default on: %+v", s)
	}
	if s.Sensitivity != 2 || s.MaxSwingPoints != 2 {
		t.Fatalf("unexpected zone defaults %+v", s)
	}
	if s.FastMALength != 21 || s.SlowMALength != 50 || s.RegimeConfirmationBars != 3 {
		t.Fatalf("unexpected regime defaults %+v", s)
	}
	if s.EnableRays {
		t.Fatalf("rays must default off")
	}
	if s.RaySensitivity != 2 || s.NumRaysToShow != 3 {
		t.Fatalf("unexpected ray defaults %+v", s)
	}
}

func TestSettingsExplicitFalseSurvives(t *testing.T) {
	off := false
	s := Settings{ShowHighs: &off}
	if err := s.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if s.showHighs() {
		t.Fatalf("explicit false was overwritten by default")
	}
	if !s.showLows() {
		t.Fatalf("untouched switch must still default on")
	}
}

func TestSettingsValidation(t *testing.T) {
	s := Settings{Sensitivity: -1}
	if err := s.Normalize(); err == nil {
		t.Fatalf("negative sensitivity must be rejected")
	}
	s = Settings{NumRaysToShow: 500}
	if err := s.Normalize(); err == nil {
		t.Fatalf("out of range ray count must be rejected")
	}
}

func TestSettingsFingerprint(t *testing.T) {
	var a, b Settings
	if err := a.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := b.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("equal settings must share a fingerprint")
	}
	b.Sensitivity = 5
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatalf("distinct settings must not share a fingerprint")
	}
}
