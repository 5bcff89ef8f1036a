package trust

import "testing"

func TestClassifyTier(t *testing.T) {
	tests := []struct {
		score float64
		want  Tier
	}{
		{1.0, TierVeryHigh},
		{0.90, TierVeryHigh},
		{0.89, TierHigh},
		{0.80, TierHigh},
		{0.79, TierMedium},
		{0.65, TierMedium},
		{0.64, TierLow},
		{0.41, TierLow},
		{0.40, TierVeryLow},
		{0.0, TierVeryLow},
	}
	for _, tt := range tests {
		if got := ClassifyTier(tt.score); got != tt.want {
			t.Errorf("ClassifyTier(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestParseSourceType(t *testing.T) {
	st, err := ParseSourceType("fact_checker")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st != TypeFactChecker {
		t.Errorf("expected %q, got %q", TypeFactChecker, st)
	}

	st, err = ParseSourceType("")
	if err != nil {
		t.Fatalf("unexpected error for empty type: %v", err)
	}
	if st != TypeUnknown {
		t.Errorf("expected empty to map to %q, got %q", TypeUnknown, st)
	}

	if _, err := ParseSourceType("tabloid"); err == nil {
		t.Error("expected error for invalid source type")
	}
}

func TestParseBias(t *testing.T) {
	b, err := ParseBias("center_left")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b != BiasCenterLeft {
		t.Errorf("expected %q, got %q", BiasCenterLeft, b)
	}

	b, err = ParseBias("")
	if err != nil {
		t.Fatalf("unexpected error for empty bias: %v", err)
	}
	if b != BiasUnknown {
		t.Errorf("expected empty to map to %q, got %q", BiasUnknown, b)
	}

	if _, err := ParseBias("far_out"); err == nil {
		t.Error("expected error for invalid bias")
	}
}

func TestMetricsNormalized(t *testing.T) {
	m := Metrics{
		AccuracyHistory:    1.5,
		EditorialStandards: -0.2,
		TransparencyLevel:  0.7,
		CorrectionSpeed:    0.0,
	}
	n := m.Normalized()

	if n.AccuracyHistory != 1 {
		t.Errorf("expected accuracy clamped to 1, got %v", n.AccuracyHistory)
	}
	if n.EditorialStandards != 0 {
		t.Errorf("expected editorial clamped to 0, got %v", n.EditorialStandards)
	}
	if n.TransparencyLevel != 0.7 {
		t.Errorf("expected transparency unchanged, got %v", n.TransparencyLevel)
	}
}

func TestNewScore_DerivesTierAndCopiesComponents(t *testing.T) {
	components := map[string]float64{"base_score": 0.85}
	s := NewScore(0.85, MethodManual, "manual baseline", components)

	if s.TrustTier() != TierHigh {
		t.Errorf("expected tier %q, got %q", TierHigh, s.TrustTier())
	}
	if s.ScoringMethod() != MethodManual {
		t.Errorf("expected method %q, got %q", MethodManual, s.ScoringMethod())
	}

	components["base_score"] = 0
	if s.Components()["base_score"] != 0.85 {
		t.Error("score must not share the caller's component map")
	}

	out := s.Components()
	out["base_score"] = 0
	if s.Components()["base_score"] != 0.85 {
		t.Error("Components must return a copy")
	}
}
