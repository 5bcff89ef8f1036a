package trust

import (
	"fmt"

	"github.com/teyit-cloud/teyit/internal/domain"
)

// SourceType categorizes a news source for baseline credibility.
type SourceType string

const (
	TypeMainstreamMedia  SourceType = "mainstream_media"
	TypeIndependentMedia SourceType = "independent_media"
	TypeFactChecker      SourceType = "fact_checker"
	TypeGovernment       SourceType = "government"
	TypeBlog             SourceType = "blog"
	TypeSocialMedia      SourceType = "social_media"
	TypeUnknown          SourceType = "unknown"
)

// ParseSourceType validates a source type string. Empty maps to unknown.
func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(s) {
	case TypeMainstreamMedia, TypeIndependentMedia, TypeFactChecker,
		TypeGovernment, TypeBlog, TypeSocialMedia, TypeUnknown:
		return SourceType(s), nil
	case "":
		return TypeUnknown, nil
	}
	return "", fmt.Errorf("unknown source type %q", s)
}

// Bias is the editorial bias rating of a source.
type Bias string

const (
	BiasLeft        Bias = "left"
	BiasCenterLeft  Bias = "center_left"
	BiasCenter      Bias = "center"
	BiasCenterRight Bias = "center_right"
	BiasRight       Bias = "right"
	BiasUnknown     Bias = "unknown"
)

// ParseBias validates a bias string. Empty maps to unknown.
func ParseBias(s string) (Bias, error) {
	switch Bias(s) {
	case BiasLeft, BiasCenterLeft, BiasCenter, BiasCenterRight, BiasRight, BiasUnknown:
		return Bias(s), nil
	case "":
		return BiasUnknown, nil
	}
	return "", fmt.Errorf("unknown bias %q", s)
}

// Tier is the qualitative trust bucket derived from a numeric score.
type Tier string

const (
	TierVeryHigh Tier = "very_high"
	TierHigh     Tier = "high"
	TierMedium   Tier = "medium"
	TierLow      Tier = "low"
	TierVeryLow  Tier = "very_low"
)

// Method records how a trust score was computed.
type Method string

const (
	MethodManual  Method = "manual"
	MethodDynamic Method = "dynamic"
	MethodHybrid  Method = "hybrid"
)

// Credibility thresholds. The tier ladder below and the type baselines in the
// trust engine both read these; the verification engine's credibility
// semantics depend on them staying put.
const (
	CredibilityVeryHigh = 0.90
	CredibilityHigh     = 0.80
	CredibilityMedium   = 0.65
	CredibilityLow      = 0.40
)

// ClassifyTier maps a numeric trust score onto its qualitative tier.
func ClassifyTier(score float64) Tier {
	switch {
	case score >= CredibilityVeryHigh:
		return TierVeryHigh
	case score >= CredibilityHigh:
		return TierHigh
	case score >= CredibilityMedium:
		return TierMedium
	case score > CredibilityLow:
		return TierLow
	}
	return TierVeryLow
}

// Metrics holds the four behavioral signals a source is judged on, each
// semantically in [0,1]. Always renormalize before use.
type Metrics struct {
	AccuracyHistory    float64
	EditorialStandards float64
	TransparencyLevel  float64
	CorrectionSpeed    float64
}

// Normalized returns a copy with every signal clamped to [0,1].
func (m Metrics) Normalized() Metrics {
	return Metrics{
		AccuracyHistory:    domain.Clamp01(m.AccuracyHistory),
		EditorialStandards: domain.Clamp01(m.EditorialStandards),
		TransparencyLevel:  domain.Clamp01(m.TransparencyLevel),
		CorrectionSpeed:    domain.Clamp01(m.CorrectionSpeed),
	}
}

// Score is the outcome of a trust calculation (immutable value object).
// Produced on demand, never cached.
type Score struct {
	score      float64
	tier       Tier
	method     Method
	rationale  string
	components map[string]float64
}

// NewScore creates a Score, deriving the tier from the value.
func NewScore(value float64, method Method, rationale string, components map[string]float64) Score {
	kept := make(map[string]float64, len(components))
	for k, v := range components {
		kept[k] = v
	}
	return Score{
		score:      value,
		tier:       ClassifyTier(value),
		method:     method,
		rationale:  rationale,
		components: kept,
	}
}

// Reconstruct creates a Score from previously computed parts without
// re-deriving anything (transport hydration).
func Reconstruct(value float64, tier Tier, method Method, rationale string, components map[string]float64) Score {
	return Score{score: value, tier: tier, method: method, rationale: rationale, components: components}
}

// Value returns the numeric trust score in [0,1].
func (s *Score) Value() float64 { return s.score }

// TrustTier returns the qualitative bucket.
func (s *Score) TrustTier() Tier { return s.tier }

// ScoringMethod returns how the score was computed.
func (s *Score) ScoringMethod() Method { return s.method }

// Rationale returns the free-text explanation.
func (s *Score) Rationale() string { return s.rationale }

// Components returns the named numeric contributions for audit/debugging.
func (s *Score) Components() map[string]float64 {
	out := make(map[string]float64, len(s.components))
	for k, v := range s.components {
		out[k] = v
	}
	return out
}
