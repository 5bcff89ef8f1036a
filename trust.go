package teyit

import (
	"fmt"

	"github.com/teyit-cloud/teyit/internal/domain"
	domtrust "github.com/teyit-cloud/teyit/internal/domain/trust"
	trustuc "github.com/teyit-cloud/teyit/internal/usecase/trust"
)

// TrustService scores news sources.
type TrustService struct {
	svc *trustuc.Service
}

// SourceMetrics holds the behavioral metrics behind a dynamic score, each
// in [0,1].
type SourceMetrics struct {
	AccuracyHistory    float64
	EditorialStandards float64
	TransparencyLevel  float64
	CorrectionSpeed    float64
}

// TrustScore is a computed source trust score.
type TrustScore struct {
	Value      float64
	Tier       string
	Method     string
	Rationale  string
	Components map[string]float64
}

// Manual returns the editorially configured score for a source. sourceType
// and bias are the classification strings ("fact_checker", "center_left",
// ...); empty strings mean unknown.
func (t *TrustService) Manual(sourceID, sourceType, bias string) (TrustScore, error) {
	st, b, err := parseSourceParams(sourceType, bias)
	if err != nil {
		return TrustScore{}, err
	}
	return fromScore(t.svc.ManualScore(sourceID, st, b)), nil
}

// Dynamic computes a behavior-based score. With blendWithManual set the
// metric score is averaged with the source type baseline.
func (t *TrustService) Dynamic(
	metrics SourceMetrics, sourceType, bias string, blendWithManual bool,
) (TrustScore, error) {
	st, b, err := parseSourceParams(sourceType, bias)
	if err != nil {
		return TrustScore{}, err
	}
	m := domtrust.Metrics{
		AccuracyHistory:    metrics.AccuracyHistory,
		EditorialStandards: metrics.EditorialStandards,
		TransparencyLevel:  metrics.TransparencyLevel,
		CorrectionSpeed:    metrics.CorrectionSpeed,
	}
	return fromScore(t.svc.DynamicScore(m, st, b, blendWithManual)), nil
}

// Combine blends a manual and a dynamic score value with the given manual
// weight, clamped to [0,1].
func (t *TrustService) Combine(manualValue, dynamicValue, manualWeight float64) TrustScore {
	manual := domtrust.Reconstruct(manualValue, domtrust.ClassifyTier(manualValue),
		domtrust.MethodManual, "", nil)
	dynamic := domtrust.Reconstruct(dynamicValue, domtrust.ClassifyTier(dynamicValue),
		domtrust.MethodDynamic, "", nil)
	return fromScore(t.svc.Combine(manual, dynamic, manualWeight))
}

// Override registers a manual score for a source, clamped to [0,1]. It takes
// effect for subsequent Manual calls and credibility lookups.
func (t *TrustService) Override(sourceID string, score float64) {
	t.svc.RegisterOverride(sourceID, score)
}

func parseSourceParams(sourceType, bias string) (domtrust.SourceType, domtrust.Bias, error) {
	st, err := domtrust.ParseSourceType(sourceType)
	if err != nil {
		return "", "", fmt.Errorf("trust: %w", err)
	}
	b, err := domtrust.ParseBias(bias)
	if err != nil {
		return "", "", fmt.Errorf("trust: %w", err)
	}
	return st, b, nil
}

func fromScore(s domtrust.Score) TrustScore {
	return TrustScore{
		Value:      domain.Round4(s.Value()),
		Tier:       string(s.TrustTier()),
		Method:     string(s.ScoringMethod()),
		Rationale:  s.Rationale(),
		Components: s.Components(),
	}
}
