package trust

import (
	"fmt"
	"math"
	"sync"

	"github.com/teyit-cloud/teyit/internal/domain"
	domtrust "github.com/teyit-cloud/teyit/internal/domain/trust"
)

// Weights for the dynamic score, fixed by the scoring model.
const (
	weightAccuracy     = 0.40
	weightEditorial    = 0.30
	weightTransparency = 0.20
	weightCorrection   = 0.10
)

// MaxBiasAdjustment bounds every configured bias adjustment. A table entry
// beyond this is a configuration bug, rejected at construction instead of
// being masked by the post-application clamp.
const MaxBiasAdjustment = 0.15

// Config holds the trust engine's static configuration.
type Config struct {
	// Overrides maps source IDs to manually assigned scores.
	Overrides map[string]float64
	// BiasAdjustments maps bias categories to additive adjustments,
	// each within ±MaxBiasAdjustment.
	BiasAdjustments map[domtrust.Bias]float64
}

// Service computes trust scores for news sources. The override map is the
// only mutable state and is guarded for concurrent registration and lookup;
// everything else is read-only after construction.
type Service struct {
	mu              sync.RWMutex
	overrides       map[string]float64
	biasAdjustments map[domtrust.Bias]float64
	baselines       map[domtrust.SourceType]float64
}

// New validates the configuration and creates a trust engine.
func New(cfg Config) (*Service, error) {
	for bias, adj := range cfg.BiasAdjustments {
		if math.Abs(adj) > MaxBiasAdjustment {
			return nil, fmt.Errorf("%w: bias adjustment for %q is %g, bound is ±%g",
				domain.ErrVerificationInternal, bias, adj, MaxBiasAdjustment)
		}
	}

	overrides := make(map[string]float64, len(cfg.Overrides))
	for id, score := range cfg.Overrides {
		overrides[id] = domain.Clamp01(score)
	}
	adjustments := make(map[domtrust.Bias]float64, len(cfg.BiasAdjustments))
	for bias, adj := range cfg.BiasAdjustments {
		adjustments[bias] = adj
	}

	return &Service{
		overrides:       overrides,
		biasAdjustments: adjustments,
		baselines: map[domtrust.SourceType]float64{
			domtrust.TypeFactChecker:      domtrust.CredibilityVeryHigh,
			domtrust.TypeMainstreamMedia:  domtrust.CredibilityHigh,
			domtrust.TypeGovernment:       domtrust.CredibilityHigh,
			domtrust.TypeIndependentMedia: domtrust.CredibilityMedium,
			domtrust.TypeBlog:             domtrust.CredibilityLow,
			domtrust.TypeSocialMedia:      domtrust.CredibilityLow,
			domtrust.TypeUnknown:          domtrust.CredibilityLow,
		},
	}, nil
}

// RegisterOverride stores a clamped manual score for future lookups. This is
// the single synchronized mutation entry point of the engine.
func (s *Service) RegisterOverride(sourceID string, score float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[sourceID] = domain.Clamp01(score)
}

// ManualScore returns the editorially configured trust score for a source:
// the registered override when one exists, otherwise the type baseline, with
// the bias adjustment applied on top.
func (s *Service) ManualScore(sourceID string, sourceType domtrust.SourceType, bias domtrust.Bias) domtrust.Score {
	s.mu.RLock()
	base, overridden := s.overrides[sourceID]
	s.mu.RUnlock()
	if !overridden {
		base = s.baseline(sourceType)
	}

	adjusted := s.applyBias(base, bias)
	return domtrust.NewScore(adjusted, domtrust.MethodManual,
		"Manual baseline derived from source type and optional editorial overrides.",
		map[string]float64{
			"base_score":      base,
			"bias_adjustment": adjusted - base,
		})
}

// DynamicScore combines the four behavioral metrics with fixed weights.
// When blendWithManual is set the weighted sum is averaged 50/50 with the
// type baseline before the bias adjustment.
func (s *Service) DynamicScore(
	metrics domtrust.Metrics, sourceType domtrust.SourceType, bias domtrust.Bias, blendWithManual bool,
) domtrust.Score {
	m := metrics.Normalized()
	value := m.AccuracyHistory*weightAccuracy +
		m.EditorialStandards*weightEditorial +
		m.TransparencyLevel*weightTransparency +
		m.CorrectionSpeed*weightCorrection

	baseline := 0.0
	rationale := "Weighted behavioral metrics"
	if blendWithManual {
		baseline = s.baseline(sourceType)
		value = (value + baseline) / 2
		rationale = "Weighted metrics (accuracy, editorial standards, transparency, correction speed) blended with type baseline"
	}

	adjusted := s.applyBias(value, bias)
	return domtrust.NewScore(adjusted, domtrust.MethodDynamic, rationale,
		map[string]float64{
			"accuracy_history":    m.AccuracyHistory,
			"editorial_standards": m.EditorialStandards,
			"transparency_level":  m.TransparencyLevel,
			"correction_speed":    m.CorrectionSpeed,
			"baseline":            baseline,
			"bias_adjustment":     adjusted - value,
		})
}

// Combine linearly interpolates between a manual and a dynamic score using a
// caller-supplied weight, clamped to [0,1].
func (s *Service) Combine(manual, dynamic domtrust.Score, manualWeight float64) domtrust.Score {
	w := domain.Clamp01(manualWeight)
	combined := manual.Value()*w + dynamic.Value()*(1-w)
	rationale := fmt.Sprintf(
		"Blended manual and dynamic trust scores with weights manual=%.2f, dynamic=%.2f.", w, 1-w)
	return domtrust.NewScore(domain.Clamp01(combined), domtrust.MethodHybrid, rationale,
		map[string]float64{
			"manual_score":  manual.Value(),
			"dynamic_score": dynamic.Value(),
			"manual_weight": w,
		})
}

func (s *Service) baseline(sourceType domtrust.SourceType) float64 {
	if base, ok := s.baselines[sourceType]; ok {
		return base
	}
	return domtrust.CredibilityLow
}

func (s *Service) applyBias(score float64, bias domtrust.Bias) float64 {
	return domain.Clamp01(score + s.biasAdjustments[bias])
}
