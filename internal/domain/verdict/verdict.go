package verdict

import "github.com/teyit-cloud/teyit/internal/domain/article"

// Status is the discrete verification outcome. Unverified is the fallback
// when no ladder entry matches; it is never a scoring target.
type Status string

const (
	StatusVerified   Status = "verified"
	StatusLikelyTrue Status = "likely_true"
	StatusUncertain  Status = "uncertain"
	StatusDisputed   Status = "disputed"
	StatusUnverified Status = "unverified"
)

// Confidence is the qualitative confidence level, decided from the score
// alone, independently of the status ladder.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Score thresholds for the status ladder and confidence decision.
const (
	ScoreVerified   = 0.80
	ScoreLikelyTrue = 0.70
	ScoreUncertain  = 0.50
	ScoreDisputed   = 0.30
)

// Result is the verification decision (immutable value object). Created once
// per verification call and never mutated or persisted by the core.
type Result struct {
	score           float64
	status          Status
	confidence      Confidence
	uniqueSources   int
	diversityFactor float64
	recencyFactor   float64
	geographyFactor float64
	reasoning       string
	articles        []article.Article
}

// NewResult creates a Result. articles is the post-filter candidate list the
// decision was actually based on, kept for traceability.
func NewResult(
	score float64, status Status, confidence Confidence, uniqueSources int,
	diversity, recency, geography float64, reasoning string,
	articles []article.Article,
) Result {
	kept := make([]article.Article, len(articles))
	copy(kept, articles)
	return Result{
		score:           score,
		status:          status,
		confidence:      confidence,
		uniqueSources:   uniqueSources,
		diversityFactor: diversity,
		recencyFactor:   recency,
		geographyFactor: geography,
		reasoning:       reasoning,
		articles:        kept,
	}
}

// Score returns the composite score in [0,1], rounded to 4 decimals.
func (r *Result) Score() float64 { return r.score }

// Status returns the discrete verification status.
func (r *Result) Status() Status { return r.status }

// Confidence returns the qualitative confidence level.
func (r *Result) Confidence() Confidence { return r.confidence }

// UniqueSources returns the count of distinct source IDs among the
// candidates that passed the similarity filter.
func (r *Result) UniqueSources() int { return r.uniqueSources }

// DiversityFactor returns the source-diversity multiplier.
func (r *Result) DiversityFactor() float64 { return r.diversityFactor }

// RecencyFactor returns the recency multiplier. This is the one factor that
// may exceed 1.0 (capped at 1.2) when near-simultaneous reporting is detected.
func (r *Result) RecencyFactor() float64 { return r.recencyFactor }

// GeographyFactor returns the geographic-spread multiplier.
func (r *Result) GeographyFactor() float64 { return r.geographyFactor }

// Reasoning returns the fixed human-readable rationale for the status.
func (r *Result) Reasoning() string { return r.reasoning }

// Articles returns the ordered candidates the decision was based on.
func (r *Result) Articles() []article.Article { return r.articles }
