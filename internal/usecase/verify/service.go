package verify

import (
	"math"
	"strings"
	"time"

	"github.com/teyit-cloud/teyit/internal/domain"
	"github.com/teyit-cloud/teyit/internal/domain/article"
	"github.com/teyit-cloud/teyit/internal/domain/verdict"
)

// Tunable defaults.
const (
	// DefaultSimilarityThreshold is the minimum clamped similarity a
	// candidate needs to take part in the decision.
	DefaultSimilarityThreshold = 0.65
	// DefaultMinSources is the minimum distinct source count required to
	// attempt a verdict at all.
	DefaultMinSources = 3
	// DefaultDiversityThreshold is the source count at which the diversity
	// factor saturates.
	DefaultDiversityThreshold = 10
)

// Recency model constants.
const (
	breakingNewsClusterSize = 3   // dated candidates in one clock hour
	breakingNewsBoostCap    = 1.2 // upper bound for the boosted factor
	geographySaturation     = 5   // distinct countries for a full factor
)

// statusRule pairs a status with the minimum score and minimum distinct
// source count it demands. Rules are evaluated top-down; both conditions
// must hold, so a high score with few independent sources is demoted.
type statusRule struct {
	status     verdict.Status
	minScore   float64
	minSources int
}

var statusLadder = []statusRule{
	{verdict.StatusVerified, verdict.ScoreVerified, 10},
	{verdict.StatusLikelyTrue, verdict.ScoreLikelyTrue, 7},
	{verdict.StatusUncertain, verdict.ScoreUncertain, 5},
	{verdict.StatusDisputed, verdict.ScoreDisputed, 3},
}

var statusReasons = map[verdict.Status]string{
	verdict.StatusVerified:   "Multiple independent, high-credibility sources confirm the story.",
	verdict.StatusLikelyTrue: "Story is supported by several reputable sources but lacks maximum coverage.",
	verdict.StatusUncertain:  "Conflicting or limited sources, more verification required.",
	verdict.StatusDisputed:   "Reports exist but reliability is questionable or contradictory.",
	verdict.StatusUnverified: "Insufficient trustworthy sources to verify the story.",
}

// Service is the verification decision engine. It holds no mutable state and
// is safe to share across concurrent callers.
type Service struct {
	similarityThreshold float64
	minSources          int
	diversityThreshold  int
	boostedRange        domain.Bounds
	now                 func() time.Time
}

// New creates a decision engine with the default thresholds.
func New() *Service {
	boosted, err := domain.NewBounds(0, breakingNewsBoostCap)
	if err != nil {
		// Static bounds, cannot be inverted.
		panic(err)
	}
	return &Service{
		similarityThreshold: DefaultSimilarityThreshold,
		minSources:          DefaultMinSources,
		diversityThreshold:  DefaultDiversityThreshold,
		boostedRange:        boosted,
		now:                 time.Now,
	}
}

// WithThresholds overrides the similarity threshold, minimum source count,
// and diversity saturation point. Zero values keep the defaults.
func (s *Service) WithThresholds(similarity float64, minSources, diversity int) *Service {
	if similarity > 0 {
		s.similarityThreshold = similarity
	}
	if minSources > 0 {
		s.minSources = minSources
	}
	if diversity > 0 {
		s.diversityThreshold = diversity
	}
	return s
}

// WithClock injects the time source used for article ages.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Verify scores a set of candidates and decides a status and confidence.
// It fails with ErrNoSimilarArticles when nothing passes the similarity
// filter, and with an InsufficientDataError when too few distinct sources
// remain; those are different kinds of data scarcity and callers treat them
// differently.
func (s *Service) Verify(candidates []article.Article) (verdict.Result, error) {
	selected := s.selectCandidates(candidates)
	if len(selected) == 0 {
		return verdict.Result{}, domain.ErrNoSimilarArticles
	}

	unique := countUniqueSources(selected)
	if unique < s.minSources {
		return verdict.Result{}, domain.NewInsufficientData(s.minSources, unique)
	}

	weightedAverage := weightedAverage(selected)
	diversity := s.diversityFactor(unique)
	recency := s.recencyFactor(selected)
	geography := geographyFactor(selected)

	raw := weightedAverage * diversity * recency * geography
	score := domain.Clamp01(domain.Round4(raw))

	status := decideStatus(score, unique)
	confidence := decideConfidence(score)

	return verdict.NewResult(
		score, status, confidence, unique,
		diversity, recency, geography,
		statusReasons[status], selected,
	), nil
}

// selectCandidates keeps candidates at or above the similarity threshold,
// re-emitting each as a normalized copy.
func (s *Service) selectCandidates(candidates []article.Article) []article.Article {
	var selected []article.Article
	for _, c := range candidates {
		if c.Similarity() >= s.similarityThreshold {
			selected = append(selected, c.Normalized())
		}
	}
	return selected
}

func countUniqueSources(articles []article.Article) int {
	seen := make(map[string]struct{}, len(articles))
	for i := range articles {
		seen[articles[i].SourceID()] = struct{}{}
	}
	return len(seen)
}

// weightedAverage computes Σ(credibility × similarity) / n. An article only
// contributes when it is simultaneously trustworthy and closely matching.
func weightedAverage(articles []article.Article) float64 {
	if len(articles) == 0 {
		return 0
	}
	var sum float64
	for i := range articles {
		sum += articles[i].Credibility() * articles[i].Similarity()
	}
	return sum / float64(len(articles))
}

// diversityFactor rewards corroboration from many distinct sources,
// saturating at the diversity threshold.
func (s *Service) diversityFactor(uniqueSources int) float64 {
	if uniqueSources <= 0 {
		return 0
	}
	return math.Min(float64(uniqueSources)/float64(s.diversityThreshold), 1.0)
}

// recencyFactor averages per-article age weights and applies a breaking-news
// boost when 3+ dated candidates fall into the same clock hour: independent
// near-simultaneous reporting reinforces the evidence. The boosted factor may
// exceed 1.0 but never 1.2; without the boost it stays within [0,1]. With no
// dated candidate at all the factor is neutral.
func (s *Service) recencyFactor(articles []article.Article) float64 {
	now := s.now()
	var weights []float64
	hourly := make(map[time.Time]int)

	for i := range articles {
		publishedAt, ok := articles[i].PublishedAt()
		if !ok {
			continue
		}
		ageDays := now.Sub(publishedAt).Hours() / 24
		switch {
		case ageDays <= 7:
			weights = append(weights, 1.0)
		case ageDays <= 30:
			weights = append(weights, 0.8)
		case ageDays <= 90:
			weights = append(weights, 0.5)
		default:
			weights = append(weights, 0.2)
		}
		hourly[publishedAt.UTC().Truncate(time.Hour)]++
	}

	base := 1.0
	if len(weights) > 0 {
		var sum float64
		for _, w := range weights {
			sum += w
		}
		base = sum / float64(len(weights))
	}

	maxBucket := 0
	for _, n := range hourly {
		if n > maxBucket {
			maxBucket = n
		}
	}
	if maxBucket >= breakingNewsClusterSize {
		boost := math.Min(1.0+(float64(maxBucket)/float64(len(articles)))*0.2, breakingNewsBoostCap)
		return s.boostedRange.Clamp(base * boost)
	}
	return domain.Clamp01(base)
}

// geographyFactor rewards corroboration across distinct countries, saturating
// at 5. With no geographic data at all the factor is neutral.
func geographyFactor(articles []article.Article) float64 {
	countries := make(map[string]struct{})
	for i := range articles {
		if code := articles[i].CountryCode(); code != "" {
			countries[strings.ToUpper(code)] = struct{}{}
		}
	}
	if len(countries) == 0 {
		return 1.0
	}
	return math.Min(float64(len(countries))/geographySaturation, 1.0)
}

func decideStatus(score float64, uniqueSources int) verdict.Status {
	for _, rule := range statusLadder {
		if score >= rule.minScore && uniqueSources >= rule.minSources {
			return rule.status
		}
	}
	return verdict.StatusUnverified
}

func decideConfidence(score float64) verdict.Confidence {
	switch {
	case score >= verdict.ScoreVerified:
		return verdict.ConfidenceHigh
	case score >= verdict.ScoreUncertain:
		return verdict.ConfidenceMedium
	}
	return verdict.ConfidenceLow
}
