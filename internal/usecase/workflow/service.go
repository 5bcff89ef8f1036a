package workflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teyit-cloud/teyit/internal/domain"
	"github.com/teyit-cloud/teyit/internal/domain/article"
	domtrust "github.com/teyit-cloud/teyit/internal/domain/trust"
	"github.com/teyit-cloud/teyit/internal/domain/verdict"
	trustuc "github.com/teyit-cloud/teyit/internal/usecase/trust"
	verifyuc "github.com/teyit-cloud/teyit/internal/usecase/verify"
)

// MaxSimilarArticles caps how many candidate records one verification pulls.
const MaxSimilarArticles = 50

// Ordered field names tried when resolving a record's source identity.
var sourceIDFields = []string{"kaynak_id", "kaynak", "source_id", "id", "url"}

// Explicit credibility fields, tried before falling back to the trust engine.
var credibilityFields = []string{"credibility", "trust_score", "guvenilirlik"}

// Publication date layouts, tried in order: offset timestamp, naive
// timestamp, date only.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ArticleView is one supporting article merged back with its original record
// for presentation: headline and summary come from the raw record, the
// scoring fields are re-emitted rounded to 4 decimals.
type ArticleView struct {
	Headline    string
	Summary     string
	URL         string
	SourceID    string
	SourceName  string
	CountryCode string
	PublishedAt string
	Similarity  float64
	Credibility float64
}

// Outcome is what one verification run produces.
type Outcome struct {
	CleanText    string
	Verdict      verdict.Result
	Articles     []ArticleView
	FallbackUsed bool
}

// Service coordinates the search → verification pipeline: it normalizes the
// query, obtains ranked records, shapes them into candidates, runs the
// decision engine, and merges the verdict back with record metadata.
type Service struct {
	verifier      *verifyuc.Service
	trust         *trustuc.Service
	search        Searcher
	normalizer    Normalizer
	typeOverrides map[string]domtrust.SourceType
	biasOverrides map[string]domtrust.Bias
	defaultLimit  int
}

// New creates a workflow service.
func New(verifier *verifyuc.Service, trust *trustuc.Service, search Searcher, normalizer Normalizer) *Service {
	return &Service{
		verifier:      verifier,
		trust:         trust,
		search:        search,
		normalizer:    normalizer,
		typeOverrides: map[string]domtrust.SourceType{},
		biasOverrides: map[string]domtrust.Bias{},
		defaultLimit:  MaxSimilarArticles,
	}
}

// WithSourceOverrides sets per-source type and bias tables used when a record
// carries no explicit credibility and the trust engine has to be consulted.
func (s *Service) WithSourceOverrides(
	types map[string]domtrust.SourceType, biases map[string]domtrust.Bias,
) *Service {
	if types != nil {
		s.typeOverrides = types
	}
	if biases != nil {
		s.biasOverrides = biases
	}
	return s
}

// WithDefaultLimit sets the record count used when the caller passes none,
// capped at MaxSimilarArticles.
func (s *Service) WithDefaultLimit(limit int) *Service {
	if limit > 0 && limit < MaxSimilarArticles {
		s.defaultLimit = limit
	}
	return s
}

// VerifyText runs the full pipeline for a raw claim text. limit <= 0 means
// the default. Search-backend failure is the one locally recovered error:
// the fallback search substitutes transparently and only the flag records it.
func (s *Service) VerifyText(ctx context.Context, text string, limit int) (Outcome, error) {
	cleanText, err := s.normalizer.Normalize(text)
	if err != nil {
		return Outcome{}, err
	}

	records, fallbackUsed, err := s.searchSimilar(ctx, cleanText, s.searchLimit(limit))
	if err != nil {
		return Outcome{}, err
	}

	candidates, lookup := s.transformRecords(records)

	result, err := s.verifier.Verify(candidates)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		CleanText:    cleanText,
		Verdict:      result,
		Articles:     s.mergeMetadata(result.Articles(), lookup),
		FallbackUsed: fallbackUsed,
	}, nil
}

func (s *Service) searchLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > MaxSimilarArticles {
		return MaxSimilarArticles
	}
	return limit
}

func (s *Service) searchSimilar(ctx context.Context, query string, limit int) ([]domain.Record, bool, error) {
	records, err := s.search.SearchPrimary(ctx, query, limit)
	if err == nil {
		return records, false, nil
	}

	records, err = s.search.SearchFallback(ctx, query, limit)
	if err != nil {
		return nil, true, fmt.Errorf("fallback search: %w", err)
	}
	return records, true, nil
}

type recordKey struct {
	sourceID string
	url      string
}

func (s *Service) transformRecords(records []domain.Record) ([]article.Article, map[recordKey]domain.Record) {
	candidates := make([]article.Article, 0, len(records))
	lookup := make(map[recordKey]domain.Record, len(records))
	for i, rec := range records {
		cand := s.buildCandidate(rec, i)
		candidates = append(candidates, cand)
		lookup[recordKey{cand.SourceID(), cand.URL()}] = rec
	}
	return candidates, lookup
}

func (s *Service) buildCandidate(rec domain.Record, ordinal int) article.Article {
	sourceID := resolveSourceID(rec, ordinal)
	similarity := parseSimilarity(rec["score"])
	credibility := s.resolveCredibility(rec, sourceID)

	// sourceID is never empty here, the error path is unreachable.
	cand, _ := article.New(sourceID, similarity, credibility)

	if name := rec["kaynak"]; name != "" {
		cand = cand.WithSourceName(name)
	}
	if publishedAt, ok := parseDate(rec["tarih"]); ok {
		cand = cand.WithPublishedAt(publishedAt)
	}
	if country := coerceCountry(rec["ulke"]); country != "" {
		cand = cand.WithCountryCode(country)
	}
	if url := rec["url"]; url != "" {
		cand = cand.WithURL(url)
	}
	return cand
}

// resolveSourceID tries the ordered identity fields, then the headline or
// summary text, and finally mints a per-record placeholder so the record is
// never dropped from source counting.
func resolveSourceID(rec domain.Record, ordinal int) string {
	for _, field := range sourceIDFields {
		if v := rec[field]; v != "" {
			return v
		}
	}
	if v := rec["baslik"]; v != "" {
		return v
	}
	if v := rec["ozet"]; v != "" {
		return v
	}
	return fmt.Sprintf("anonymous-%d", ordinal)
}

// parseSimilarity reads the backend relevance score, defaulting to 0 on
// missing or unparsable values. Backends may emit scores above 1.
func parseSimilarity(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return domain.Clamp01(v)
}

func (s *Service) resolveCredibility(rec domain.Record, sourceID string) float64 {
	for _, field := range credibilityFields {
		raw, ok := rec[field]
		if !ok {
			continue
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return domain.Clamp01(v)
		}
	}

	sourceType := s.typeOverrides[sourceID]
	if sourceType == "" {
		sourceType = domtrust.TypeUnknown
	}
	bias := s.biasOverrides[sourceID]
	if bias == "" {
		bias = domtrust.BiasUnknown
	}
	score := s.trust.ManualScore(sourceID, sourceType, bias)
	return score.Value()
}

func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func coerceCountry(raw string) string {
	if raw == "" {
		return ""
	}
	runes := []rune(raw)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}

// mergeMetadata pairs each surviving candidate back with its original record
// so fields scoring never needed (headline, summary) reach the caller
// unmodified.
func (s *Service) mergeMetadata(selected []article.Article, lookup map[recordKey]domain.Record) []ArticleView {
	views := make([]ArticleView, 0, len(selected))
	for i := range selected {
		a := &selected[i]
		rec := lookup[recordKey{a.SourceID(), a.URL()}]

		views = append(views, ArticleView{
			Headline:    rec["baslik"],
			Summary:     rec["ozet"],
			URL:         firstNonEmpty(a.URL(), rec["url"]),
			SourceID:    a.SourceID(),
			SourceName:  firstNonEmpty(a.SourceName(), rec["kaynak"]),
			CountryCode: firstNonEmpty(a.CountryCode(), rec["ulke"]),
			PublishedAt: formatDate(a),
			Similarity:  domain.Round4(a.Similarity()),
			Credibility: domain.Round4(a.Credibility()),
		})
	}
	return views
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// formatDate serializes a known publication time as RFC 3339. Timestamps
// parsed from zone-less layouts are in UTC, so they come out Z-suffixed.
func formatDate(a *article.Article) string {
	t, ok := a.PublishedAt()
	if !ok {
		return ""
	}
	return t.Format(time.RFC3339)
}
