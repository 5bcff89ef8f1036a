package article

import (
	"fmt"
	"time"

	"github.com/teyit-cloud/teyit/internal/domain"
)

// Article is a normalized candidate article returned from search
// (immutable value object). Similarity and credibility are always read
// through a clamp so downstream consumers never see out-of-range numbers,
// regardless of what the raw record carried.
type Article struct {
	sourceID    string
	similarity  float64
	credibility float64
	sourceName  string
	publishedAt time.Time
	hasDate     bool
	countryCode string
	url         string
}

// New validates and creates an Article. The source ID is the deduplication
// key and is required; similarity and credibility may be out of range here,
// the accessors clamp on every read.
func New(sourceID string, similarity, credibility float64) (Article, error) {
	if sourceID == "" {
		return Article{}, fmt.Errorf("source ID is required")
	}
	return Article{
		sourceID:    sourceID,
		similarity:  similarity,
		credibility: credibility,
	}, nil
}

// SourceID returns the deduplication/grouping key.
func (a *Article) SourceID() string { return a.sourceID }

// Similarity returns the query-match score clamped to [0,1].
func (a *Article) Similarity() float64 { return domain.Clamp01(a.similarity) }

// Credibility returns the source trust score clamped to [0,1].
func (a *Article) Credibility() float64 { return domain.Clamp01(a.credibility) }

// SourceName returns the display name, empty if unknown.
func (a *Article) SourceName() string { return a.sourceName }

// PublishedAt returns the publication time and whether one is known.
func (a *Article) PublishedAt() (time.Time, bool) { return a.publishedAt, a.hasDate }

// CountryCode returns the 2-letter country code, empty if unknown.
func (a *Article) CountryCode() string { return a.countryCode }

// URL returns the article URL, empty if unknown.
func (a *Article) URL() string { return a.url }

// WithSourceName returns a copy with the display name set.
func (a Article) WithSourceName(name string) Article {
	a.sourceName = name
	return a
}

// WithPublishedAt returns a copy with a known publication time.
func (a Article) WithPublishedAt(t time.Time) Article {
	a.publishedAt = t
	a.hasDate = true
	return a
}

// WithCountryCode returns a copy with the country code set.
func (a Article) WithCountryCode(code string) Article {
	a.countryCode = code
	return a
}

// WithURL returns a copy with the URL set.
func (a Article) WithURL(url string) Article {
	a.url = url
	return a
}

// Normalized returns a copy whose stored similarity and credibility equal
// their clamped values, so the raw out-of-range numbers never travel further.
func (a Article) Normalized() Article {
	a.similarity = domain.Clamp01(a.similarity)
	a.credibility = domain.Clamp01(a.credibility)
	return a
}
