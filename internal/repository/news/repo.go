package news

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/teyit-cloud/teyit/internal/db"
	"github.com/teyit-cloud/teyit/internal/domain"
)

// Article hash fields returned to the workflow.
var recordFields = []string{"baslik", "ozet", "url", "kaynak", "kaynak_id", "tarih", "ulke", "guvenilirlik"}

// store is the consumer interface over the article index (ISP).
type store interface {
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Repo implements workflow.Searcher over the article index. The primary
// entry point is ranked FT.SEARCH; the fallback walks the article hashes and
// scores them by query-token overlap, for deployments where the FT index is
// missing or broken.
type Repo struct {
	store     store
	indexName string
	keyPrefix string
}

// New creates a news search repository.
func New(s store, indexName, keyPrefix string) *Repo {
	return &Repo{store: s, indexName: indexName, keyPrefix: keyPrefix}
}

// SearchPrimary runs a ranked full-text search over headline and summary.
func (r *Repo) SearchPrimary(ctx context.Context, query string, limit int) ([]domain.Record, error) {
	q := &db.TextQuery{
		IndexName:    r.indexName,
		Query:        query,
		TopK:         limit,
		ReturnFields: recordFields,
	}

	sr, err := r.store.SearchText(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", r.indexName, err)
	}

	records := make([]domain.Record, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		records = append(records, r.toRecord(entry.Key, entry.Fields, entry.Score))
	}
	return records, nil
}

// SearchFallback scans the article hashes and ranks them by the fraction of
// query tokens found in headline or summary. Crude, but it keeps the
// pipeline alive when FT.SEARCH is unavailable, and unlike a bare substring
// match it still yields a usable [0,1] relevance score.
func (r *Repo) SearchFallback(ctx context.Context, query string, limit int) ([]domain.Record, error) {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	keys, err := r.store.Scan(ctx, r.keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan articles: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("read articles: %w", err)
	}

	type scored struct {
		key    string
		fields map[string]string
		score  float64
	}
	var matches []scored
	for i, fields := range hashes {
		haystack := lowerTurkish(fields["baslik"] + " " + fields["ozet"])
		found := 0
		for _, tok := range tokens {
			if strings.Contains(haystack, tok) {
				found++
			}
		}
		if found == 0 {
			continue
		}
		matches = append(matches, scored{
			key:    keys[i],
			fields: fields,
			score:  float64(found) / float64(len(tokens)),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
	if len(matches) > limit {
		matches = matches[:limit]
	}

	records := make([]domain.Record, 0, len(matches))
	for _, m := range matches {
		records = append(records, r.toRecord(m.key, m.fields, m.score))
	}
	return records, nil
}

// toRecord shapes one hit into the loosely-typed record the workflow
// consumes, attaching the storage key as "id" and the relevance as "score".
func (r *Repo) toRecord(key string, fields map[string]string, score float64) domain.Record {
	rec := make(domain.Record, len(fields)+2)
	for k, v := range fields {
		rec[k] = v
	}
	rec["id"] = strings.TrimPrefix(key, r.keyPrefix)
	rec["score"] = strconv.FormatFloat(score, 'f', -1, 64)
	return rec
}

func tokenize(query string) []string {
	return strings.FieldsFunc(lowerTurkish(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func lowerTurkish(s string) string {
	return strings.ToLowerSpecial(unicode.TurkishCase, s)
}
