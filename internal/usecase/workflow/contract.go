package workflow

import (
	"context"

	"github.com/teyit-cloud/teyit/internal/domain"
)

// Searcher is the ranked-search collaborator. Both entry points return the
// same record shape; SearchFallback is only invoked after SearchPrimary
// failed, exactly once, with no further escalation.
type Searcher interface {
	SearchPrimary(ctx context.Context, query string, limit int) ([]domain.Record, error)
	SearchFallback(ctx context.Context, query string, limit int) ([]domain.Record, error)
}

// Normalizer is the text-normalization collaborator. Validation failures
// (empty/too short/too long input) propagate untouched.
type Normalizer interface {
	Normalize(text string) (string, error)
}
