package teyit

import (
	workflowuc "github.com/teyit-cloud/teyit/internal/usecase/workflow"
)

// SimilarArticle is one supporting article behind a verdict.
type SimilarArticle struct {
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

// VerificationResult is the outcome of one verification run.
type VerificationResult struct {
	Message      string
	Score        float64
	Status       string
	Confidence   string
	CleanText    string
	FallbackUsed bool
	Articles     []SimilarArticle
}

func fromOutcome(out workflowuc.Outcome) VerificationResult {
	articles := make([]SimilarArticle, len(out.Articles))
	for i, a := range out.Articles {
		articles[i] = SimilarArticle{
			Headline:    a.Headline,
			Summary:     a.Summary,
			URL:         a.URL,
			SourceID:    a.SourceID,
			SourceName:  a.SourceName,
			CountryCode: a.CountryCode,
			PublishedAt: a.PublishedAt,
			Similarity:  a.Similarity,
			Credibility: a.Credibility,
		}
	}

	verdict := out.Verdict
	return VerificationResult{
		Message:      workflowuc.StatusMessage(verdict.Status()),
		Score:        verdict.Score(),
		Status:       string(verdict.Status()),
		Confidence:   string(verdict.Confidence()),
		CleanText:    out.CleanText,
		FallbackUsed: out.FallbackUsed,
		Articles:     articles,
	}
}
