package chi

import (
	"github.com/teyit-cloud/teyit/internal/domain"
	domtrust "github.com/teyit-cloud/teyit/internal/domain/trust"
	workflowuc "github.com/teyit-cloud/teyit/internal/usecase/workflow"
)

// Error codes exposed on the wire.
const (
	codeValidationFailed = "VAL_004"
	codeTextTooShort     = "VAL_005"
	codeTextTooLong      = "VAL_006"
	codeInsufficientData = "VER_001"
	codeNoSimilar        = "VER_005"
	codeInternalError    = "SRV_001"
	codeUnauthorized     = "AUTH_003"
)

type errorResponse struct {
	Message string         `json:"message"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

type verifyRequest struct {
	Text  string `json:"text"`
	Limit int    `json:"limit,omitempty"`
}

// similarArticle carries one supporting article in the response, field names
// matching the article index schema.
type similarArticle struct {
	Baslik       string  `json:"baslik,omitempty"`
	Ozet         string  `json:"ozet,omitempty"`
	URL          string  `json:"url,omitempty"`
	Kaynak       string  `json:"kaynak,omitempty"`
	KaynakID     string  `json:"kaynak_id"`
	Tarih        string  `json:"tarih,omitempty"`
	Ulke         string  `json:"ulke,omitempty"`
	Benzerlik    float64 `json:"benzerlik"`
	Guvenilirlik float64 `json:"guvenilirlik"`
}

type verifyResponse struct {
	Mesaj          string           `json:"mesaj"`
	Skor           float64          `json:"skor"`
	Durum          string           `json:"durum"`
	Guven          string           `json:"guven"`
	TemizMetin     string           `json:"temiz_metin"`
	Fallback       bool             `json:"fallback"`
	BenzerHaberler []similarArticle `json:"benzer_haberler"`
}

func verifyToResponse(out workflowuc.Outcome) verifyResponse {
	articles := make([]similarArticle, len(out.Articles))
	for i, a := range out.Articles {
		articles[i] = similarArticle{
			Baslik:       a.Headline,
			Ozet:         a.Summary,
			URL:          a.URL,
			Kaynak:       a.SourceName,
			KaynakID:     a.SourceID,
			Tarih:        a.PublishedAt,
			Ulke:         a.CountryCode,
			Benzerlik:    a.Similarity,
			Guvenilirlik: a.Credibility,
		}
	}

	verdict := out.Verdict
	return verifyResponse{
		Mesaj:          workflowuc.StatusMessage(verdict.Status()),
		Skor:           verdict.Score(),
		Durum:          string(verdict.Status()),
		Guven:          string(verdict.Confidence()),
		TemizMetin:     out.CleanText,
		Fallback:       out.FallbackUsed,
		BenzerHaberler: articles,
	}
}

type manualScoreRequest struct {
	SourceID   string `json:"source_id"`
	SourceType string `json:"source_type,omitempty"`
	Bias       string `json:"bias,omitempty"`
}

type metricsPayload struct {
	AccuracyHistory    float64 `json:"accuracy_history"`
	EditorialStandards float64 `json:"editorial_standards"`
	TransparencyLevel  float64 `json:"transparency_level"`
	CorrectionSpeed    float64 `json:"correction_speed"`
}

func (p metricsPayload) toDomain() domtrust.Metrics {
	return domtrust.Metrics{
		AccuracyHistory:    p.AccuracyHistory,
		EditorialStandards: p.EditorialStandards,
		TransparencyLevel:  p.TransparencyLevel,
		CorrectionSpeed:    p.CorrectionSpeed,
	}
}

// dynamicScoreRequest carries the behavioral metrics. blend_with_manual
// defaults to true when absent.
type dynamicScoreRequest struct {
	SourceID        string         `json:"source_id,omitempty"`
	Metrics         metricsPayload `json:"metrics"`
	SourceType      string         `json:"source_type,omitempty"`
	Bias            string         `json:"bias,omitempty"`
	BlendWithManual *bool          `json:"blend_with_manual,omitempty"`
}

type combineScoreRequest struct {
	ManualScore  float64 `json:"manual_score"`
	DynamicScore float64 `json:"dynamic_score"`
	ManualWeight float64 `json:"manual_weight"`
}

type overrideRequest struct {
	Score float64 `json:"score"`
}

type trustScoreResponse struct {
	SourceID   string             `json:"source_id,omitempty"`
	Score      float64            `json:"score"`
	Tier       string             `json:"tier"`
	Method     string             `json:"method"`
	Rationale  string             `json:"rationale"`
	Components map[string]float64 `json:"components,omitempty"`
}

func trustToResponse(sourceID string, score domtrust.Score) trustScoreResponse {
	return trustScoreResponse{
		SourceID:   sourceID,
		Score:      domain.Round4(score.Value()),
		Tier:       string(score.TrustTier()),
		Method:     string(score.ScoringMethod()),
		Rationale:  score.Rationale(),
		Components: score.Components(),
	}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
