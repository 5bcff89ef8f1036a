package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/teyit-cloud/teyit/internal/domain"
	domtrust "github.com/teyit-cloud/teyit/internal/domain/trust"
	"github.com/teyit-cloud/teyit/internal/metrics"
	healthuc "github.com/teyit-cloud/teyit/internal/usecase/health"
	trustuc "github.com/teyit-cloud/teyit/internal/usecase/trust"
	workflowuc "github.com/teyit-cloud/teyit/internal/usecase/workflow"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the verification pipeline and the trust engine over HTTP.
type Server struct {
	workflow      *workflowuc.Service
	trust         *trustuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	workflow *workflowuc.Service,
	trust *trustuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		workflow: workflow,
		trust:    trust,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		insufficientDataHandler,
		sentinelHandler(domain.ErrTextTooShort, http.StatusBadRequest, codeTextTooShort),
		sentinelHandler(domain.ErrTextTooLong, http.StatusBadRequest, codeTextTooLong),
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNoSimilarArticles, http.StatusNotFound, codeNoSimilar),
		sentinelHandler(domain.ErrVerificationInternal, http.StatusInternalServerError, codeInternalError),
	}
	return s
}

// Routes mounts all API endpoints on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/verification", s.VerifyNews)
		r.Route("/trust", func(r chi.Router) {
			r.Post("/manual", s.ManualScore)
			r.Post("/dynamic", s.DynamicScore)
			r.Post("/combine", s.CombineScores)
			r.Put("/overrides/{source_id}", s.RegisterOverride)
		})
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// VerifyNews handles POST /api/v1/verification.
func (s *Server) VerifyNews(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Invalid request body: "+err.Error())
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "text is required")
		return
	}

	out, err := s.workflow.VerifyText(r.Context(), req.Text, req.Limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	metrics.ObserveVerification(string(out.Verdict.Status()), out.Verdict.Score(), out.FallbackUsed)
	writeJSON(w, http.StatusOK, verifyToResponse(out))
}

// ManualScore handles POST /api/v1/trust/manual.
func (s *Server) ManualScore(w http.ResponseWriter, r *http.Request) {
	var req manualScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Invalid request body: "+err.Error())
		return
	}

	if req.SourceID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "source_id is required")
		return
	}

	sourceType, bias, ok := s.parseSourceParams(w, req.SourceType, req.Bias)
	if !ok {
		return
	}

	score := s.trust.ManualScore(req.SourceID, sourceType, bias)
	writeJSON(w, http.StatusOK, trustToResponse(req.SourceID, score))
}

// DynamicScore handles POST /api/v1/trust/dynamic.
func (s *Server) DynamicScore(w http.ResponseWriter, r *http.Request) {
	var req dynamicScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Invalid request body: "+err.Error())
		return
	}

	sourceType, bias, ok := s.parseSourceParams(w, req.SourceType, req.Bias)
	if !ok {
		return
	}

	blend := true
	if req.BlendWithManual != nil {
		blend = *req.BlendWithManual
	}

	score := s.trust.DynamicScore(req.Metrics.toDomain(), sourceType, bias, blend)
	writeJSON(w, http.StatusOK, trustToResponse(req.SourceID, score))
}

// CombineScores handles POST /api/v1/trust/combine.
func (s *Server) CombineScores(w http.ResponseWriter, r *http.Request) {
	var req combineScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Invalid request body: "+err.Error())
		return
	}

	if req.ManualScore < 0 || req.ManualScore > 1 || req.DynamicScore < 0 || req.DynamicScore > 1 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "scores must be within [0,1]")
		return
	}

	manual := domtrust.Reconstruct(req.ManualScore, domtrust.ClassifyTier(req.ManualScore),
		domtrust.MethodManual, "", nil)
	dynamic := domtrust.Reconstruct(req.DynamicScore, domtrust.ClassifyTier(req.DynamicScore),
		domtrust.MethodDynamic, "", nil)

	score := s.trust.Combine(manual, dynamic, req.ManualWeight)
	writeJSON(w, http.StatusOK, trustToResponse("", score))
}

// RegisterOverride handles PUT /api/v1/trust/overrides/{source_id}.
func (s *Server) RegisterOverride(w http.ResponseWriter, r *http.Request) {
	sourceID := chi.URLParam(r, "source_id")
	if sourceID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "source_id is required")
		return
	}

	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Invalid request body: "+err.Error())
		return
	}

	if req.Score < 0 || req.Score > 1 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "score must be within [0,1]")
		return
	}

	s.trust.RegisterOverride(sourceID, req.Score)
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) parseSourceParams(
	w http.ResponseWriter, rawType, rawBias string,
) (domtrust.SourceType, domtrust.Bias, bool) {
	sourceType, err := domtrust.ParseSourceType(rawType)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return "", "", false
	}
	bias, err := domtrust.ParseBias(rawBias)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return "", "", false
	}
	return sourceType, bias, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Message: message,
		Code:    code,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrTextTooShort,
		domain.ErrTextTooLong,
		domain.ErrNoSimilarArticles,
		domain.ErrInsufficientData,
		domain.ErrValidation,
		domain.ErrVerificationInternal,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// insufficientDataHandler handles ErrInsufficientData with the source counts attached.
func insufficientDataHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrInsufficientData) {
		return false
	}
	var ide *domain.InsufficientDataError
	if errors.As(err, &ide) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Message: msg,
			Code:    codeInsufficientData,
			Details: map[string]any{
				"required_sources": ide.Required,
				"found_sources":    ide.Found,
			},
		})
		return true
	}
	writeError(w, http.StatusBadRequest, codeInsufficientData, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
