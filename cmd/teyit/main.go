package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/teyit-cloud/teyit/internal/config"
	dbRedis "github.com/teyit-cloud/teyit/internal/db/redis"
	domtrust "github.com/teyit-cloud/teyit/internal/domain/trust"
	logpkg "github.com/teyit-cloud/teyit/internal/logger"
	"github.com/teyit-cloud/teyit/internal/metrics"
	newsrepo "github.com/teyit-cloud/teyit/internal/repository/news"
	"github.com/teyit-cloud/teyit/internal/textnorm"
	chiTransport "github.com/teyit-cloud/teyit/internal/transport/chi"
	healthuc "github.com/teyit-cloud/teyit/internal/usecase/health"
	trustuc "github.com/teyit-cloud/teyit/internal/usecase/trust"
	verifyuc "github.com/teyit-cloud/teyit/internal/usecase/verify"
	workflowuc "github.com/teyit-cloud/teyit/internal/usecase/workflow"
	"github.com/teyit-cloud/teyit/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting teyit API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register verification metrics explicitly (no init())
	metrics.RegisterVerificationMetrics()

	// Trust engine tables from config
	trustCfg, err := buildTrustConfig(cfg.Trust)
	if err != nil {
		logger.Fatal("Invalid trust configuration", zap.Error(err))
	}
	trustSvc, err := trustuc.New(trustCfg)
	if err != nil {
		logger.Fatal("Failed to create trust engine", zap.Error(err))
	}

	typeOverrides, biasOverrides, err := buildSourceTables(cfg.Trust)
	if err != nil {
		logger.Fatal("Invalid source tables", zap.Error(err))
	}

	// Decision engine (config zeros keep the engine defaults)
	verifySvc := verifyuc.New().WithThresholds(
		cfg.Verification.SimilarityThreshold,
		cfg.Verification.MinSources,
		cfg.Verification.DiversityThreshold,
	)

	// Search repository over the article index
	searchRepo := newsrepo.New(store, cfg.Search.IndexName, cfg.Search.KeyPrefix)

	normalizer := textnorm.New().
		WithLengthBounds(cfg.Normalizer.MinLength, cfg.Normalizer.MaxLength)

	workflowSvc := workflowuc.New(verifySvc, trustSvc, searchRepo, normalizer).
		WithSourceOverrides(typeOverrides, biasOverrides).
		WithDefaultLimit(cfg.Search.DefaultLimit)

	// Health service
	healthSvc := healthuc.New(store)

	// Create chi server
	server := chiTransport.NewServer(workflowSvc, trustSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildTrustConfig converts the YAML trust tables into the engine's config,
// validating bias category names.
func buildTrustConfig(tc config.TrustConfig) (trustuc.Config, error) {
	adjustments := make(map[domtrust.Bias]float64, len(tc.BiasAdjustments))
	for raw, adj := range tc.BiasAdjustments {
		bias, err := domtrust.ParseBias(raw)
		if err != nil {
			return trustuc.Config{}, fmt.Errorf("trust.bias_adjustments: %w", err)
		}
		adjustments[bias] = adj
	}
	return trustuc.Config{
		Overrides:       tc.Overrides,
		BiasAdjustments: adjustments,
	}, nil
}

// buildSourceTables parses per-source type and bias tables used for
// credibility fallback in the workflow.
func buildSourceTables(
	tc config.TrustConfig,
) (map[string]domtrust.SourceType, map[string]domtrust.Bias, error) {
	types := make(map[string]domtrust.SourceType, len(tc.SourceTypes))
	for id, raw := range tc.SourceTypes {
		st, err := domtrust.ParseSourceType(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("trust.source_types.%s: %w", id, err)
		}
		types[id] = st
	}
	biases := make(map[string]domtrust.Bias, len(tc.SourceBiases))
	for id, raw := range tc.SourceBiases {
		b, err := domtrust.ParseBias(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("trust.source_biases.%s: %w", id, err)
		}
		biases[id] = b
	}
	return types, biases, nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "SRV_001",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
