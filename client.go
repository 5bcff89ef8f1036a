package teyit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/teyit-cloud/teyit/internal/db"
	dbRedis "github.com/teyit-cloud/teyit/internal/db/redis"
	domtrust "github.com/teyit-cloud/teyit/internal/domain/trust"
	newsrepo "github.com/teyit-cloud/teyit/internal/repository/news"
	"github.com/teyit-cloud/teyit/internal/textnorm"
	trustuc "github.com/teyit-cloud/teyit/internal/usecase/trust"
	verifyuc "github.com/teyit-cloud/teyit/internal/usecase/verify"
	workflowuc "github.com/teyit-cloud/teyit/internal/usecase/workflow"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the teyit SDK entry point: the verification pipeline embedded in
// the caller's process, talking straight to the article index.
type Client struct {
	store       db.Store
	workflowSvc *workflowuc.Service
	trustSvc    *trustuc.Service
}

// New creates a teyit Client and connects to the article index.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		indexName: "idx:haber",
		keyPrefix: "haber:",
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("teyit: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("teyit: create store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("teyit: database not ready: %w", err)
	}

	return wireClient(store, cfg)
}

func wireClient(store db.Store, cfg *clientConfig) (*Client, error) {
	trustCfg, err := buildTrustConfig(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	trustSvc, err := trustuc.New(trustCfg)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("teyit: trust engine: %w", err)
	}

	types, biases, err := buildSourceTables(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	verifier := verifyuc.New().
		WithThresholds(cfg.similarityThreshold, cfg.minSources, cfg.diversityThreshold)

	normalizer := textnorm.New()
	if cfg.minLength > 0 || cfg.maxLength > 0 {
		normalizer = normalizer.WithLengthBounds(cfg.minLength, cfg.maxLength)
	}

	repo := newsrepo.New(store, cfg.indexName, cfg.keyPrefix)

	workflowSvc := workflowuc.New(verifier, trustSvc, repo, normalizer).
		WithSourceOverrides(types, biases)
	if cfg.defaultLimit > 0 {
		workflowSvc = workflowSvc.WithDefaultLimit(cfg.defaultLimit)
	}

	return &Client{
		store:       store,
		workflowSvc: workflowSvc,
		trustSvc:    trustSvc,
	}, nil
}

func buildTrustConfig(cfg *clientConfig) (trustuc.Config, error) {
	adjustments := make(map[domtrust.Bias]float64, len(cfg.biasAdjustments))
	for raw, adj := range cfg.biasAdjustments {
		bias, err := domtrust.ParseBias(raw)
		if err != nil {
			return trustuc.Config{}, fmt.Errorf("teyit: bias adjustment: %w", err)
		}
		adjustments[bias] = adj
	}
	return trustuc.Config{
		Overrides:       cfg.overrides,
		BiasAdjustments: adjustments,
	}, nil
}

func buildSourceTables(cfg *clientConfig) (map[string]domtrust.SourceType, map[string]domtrust.Bias, error) {
	types := make(map[string]domtrust.SourceType, len(cfg.sourceTypes))
	for id, raw := range cfg.sourceTypes {
		st, err := domtrust.ParseSourceType(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("teyit: source type for %q: %w", id, err)
		}
		types[id] = st
	}
	biases := make(map[string]domtrust.Bias, len(cfg.sourceBiases))
	for id, raw := range cfg.sourceBiases {
		b, err := domtrust.ParseBias(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("teyit: source bias for %q: %w", id, err)
		}
		biases[id] = b
	}
	return types, biases, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Verify runs the full verification pipeline for a raw claim text.
// limit caps how many similar articles are pulled; limit <= 0 uses the
// configured default.
func (c *Client) Verify(ctx context.Context, text string, limit int) (VerificationResult, error) {
	out, err := c.workflowSvc.VerifyText(ctx, text, limit)
	if err != nil {
		return VerificationResult{}, fmt.Errorf("verify: %w", err)
	}
	return fromOutcome(out), nil
}

// Trust returns the source-trust scoring service.
func (c *Client) Trust() *TrustService {
	return &TrustService{svc: c.trustSvc}
}
