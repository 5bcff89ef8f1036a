package teyit

import (
	"testing"
)

func TestNew_NoAddress(t *testing.T) {
	_, err := New()
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithRedis("localhost:6379", "secret")(cfg)
	if cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addr = %q, want localhost:6379", cfg.addrs[0])
	}
	if cfg.password != "secret" {
		t.Errorf("password = %q, want secret", cfg.password)
	}

	WithAuth("reader", "pass")(cfg)
	if cfg.username != "reader" || cfg.password != "pass" {
		t.Errorf("auth = (%q, %q), want (reader, pass)", cfg.username, cfg.password)
	}

	WithDB(3)(cfg)
	if cfg.db != 3 {
		t.Errorf("db = %d, want 3", cfg.db)
	}

	WithIndex("idx:custom", "custom:")(cfg)
	if cfg.indexName != "idx:custom" || cfg.keyPrefix != "custom:" {
		t.Errorf("index = (%q, %q), want (idx:custom, custom:)", cfg.indexName, cfg.keyPrefix)
	}

	WithThresholds(0.7, 4, 12)(cfg)
	if cfg.similarityThreshold != 0.7 || cfg.minSources != 4 || cfg.diversityThreshold != 12 {
		t.Errorf("thresholds = (%g, %d, %d), want (0.7, 4, 12)",
			cfg.similarityThreshold, cfg.minSources, cfg.diversityThreshold)
	}

	WithTextBounds(50, 1000)(cfg)
	if cfg.minLength != 50 || cfg.maxLength != 1000 {
		t.Errorf("text bounds = (%d, %d), want (50, 1000)", cfg.minLength, cfg.maxLength)
	}

	WithDefaultLimit(20)(cfg)
	if cfg.defaultLimit != 20 {
		t.Errorf("defaultLimit = %d, want 20", cfg.defaultLimit)
	}

	WithSourceOverride("aa-haber", 0.95)(cfg)
	if cfg.overrides["aa-haber"] != 0.95 {
		t.Errorf("override = %g, want 0.95", cfg.overrides["aa-haber"])
	}

	WithBiasAdjustments(map[string]float64{"center": 0.05})(cfg)
	if cfg.biasAdjustments["center"] != 0.05 {
		t.Errorf("bias adjustment = %g, want 0.05", cfg.biasAdjustments["center"])
	}

	WithSourceTable(
		map[string]string{"aa-haber": "fact_checker"},
		map[string]string{"aa-haber": "center"},
	)(cfg)
	if cfg.sourceTypes["aa-haber"] != "fact_checker" {
		t.Errorf("source type = %q, want fact_checker", cfg.sourceTypes["aa-haber"])
	}
	if cfg.sourceBiases["aa-haber"] != "center" {
		t.Errorf("source bias = %q, want center", cfg.sourceBiases["aa-haber"])
	}
}

func TestBuildTrustConfig_InvalidBias(t *testing.T) {
	cfg := &clientConfig{biasAdjustments: map[string]float64{"hard_left": 0.1}}

	if _, err := buildTrustConfig(cfg); err == nil {
		t.Fatal("expected error for unknown bias category")
	}
}

func TestBuildTrustConfig_Valid(t *testing.T) {
	cfg := &clientConfig{
		overrides:       map[string]float64{"aa-haber": 0.95},
		biasAdjustments: map[string]float64{"center": 0.05},
	}

	trustCfg, err := buildTrustConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trustCfg.Overrides["aa-haber"] != 0.95 {
		t.Errorf("override = %g, want 0.95", trustCfg.Overrides["aa-haber"])
	}
	if len(trustCfg.BiasAdjustments) != 1 {
		t.Errorf("expected 1 bias adjustment, got %d", len(trustCfg.BiasAdjustments))
	}
}

func TestBuildSourceTables_InvalidType(t *testing.T) {
	cfg := &clientConfig{sourceTypes: map[string]string{"x": "tabloid"}}

	if _, _, err := buildSourceTables(cfg); err == nil {
		t.Fatal("expected error for unknown source type")
	}
}

func TestBuildSourceTables_InvalidBias(t *testing.T) {
	cfg := &clientConfig{sourceBiases: map[string]string{"x": "extreme"}}

	if _, _, err := buildSourceTables(cfg); err == nil {
		t.Fatal("expected error for unknown bias")
	}
}

func TestClient_Close_NilStore(t *testing.T) {
	c := &Client{store: nil}
	c.Close()
}
