package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the teyit API configuration.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Database     DatabaseConfig     `yaml:"database"`
	Auth         AuthConfig         `yaml:"auth"`
	Search       SearchConfig       `yaml:"search"`
	Verification VerificationConfig `yaml:"verification"`
	Trust        TrustConfig        `yaml:"trust"`
	Normalizer   NormalizerConfig   `yaml:"normalizer"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds article index settings.
type SearchConfig struct {
	IndexName    string `yaml:"index_name"`
	KeyPrefix    string `yaml:"key_prefix"`
	DefaultLimit int    `yaml:"default_limit"`
}

// VerificationConfig holds decision engine thresholds. Zero values mean the
// engine defaults.
type VerificationConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	MinSources          int     `yaml:"min_sources"`
	DiversityThreshold  int     `yaml:"diversity_threshold"`
}

// TrustConfig holds source-trust tables keyed by source id.
type TrustConfig struct {
	Overrides       map[string]float64 `yaml:"overrides"`
	BiasAdjustments map[string]float64 `yaml:"bias_adjustments"`
	SourceTypes     map[string]string  `yaml:"source_types"`
	SourceBiases    map[string]string  `yaml:"source_biases"`
}

// NormalizerConfig holds claim-text length bounds.
type NormalizerConfig struct {
	MinLength int `yaml:"min_length"`
	MaxLength int `yaml:"max_length"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.IndexName == "" {
		c.Search.IndexName = "idx:haber"
	}
	if c.Search.KeyPrefix == "" {
		c.Search.KeyPrefix = "haber:"
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 50
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Verification.SimilarityThreshold < 0 || c.Verification.SimilarityThreshold > 1 {
		return fmt.Errorf("verification.similarity_threshold must be within [0,1], got %v",
			c.Verification.SimilarityThreshold)
	}
	if c.Verification.MinSources < 0 {
		return fmt.Errorf("verification.min_sources must not be negative, got %d", c.Verification.MinSources)
	}
	if c.Verification.DiversityThreshold < 0 {
		return fmt.Errorf("verification.diversity_threshold must not be negative, got %d",
			c.Verification.DiversityThreshold)
	}
	for id, score := range c.Trust.Overrides {
		if score < 0 || score > 1 {
			return fmt.Errorf("trust.overrides.%s must be within [0,1], got %v", id, score)
		}
	}
	if c.Normalizer.MinLength > 0 && c.Normalizer.MaxLength > 0 &&
		c.Normalizer.MinLength > c.Normalizer.MaxLength {
		return fmt.Errorf("normalizer.min_length %d exceeds max_length %d",
			c.Normalizer.MinLength, c.Normalizer.MaxLength)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
