package teyit

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	indexName string
	keyPrefix string

	similarityThreshold float64
	minSources          int
	diversityThreshold  int

	minLength int
	maxLength int

	defaultLimit int

	overrides       map[string]float64
	biasAdjustments map[string]float64
	sourceTypes     map[string]string
	sourceBiases    map[string]string
}

// WithRedis sets the article index connection. Works against Redis and Valkey.
func WithRedis(addr, password string) Option {
	return func(c *clientConfig) {
		c.addrs = append(c.addrs, addr)
		c.password = password
	}
}

// WithAuth sets database credentials beyond a bare password.
func WithAuth(username, password string) Option {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithDB selects a logical database number.
func WithDB(db int) Option {
	return func(c *clientConfig) {
		c.db = db
	}
}

// WithIndex overrides the FT index name and the article key prefix.
func WithIndex(name, keyPrefix string) Option {
	return func(c *clientConfig) {
		c.indexName = name
		c.keyPrefix = keyPrefix
	}
}

// WithThresholds overrides the decision engine's similarity threshold,
// minimum distinct source count, and diversity saturation point. Zero values
// keep the defaults.
func WithThresholds(similarity float64, minSources, diversity int) Option {
	return func(c *clientConfig) {
		c.similarityThreshold = similarity
		c.minSources = minSources
		c.diversityThreshold = diversity
	}
}

// WithTextBounds overrides the claim text length bounds in runes.
func WithTextBounds(minLength, maxLength int) Option {
	return func(c *clientConfig) {
		c.minLength = minLength
		c.maxLength = maxLength
	}
}

// WithDefaultLimit sets how many similar articles a verification pulls when
// the caller passes no explicit limit.
func WithDefaultLimit(limit int) Option {
	return func(c *clientConfig) {
		c.defaultLimit = limit
	}
}

// WithSourceOverride assigns a manual trust score to a source ID.
func WithSourceOverride(sourceID string, score float64) Option {
	return func(c *clientConfig) {
		if c.overrides == nil {
			c.overrides = make(map[string]float64)
		}
		c.overrides[sourceID] = score
	}
}

// WithBiasAdjustments sets additive trust adjustments per bias category
// (e.g. "center", "left"). Each must stay within the engine's bound.
func WithBiasAdjustments(adjustments map[string]float64) Option {
	return func(c *clientConfig) {
		c.biasAdjustments = adjustments
	}
}

// WithSourceTable sets per-source type and bias classifications consulted
// when an article record carries no explicit credibility.
func WithSourceTable(types, biases map[string]string) Option {
	return func(c *clientConfig) {
		c.sourceTypes = types
		c.sourceBiases = biases
	}
}
