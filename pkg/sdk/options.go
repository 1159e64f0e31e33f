package predict

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	modelsDir string

	mlWeight float64
	dlWeight float64

	cacheAddr     string
	cachePassword string
	cacheTTL      time.Duration

	explainAPIKey  string
	explainBaseURL string
	explainModel   string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithModelsDir sets the directory holding the JSON model artifacts.
// Defaults to "models".
func WithModelsDir(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.modelsDir = dir
	})
}

// WithWeights sets the ensemble combination weights. The weights must be
// positive and sum to 1. Defaults: ML 0.6, DL 0.4.
func WithWeights(ml, dl float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.mlWeight = ml
		c.dlWeight = dl
	})
}

// WithRedisCache enables caching of successful predictions in Redis.
// Cache failures degrade to uncached prediction.
func WithRedisCache(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddr = addr
		c.cachePassword = password
	})
}

// WithCacheTTL sets the prediction cache entry lifetime. Default: 24h.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithExplainAI enables AI-generated condition explanations through an
// OpenAI-compatible API. baseURL may be empty for the default endpoint.
func WithExplainAI(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.explainAPIKey = apiKey
		c.explainBaseURL = baseURL
		c.explainModel = model
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
