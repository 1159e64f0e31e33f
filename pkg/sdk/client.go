package predict

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	dbRedis "github.com/medreserve/predict/internal/db/redis"
	"github.com/medreserve/predict/internal/predictor/dl"
	"github.com/medreserve/predict/internal/predictor/ensemble"
	"github.com/medreserve/predict/internal/predictor/ml"
	"github.com/medreserve/predict/internal/preprocess"
	"github.com/medreserve/predict/internal/repository/predcache"
	"github.com/medreserve/predict/internal/usecase/analyze"
	"github.com/medreserve/predict/internal/usecase/explain"
)

const defaultCacheReadiness = 10 * time.Second

// Internal interfaces for substitution in tests.
type predictorUseCase interface {
	PredictSingle(ctx context.Context, text string) (*ensemble.Result, error)
	PredictBatch(ctx context.Context, texts []string) []ensemble.Outcome
	Compare(ctx context.Context, text string) *ensemble.Comparison
	Status() ensemble.LoadStatus
	Info() ensemble.InfoReport
}

type featureUseCase interface {
	FeatureImportance(ctx context.Context, text string, topN int) (*ml.FeatureAnalysis, error)
}

type wordUseCase interface {
	WordImportance(ctx context.Context, text string, topN int) (*dl.WordAnalysis, error)
}

type triageUseCase interface {
	Analyze(symptoms string) (*analyze.Report, error)
}

type explainUseCase interface {
	Explain(ctx context.Context, condition string, detailed bool) (*explain.Info, error)
	Available() []string
	Search(term string) []explain.Info
}

// Client is the embedded prediction SDK entry point.
type Client struct {
	cache     *dbRedis.Store
	predictor predictorUseCase
	features  featureUseCase
	words     wordUseCase
	triage    triageUseCase
	explainer explainUseCase
	obs       *observer
}

// New creates a Client and loads the model artifacts. Missing artifacts
// degrade the client instead of failing it; check Status for what loaded.
// The provided context is used for the cache readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		modelsDir: "models",
		mlWeight:  0.6,
		dlWeight:  0.4,
		cacheTTL:  24 * time.Hour,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.mlWeight <= 0 || cfg.dlWeight <= 0 {
		return nil, fmt.Errorf("predict: ensemble weights must be positive, got ml=%v dl=%v",
			cfg.mlWeight, cfg.dlWeight)
	}

	var cache *dbRedis.Store
	if cfg.cacheAddr != "" {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    []string{cfg.cacheAddr},
			Password: cfg.cachePassword,
		})
		if err != nil {
			return nil, fmt.Errorf("predict: create cache store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultCacheReadiness); err != nil {
			s.Close()
			return nil, fmt.Errorf("predict: cache not ready: %w", err)
		}
		cache = s
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		return nil, err
	}

	return wireClient(cache, cfg, obs), nil
}

func wireClient(cache *dbRedis.Store, cfg *clientConfig, obs *observer) *Client {
	// Internal packages log through zap on the server; the SDK observes
	// operations itself.
	internalLog := zap.NewNop()

	pre := preprocess.New()
	mlPredictor := ml.New(cfg.modelsDir, pre, internalLog)
	dlPredictor := dl.New(cfg.modelsDir, pre, internalLog)

	ensembleSvc := ensemble.New(mlPredictor, dlPredictor, cfg.mlWeight, cfg.dlWeight, internalLog)
	ensembleSvc.Load()

	var predictor predictorUseCase = ensembleSvc
	if cache != nil {
		predictor = predcache.New(ensembleSvc, cache, cfg.cacheTTL, nil, internalLog)
	}

	var chat explain.ChatClient
	if cfg.explainAPIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.explainAPIKey)
		if cfg.explainBaseURL != "" {
			clientCfg.BaseURL = cfg.explainBaseURL
		}
		chat = openai.NewClientWithConfig(clientCfg)
	}

	return &Client{
		cache:     cache,
		predictor: predictor,
		features:  mlPredictor,
		words:     dlPredictor,
		triage:    analyze.New(internalLog),
		explainer: explain.New(chat, cfg.explainModel, internalLog),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// Ping checks cache connectivity. Returns nil when no cache is configured.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if c.cache == nil {
		return nil
	}
	if err = c.cache.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Status reports which models loaded.
func (c *Client) Status() Status {
	s := c.predictor.Status()
	return Status{MLLoaded: s.MLLoaded, DLLoaded: s.DLLoaded, Ready: s.Ready}
}
