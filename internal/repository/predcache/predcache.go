// Package predcache caches ensemble prediction results in a key-value
// store. Identical symptom texts resolve from cache instead of re-running
// both models.
package predcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/medreserve/predict/internal/db"
	"github.com/medreserve/predict/internal/predictor/ensemble"
)

const cacheKeyPrefix = "predict:pred_cache:"

// store is the consumer interface for the prediction cache.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Predictor is the ensemble surface the cache decorates.
type Predictor interface {
	PredictSingle(ctx context.Context, text string) (*ensemble.Result, error)
	PredictBatch(ctx context.Context, texts []string) []ensemble.Outcome
	Compare(ctx context.Context, text string) *ensemble.Comparison
	Status() ensemble.LoadStatus
	Info() ensemble.InfoReport
}

// CachedPredictor caches successful single predictions. Errors are never
// cached, and cache failures degrade to the inner predictor.
type CachedPredictor struct {
	inner      Predictor
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. cacheTotal is a counter vec with label
// "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Predictor,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedPredictor {
	return &CachedPredictor{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// PredictSingle returns a cached result or calls the inner predictor.
func (c *CachedPredictor) PredictSingle(ctx context.Context, text string) (*ensemble.Result, error) {
	key := c.cacheKey(text)

	if res, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return res, nil
	}
	c.incCache("miss")

	res, err := c.inner.PredictSingle(ctx, text)
	if err != nil {
		return nil, err
	}

	c.putToCache(ctx, key, res)
	return res, nil
}

// PredictBatch resolves each item through the cached single path so
// repeated texts within and across batches hit the cache.
func (c *CachedPredictor) PredictBatch(ctx context.Context, texts []string) []ensemble.Outcome {
	out := make([]ensemble.Outcome, len(texts))
	for i, text := range texts {
		res, err := c.PredictSingle(ctx, text)
		if err != nil {
			out[i] = ensemble.Outcome{Err: err}
			continue
		}
		out[i] = ensemble.Outcome{Result: res}
	}
	return out
}

// Compare is never cached; it exists to measure live model behavior.
func (c *CachedPredictor) Compare(ctx context.Context, text string) *ensemble.Comparison {
	return c.inner.Compare(ctx, text)
}

func (c *CachedPredictor) Status() ensemble.LoadStatus { return c.inner.Status() }

func (c *CachedPredictor) Info() ensemble.InfoReport { return c.inner.Info() }

func (c *CachedPredictor) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedPredictor) cacheKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedPredictor) getFromCache(ctx context.Context, key string) (*ensemble.Result, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached prediction", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var res ensemble.Result
	if err := json.Unmarshal(data, &res); err != nil {
		c.logger.Warn("Failed to parse cached prediction", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &res, true
}

func (c *CachedPredictor) putToCache(ctx context.Context, key string, res *ensemble.Result) {
	data, err := json.Marshal(res)
	if err != nil {
		c.logger.Warn("Failed to encode prediction for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache prediction", zap.String("key", key), zap.Error(err))
	}
}
