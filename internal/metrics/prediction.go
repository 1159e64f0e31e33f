package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prediction Prometheus metrics.
var (
	PredictionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "predict",
			Name:      "prediction_requests_total",
			Help:      "Total number of prediction requests",
		},
		[]string{"model", "status"},
	)

	PredictionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "predict",
			Name:      "prediction_duration_seconds",
			Help:      "Prediction duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"model"},
	)

	PredictionBatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "predict",
			Name:      "prediction_batch_size",
			Help:      "Number of items per batch prediction request",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)

	PredictionCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "predict",
			Name:      "prediction_cache_total",
			Help:      "Prediction cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ModelLoaded = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "predict",
			Name:      "model_loaded",
			Help:      "Whether a model's artifacts are loaded (1) or not (0)",
		},
		[]string{"model"},
	)
)

var predictionMetricsRegistered bool

// RegisterPredictionMetrics registers Prometheus prediction metrics. Must be called once from main.
func RegisterPredictionMetrics() {
	if predictionMetricsRegistered {
		return
	}
	prometheus.MustRegister(PredictionRequestsTotal)
	prometheus.MustRegister(PredictionDuration)
	prometheus.MustRegister(PredictionBatchSize)
	prometheus.MustRegister(PredictionCacheTotal)
	prometheus.MustRegister(ModelLoaded)
	predictionMetricsRegistered = true
}
