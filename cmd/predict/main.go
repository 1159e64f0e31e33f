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
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/medreserve/predict/internal/config"
	dbRedis "github.com/medreserve/predict/internal/db/redis"
	logpkg "github.com/medreserve/predict/internal/logger"
	"github.com/medreserve/predict/internal/metrics"
	"github.com/medreserve/predict/internal/predictor/dl"
	"github.com/medreserve/predict/internal/predictor/ensemble"
	"github.com/medreserve/predict/internal/predictor/ml"
	"github.com/medreserve/predict/internal/preprocess"
	"github.com/medreserve/predict/internal/repository/predcache"
	chiTransport "github.com/medreserve/predict/internal/transport/chi"
	"github.com/medreserve/predict/internal/usecase/analyze"
	"github.com/medreserve/predict/internal/usecase/explain"
	healthuc "github.com/medreserve/predict/internal/usecase/health"
	"github.com/medreserve/predict/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting prediction API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("models_dir", cfg.Models.Dir),
	)

	ctx := context.Background()

	// Optional prediction cache. Empty addrs means no cache at all.
	var cacheStore *dbRedis.Store
	if len(cfg.Cache.Addrs) > 0 {
		cacheStore, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cacheStore.Close()

		if err := cacheStore.WaitForReady(ctx, 10*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to prediction cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Register prediction metrics explicitly (no init())
	metrics.RegisterPredictionMetrics()

	// Build the prediction stack
	pre := preprocess.New()
	mlPredictor := ml.New(cfg.Models.Dir, pre, logger)
	dlPredictor := dl.New(cfg.Models.Dir, pre, logger)

	ensembleSvc := ensemble.New(mlPredictor, dlPredictor, cfg.Ensemble.MLWeight, cfg.Ensemble.DLWeight, logger)

	// Missing artifacts degrade the service instead of stopping it, so
	// the rule-based fallback keeps answering.
	status := ensembleSvc.Load()
	metrics.ModelLoaded.WithLabelValues("ml").Set(boolToGauge(status.MLLoaded))
	metrics.ModelLoaded.WithLabelValues("dl").Set(boolToGauge(status.DLLoaded))
	logger.Info("Models loaded",
		zap.Bool("ml", status.MLLoaded),
		zap.Bool("dl", status.DLLoaded),
		zap.Bool("ready", status.Ready),
	)

	var predictor chiTransport.Ensembler = ensembleSvc
	if cacheStore != nil && cfg.Cache.TTLHours > 0 {
		predictor = predcache.New(
			ensembleSvc,
			cacheStore,
			time.Duration(cfg.Cache.TTLHours)*time.Hour,
			metrics.PredictionCacheTotal,
			logger,
		)
		logger.Info("Prediction cache enabled", zap.Int("ttl_hours", cfg.Cache.TTLHours))
	}

	// Rule-based triage and condition explainer
	analyzeSvc := analyze.New(logger)

	var chat explain.ChatClient
	if cfg.Explain.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.Explain.APIKey)
		if cfg.Explain.BaseURL != "" {
			clientCfg.BaseURL = cfg.Explain.BaseURL
		}
		chat = openai.NewClientWithConfig(clientCfg)
		logger.Info("Condition explainer AI enabled", zap.String("model", cfg.Explain.Model))
	}
	explainSvc := explain.New(chat, cfg.Explain.Model, logger)

	// Health service. Pass nil interface (not typed nil pointer!) when
	// the cache is disabled.
	var cachePinger healthuc.CachePinger
	if cacheStore != nil {
		cachePinger = cacheStore
	}
	healthSvc := healthuc.New(ensembleSvc, cachePinger)

	// Create chi server
	server := chiTransport.NewServer(
		predictor,
		mlPredictor,
		dlPredictor,
		mlPredictor,
		dlPredictor,
		analyzeSvc,
		explainSvc,
		healthSvc,
		cfg.Limits,
		logger,
	)

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

func boolToGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
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
						"error": "internal error",
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

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWith(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one line per request
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
