package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/simrec/internal/app"
	"github.com/kailas-cloud/simrec/internal/config"
	"github.com/kailas-cloud/simrec/internal/domain"
	logpkg "github.com/kailas-cloud/simrec/internal/logger"
	"github.com/kailas-cloud/simrec/internal/metrics"
	chiTransport "github.com/kailas-cloud/simrec/internal/transport/chi"
	batchuc "github.com/kailas-cloud/simrec/internal/usecase/batch"
	healthuc "github.com/kailas-cloud/simrec/internal/usecase/health"
	"github.com/kailas-cloud/simrec/internal/version"
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
	zap.ReplaceGlobals(logger)

	logger.Info("Starting simrec API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterRecommendMetrics()

	ds, err := app.LoadDataset(&cfg, logger)
	if err != nil {
		if errors.Is(err, domain.ErrDimensionMismatch) {
			logger.Fatal("Corpus and similarity matrix do not match", zap.Error(err))
		}
		logger.Fatal("Failed to load dataset", zap.Error(err))
	}
	metrics.DatasetDocuments.Set(float64(ds.Len()))

	ctx := context.Background()
	cache, err := app.NewCache(ctx, &cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create result cache", zap.Error(err))
	}
	defer cache.Close()

	recommendSvc, err := app.NewRecommendService(&cfg, ds, cache, logger)
	if err != nil {
		logger.Fatal("Invalid recommend options", zap.Error(err))
	}

	// Pass nil interface (not typed nil pointer) when there is no remote cache.
	var cachePinger healthuc.CachePinger
	if cache != nil && cache.Pinger != nil {
		cachePinger = cache.Pinger
	}
	healthSvc := healthuc.New(ds, cachePinger)

	batchSvc := batchuc.New(recommendSvc).WithMaxBatchSize(cfg.Recommend.MaxBatchSize)

	server := chiTransport.NewServer(recommendSvc, healthSvc, logger).
		WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes).
		WithBatch(batchSvc)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEvent(logger))
	r.Use(chiTransport.CORS(cfg.CORS.AllowedOrigins, time.Duration(cfg.CORS.MaxAgeSec)*time.Second))
	r.Use(chiTransport.RateLimit(cfg.RateLimit.RequestsPerMinute, time.Minute))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server",
			zap.String("addr", addr),
			zap.Int("documents", ds.Len()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
