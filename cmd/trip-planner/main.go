// cmd/trip-planner/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"trip-planner/internal/api"
	"trip-planner/internal/common/config"
	"trip-planner/internal/common/database"
	"trip-planner/internal/common/logger"
	"trip-planner/internal/common/observability"
	"trip-planner/internal/genai"
	"trip-planner/internal/pipeline"
	"trip-planner/internal/pipeline/history"
	"trip-planner/internal/pipeline/planner"
	"trip-planner/internal/pipeline/queryplanner"
	"trip-planner/internal/pipeline/researcher"
	"trip-planner/internal/search"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting trip planner...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Trip History Store ---
	var store history.Store
	if cfg.History.Backend == "redis" {
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")

		store = history.NewRedisStore(redisClient.Client, time.Duration(cfg.History.SessionTTL)*time.Minute)
	} else {
		store = history.NewMemoryStore()
	}

	// --- External Collaborators ---
	searchClient := search.NewHTTPClient(&search.Config{
		BaseURL:    cfg.Search.BaseURL,
		APIKey:     cfg.Search.APIKey,
		Timeout:    time.Duration(cfg.Search.Timeout) * time.Millisecond,
		MaxResults: cfg.Search.MaxResults,
	})

	generator := genai.NewHTTPClient(&genai.Config{
		BaseURL:     cfg.GenAI.BaseURL,
		APIKey:      cfg.GenAI.APIKey,
		Model:       cfg.GenAI.Model,
		MaxTokens:   cfg.GenAI.MaxTokens,
		Temperature: cfg.GenAI.Temperature,
		Timeout:     time.Duration(cfg.GenAI.Timeout) * time.Millisecond,
		MaxRetries:  cfg.GenAI.MaxRetries,
	})

	// --- Pipeline Stages ---
	qp := queryplanner.NewPlanner(&queryplanner.Config{
		MaxQueries: cfg.Pipeline.MaxQueries,
	})
	res := researcher.NewResearcher(&researcher.Config{
		MaxConcurrency:  cfg.Pipeline.MaxConcurrency,
		ResultsPerQuery: cfg.Pipeline.ResultsPerQuery,
	}, searchClient, log)
	pl := planner.NewPlanner(planner.LoadConfig(), generator, log)

	pipe := pipeline.New(qp, res, pl, store, obs, log)
	server := api.NewServer(pipe, log)

	// --- Metrics Server ---
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Metrics server listening", zap.String("address", cfg.Server.MetricsAddress))
		if err := http.ListenAndServe(cfg.Server.MetricsAddress, mux); err != nil {
			zapLog.Error("Metrics server failed", zap.Error(err))
		}
	}()

	// --- API Server ---
	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.Handler(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("API server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down API server", zap.Error(err))
	}

	zapLog.Info("Trip planner stopped gracefully")
}
