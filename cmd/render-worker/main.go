package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aescanero/dago-node-render/internal/config"
	"github.com/aescanero/dago-node-render/internal/eval/template"
	"github.com/aescanero/dago-node-render/internal/pool"
	"github.com/aescanero/dago-node-render/internal/source"
	"github.com/aescanero/dago-node-render/internal/worker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set at build time
	Version = "dev"
	// BuildTime is set at build time
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting render worker",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("worker_id", cfg.WorkerID),
	)

	// Log configuration (without sensitive data)
	logger.Info("configuration loaded", zap.String("config", cfg.String()))

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:       cfg.RedisAddr,
		Password:   cfg.RedisPassword,
		DB:         cfg.RedisDB,
		MaxRetries: cfg.MaxRetries,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	// Load data shared by every template
	globalData, err := cfg.LoadGlobalData()
	if err != nil {
		logger.Fatal("failed to load global data", zap.Error(err))
	}

	// Initialize async helper pool
	var asyncPool *pool.Pool
	if cfg.AsyncWorkers > 0 {
		asyncPool = pool.New(cfg.AsyncWorkers, logger)
	}

	// Initialize template source
	var (
		locator  source.Locator
		fsSource *source.FS
		checks   []worker.Check
	)
	switch cfg.TemplateSource {
	case config.SourceRedis:
		locator = source.NewRedis(redisClient, cfg.RedisTemplatePrefix, cfg.RedisTimeout)
	default:
		fsSource = source.NewFS(cfg.TemplateDir, cfg.TemplateSuffix, logger)
		locator = fsSource
		checks = append(checks, worker.Check{
			Name: "templates",
			Fn: func(context.Context) error {
				_, err := os.Stat(cfg.TemplateDir)
				return err
			},
		})
	}

	// Initialize engine
	opts := []template.Option{
		template.WithLocator(locator),
		template.WithRecursionLimit(cfg.RecursionLimit),
		template.WithDefaultLocale(cfg.DefaultLocale),
		template.WithLogger(logger),
	}
	if asyncPool != nil {
		opts = append(opts, template.WithExecutor(asyncPool))
	}
	if globalData != nil {
		opts = append(opts, template.WithGlobalData(globalData))
	}
	engine := template.NewEngine(opts...)
	logger.Info("template engine initialized", zap.String("source", cfg.TemplateSource))

	if fsSource != nil && cfg.TemplateWatch {
		if err := fsSource.Watch(engine.Invalidate); err != nil {
			logger.Fatal("failed to watch templates", zap.Error(err))
		}
		logger.Info("watching templates", zap.String("dir", cfg.TemplateDir))
	}

	// Initialize worker
	w := worker.NewWorker(cfg, redisClient, engine, logger)

	// Start worker
	if err := w.Start(); err != nil {
		logger.Fatal("failed to start worker", zap.Error(err))
	}

	// Start health server
	healthServer := worker.NewHealthServer(cfg.HealthPort, redisClient, logger, checks...)
	if err := healthServer.Start(); err != nil {
		logger.Fatal("failed to start health server", zap.Error(err))
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("render worker running, press Ctrl+C to stop")
	<-sigChan

	logger.Info("shutdown signal received, stopping worker")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Stop health server
	if err := healthServer.Stop(); err != nil {
		logger.Error("failed to stop health server", zap.Error(err))
	}

	// Stop worker
	if err := w.Stop(); err != nil {
		logger.Error("failed to stop worker", zap.Error(err))
	}

	// Wait for pending async helpers
	if asyncPool != nil {
		if err := asyncPool.Close(); err != nil {
			logger.Error("failed to close async pool", zap.Error(err))
		}
	}

	if fsSource != nil {
		if err := fsSource.Close(); err != nil {
			logger.Error("failed to close template watcher", zap.Error(err))
		}
	}

	// Close Redis connection
	if err := redisClient.Close(); err != nil {
		logger.Error("failed to close redis connection", zap.Error(err))
	}

	select {
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timeout exceeded, forcing exit")
	default:
		logger.Info("worker stopped gracefully")
	}
}

// initLogger initializes the logger
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
