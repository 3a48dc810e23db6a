package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aescanero/irisd/internal/classifier"
	"github.com/aescanero/irisd/internal/config"
	"github.com/aescanero/irisd/internal/inference"
	"github.com/aescanero/irisd/pkg/adapters/metrics/prometheus"
	"github.com/aescanero/irisd/pkg/adapters/storage/file"
	redisstorage "github.com/aescanero/irisd/pkg/adapters/storage/redis"
	"github.com/aescanero/irisd/pkg/api/grpc"
	"github.com/aescanero/irisd/pkg/api/http"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
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
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting irisd",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	// Load the model once; failure leaves the service in degraded mode
	source, closeSource := newModelSource(cfg, logger)
	model := loadModel(cfg, source, logger)
	closeSource()

	metricsCollector := prometheus.NewCollector()
	predictor := inference.NewService(model, metricsCollector, logger)

	// Initialize API servers
	httpServer := http.NewServer(&http.Config{
		Addr:            cfg.GetHTTPAddr(),
		Predictor:       predictor,
		Metrics:         metricsCollector,
		Logger:          logger,
		SoftModelErrors: cfg.SoftModelErrors,
	})

	grpcServer, err := grpc.NewServer(&grpc.Config{
		Addr:        cfg.GetGRPCAddr(),
		ModelLoaded: predictor.Loaded(),
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("failed to create gRPC server", zap.Error(err))
	}

	// Start servers
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	go func() {
		if err := grpcServer.Start(); err != nil {
			logger.Fatal("gRPC server failed", zap.Error(err))
		}
	}()

	logger.Info("irisd started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("grpc_port", cfg.GRPCPort),
		zap.Bool("model_loaded", predictor.Loaded()))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := grpcServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("gRPC server shutdown error", zap.Error(err))
	}

	logger.Info("irisd shut down complete")
}

// newModelSource builds the configured artifact source and its cleanup func
func newModelSource(cfg *config.Config, logger *zap.Logger) (classifier.Source, func()) {
	if cfg.Model.Source != config.ModelSourceRedis {
		return file.NewSource(cfg.Model.Path), func() {}
	}

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
		ReadTimeout: cfg.Redis.ReadTimeout,
	})

	return redisstorage.NewModelStore(redisClient, cfg.Redis.ModelKey, logger), func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}
}

// loadModel returns nil when the artifact cannot be loaded
func loadModel(cfg *config.Config, source classifier.Source, logger *zap.Logger) *classifier.Model {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ModelLoadTimeout)
	defer cancel()

	model, err := classifier.Load(ctx, source)
	if err != nil {
		logger.Warn("model not loaded, serving in degraded mode",
			zap.String("source", source.Location()),
			zap.Error(err))
		return nil
	}

	md := model.Metadata()
	logger.Info("model loaded",
		zap.String("source", source.Location()),
		zap.Int("trees", model.Trees()),
		zap.Strings("target_names", md.TargetNames),
		zap.Float64("accuracy", md.Accuracy))

	return model
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
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

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
