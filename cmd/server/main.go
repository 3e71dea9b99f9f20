package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/heartguard/internal/artifact"
	"github.com/Skufu/heartguard/internal/assess"
	"github.com/Skufu/heartguard/internal/config"
	"github.com/Skufu/heartguard/internal/logging"
	"github.com/Skufu/heartguard/internal/profile"
	"github.com/Skufu/heartguard/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, "heartguard")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	store, closeStore, err := artifact.Open(ctx, cfg.Artifacts)
	if err != nil {
		logger.Fatal("artifact store unavailable", zap.String("source", string(cfg.Artifacts.Source)), zap.Error(err))
	}
	defer closeStore()

	registry, err := buildRegistry(ctx, cfg, store, logger)
	if err != nil {
		logger.Fatal("model artifacts failed to load", zap.Error(err))
	}

	var health server.HealthChecker
	if hc, ok := store.(artifact.HealthChecker); ok {
		health = hc
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.New(registry, health, logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("server listening",
		zap.String("port", cfg.Port),
		zap.Any("variants", registry.Variants()),
		zap.String("default_variant", string(registry.Default())),
	)
	waitForShutdown(srv, logger)
}

// buildRegistry loads one engine per configured variant.
func buildRegistry(ctx context.Context, cfg *config.Config, store artifact.Store, logger *zap.Logger) (*assess.Registry, error) {
	gateways, err := artifact.Load(ctx, store, cfg.Variants)
	if err != nil {
		return nil, err
	}
	engines := make([]*assess.Engine, 0, len(gateways))
	for _, g := range gateways {
		schema, err := profile.Lookup(g.Variant())
		if err != nil {
			return nil, err
		}
		strategy, err := assess.StrategyFor(cfg.CategoryStrategy, schema)
		if err != nil {
			return nil, err
		}
		e, err := assess.NewEngine(g, strategy, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("model loaded",
			zap.String("variant", string(g.Variant())),
			zap.String("strategy", string(strategy.Name())),
		)
		engines = append(engines, e)
	}
	return assess.NewRegistry(cfg.DefaultVariant, engines...)
}

func waitForShutdown(srv *http.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
