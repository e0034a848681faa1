package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelbuddy-relay/internal/adapter/api"
	"travelbuddy-relay/internal/adapter/client"
	"travelbuddy-relay/internal/adapter/store"
	"travelbuddy-relay/internal/config"
	"travelbuddy-relay/internal/domain/entity"
	"travelbuddy-relay/internal/domain/repository"
	applog "travelbuddy-relay/internal/logger"
	"travelbuddy-relay/internal/usecase"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".env", ".env.dev")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := applog.New(cfg.Log.Level, cfg.Log.Format)
	defer logger.Sync()

	ctx := context.Background()

	if cfg.Gemini.APIKey == "" {
		logger.Warn("GEMINI_API_KEY is empty; provider calls will fail authentication")
	}

	provider, err := client.NewProvider(ctx, cfg.Gemini, logger)
	if err != nil {
		logger.Fatal("failed to init AI provider", zap.Error(err))
	}

	// Redis for usage accounting, optional
	var usage repository.UsageRecorder
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()
		redisUsage := store.NewRedisUsage(rdb, cfg.Redis.KeyPrefix)

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := redisUsage.Ping(pingCtx); err != nil {
			logger.Warn("redis unreachable, usage accounting disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			usage = redisUsage
		}
		cancel()
	}

	models := entity.ModelSet{Fast: cfg.Gemini.FastModel, Advanced: cfg.Gemini.AdvancedModel}
	planner := usecase.NewPlanner(provider, usage, models, logger)

	app := api.NewApp(api.RouterConfig{
		Version:     cfg.AppVersion,
		Env:         cfg.Env,
		Development: cfg.Development(),
	}, api.NewGenerateHandler(planner, logger))

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("TravelBuddy relay running",
		zap.String("port", cfg.Port),
		zap.String("backend", cfg.Gemini.Backend),
		zap.String("fast_model", models.Fast),
		zap.String("advanced_model", models.Advanced),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
