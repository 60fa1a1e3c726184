package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"deliverus/internal/commons"
	"deliverus/internal/config"
	"deliverus/internal/infrastructure/logger"
	"deliverus/internal/infrastructure/metrics"
	"deliverus/internal/infrastructure/mysql"
	"deliverus/internal/middleware"
	"deliverus/internal/order"
	"deliverus/internal/product"
	"deliverus/internal/restaurant"
	"deliverus/internal/server"
	"deliverus/internal/user"

	"go.uber.org/zap"
)

func main() {
	configPath := os.Getenv("DELIVERUS_CONFIG")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.Migrate {
		if err := mysql.Migrate(cfg.Database, zapLogger); err != nil {
			zapLogger.Fatal("running migrations", zap.Error(err))
		}
	}

	db, err := mysql.NewConnection(ctx, cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if cfg.Seed.Enabled {
		seed, err := commons.LoadSeed(cfg.Seed.Path)
		if err != nil {
			zapLogger.Fatal("loading seed", zap.Error(err))
		}
		if err := commons.NewSeeder(db, cfg.Auth.BcryptCost, zapLogger).Run(ctx, seed); err != nil {
			zapLogger.Fatal("seeding database", zap.Error(err))
		}
	}

	m := metrics.New()
	mods := server.Modules{
		Users:       user.NewModule(db, cfg.Auth, m, zapLogger),
		Restaurants: restaurant.NewModule(db, zapLogger),
		Products:    product.NewModule(db, zapLogger),
		Orders:      order.NewModule(db, cfg.Order, m, zapLogger),
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, zapLogger)
		limiter.StartCleanup(ctx, cfg.RateLimit.CleanupInterval)
	}

	router := server.NewRouter(mods, db, m, server.RouterOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		RateLimiter:    limiter,
	}, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
