// Package main запускает сервис корзины.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mmeshcher/autoservice-system/internal/config"
	"github.com/mmeshcher/autoservice-system/internal/handler"
	"github.com/mmeshcher/autoservice-system/internal/middleware"
	"github.com/mmeshcher/autoservice-system/internal/repository"
	"github.com/mmeshcher/autoservice-system/internal/server"
	"github.com/mmeshcher/autoservice-system/internal/service"
)

const serviceName = "cart-service"

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo service.CartRepository
	if cfg.RedisAddress != "" {
		repo, err = repository.NewCartRedisRepository(ctx, cfg.RedisAddress)
		if err != nil {
			sugar.Fatalw("redis initialization error", "error", err.Error())
		}
		sugar.Infow("using redis cart storage", "addr", cfg.RedisAddress)
	} else {
		repo = repository.NewCartMemoryRepository()
		sugar.Info("using in-memory cart storage")
	}

	svc := service.NewCartService(repo, repository.NewStaticCatalog())
	defer svc.Close()

	r := handler.NewRouter(handler.RouterOptions{
		ServiceName: serviceName,
		Logger:      logger,
		Auth:        middleware.NewAuthMiddleware(cfg.AuthSecret),
		Limiter:     middleware.NewRateLimiter(float64(cfg.RateLimitRPS), cfg.RateLimitRPS),
	}, handler.NewCartHandler(svc, logger))

	if err := server.Run(ctx, sugar, cfg.RunAddress, r); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
