// Package main запускает сервис заказов на обслуживание.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mmeshcher/autoservice-system/internal/carclient"
	"github.com/mmeshcher/autoservice-system/internal/config"
	"github.com/mmeshcher/autoservice-system/internal/handler"
	"github.com/mmeshcher/autoservice-system/internal/middleware"
	"github.com/mmeshcher/autoservice-system/internal/repository"
	"github.com/mmeshcher/autoservice-system/internal/server"
	"github.com/mmeshcher/autoservice-system/internal/service"
)

const serviceName = "order-service"

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	if cfg.CarServiceAddress == "" {
		sugar.Warn("car service address is not set, orders will be rejected")
	}
	cars := carclient.NewClient(cfg.CarServiceAddress, cfg.CarServiceTimeout)

	svc := service.NewOrderService(repository.NewOrderMemoryRepository(), cars, logger)

	r := handler.NewRouter(handler.RouterOptions{
		ServiceName: serviceName,
		Logger:      logger,
		Auth:        middleware.NewAuthMiddleware(cfg.AuthSecret),
		Limiter:     middleware.NewRateLimiter(float64(cfg.RateLimitRPS), cfg.RateLimitRPS),
	}, handler.NewOrderHandler(svc, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, sugar, cfg.RunAddress, r); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
