// Package main запускает платёжный сервис: HTTP API и фоновое проведение платежей.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mmeshcher/autoservice-system/internal/config"
	"github.com/mmeshcher/autoservice-system/internal/events"
	"github.com/mmeshcher/autoservice-system/internal/handler"
	"github.com/mmeshcher/autoservice-system/internal/middleware"
	"github.com/mmeshcher/autoservice-system/internal/repository"
	"github.com/mmeshcher/autoservice-system/internal/server"
	"github.com/mmeshcher/autoservice-system/internal/service"
)

const serviceName = "payment-service"

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.PaymentTopic, logger)
	defer publisher.Close()

	svc := service.NewPaymentService(
		repository.NewPaymentMemoryRepository(),
		publisher,
		service.FixedAmount(service.DefaultPaymentAmount),
		cfg.SettlementDelay,
		logger,
	)

	r := handler.NewRouter(handler.RouterOptions{
		ServiceName: serviceName,
		Logger:      logger,
		Auth:        middleware.NewAuthMiddleware(cfg.AuthSecret),
		Limiter:     middleware.NewRateLimiter(float64(cfg.RateLimitRPS), cfg.RateLimitRPS),
	}, handler.NewPaymentHandler(svc, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sugar.Infow("payment settlement started", "delay", cfg.SettlementDelay)
	if err := server.Run(ctx, sugar, cfg.RunAddress, r, svc.RunSettlement); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
