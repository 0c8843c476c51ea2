// Package main запускает бонусный сервис: HTTP API и потребителя событий об оплате.
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

const serviceName = "bonus-service"

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	var repo service.BonusRepository
	if cfg.DatabaseURI != "" {
		repo, err = repository.NewPostgresRepository(cfg.DatabaseURI)
		if err != nil {
			sugar.Fatalw("database initialization error", "error", err.Error())
		}
		sugar.Info("using postgres bonus storage")
	} else {
		repo = repository.NewBonusMemoryRepository()
		sugar.Info("using in-memory bonus storage")
	}

	svc := service.NewBonusService(repo, repository.NewPromocodeRegistry(), logger)
	defer svc.Close()

	consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.PaymentTopic, cfg.ConsumerGroup, svc.AccrueFromPayment, logger)
	defer consumer.Close()

	r := handler.NewRouter(handler.RouterOptions{
		ServiceName: serviceName,
		Logger:      logger,
		Auth:        middleware.NewAuthMiddleware(cfg.AuthSecret),
		Limiter:     middleware.NewRateLimiter(float64(cfg.RateLimitRPS), cfg.RateLimitRPS),
	}, handler.NewBonusHandler(svc, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, sugar, cfg.RunAddress, r, consumer.Run); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
