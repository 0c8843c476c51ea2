// Package config содержит логику чтения конфигурации сервисов автосервиса.
package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultRunAddress      = "localhost:8080"
	defaultKafkaBrokers    = "localhost:9092"
	defaultPaymentTopic    = "payment.succeeded"
	defaultConsumerGroup   = "bonus-service"
	defaultCarTimeout      = 5 * time.Second
	defaultSettlementDelay = 5 * time.Second
	defaultRateLimitRPS    = 100
)

// Config содержит параметры конфигурации сервисов.
type Config struct {
	RunAddress        string        `env:"RUN_ADDRESS"`
	DatabaseURI       string        `env:"DATABASE_URI"`
	RedisAddress      string        `env:"REDIS_ADDRESS"`
	KafkaBrokers      []string      `env:"KAFKA_BROKERS" envSeparator:","`
	PaymentTopic      string        `env:"PAYMENT_EVENTS_TOPIC"`
	ConsumerGroup     string        `env:"KAFKA_GROUP_ID"`
	CarServiceAddress string        `env:"CAR_SERVICE_ADDRESS"`
	CarServiceTimeout time.Duration `env:"CAR_SERVICE_TIMEOUT"`
	AuthSecret        string        `env:"AUTH_SECRET"`
	SettlementDelay   time.Duration `env:"PAYMENT_SETTLEMENT_DELAY"`
	RateLimitRPS      int           `env:"RATE_LIMIT_RPS"`
}

// Parse считывает конфигурацию из файла .env, флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	envCfg := Config{}
	if err := env.Parse(&envCfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg := &Config{}
	var brokers string

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI for bonus balances")
	flag.StringVar(&cfg.RedisAddress, "c", "", "redis address for carts")
	flag.StringVar(&brokers, "k", defaultKafkaBrokers, "comma separated kafka brokers")
	flag.StringVar(&cfg.PaymentTopic, "t", defaultPaymentTopic, "payment events topic")
	flag.StringVar(&cfg.ConsumerGroup, "g", defaultConsumerGroup, "kafka consumer group")
	flag.StringVar(&cfg.CarServiceAddress, "s", "", "car service address")
	flag.StringVar(&cfg.AuthSecret, "j", "", "auth token signing secret")

	flag.Parse()

	cfg.KafkaBrokers = splitList(brokers)
	cfg.CarServiceTimeout = defaultCarTimeout
	cfg.SettlementDelay = defaultSettlementDelay
	cfg.RateLimitRPS = defaultRateLimitRPS

	if envCfg.RunAddress != "" {
		cfg.RunAddress = envCfg.RunAddress
	}
	if envCfg.DatabaseURI != "" {
		cfg.DatabaseURI = envCfg.DatabaseURI
	}
	if envCfg.RedisAddress != "" {
		cfg.RedisAddress = envCfg.RedisAddress
	}
	if len(envCfg.KafkaBrokers) > 0 {
		cfg.KafkaBrokers = envCfg.KafkaBrokers
	}
	if envCfg.PaymentTopic != "" {
		cfg.PaymentTopic = envCfg.PaymentTopic
	}
	if envCfg.ConsumerGroup != "" {
		cfg.ConsumerGroup = envCfg.ConsumerGroup
	}
	if envCfg.CarServiceAddress != "" {
		cfg.CarServiceAddress = envCfg.CarServiceAddress
	}
	if envCfg.CarServiceTimeout > 0 {
		cfg.CarServiceTimeout = envCfg.CarServiceTimeout
	}
	if envCfg.AuthSecret != "" {
		cfg.AuthSecret = envCfg.AuthSecret
	}
	if envCfg.SettlementDelay > 0 {
		cfg.SettlementDelay = envCfg.SettlementDelay
	}
	if envCfg.RateLimitRPS > 0 {
		cfg.RateLimitRPS = envCfg.RateLimitRPS
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}

	return cfg, nil
}

func splitList(s string) []string {
	var res []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}
	return res
}
