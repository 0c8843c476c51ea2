package events

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/mmeshcher/autoservice-system/internal/model"
)

const readErrorBackoff = time.Second

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// PaymentHandler обрабатывает разобранное событие об успешной оплате.
type PaymentHandler func(ctx context.Context, event model.PaymentSucceededEvent) error

// Consumer читает события payment.succeeded из Kafka и передаёт их обработчику.
type Consumer struct {
	reader  messageReader
	handle  PaymentHandler
	logger  *zap.Logger
	backoff time.Duration
}

// NewConsumer создаёт потребителя событий в составе указанной группы.
func NewConsumer(brokers []string, topic, groupID string, handle PaymentHandler, logger *zap.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	logger.Info("kafka consumer initialized",
		zap.String("topic", topic), zap.Strings("brokers", brokers), zap.String("group_id", groupID))
	return &Consumer{reader: r, handle: handle, logger: logger, backoff: readErrorBackoff}
}

// Run читает сообщения до отмены контекста. Некорректные сообщения журналируются и отбрасываются,
// ошибки обработчика не останавливают цикл.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Warn("read payment event error", zap.Error(err))

			timer := time.NewTimer(c.backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
			continue
		}

		c.process(ctx, m.Value)
	}
}

func (c *Consumer) process(ctx context.Context, raw []byte) {
	event, err := DecodePaymentSucceeded(raw)
	if err != nil {
		c.logger.Warn("discarding invalid payment event", zap.Error(err), zap.ByteString("payload", raw))
		return
	}

	if err := c.handle(ctx, event); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.logger.Error("handle payment event error", zap.Error(err),
			zap.String("order_id", event.OrderID), zap.String("user_id", event.UserID.String()))
	}
}

// Close закрывает соединение с брокерами.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
