package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/mmeshcher/autoservice-system/internal/model"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher публикует события об успешной оплате в Kafka.
type Publisher struct {
	writer messageWriter
	logger *zap.Logger
}

// NewPublisher создаёт издателя событий для указанных брокеров и топика.
func NewPublisher(brokers []string, topic string, logger *zap.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}

	logger.Info("kafka publisher initialized", zap.String("topic", topic), zap.Strings("brokers", brokers))
	return &Publisher{writer: w, logger: logger}
}

// PublishPaymentSucceeded отправляет событие payment.succeeded, ключ сообщения совпадает с номером заказа.
func (p *Publisher) PublishPaymentSucceeded(ctx context.Context, event model.PaymentSucceededEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}

	p.logger.Debug("payment event published", zap.String("order_id", event.OrderID))
	return nil
}

// Close закрывает соединения с брокерами.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
