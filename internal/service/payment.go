package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/autoservice-system/internal/model"
)

const (
	// DefaultPaymentAmount сумма оплаты заказа.
	DefaultPaymentAmount = 5000.00
	// PaymentCurrency валюта платежей.
	PaymentCurrency = "RUB"

	paymentIDPrefix     = "pay_"
	confirmationBaseURL = "https://payment.gateway/confirm/"
	settlementBatchSize = 100
	settlementTimeout   = 10 * time.Second
)

// PaymentRepository описывает хранилище платежей.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, p model.Payment) error
	GetPayment(ctx context.Context, id string) (model.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id string, status model.PaymentStatus, paidAt *time.Time) error
	PendingCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]model.Payment, error)
}

// EventPublisher публикует события об успешной оплате.
type EventPublisher interface {
	PublishPaymentSucceeded(ctx context.Context, event model.PaymentSucceededEvent) error
}

// AmountResolver определяет сумму к оплате по заказу.
type AmountResolver interface {
	ResolveAmount(ctx context.Context, orderID string) (float64, error)
}

// FixedAmount возвращает одну и ту же сумму для любого заказа.
type FixedAmount float64

// ResolveAmount реализует AmountResolver.
func (f FixedAmount) ResolveAmount(context.Context, string) (float64, error) {
	return float64(f), nil
}

// PaymentService содержит бизнес-логику платежей и фоновое проведение оплат.
type PaymentService struct {
	repo      PaymentRepository
	publisher EventPublisher
	amounts   AmountResolver
	delay     time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewPaymentService создаёт сервис платежей. delay задаёт имитацию времени обработки платежа шлюзом.
func NewPaymentService(repo PaymentRepository, publisher EventPublisher, amounts AmountResolver, delay time.Duration, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		repo:      repo,
		publisher: publisher,
		amounts:   amounts,
		delay:     delay,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func newPaymentID() string {
	return paymentIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

// Initiate создаёт платёж в статусе pending. Проведение выполняется фоновым процессом RunSettlement.
func (s *PaymentService) Initiate(ctx context.Context, userID uuid.UUID, orderID, method string) (model.Payment, error) {
	amount, err := s.amounts.ResolveAmount(ctx, orderID)
	if err != nil {
		return model.Payment{}, fmt.Errorf("resolve amount: %w", err)
	}

	id := newPaymentID()
	p := model.Payment{
		ID:              id,
		OrderID:         orderID,
		UserID:          userID,
		Amount:          amount,
		Currency:        PaymentCurrency,
		Method:          method,
		Status:          model.PaymentStatusPending,
		ConfirmationURL: confirmationBaseURL + id,
		CreatedAt:       s.now(),
	}

	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return model.Payment{}, fmt.Errorf("create payment: %w", err)
	}

	s.logger.Info("payment initiated", zap.String("payment_id", id), zap.String("order_id", orderID))
	return p, nil
}

// Get возвращает платёж по идентификатору.
func (s *PaymentService) Get(ctx context.Context, id string) (model.Payment, error) {
	return s.repo.GetPayment(ctx, id)
}

// RunSettlement запускает цикл проведения платежей, ожидающих дольше заданной задержки.
// Завершается при отмене контекста.
func (s *PaymentService) RunSettlement(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.settleDue(ctx)
		}
	}
}

func (s *PaymentService) pollInterval() time.Duration {
	interval := s.delay / 5
	if interval > time.Second {
		interval = time.Second
	}
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	return interval
}

func (s *PaymentService) settleDue(ctx context.Context) {
	due, err := s.repo.PendingCreatedBefore(ctx, s.now().Add(-s.delay), settlementBatchSize)
	if err != nil {
		s.logger.Error("list pending payments error", zap.Error(err))
		return
	}

	for _, p := range due {
		if ctx.Err() != nil {
			return
		}
		s.settle(ctx, p)
	}
}

// settle публикует событие об оплате и только после этого переводит платёж в succeeded.
// Если публикация не удалась, платёж помечается как failed.
func (s *PaymentService) settle(ctx context.Context, p model.Payment) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settlementTimeout)
	defer cancel()

	event := model.PaymentSucceededEvent{
		OrderID: p.OrderID,
		UserID:  p.UserID,
		Amount:  p.Amount,
	}

	if err := s.publisher.PublishPaymentSucceeded(ctx, event); err != nil {
		s.logger.Error("publish payment event error", zap.Error(err),
			zap.String("payment_id", p.ID), zap.String("order_id", p.OrderID))

		if err := s.repo.UpdatePaymentStatus(ctx, p.ID, model.PaymentStatusFailed, nil); err != nil {
			s.logger.Error("mark payment failed error", zap.Error(err), zap.String("payment_id", p.ID))
		}
		return
	}

	// при ошибке платёж остаётся pending и событие будет опубликовано повторно
	paidAt := s.now()
	if err := s.repo.UpdatePaymentStatus(ctx, p.ID, model.PaymentStatusSucceeded, &paidAt); err != nil {
		s.logger.Error("mark payment succeeded error", zap.Error(err), zap.String("payment_id", p.ID))
		return
	}

	s.logger.Info("payment settled", zap.String("payment_id", p.ID), zap.String("order_id", p.OrderID))
}
