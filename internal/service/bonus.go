package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/autoservice-system/internal/model"
)

// AccrualRate доля суммы оплаты, начисляемая бонусами.
const AccrualRate = 0.01

// PromocodeStatusApplied статус успешно применённого промокода.
const PromocodeStatusApplied = "applied"

// BonusRepository описывает хранилище бонусных балансов.
type BonusRepository interface {
	Credit(ctx context.Context, userID uuid.UUID, amount float64) (float64, error)
	Debit(ctx context.Context, userID uuid.UUID, amount float64) (float64, error)
	Balance(ctx context.Context, userID uuid.UUID) (float64, error)
	Close() error
}

// PromocodeFinder описывает справочник промокодов.
type PromocodeFinder interface {
	FindActive(ctx context.Context, code string) (model.Promocode, bool)
}

// PromocodeResult результат применения промокода к заказу.
type PromocodeResult struct {
	OrderID        string
	Code           string
	Status         string
	DiscountAmount float64
}

// SpendResult результат списания бонусов.
type SpendResult struct {
	OrderID    string
	Spent      float64
	NewBalance float64
}

// BonusService содержит бизнес-логику бонусной программы.
type BonusService struct {
	repo       BonusRepository
	promocodes PromocodeFinder
	logger     *zap.Logger
}

// NewBonusService создаёт сервис бонусов.
func NewBonusService(repo BonusRepository, promocodes PromocodeFinder, logger *zap.Logger) *BonusService {
	return &BonusService{
		repo:       repo,
		promocodes: promocodes,
		logger:     logger,
	}
}

// Close закрывает хранилище балансов.
func (s *BonusService) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// ApplyPromocode проверяет промокод для заказа. Баланс пользователя не изменяется.
func (s *BonusService) ApplyPromocode(ctx context.Context, orderID, code string) (PromocodeResult, error) {
	p, ok := s.promocodes.FindActive(ctx, code)
	if !ok {
		return PromocodeResult{}, fmt.Errorf("%w: %q", ErrPromocodeInvalid, code)
	}

	return PromocodeResult{
		OrderID:        orderID,
		Code:           p.Code,
		Status:         PromocodeStatusApplied,
		DiscountAmount: p.DiscountAmount,
	}, nil
}

// Spend списывает бонусы пользователя в счёт заказа.
func (s *BonusService) Spend(ctx context.Context, userID uuid.UUID, orderID string, amount float64) (SpendResult, error) {
	if !validAmount(amount) {
		return SpendResult{}, ErrInvalidAmount
	}

	balance, err := s.repo.Debit(ctx, userID, amount)
	if err != nil {
		return SpendResult{}, fmt.Errorf("spend bonuses: %w", err)
	}

	return SpendResult{
		OrderID:    orderID,
		Spent:      amount,
		NewBalance: balance,
	}, nil
}

// Credit зачисляет бонусы пользователю.
func (s *BonusService) Credit(ctx context.Context, userID uuid.UUID, amount float64) (float64, error) {
	if !validAmount(amount) {
		return 0, ErrInvalidAmount
	}

	balance, err := s.repo.Credit(ctx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("credit bonuses: %w", err)
	}
	return balance, nil
}

// Balance возвращает бонусный счёт пользователя.
func (s *BonusService) Balance(ctx context.Context, userID uuid.UUID) (model.BonusAccount, error) {
	balance, err := s.repo.Balance(ctx, userID)
	if err != nil {
		return model.BonusAccount{}, fmt.Errorf("get balance: %w", err)
	}
	return model.BonusAccount{UserID: userID, Balance: balance}, nil
}

// AccrueFromPayment начисляет пользователю бонусы с успешной оплаты.
// Повторная доставка того же события начисляет бонусы повторно.
func (s *BonusService) AccrueFromPayment(ctx context.Context, event model.PaymentSucceededEvent) error {
	accrual := math.Round(event.Amount*AccrualRate*100) / 100
	if accrual <= 0 {
		s.logger.Info("zero accrual skipped", zap.String("order_id", event.OrderID))
		return nil
	}

	balance, err := s.repo.Credit(ctx, event.UserID, accrual)
	if err != nil {
		return fmt.Errorf("accrue bonuses for order %s: %w", event.OrderID, err)
	}

	s.logger.Info("bonuses accrued",
		zap.String("order_id", event.OrderID),
		zap.String("user_id", event.UserID.String()),
		zap.Float64("accrual", accrual),
		zap.Float64("balance", balance),
	)
	return nil
}

// validAmount проверяет, что сумма не меньше копейки и не превышает model.MaxMoneyAmount.
func validAmount(amount float64) bool {
	if math.IsNaN(amount) || amount > model.MaxMoneyAmount {
		return false
	}
	return math.Round(amount*100) >= 1
}
