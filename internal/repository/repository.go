// Package repository содержит хранилища данных сервисов автосервиса: in-memory реализации,
// PostgreSQL для бонусных счетов и Redis для корзин.
package repository

import (
	"errors"
	"fmt"
	"math"

	"github.com/mmeshcher/autoservice-system/internal/model"
)

// ErrInsufficientBalance возвращается при попытке списания суммы, превышающей баланс.
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrCartItemNotFound возвращается, если позиции нет в корзине пользователя.
	ErrCartItemNotFound = errors.New("item not found in cart")
	// ErrOrderNotFound возвращается, если заказ не найден.
	ErrOrderNotFound = errors.New("order not found")
	// ErrReviewExists возвращается при попытке оставить второй отзыв на заказ.
	ErrReviewExists = errors.New("review for this order already exists")
	// ErrPaymentNotFound возвращается, если платёж не найден.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrOrderAlreadyPaid возвращается, если по заказу уже есть успешный платёж.
	ErrOrderAlreadyPaid = errors.New("order already paid")
	// ErrAmountOutOfRange возвращается для суммы меньше копейки, больше допустимой или не являющейся числом.
	ErrAmountOutOfRange = errors.New("amount out of range")
	// ErrQuantityLimit возвращается, если количество позиции в корзине превысило бы допустимое.
	ErrQuantityLimit = errors.New("quantity limit exceeded")
)

// InsufficientBalanceError описывает отклонённое списание: текущий баланс и запрошенную сумму.
type InsufficientBalanceError struct {
	Balance   float64
	Requested float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s: balance %.2f, requested %.2f", ErrInsufficientBalance, e.Balance, e.Requested)
}

// Is позволяет сравнивать ошибку с ErrInsufficientBalance через errors.Is.
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// toKopecks переводит положительную сумму в копейки с округлением.
func toKopecks(amount float64) (int64, error) {
	if math.IsNaN(amount) || amount > model.MaxMoneyAmount {
		return 0, fmt.Errorf("%w: %v", ErrAmountOutOfRange, amount)
	}

	sum := math.Round(amount * 100)
	if sum < 1 {
		return 0, fmt.Errorf("%w: %v", ErrAmountOutOfRange, amount)
	}
	return int64(sum), nil
}

func fromKopecks(v int64) float64 {
	return float64(v) / 100
}
