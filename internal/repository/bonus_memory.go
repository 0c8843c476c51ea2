package repository

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
)

// BonusMemoryRepository хранит бонусные балансы пользователей в памяти процесса.
type BonusMemoryRepository struct {
	mu       sync.Mutex
	balances map[uuid.UUID]int64
}

// NewBonusMemoryRepository создаёт пустое хранилище бонусных балансов.
func NewBonusMemoryRepository() *BonusMemoryRepository {
	return &BonusMemoryRepository{
		balances: make(map[uuid.UUID]int64),
	}
}

// Credit зачисляет бонусы на счёт пользователя и возвращает новый баланс.
func (r *BonusMemoryRepository) Credit(_ context.Context, userID uuid.UUID, amount float64) (float64, error) {
	sum, err := toKopecks(amount)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.balances[userID]
	if current > math.MaxInt64-sum {
		return fromKopecks(current), fmt.Errorf("%w: balance %.2f, credit %.2f",
			ErrAmountOutOfRange, fromKopecks(current), amount)
	}

	r.balances[userID] = current + sum
	return fromKopecks(r.balances[userID]), nil
}

// Debit списывает бонусы со счёта пользователя и возвращает новый баланс.
// Баланс не может стать отрицательным.
func (r *BonusMemoryRepository) Debit(_ context.Context, userID uuid.UUID, amount float64) (float64, error) {
	sum, err := toKopecks(amount)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.balances[userID]
	if sum > current {
		return fromKopecks(current), &InsufficientBalanceError{Balance: fromKopecks(current), Requested: amount}
	}

	r.balances[userID] = current - sum
	return fromKopecks(r.balances[userID]), nil
}

// Balance возвращает текущий баланс пользователя, для неизвестного пользователя 0.
func (r *BonusMemoryRepository) Balance(_ context.Context, userID uuid.UUID) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return fromKopecks(r.balances[userID]), nil
}

// Close ничего не делает, ресурсы не удерживаются.
func (r *BonusMemoryRepository) Close() error {
	return nil
}
