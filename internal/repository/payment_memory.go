package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mmeshcher/autoservice-system/internal/model"
)

// PaymentMemoryRepository хранит платежи в памяти процесса.
type PaymentMemoryRepository struct {
	mu       sync.Mutex
	payments map[string]model.Payment
	byOrder  map[string][]string
}

// NewPaymentMemoryRepository создаёт пустое хранилище платежей.
func NewPaymentMemoryRepository() *PaymentMemoryRepository {
	return &PaymentMemoryRepository{
		payments: make(map[string]model.Payment),
		byOrder:  make(map[string][]string),
	}
}

// CreatePayment сохраняет платёж, если по заказу ещё нет успешной оплаты.
func (r *PaymentMemoryRepository) CreatePayment(_ context.Context, p model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.byOrder[p.OrderID] {
		if r.payments[id].Status == model.PaymentStatusSucceeded {
			return fmt.Errorf("%w: %s", ErrOrderAlreadyPaid, p.OrderID)
		}
	}

	r.payments[p.ID] = p
	r.byOrder[p.OrderID] = append(r.byOrder[p.OrderID], p.ID)
	return nil
}

// GetPayment возвращает платёж по идентификатору.
func (r *PaymentMemoryRepository) GetPayment(_ context.Context, id string) (model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[id]
	if !ok {
		return model.Payment{}, fmt.Errorf("%w: %s", ErrPaymentNotFound, id)
	}
	return p, nil
}

// UpdatePaymentStatus выставляет статус и время оплаты платежа.
func (r *PaymentMemoryRepository) UpdatePaymentStatus(_ context.Context, id string, status model.PaymentStatus, paidAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPaymentNotFound, id)
	}

	p.Status = status
	p.PaidAt = paidAt
	r.payments[id] = p
	return nil
}

// PendingCreatedBefore возвращает ожидающие платежи, созданные не позже cutoff, в порядке создания.
func (r *PaymentMemoryRepository) PendingCreatedBefore(_ context.Context, cutoff time.Time, limit int) ([]model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []model.Payment
	for _, p := range r.payments {
		if p.Status == model.PaymentStatusPending && !p.CreatedAt.After(cutoff) {
			res = append(res, p)
		}
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})

	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}
