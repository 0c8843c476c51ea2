package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mmeshcher/autoservice-system/internal/model"
)

// OrderMemoryRepository хранит заказы и отзывы в памяти процесса.
// Каждому заказу соответствует не более одного отзыва.
type OrderMemoryRepository struct {
	mu           sync.Mutex
	orders       map[uuid.UUID]model.Order
	reviews      map[uuid.UUID]model.Review
	orderReviews map[uuid.UUID]uuid.UUID
}

// NewOrderMemoryRepository создаёт пустое хранилище заказов.
func NewOrderMemoryRepository() *OrderMemoryRepository {
	return &OrderMemoryRepository{
		orders:       make(map[uuid.UUID]model.Order),
		reviews:      make(map[uuid.UUID]model.Review),
		orderReviews: make(map[uuid.UUID]uuid.UUID),
	}
}

// CreateOrder сохраняет новый заказ.
func (r *OrderMemoryRepository) CreateOrder(_ context.Context, o model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders[o.ID] = o
	return nil
}

// GetOrder возвращает заказ по идентификатору.
func (r *OrderMemoryRepository) GetOrder(_ context.Context, id uuid.UUID) (model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return model.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return o, nil
}

// UpdateOrder применяет fn к заказу под блокировкой хранилища.
// Если fn возвращает ошибку, заказ остаётся без изменений.
func (r *OrderMemoryRepository) UpdateOrder(_ context.Context, id uuid.UUID, fn func(o *model.Order) error) (model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return model.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}

	if err := fn(&o); err != nil {
		return r.orders[id], err
	}

	r.orders[id] = o
	return o, nil
}

// GetReviewByOrder возвращает отзыв по заказу, ok=false если отзыва нет.
func (r *OrderMemoryRepository) GetReviewByOrder(_ context.Context, orderID uuid.UUID) (model.Review, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reviewID, ok := r.orderReviews[orderID]
	if !ok {
		return model.Review{}, false, nil
	}
	return r.reviews[reviewID], true, nil
}

// CreateReview сохраняет отзыв, если заказ существует и отзыва по нему ещё нет.
func (r *OrderMemoryRepository) CreateReview(_ context.Context, rv model.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[rv.OrderID]; !ok {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, rv.OrderID)
	}
	if _, ok := r.orderReviews[rv.OrderID]; ok {
		return fmt.Errorf("%w: %s", ErrReviewExists, rv.OrderID)
	}

	r.reviews[rv.ID] = rv
	r.orderReviews[rv.OrderID] = rv.ID
	return nil
}
