package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/mmeshcher/autoservice-system/internal/model"
)

// CartMemoryRepository хранит корзины пользователей в памяти процесса.
type CartMemoryRepository struct {
	mu    sync.Mutex
	carts map[uuid.UUID][]model.CartLine
}

// NewCartMemoryRepository создаёт пустое хранилище корзин.
func NewCartMemoryRepository() *CartMemoryRepository {
	return &CartMemoryRepository{
		carts: make(map[uuid.UUID][]model.CartLine),
	}
}

// AddItem добавляет позицию в корзину, количество повторно добавленной позиции суммируется.
func (r *CartMemoryRepository) AddItem(_ context.Context, userID uuid.UUID, line model.CartLine) (model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := mergeLine(r.carts[userID], line)
	if err != nil {
		return model.Cart{}, err
	}

	r.carts[userID] = items
	return model.Cart{UserID: userID, Items: slices.Clone(r.carts[userID])}, nil
}

// RemoveItem удаляет позицию из корзины.
func (r *CartMemoryRepository) RemoveItem(_ context.Context, userID uuid.UUID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, ok := removeLine(r.carts[userID], itemID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrCartItemNotFound, itemID)
	}

	r.carts[userID] = items
	return nil
}

// GetCart возвращает корзину пользователя, для нового пользователя корзина пуста.
func (r *CartMemoryRepository) GetCart(_ context.Context, userID uuid.UUID) (model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return model.Cart{UserID: userID, Items: slices.Clone(r.carts[userID])}, nil
}

// Close ничего не делает, ресурсы не удерживаются.
func (r *CartMemoryRepository) Close() error {
	return nil
}

// mergeLine добавляет позицию в корзину или увеличивает количество уже добавленной.
// Количество позиции не может превысить model.MaxLineQuantity, исходный срез при ошибке не меняется.
func mergeLine(items []model.CartLine, line model.CartLine) ([]model.CartLine, error) {
	for i := range items {
		if items[i].ItemID != line.ItemID {
			continue
		}
		if line.Quantity > model.MaxLineQuantity-items[i].Quantity {
			return items, fmt.Errorf("%w: %s has %d, adding %d, limit %d",
				ErrQuantityLimit, line.ItemID, items[i].Quantity, line.Quantity, model.MaxLineQuantity)
		}

		items[i].Quantity += line.Quantity
		items[i].Name = line.Name
		items[i].Price = line.Price
		items[i].Type = line.Type
		return items, nil
	}

	if line.Quantity > model.MaxLineQuantity {
		return items, fmt.Errorf("%w: %s quantity %d, limit %d",
			ErrQuantityLimit, line.ItemID, line.Quantity, model.MaxLineQuantity)
	}
	return append(items, line), nil
}

func removeLine(items []model.CartLine, itemID string) ([]model.CartLine, bool) {
	idx := slices.IndexFunc(items, func(l model.CartLine) bool { return l.ItemID == itemID })
	if idx < 0 {
		return items, false
	}
	return slices.Delete(items, idx, idx+1), true
}
