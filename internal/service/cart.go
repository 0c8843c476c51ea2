package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmeshcher/autoservice-system/internal/model"
)

// CartRepository описывает хранилище корзин.
type CartRepository interface {
	AddItem(ctx context.Context, userID uuid.UUID, line model.CartLine) (model.Cart, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, itemID string) error
	GetCart(ctx context.Context, userID uuid.UUID) (model.Cart, error)
	Close() error
}

// Catalog описывает каталог услуг и товаров.
type Catalog interface {
	Lookup(ctx context.Context, itemID string) (model.CatalogItem, bool)
}

// CartService содержит бизнес-логику корзины.
type CartService struct {
	repo    CartRepository
	catalog Catalog
}

// NewCartService создаёт сервис корзины.
func NewCartService(repo CartRepository, catalog Catalog) *CartService {
	return &CartService{repo: repo, catalog: catalog}
}

// Close закрывает хранилище корзин.
func (s *CartService) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// AddItem добавляет позицию каталога в корзину пользователя и возвращает корзину целиком.
// Название и цена берутся из каталога.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, itemID string, itemType model.ItemType, quantity int) (model.Cart, error) {
	if quantity <= 0 || quantity > model.MaxLineQuantity {
		return model.Cart{}, ErrInvalidQuantity
	}

	item, ok := s.catalog.Lookup(ctx, itemID)
	if !ok {
		return model.Cart{}, fmt.Errorf("%w: %s", ErrCatalogItemNotFound, itemID)
	}

	if item.Type != itemType {
		return model.Cart{}, fmt.Errorf("%w: %s is %s, not %s", ErrItemTypeMismatch, itemID, item.Type, itemType)
	}

	cart, err := s.repo.AddItem(ctx, userID, model.CartLine{
		ItemID:   item.ID,
		Type:     item.Type,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: quantity,
	})
	if err != nil {
		return model.Cart{}, fmt.Errorf("add cart item: %w", err)
	}
	return cart, nil
}

// RemoveItem удаляет позицию из корзины пользователя.
func (s *CartService) RemoveItem(ctx context.Context, userID uuid.UUID, itemID string) error {
	if err := s.repo.RemoveItem(ctx, userID, itemID); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

// GetCart возвращает корзину пользователя.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (model.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return model.Cart{}, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}
