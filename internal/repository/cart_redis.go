package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mmeshcher/autoservice-system/internal/model"
)

const (
	cartTTL          = 7 * 24 * time.Hour
	cartMaxTxRetries = 5
)

var errCartContention = errors.New("cart modified concurrently")

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// CartRedisRepository хранит корзины в Redis, одна JSON-запись на пользователя.
type CartRedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRedisRepository подключается к Redis по указанному адресу.
func NewCartRedisRepository(ctx context.Context, addr string) (*CartRedisRepository, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &CartRedisRepository{client: client, ttl: cartTTL}, nil
}

func cartKey(userID uuid.UUID) string {
	return fmt.Sprintf("cart:user:%s", userID)
}

// AddItem добавляет позицию в корзину, количество повторно добавленной позиции суммируется.
func (r *CartRedisRepository) AddItem(ctx context.Context, userID uuid.UUID, line model.CartLine) (model.Cart, error) {
	items, err := r.update(ctx, userID, func(items []model.CartLine) ([]model.CartLine, error) {
		return mergeLine(items, line)
	})
	if err != nil {
		return model.Cart{}, err
	}
	return model.Cart{UserID: userID, Items: items}, nil
}

// RemoveItem удаляет позицию из корзины.
func (r *CartRedisRepository) RemoveItem(ctx context.Context, userID uuid.UUID, itemID string) error {
	_, err := r.update(ctx, userID, func(items []model.CartLine) ([]model.CartLine, error) {
		items, ok := removeLine(items, itemID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrCartItemNotFound, itemID)
		}
		return items, nil
	})
	return err
}

// GetCart возвращает корзину пользователя, для нового пользователя корзина пуста.
func (r *CartRedisRepository) GetCart(ctx context.Context, userID uuid.UUID) (model.Cart, error) {
	items, err := loadLines(ctx, r.client, cartKey(userID))
	if err != nil {
		return model.Cart{}, err
	}
	return model.Cart{UserID: userID, Items: items}, nil
}

// Close закрывает соединение с Redis.
func (r *CartRedisRepository) Close() error {
	return r.client.Close()
}

// update выполняет read-modify-write корзины в транзакции WATCH/MULTI с повтором при конкурентной записи.
func (r *CartRedisRepository) update(ctx context.Context, userID uuid.UUID, fn func([]model.CartLine) ([]model.CartLine, error)) ([]model.CartLine, error) {
	key := cartKey(userID)
	var result []model.CartLine

	txf := func(tx *redis.Tx) error {
		items, err := loadLines(ctx, tx, key)
		if err != nil {
			return err
		}

		items, err = fn(items)
		if err != nil {
			return err
		}

		data, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("marshal cart: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		result = items
		return nil
	}

	for i := 0; i < cartMaxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("update cart %s: %w", userID, errCartContention)
}

func loadLines(ctx context.Context, c stringGetter, key string) ([]model.CartLine, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	var items []model.CartLine
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return items, nil
}
