// Package service реализует бизнес-логику сервисов автосервиса: бонусы, корзину, заказы и платежи.
package service

import (
	"errors"
	"fmt"

	"github.com/mmeshcher/autoservice-system/internal/model"
)

// ErrInvalidAmount возвращается, если сумма операции меньше копейки или больше допустимой.
var (
	ErrInvalidAmount = errors.New("amount must be between 0.01 and 1000000000")
	// ErrPromocodeInvalid возвращается для несуществующего или неактивного промокода.
	ErrPromocodeInvalid = errors.New("promocode is invalid or inactive")
	// ErrCatalogItemNotFound возвращается, если позиции нет в каталоге.
	ErrCatalogItemNotFound = errors.New("item not found in catalog")
	// ErrItemTypeMismatch возвращается, если заявленный тип позиции не совпадает с каталогом.
	ErrItemTypeMismatch = errors.New("item type mismatch")
	// ErrInvalidQuantity возвращается для количества вне диапазона 1..model.MaxLineQuantity.
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 1000")
	// ErrCarNotFound возвращается, если автомобиль не подтверждён сервисом автомобилей.
	ErrCarNotFound = errors.New("car not found")
	// ErrInvalidStatusTransition возвращается при недопустимой смене статуса заказа.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	// ErrInvalidRating возвращается, если оценка вне диапазона 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// TransitionError описывает отклонённую смену статуса заказа.
type TransitionError struct {
	From model.OrderStatus
	To   model.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// Is позволяет сравнивать ошибку с ErrInvalidStatusTransition через errors.Is.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidStatusTransition
}
