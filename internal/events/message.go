// Package events содержит публикацию и потребление событий об оплате через Kafka.
package events

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmeshcher/autoservice-system/internal/model"
)

// ErrInvalidEvent возвращается, если сообщение не является корректным событием об оплате.
var ErrInvalidEvent = errors.New("invalid payment event")

type paymentSucceededPayload struct {
	OrderID *string  `json:"order_id"`
	UserID  *string  `json:"user_id"`
	Amount  *float64 `json:"amount"`
}

// DecodePaymentSucceeded разбирает тело сообщения payment.succeeded и проверяет обязательные поля.
func DecodePaymentSucceeded(raw []byte) (model.PaymentSucceededEvent, error) {
	var p paymentSucceededPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.PaymentSucceededEvent{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	if p.OrderID == nil || *p.OrderID == "" {
		return model.PaymentSucceededEvent{}, fmt.Errorf("%w: order_id is required", ErrInvalidEvent)
	}
	if p.UserID == nil {
		return model.PaymentSucceededEvent{}, fmt.Errorf("%w: user_id is required", ErrInvalidEvent)
	}
	if p.Amount == nil {
		return model.PaymentSucceededEvent{}, fmt.Errorf("%w: amount is required", ErrInvalidEvent)
	}
	if *p.Amount < 0 {
		return model.PaymentSucceededEvent{}, fmt.Errorf("%w: negative amount %v", ErrInvalidEvent, *p.Amount)
	}
	if *p.Amount > model.MaxMoneyAmount {
		return model.PaymentSucceededEvent{}, fmt.Errorf("%w: amount %v exceeds %v", ErrInvalidEvent, *p.Amount, model.MaxMoneyAmount)
	}

	userID, err := uuid.Parse(*p.UserID)
	if err != nil {
		return model.PaymentSucceededEvent{}, fmt.Errorf("%w: user_id: %v", ErrInvalidEvent, err)
	}

	return model.PaymentSucceededEvent{
		OrderID: *p.OrderID,
		UserID:  userID,
		Amount:  *p.Amount,
	}, nil
}
