// Package model содержит доменные сущности сервисов автосервиса.
package model

import (
	"time"

	"github.com/google/uuid"
)

// BonusAccount описывает бонусный счёт пользователя.
type BonusAccount struct {
	UserID  uuid.UUID
	Balance float64
}

// Promocode описывает промокод и размер скидки по нему.
type Promocode struct {
	Code           string
	DiscountAmount float64
	Active         bool
}

// ItemType описывает тип позиции каталога.
type ItemType string

const (
	ItemTypeService ItemType = "service"
	ItemTypeProduct ItemType = "product"
)

// CatalogItem описывает услугу или товар из каталога.
type CatalogItem struct {
	ID    string
	Name  string
	Price float64
	Type  ItemType
}

const (
	// MaxMoneyAmount наибольшая сумма одной денежной операции в рублях.
	MaxMoneyAmount = 1_000_000_000.0
	// MaxLineQuantity наибольшее количество одной позиции в корзине.
	MaxLineQuantity = 1000
)

// CartLine описывает позицию в корзине пользователя.
type CartLine struct {
	ItemID   string   `json:"item_id"`
	Type     ItemType `json:"type"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Quantity int      `json:"quantity"`
}

// Cart описывает корзину пользователя.
type Cart struct {
	UserID uuid.UUID
	Items  []CartLine
}

// TotalPrice возвращает итоговую стоимость корзины.
func (c Cart) TotalPrice() float64 {
	var total float64
	for _, line := range c.Items {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// OrderStatus описывает статус заказа на обслуживание.
type OrderStatus string

const (
	OrderStatusCreated       OrderStatus = "created"
	OrderStatusInProgress    OrderStatus = "in_progress"
	OrderStatusWorkCompleted OrderStatus = "work_completed"
	OrderStatusCarIssued     OrderStatus = "car_issued"
)

// Order описывает заказ на обслуживание автомобиля.
type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	CarID           string
	AppointmentTime time.Time
	Description     string
	Status          OrderStatus
	CreatedAt       time.Time
}

// ReviewStatusPublished единственный статус опубликованного отзыва.
const ReviewStatusPublished = "published"

// Review описывает отзыв о выполненном заказе.
type Review struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Rating    int
	Comment   string
	Status    string
	CreatedAt time.Time
}

// PaymentStatus описывает статус платежа.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment описывает платёж по заказу.
type Payment struct {
	ID              string
	OrderID         string
	UserID          uuid.UUID
	Amount          float64
	Currency        string
	Method          string
	Status          PaymentStatus
	ConfirmationURL string
	CreatedAt       time.Time
	PaidAt          *time.Time
}

// PaymentSucceededEvent описывает событие об успешной оплате.
type PaymentSucceededEvent struct {
	OrderID string    `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
	Amount  float64   `json:"amount"`
}
