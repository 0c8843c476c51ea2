package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/autoservice-system/internal/model"
)

// PaymentService определяет контракт платёжного сервиса, используемый обработчиками.
type PaymentService interface {
	Initiate(ctx context.Context, userID uuid.UUID, orderID, method string) (model.Payment, error)
	Get(ctx context.Context, id string) (model.Payment, error)
}

// PaymentHandler реализует HTTP API платёжного сервиса.
type PaymentHandler struct {
	service PaymentService
	logger  *zap.Logger
}

// NewPaymentHandler создаёт обработчик платёжного сервиса.
func NewPaymentHandler(s PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{service: s, logger: logger}
}

// Register реализует Routes.
func (h *PaymentHandler) Register(r chi.Router) {
	r.Post("/payments", h.CreatePayment)
	r.Get("/payments/{payment_id}", h.GetPayment)
}

type createPaymentRequest struct {
	OrderID       string `json:"order_id" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

type createPaymentResponse struct {
	PaymentID       string  `json:"payment_id"`
	OrderID         string  `json:"order_id"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	Status          string  `json:"status"`
	PaymentMethod   string  `json:"payment_method"`
	ConfirmationURL string  `json:"confirmation_url"`
	CreatedAt       string  `json:"created_at"`
}

// CreatePayment создаёт платёж по заказу. Платёж проводится асинхронно.
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req createPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.service.Initiate(r.Context(), userID, req.OrderID, req.PaymentMethod)
	if err != nil {
		writeServiceError(w, h.logger, "create payment", err, req.OrderID)
		return
	}

	writeJSON(w, http.StatusCreated, createPaymentResponse{
		PaymentID:       p.ID,
		OrderID:         p.OrderID,
		Amount:          p.Amount,
		Currency:        p.Currency,
		Status:          string(p.Status),
		PaymentMethod:   p.Method,
		ConfirmationURL: p.ConfirmationURL,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	})
}

type paymentStatusResponse struct {
	PaymentID string  `json:"payment_id"`
	OrderID   string  `json:"order_id"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	PaidAt    *string `json:"paid_at"`
}

// GetPayment возвращает текущий статус платежа.
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "payment_id")

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, "get payment", err, id)
		return
	}

	resp := paymentStatusResponse{
		PaymentID: p.ID,
		OrderID:   p.OrderID,
		Status:    string(p.Status),
		Amount:    p.Amount,
		Currency:  p.Currency,
	}
	if p.PaidAt != nil {
		paidAt := p.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}

	writeJSON(w, http.StatusOK, resp)
}
