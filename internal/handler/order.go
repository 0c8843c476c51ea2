package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/autoservice-system/internal/model"
	"github.com/mmeshcher/autoservice-system/internal/validation"
)

// OrderService определяет контракт сервиса заказов, используемый обработчиками.
type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, carID string, appointment time.Time, description string) (model.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (model.Order, error)
	AddReview(ctx context.Context, orderID uuid.UUID, rating int, comment string) (model.Review, error)
}

// OrderHandler реализует HTTP API сервиса заказов.
type OrderHandler struct {
	service OrderService
	logger  *zap.Logger
}

// NewOrderHandler создаёт обработчик сервиса заказов.
func NewOrderHandler(s OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{service: s, logger: logger}
}

// Register реализует Routes.
func (h *OrderHandler) Register(r chi.Router) {
	r.Post("/orders", h.CreateOrder)
	r.Post("/orders/review", h.AddReview)
	r.Get("/orders/{order_id}", h.GetOrder)
	r.Patch("/orders/{order_id}/status", h.UpdateStatus)
}

type createOrderRequest struct {
	CarID       string `json:"car_id" validate:"required"`
	DesiredTime string `json:"desired_time" validate:"required"`
	Description string `json:"description"`
}

type orderResponse struct {
	OrderID         uuid.UUID `json:"order_id"`
	CarID           string    `json:"car_id"`
	Status          string    `json:"status"`
	Description     string    `json:"description"`
	AppointmentTime string    `json:"appointment_time"`
	CreatedAt       string    `json:"created_at"`
}

func newOrderResponse(o model.Order) orderResponse {
	return orderResponse{
		OrderID:         o.ID,
		CarID:           o.CarID,
		Status:          string(o.Status),
		Description:     o.Description,
		AppointmentTime: o.AppointmentTime.Format(time.RFC3339),
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
	}
}

// CreateOrder создаёт заказ на обслуживание автомобиля текущего пользователя.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req createOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	appointment, err := validation.ParseTime(req.DesiredTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "desired_time must be an ISO 8601 timestamp")
		return
	}

	order, err := h.service.CreateOrder(r.Context(), userID, req.CarID, appointment, req.Description)
	if err != nil {
		writeServiceError(w, h.logger, "create order", err, req.CarID)
		return
	}

	writeJSON(w, http.StatusCreated, newOrderResponse(order))
}

// GetOrder возвращает заказ по идентификатору.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(w, chi.URLParam(r, "order_id"))
	if !ok {
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, "get order", err, id.String())
		return
	}

	writeJSON(w, http.StatusOK, newOrderResponse(order))
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=created in_progress work_completed car_issued"`
}

// UpdateStatus переводит заказ в следующий статус жизненного цикла.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(w, chi.URLParam(r, "order_id"))
	if !ok {
		return
	}

	var req updateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, model.OrderStatus(req.Status))
	if err != nil {
		writeServiceError(w, h.logger, "update order status", err, id.String())
		return
	}

	h.logger.Info("order status updated", zap.String("order_id", id.String()), zap.String("status", req.Status))
	writeJSON(w, http.StatusOK, newOrderResponse(order))
}

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment"`
}

type reviewResponse struct {
	ReviewID  uuid.UUID `json:"review_id"`
	OrderID   uuid.UUID `json:"order_id"`
	Status    string    `json:"status"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt string    `json:"created_at"`
}

// AddReview публикует отзыв о заказе, указанном в параметре order_id.
func (h *OrderHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(w, r.URL.Query().Get("order_id"))
	if !ok {
		return
	}

	var req reviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rv, err := h.service.AddReview(r.Context(), id, req.Rating, req.Comment)
	if err != nil {
		writeServiceError(w, h.logger, "add review", err, id.String())
		return
	}

	writeJSON(w, http.StatusCreated, reviewResponse{
		ReviewID:  rv.ID,
		OrderID:   rv.OrderID,
		Status:    rv.Status,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt.Format(time.RFC3339),
	})
}

func orderIDParam(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "order_id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
