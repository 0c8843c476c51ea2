package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/autoservice-system/internal/middleware"
	"github.com/mmeshcher/autoservice-system/internal/model"
	"github.com/mmeshcher/autoservice-system/internal/service"
)

// BonusService определяет контракт бонусной программы, используемый обработчиками.
type BonusService interface {
	ApplyPromocode(ctx context.Context, orderID, code string) (service.PromocodeResult, error)
	Spend(ctx context.Context, userID uuid.UUID, orderID string, amount float64) (service.SpendResult, error)
	Balance(ctx context.Context, userID uuid.UUID) (model.BonusAccount, error)
}

// BonusHandler реализует HTTP API бонусного сервиса.
type BonusHandler struct {
	service BonusService
	logger  *zap.Logger
}

// NewBonusHandler создаёт обработчик бонусного сервиса.
func NewBonusHandler(s BonusService, logger *zap.Logger) *BonusHandler {
	return &BonusHandler{service: s, logger: logger}
}

// Register реализует Routes.
func (h *BonusHandler) Register(r chi.Router) {
	r.Post("/bonuses/promocodes/apply", h.ApplyPromocode)
	r.Post("/bonuses/spend", h.Spend)
	r.Get("/bonuses/balance", h.GetBalance)
}

type applyPromocodeRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	Promocode string `json:"promocode" validate:"required"`
}

type applyPromocodeResponse struct {
	OrderID        string  `json:"order_id"`
	Promocode      string  `json:"promocode"`
	Status         string  `json:"status"`
	DiscountAmount float64 `json:"discount_amount"`
}

// ApplyPromocode проверяет промокод и возвращает размер скидки.
func (h *BonusHandler) ApplyPromocode(w http.ResponseWriter, r *http.Request) {
	var req applyPromocodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.service.ApplyPromocode(r.Context(), req.OrderID, req.Promocode)
	if err != nil {
		writeServiceError(w, h.logger, "apply promocode", err, req.Promocode)
		return
	}

	writeJSON(w, http.StatusOK, applyPromocodeResponse{
		OrderID:        res.OrderID,
		Promocode:      res.Code,
		Status:         res.Status,
		DiscountAmount: res.DiscountAmount,
	})
}

type spendRequest struct {
	OrderID string  `json:"order_id" validate:"required"`
	Amount  float64 `json:"amount" validate:"gt=0,lte=1000000000"`
}

type spendResponse struct {
	OrderID      string  `json:"order_id"`
	BonusesSpent float64 `json:"bonuses_spent"`
	NewBalance   float64 `json:"new_balance"`
}

// Spend списывает бонусы текущего пользователя в счёт заказа.
func (h *BonusHandler) Spend(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req spendRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.service.Spend(r.Context(), userID, req.OrderID, req.Amount)
	if err != nil {
		writeServiceError(w, h.logger, "spend bonuses", err, req.OrderID)
		return
	}

	writeJSON(w, http.StatusOK, spendResponse{
		OrderID:      res.OrderID,
		BonusesSpent: res.Spent,
		NewBalance:   res.NewBalance,
	})
}

type balanceResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	Balance float64   `json:"balance"`
}

// GetBalance возвращает бонусный баланс текущего пользователя.
func (h *BonusHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	acc, err := h.service.Balance(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, "get balance", err, userID.String())
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{UserID: acc.UserID, Balance: acc.Balance})
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return uuid.Nil, false
	}
	return userID, true
}
