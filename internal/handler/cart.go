package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/autoservice-system/internal/model"
)

// CartService определяет контракт корзины, используемый обработчиками.
type CartService interface {
	AddItem(ctx context.Context, userID uuid.UUID, itemID string, itemType model.ItemType, quantity int) (model.Cart, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, itemID string) error
	GetCart(ctx context.Context, userID uuid.UUID) (model.Cart, error)
}

// CartHandler реализует HTTP API сервиса корзины.
type CartHandler struct {
	service CartService
	logger  *zap.Logger
}

// NewCartHandler создаёт обработчик сервиса корзины.
func NewCartHandler(s CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{service: s, logger: logger}
}

// Register реализует Routes.
func (h *CartHandler) Register(r chi.Router) {
	r.Get("/cart", h.GetCart)
	r.Post("/cart/items", h.AddItem)
	r.Delete("/cart/items/{item_id}", h.RemoveItem)
}

type addItemRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=service product"`
	Quantity int    `json:"quantity" validate:"gt=0,lte=1000"`
}

type cartResponse struct {
	UserID     uuid.UUID        `json:"user_id"`
	Items      []model.CartLine `json:"items"`
	TotalPrice float64          `json:"total_price"`
}

func newCartResponse(c model.Cart) cartResponse {
	items := c.Items
	if items == nil {
		items = []model.CartLine{}
	}
	return cartResponse{UserID: c.UserID, Items: items, TotalPrice: c.TotalPrice()}
}

// AddItem добавляет позицию каталога в корзину текущего пользователя.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cart, err := h.service.AddItem(r.Context(), userID, req.ItemID, model.ItemType(req.Type), req.Quantity)
	if err != nil {
		writeServiceError(w, h.logger, "add cart item", err, req.ItemID)
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(cart))
}

// RemoveItem удаляет позицию из корзины текущего пользователя.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "item_id")
	if err := h.service.RemoveItem(r.Context(), userID, itemID); err != nil {
		writeServiceError(w, h.logger, "remove cart item", err, itemID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetCart возвращает корзину текущего пользователя.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	cart, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, "get cart", err, userID.String())
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(cart))
}
