package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/autoservice-system/internal/model"
	"github.com/mmeshcher/autoservice-system/internal/repository"
	"github.com/mmeshcher/autoservice-system/internal/service"
)

type stubCartService struct {
	cart model.Cart
	err  error
}

func (s *stubCartService) AddItem(ctx context.Context, userID uuid.UUID, itemID string, itemType model.ItemType, quantity int) (model.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID uuid.UUID, itemID string) error {
	return s.err
}

func (s *stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (model.Cart, error) {
	return model.Cart{UserID: userID}, s.err
}

func newCartClient(t *testing.T) *testClient {
	t.Helper()

	svc := service.NewCartService(repository.NewCartMemoryRepository(), repository.NewStaticCatalog())
	return newTestClient(t, NewCartHandler(svc, zap.NewNop()))
}

func TestCart_AddRemoveFlow(t *testing.T) {
	c := newCartClient(t)

	rec := c.do(http.MethodPost, "/api/cart/items", map[string]any{"item_id": "svc_oil_change", "type": "service", "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, c.userID.String(), body["user_id"])
	assert.Equal(t, 2500.0, body["total_price"])

	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, map[string]any{
		"item_id": "svc_oil_change", "type": "service", "name": "Замена масла", "price": 2500.0, "quantity": 1.0,
	}, items[0])

	rec = c.do(http.MethodPost, "/api/cart/items", map[string]any{"item_id": "prod_oil_filter", "type": "product", "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4500.0, decodeBody(t, rec)["total_price"])

	rec = c.do(http.MethodDelete, "/api/cart/items/prod_oil_filter", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())

	rec = c.do(http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2500.0, decodeBody(t, rec)["total_price"])
}

func TestCart_Errors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		body       any
		wantStatus int
		wantDetail string
	}{
		{
			name:       "unknown catalog item",
			method:     http.MethodPost,
			target:     "/api/cart/items",
			body:       map[string]any{"item_id": "svc_unknown", "type": "service", "quantity": 1},
			wantStatus: http.StatusNotFound,
			wantDetail: "Item 'svc_unknown' not found in catalog",
		},
		{
			name:       "type mismatch",
			method:     http.MethodPost,
			target:     "/api/cart/items",
			body:       map[string]any{"item_id": "svc_oil_change", "type": "product", "quantity": 1},
			wantStatus: http.StatusBadRequest,
			wantDetail: "Item type mismatch",
		},
		{
			name:       "unknown type",
			method:     http.MethodPost,
			target:     "/api/cart/items",
			body:       map[string]any{"item_id": "svc_oil_change", "type": "gift", "quantity": 1},
			wantStatus: http.StatusBadRequest,
			wantDetail: "type must be one of",
		},
		{
			name:       "zero quantity",
			method:     http.MethodPost,
			target:     "/api/cart/items",
			body:       map[string]any{"item_id": "svc_oil_change", "type": "service", "quantity": 0},
			wantStatus: http.StatusBadRequest,
			wantDetail: "quantity must be greater than 0",
		},
		{
			name:       "quantity above limit",
			method:     http.MethodPost,
			target:     "/api/cart/items",
			body:       map[string]any{"item_id": "svc_oil_change", "type": "service", "quantity": 1001},
			wantStatus: http.StatusBadRequest,
			wantDetail: "quantity must be at most 1000",
		},
		{
			name:       "remove missing item",
			method:     http.MethodDelete,
			target:     "/api/cart/items/svc_oil_change",
			wantStatus: http.StatusNotFound,
			wantDetail: "not found in cart",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCartClient(t)

			rec := c.do(tt.method, tt.target, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, decodeBody(t, rec)["detail"], tt.wantDetail)
		})
	}
}

func TestCart_AccumulatedQuantityLimit(t *testing.T) {
	c := newCartClient(t)

	rec := c.do(http.MethodPost, "/api/cart/items", map[string]any{"item_id": "svc_oil_change", "type": "service", "quantity": 1000})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodPost, "/api/cart/items", map[string]any{"item_id": "svc_oil_change", "type": "service", "quantity": 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Quantity of 'svc_oil_change' in cart cannot exceed 1000", decodeBody(t, rec)["detail"])

	rec = c.do(http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2500000.0, decodeBody(t, rec)["total_price"])
}

func TestCart_EmptyCartHasItemsArray(t *testing.T) {
	c := newTestClient(t, NewCartHandler(&stubCartService{}, zap.NewNop()))

	rec := c.do(http.MethodGet, "/api/cart", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"`+c.userID.String()+`","items":[],"total_price":0}`, rec.Body.String())
}
