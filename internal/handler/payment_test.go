package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/autoservice-system/internal/model"
	"github.com/mmeshcher/autoservice-system/internal/repository"
)

type stubPaymentService struct {
	initiateResp model.Payment
	initiateErr  error
	gotUserID    uuid.UUID
	gotMethod    string

	getResp model.Payment
	getErr  error
}

func (s *stubPaymentService) Initiate(ctx context.Context, userID uuid.UUID, orderID, method string) (model.Payment, error) {
	s.gotUserID = userID
	s.gotMethod = method
	return s.initiateResp, s.initiateErr
}

func (s *stubPaymentService) Get(ctx context.Context, id string) (model.Payment, error) {
	return s.getResp, s.getErr
}

func TestCreatePayment(t *testing.T) {
	created := time.Date(2025, 12, 20, 10, 0, 0, 0, time.UTC)
	svc := &stubPaymentService{initiateResp: model.Payment{
		ID:              "pay_0123456789abcdef01234567",
		OrderID:         "ord_component_test_001",
		Amount:          5000,
		Currency:        "RUB",
		Method:          "card",
		Status:          model.PaymentStatusPending,
		ConfirmationURL: "https://payment.gateway/confirm/pay_0123456789abcdef01234567",
		CreatedAt:       created,
	}}
	c := newTestClient(t, NewPaymentHandler(svc, zap.NewNop()))

	rec := c.do(http.MethodPost, "/api/payments", map[string]string{"order_id": "ord_component_test_001", "payment_method": "card"})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{
		"payment_id": "pay_0123456789abcdef01234567",
		"order_id": "ord_component_test_001",
		"amount": 5000,
		"currency": "RUB",
		"status": "pending",
		"payment_method": "card",
		"confirmation_url": "https://payment.gateway/confirm/pay_0123456789abcdef01234567",
		"created_at": "2025-12-20T10:00:00Z"
	}`, rec.Body.String())
	assert.Equal(t, c.userID, svc.gotUserID)
	assert.Equal(t, "card", svc.gotMethod)
}

func TestCreatePayment_AlreadyPaid(t *testing.T) {
	svc := &stubPaymentService{initiateErr: fmt.Errorf("create payment: %w: ord_dup_001", repository.ErrOrderAlreadyPaid)}
	c := newTestClient(t, NewPaymentHandler(svc, zap.NewNop()))

	rec := c.do(http.MethodPost, "/api/payments", map[string]string{"order_id": "ord_dup_001", "payment_method": "card"})

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Order ord_dup_001 is already paid", decodeBody(t, rec)["detail"])
}

func TestCreatePayment_MissingMethod(t *testing.T) {
	c := newTestClient(t, NewPaymentHandler(&stubPaymentService{}, zap.NewNop()))

	rec := c.do(http.MethodPost, "/api/payments", map[string]string{"order_id": "ord_1"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "payment_method is required", decodeBody(t, rec)["detail"])
}

func TestGetPayment(t *testing.T) {
	paidAt := time.Date(2025, 12, 20, 10, 0, 5, 0, time.UTC)

	tests := []struct {
		name       string
		payment    model.Payment
		wantPaidAt any
	}{
		{
			name:       "pending",
			payment:    model.Payment{ID: "pay_1", OrderID: "ord_1", Status: model.PaymentStatusPending, Amount: 5000, Currency: "RUB"},
			wantPaidAt: nil,
		},
		{
			name:       "succeeded",
			payment:    model.Payment{ID: "pay_1", OrderID: "ord_1", Status: model.PaymentStatusSucceeded, Amount: 5000, Currency: "RUB", PaidAt: &paidAt},
			wantPaidAt: "2025-12-20T10:00:05Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, NewPaymentHandler(&stubPaymentService{getResp: tt.payment}, zap.NewNop()))

			rec := c.do(http.MethodGet, "/api/payments/pay_1", nil)

			require.Equal(t, http.StatusOK, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, string(tt.payment.Status), body["status"])
			assert.Equal(t, "ord_1", body["order_id"])
			assert.Contains(t, body, "paid_at")
			assert.Equal(t, tt.wantPaidAt, body["paid_at"])
		})
	}
}

func TestGetPayment_NotFound(t *testing.T) {
	svc := &stubPaymentService{getErr: fmt.Errorf("%w: pay_nonexistent_xyz", repository.ErrPaymentNotFound)}
	c := newTestClient(t, NewPaymentHandler(svc, zap.NewNop()))

	rec := c.do(http.MethodGet, "/api/payments/pay_nonexistent_xyz", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Payment pay_nonexistent_xyz not found", decodeBody(t, rec)["detail"])
}
