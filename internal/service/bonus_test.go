package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/autoservice-system/internal/model"
	"github.com/mmeshcher/autoservice-system/internal/repository"
)

func newTestBonusService() (*BonusService, *repository.BonusMemoryRepository) {
	repo := repository.NewBonusMemoryRepository()
	return NewBonusService(repo, repository.NewPromocodeRegistry(), zap.NewNop()), repo
}

func TestApplyPromocode(t *testing.T) {
	svc, repo := newTestBonusService()
	ctx := context.Background()
	orderID := uuid.NewString()

	tests := []struct {
		name     string
		code     string
		wantErr  bool
		discount float64
	}{
		{name: "summer", code: "SUMMER24", discount: 500},
		{name: "welcome", code: "WELCOME10", discount: 1000},
		{name: "wrong case", code: "summer24", wantErr: true},
		{name: "inactive", code: "EXPIRED23", wantErr: true},
		{name: "unknown", code: "FREE", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.ApplyPromocode(ctx, orderID, tt.code)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrPromocodeInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, orderID, res.OrderID)
			assert.Equal(t, tt.code, res.Code)
			assert.Equal(t, PromocodeStatusApplied, res.Status)
			assert.Equal(t, tt.discount, res.DiscountAmount)
		})
	}

	balance, err := repo.Balance(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestSpend(t *testing.T) {
	svc, _ := newTestBonusService()
	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.NewString()

	_, err := svc.Credit(ctx, userID, 1000)
	require.NoError(t, err)

	res, err := svc.Spend(ctx, userID, orderID, 300)
	require.NoError(t, err)
	assert.Equal(t, orderID, res.OrderID)
	assert.Equal(t, 300.0, res.Spent)
	assert.Equal(t, 700.0, res.NewBalance)

	_, err = svc.Spend(ctx, userID, orderID, 1000)
	require.ErrorIs(t, err, repository.ErrInsufficientBalance)

	_, err = svc.Spend(ctx, userID, orderID, 0)
	require.ErrorIs(t, err, ErrInvalidAmount)

	acc, err := svc.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 700.0, acc.Balance)
}

func TestSpendCredit_AmountBounds(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
	}{
		{name: "huge", amount: 1e20},
		{name: "above limit", amount: model.MaxMoneyAmount + 0.01},
		{name: "sub kopeck", amount: 0.004},
		{name: "zero", amount: 0},
		{name: "negative", amount: -1},
		{name: "infinity", amount: math.Inf(1)},
		{name: "nan", amount: math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestBonusService()
			ctx := context.Background()
			userID := uuid.New()

			_, err := svc.Credit(ctx, userID, 100)
			require.NoError(t, err)

			_, err = svc.Spend(ctx, userID, uuid.NewString(), tt.amount)
			require.ErrorIs(t, err, ErrInvalidAmount)

			_, err = svc.Credit(ctx, userID, tt.amount)
			require.ErrorIs(t, err, ErrInvalidAmount)

			acc, err := svc.Balance(ctx, userID)
			require.NoError(t, err)
			assert.Equal(t, 100.0, acc.Balance)
		})
	}
}

func TestSpendCredit_AmountEdges(t *testing.T) {
	svc, _ := newTestBonusService()
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Credit(ctx, userID, model.MaxMoneyAmount)
	require.NoError(t, err)

	res, err := svc.Spend(ctx, userID, uuid.NewString(), 0.005)
	require.NoError(t, err)
	assert.Equal(t, 0.005, res.Spent)
	assert.Equal(t, model.MaxMoneyAmount-0.01, res.NewBalance)

	res, err = svc.Spend(ctx, userID, uuid.NewString(), model.MaxMoneyAmount-0.01)
	require.NoError(t, err)
	assert.Zero(t, res.NewBalance)
}

func TestSpend_InsufficientBalanceDetails(t *testing.T) {
	svc, _ := newTestBonusService()
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Credit(ctx, userID, 100)
	require.NoError(t, err)

	_, err = svc.Spend(ctx, userID, uuid.NewString(), 150.5)
	var ibe *repository.InsufficientBalanceError
	require.ErrorAs(t, err, &ibe)
	assert.Equal(t, 100.0, ibe.Balance)
	assert.Equal(t, 150.5, ibe.Requested)
}

func TestSpend_NewUserHasNoBonuses(t *testing.T) {
	svc, _ := newTestBonusService()

	_, err := svc.Spend(context.Background(), uuid.New(), uuid.NewString(), 1)
	require.ErrorIs(t, err, repository.ErrInsufficientBalance)
}

func TestAccrueFromPayment(t *testing.T) {
	svc, _ := newTestBonusService()
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.AccrueFromPayment(ctx, model.PaymentSucceededEvent{OrderID: "ord_1", UserID: userID, Amount: 10000}))

	acc, err := svc.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, acc.Balance)

	// повторная доставка начисляет повторно
	require.NoError(t, svc.AccrueFromPayment(ctx, model.PaymentSucceededEvent{OrderID: "ord_1", UserID: userID, Amount: 10000}))
	acc, err = svc.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, acc.Balance)

	require.NoError(t, svc.AccrueFromPayment(ctx, model.PaymentSucceededEvent{OrderID: "ord_2", UserID: userID, Amount: 0}))
	acc, err = svc.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, acc.Balance)
}

func TestAccrueApplySpendScenario(t *testing.T) {
	svc, _ := newTestBonusService()
	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.NewString()

	require.NoError(t, svc.AccrueFromPayment(ctx, model.PaymentSucceededEvent{OrderID: "ord_x", UserID: userID, Amount: 50000}))

	promo, err := svc.ApplyPromocode(ctx, orderID, "WELCOME10")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, promo.DiscountAmount)

	res, err := svc.Spend(ctx, userID, orderID, 200)
	require.NoError(t, err)
	assert.Equal(t, 300.0, res.NewBalance)
}

type failingBonusRepo struct {
	repository.BonusMemoryRepository
}

func (f *failingBonusRepo) Credit(ctx context.Context, userID uuid.UUID, amount float64) (float64, error) {
	return 0, errors.New("connection refused")
}

func TestAccrueFromPayment_RepositoryError(t *testing.T) {
	svc := NewBonusService(&failingBonusRepo{}, repository.NewPromocodeRegistry(), zap.NewNop())

	err := svc.AccrueFromPayment(context.Background(), model.PaymentSucceededEvent{OrderID: "ord_1", UserID: uuid.New(), Amount: 100})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ord_1")
}
