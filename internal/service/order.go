package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/autoservice-system/internal/model"
	"github.com/mmeshcher/autoservice-system/internal/repository"
)

var allowedTransitions = map[model.OrderStatus]map[model.OrderStatus]bool{
	model.OrderStatusCreated: {
		model.OrderStatusInProgress: true,
	},
	model.OrderStatusInProgress: {
		model.OrderStatusWorkCompleted: true,
	},
	model.OrderStatusWorkCompleted: {
		model.OrderStatusCarIssued: true,
	},
	model.OrderStatusCarIssued: {},
}

// CanTransition сообщает, допустим ли переход заказа из статуса from в статус to.
func CanTransition(from, to model.OrderStatus) bool {
	return allowedTransitions[from][to]
}

// OrderRepository описывает хранилище заказов и отзывов.
type OrderRepository interface {
	CreateOrder(ctx context.Context, o model.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (model.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, fn func(o *model.Order) error) (model.Order, error)
	GetReviewByOrder(ctx context.Context, orderID uuid.UUID) (model.Review, bool, error)
	CreateReview(ctx context.Context, rv model.Review) error
}

// CarVerifier проверяет существование автомобиля во внешнем сервисе.
type CarVerifier interface {
	CarExists(ctx context.Context, carID string) (bool, error)
}

// OrderService содержит бизнес-логику заказов на обслуживание.
type OrderService struct {
	repo     OrderRepository
	verifier CarVerifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewOrderService создаёт сервис заказов.
func NewOrderService(repo OrderRepository, verifier CarVerifier, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		verifier: verifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrder создаёт заказ после проверки автомобиля. Ошибка или таймаут проверки
// трактуются как отсутствие автомобиля, заказ при этом не сохраняется.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, carID string, appointment time.Time, description string) (model.Order, error) {
	exists, err := s.verifier.CarExists(ctx, carID)
	if err != nil {
		s.logger.Warn("car verification failed", zap.Error(err), zap.String("car_id", carID))
		return model.Order{}, fmt.Errorf("%w: %s", ErrCarNotFound, carID)
	}
	if !exists {
		return model.Order{}, fmt.Errorf("%w: %s", ErrCarNotFound, carID)
	}

	o := model.Order{
		ID:              uuid.New(),
		UserID:          userID,
		CarID:           carID,
		AppointmentTime: appointment,
		Description:     description,
		Status:          model.OrderStatusCreated,
		CreatedAt:       s.now(),
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return model.Order{}, fmt.Errorf("create order: %w", err)
	}

	s.logger.Info("order created", zap.String("order_id", o.ID.String()), zap.String("car_id", carID))
	return o, nil
}

// GetOrder возвращает заказ по идентификатору.
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (model.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// UpdateStatus переводит заказ в новый статус по таблице переходов.
// При недопустимом переходе заказ не изменяется.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (model.Order, error) {
	var from model.OrderStatus

	o, err := s.repo.UpdateOrder(ctx, id, func(o *model.Order) error {
		from = o.Status
		if !CanTransition(o.Status, status) {
			return &TransitionError{From: o.Status, To: status}
		}
		o.Status = status
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	s.logger.Info("order status changed",
		zap.String("order_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(status)),
	)
	return o, nil
}

// AddReview публикует отзыв о заказе. На каждый заказ допускается один отзыв.
func (s *OrderService) AddReview(ctx context.Context, orderID uuid.UUID, rating int, comment string) (model.Review, error) {
	if rating < 1 || rating > 5 {
		return model.Review{}, ErrInvalidRating
	}

	if _, err := s.repo.GetOrder(ctx, orderID); err != nil {
		return model.Review{}, err
	}

	if _, exists, err := s.repo.GetReviewByOrder(ctx, orderID); err != nil {
		return model.Review{}, fmt.Errorf("get review: %w", err)
	} else if exists {
		return model.Review{}, fmt.Errorf("%w: %s", repository.ErrReviewExists, orderID)
	}

	rv := model.Review{
		ID:        uuid.New(),
		OrderID:   orderID,
		Rating:    rating,
		Comment:   comment,
		Status:    model.ReviewStatusPublished,
		CreatedAt: s.now(),
	}

	if err := s.repo.CreateReview(ctx, rv); err != nil {
		return model.Review{}, err
	}

	return rv, nil
}
