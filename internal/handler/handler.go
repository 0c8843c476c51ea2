// Package handler содержит HTTP-обработчики API сервисов автосервиса.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/autoservice-system/internal/model"
	"github.com/mmeshcher/autoservice-system/internal/repository"
	"github.com/mmeshcher/autoservice-system/internal/service"
	"github.com/mmeshcher/autoservice-system/internal/validation"
)

const maxBodySize = 1 << 20

type errorResponse struct {
	Detail string `json:"detail"`
}

// errorMapping сопоставляет доменную ошибку со статусом ответа и текстом для клиента.
// subject это идентификатор, к которому относится запрос.
type errorMapping struct {
	target error
	status int
	detail func(subject string, err error) string
}

func fixed(msg string) func(string, error) string {
	return func(string, error) string { return msg }
}

var errorMappings = []errorMapping{
	{repository.ErrOrderNotFound, http.StatusNotFound, fixed("Order not found")},
	{repository.ErrPaymentNotFound, http.StatusNotFound, func(id string, _ error) string {
		return fmt.Sprintf("Payment %s not found", id)
	}},
	{repository.ErrCartItemNotFound, http.StatusNotFound, func(id string, _ error) string {
		return fmt.Sprintf("Item '%s' not found in cart", id)
	}},
	{service.ErrCatalogItemNotFound, http.StatusNotFound, func(id string, _ error) string {
		return fmt.Sprintf("Item '%s' not found in catalog", id)
	}},
	{service.ErrCarNotFound, http.StatusNotFound, fixed("Car not found")},
	{service.ErrPromocodeInvalid, http.StatusNotFound, fixed("Promocode is invalid or inactive")},
	{service.ErrItemTypeMismatch, http.StatusBadRequest, func(id string, _ error) string {
		return fmt.Sprintf("Item type mismatch for '%s'", id)
	}},
	{repository.ErrInsufficientBalance, http.StatusBadRequest, func(_ string, err error) string {
		var ibe *repository.InsufficientBalanceError
		if errors.As(err, &ibe) {
			return fmt.Sprintf("Insufficient bonuses: balance %.2f, requested %.2f", ibe.Balance, ibe.Requested)
		}
		return "Insufficient bonuses on balance"
	}},
	{service.ErrInvalidAmount, http.StatusBadRequest, fixed("Amount must be between 0.01 and 1000000000")},
	{repository.ErrAmountOutOfRange, http.StatusBadRequest, fixed("Amount is out of range")},
	{service.ErrInvalidQuantity, http.StatusBadRequest, fixed("Quantity must be between 1 and 1000")},
	{repository.ErrQuantityLimit, http.StatusBadRequest, func(id string, _ error) string {
		return fmt.Sprintf("Quantity of '%s' in cart cannot exceed %d", id, model.MaxLineQuantity)
	}},
	{service.ErrInvalidRating, http.StatusBadRequest, fixed("Rating must be between 1 and 5")},
	{service.ErrInvalidStatusTransition, http.StatusBadRequest, func(_ string, err error) string {
		var te *service.TransitionError
		if errors.As(err, &te) {
			return fmt.Sprintf("Invalid status transition from %s to %s", te.From, te.To)
		}
		return "Invalid status transition"
	}},
	{repository.ErrReviewExists, http.StatusConflict, fixed("Review for this order already exists")},
	{repository.ErrOrderAlreadyPaid, http.StatusConflict, func(id string, _ error) string {
		return fmt.Sprintf("Order %s is already paid", id)
	}},
}

// statusFor возвращает код ответа и текст ошибки. Для неизвестных ошибок возвращается 500.
func statusFor(err error, subject string) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.detail(subject, err)
		}
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeServiceError отвечает клиенту по таблице ошибок, непредвиденные ошибки журналируются.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, op string, err error, subject string) {
	status, detail := statusFor(err, subject)
	if status == http.StatusInternalServerError {
		logger.Error(op+" error", zap.Error(err), zap.String("subject", subject))
	}
	writeError(w, status, detail)
}

// decodeJSON читает тело запроса в dst и проверяет его по тегам validate.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := validation.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}
