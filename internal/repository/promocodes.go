package repository

import (
	"context"

	"github.com/mmeshcher/autoservice-system/internal/model"
)

var defaultPromocodes = []model.Promocode{
	{Code: "SUMMER24", DiscountAmount: 500.00, Active: true},
	{Code: "WELCOME10", DiscountAmount: 1000.00, Active: true},
	{Code: "EXPIRED23", DiscountAmount: 300.00, Active: false},
}

// PromocodeRegistry хранит справочник промокодов. Справочник только для чтения.
type PromocodeRegistry struct {
	codes map[string]model.Promocode
}

// NewPromocodeRegistry создаёт справочник из переданных промокодов, без аргументов используется набор по умолчанию.
func NewPromocodeRegistry(codes ...model.Promocode) *PromocodeRegistry {
	if len(codes) == 0 {
		codes = defaultPromocodes
	}

	r := &PromocodeRegistry{codes: make(map[string]model.Promocode, len(codes))}
	for _, c := range codes {
		r.codes[c.Code] = c
	}
	return r
}

// FindActive ищет активный промокод с точным совпадением кода (с учётом регистра).
func (r *PromocodeRegistry) FindActive(_ context.Context, code string) (model.Promocode, bool) {
	p, ok := r.codes[code]
	if !ok || !p.Active {
		return model.Promocode{}, false
	}
	return p, true
}
