package repository

import (
	"context"

	"github.com/mmeshcher/autoservice-system/internal/model"
)

var defaultCatalog = []model.CatalogItem{
	{ID: "svc_oil_change", Name: "Замена масла", Price: 2500.00, Type: model.ItemTypeService},
	{ID: "prod_oil_filter", Name: "Масляный фильтр", Price: 1000.00, Type: model.ItemTypeProduct},
	{ID: "svc_diagnostics", Name: "Диагностика", Price: 1500.00, Type: model.ItemTypeService},
}

// StaticCatalog предоставляет неизменяемый каталог услуг и товаров.
type StaticCatalog struct {
	items map[string]model.CatalogItem
}

// NewStaticCatalog создаёт каталог из переданных позиций, без аргументов используется каталог по умолчанию.
func NewStaticCatalog(items ...model.CatalogItem) *StaticCatalog {
	if len(items) == 0 {
		items = defaultCatalog
	}

	c := &StaticCatalog{items: make(map[string]model.CatalogItem, len(items))}
	for _, it := range items {
		c.items[it.ID] = it
	}
	return c
}

// Lookup возвращает позицию каталога по идентификатору.
func (c *StaticCatalog) Lookup(_ context.Context, itemID string) (model.CatalogItem, bool) {
	it, ok := c.items[itemID]
	return it, ok
}
