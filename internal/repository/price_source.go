package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/pricing"
	"go-catalog-api/internal/storeerr"
)

// GormPriceSource resolves prices with one batched query per id set. Soft
// deleted rows are excluded by the default scope, so a deleted product or
// variant is simply absent from the result map.
type GormPriceSource struct {
	db *gorm.DB
}

// NewPriceSource accepts either the root handle or a transaction, which is
// how deal writes re-validate the price floor inside their own transaction.
func NewPriceSource(db *gorm.DB) *GormPriceSource {
	return &GormPriceSource{db: db}
}

func (s *GormPriceSource) ProductPrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	prices := make(map[uuid.UUID]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}

	var rows []model.Product
	if err := s.db.WithContext(ctx).
		Select("id", "base_price").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, storeerr.TranslateError(err, "Product")
	}
	for _, row := range rows {
		prices[row.ID] = row.BasePrice
	}
	return prices, nil
}

func (s *GormPriceSource) VariantPrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]pricing.VariantPrice, error) {
	prices := make(map[uuid.UUID]pricing.VariantPrice, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}

	var rows []model.Variant
	if err := s.db.WithContext(ctx).
		Select("id", "product_id", "price_modifier").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, storeerr.TranslateError(err, "Variant")
	}
	for _, row := range rows {
		prices[row.ID] = pricing.VariantPrice{
			ProductID:     row.ProductID,
			PriceModifier: row.PriceModifier,
		}
	}
	return prices, nil
}
