// Package pricing computes deal totals against live product and variant
// prices. Money is decimal end to end; nothing here touches float64.
package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-catalog-api/internal/apperror"
)

// LineItem is one priced line of a deal: a product, an optional variant of
// that product, and a positive quantity (validated upstream).
type LineItem struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}

// VariantPrice carries the owning product so the calculator can refuse a
// variant referenced under the wrong product.
type VariantPrice struct {
	ProductID     uuid.UUID
	PriceModifier decimal.Decimal
}

// PriceSource resolves prices for a set of ids in one batched lookup each,
// excluding soft-deleted rows. The repository provides the live
// implementation; deal writes get a transaction-scoped one.
type PriceSource interface {
	ProductPrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	VariantPrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]VariantPrice, error)
}

type Calculator struct {
	src PriceSource
}

func NewCalculator(src PriceSource) *Calculator {
	return &Calculator{src: src}
}

// ComputeTotal sums (basePrice + variantModifier) * quantity over items.
// Any product or variant id that does not resolve to a live row fails the
// whole computation with ReferenceNotFound; a missing row never contributes
// zero to the sum.
func (c *Calculator) ComputeTotal(ctx context.Context, items []LineItem) (decimal.Decimal, error) {
	total := decimal.Zero
	if len(items) == 0 {
		return total, nil
	}

	productIDs := make([]uuid.UUID, 0, len(items))
	variantIDs := make([]uuid.UUID, 0, len(items))
	seenProducts := make(map[uuid.UUID]bool, len(items))
	seenVariants := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if !seenProducts[item.ProductID] {
			seenProducts[item.ProductID] = true
			productIDs = append(productIDs, item.ProductID)
		}
		if item.VariantID != nil && !seenVariants[*item.VariantID] {
			seenVariants[*item.VariantID] = true
			variantIDs = append(variantIDs, *item.VariantID)
		}
	}

	productPrices, err := c.src.ProductPrices(ctx, productIDs)
	if err != nil {
		return decimal.Zero, err
	}
	variantPrices := map[uuid.UUID]VariantPrice{}
	if len(variantIDs) > 0 {
		variantPrices, err = c.src.VariantPrices(ctx, variantIDs)
		if err != nil {
			return decimal.Zero, err
		}
	}

	for _, item := range items {
		basePrice, ok := productPrices[item.ProductID]
		if !ok {
			return decimal.Zero, apperror.ReferenceNotFound("product", item.ProductID)
		}
		unitPrice := basePrice
		if item.VariantID != nil {
			variant, ok := variantPrices[*item.VariantID]
			// A variant owned by a different product does not resolve either.
			if !ok || variant.ProductID != item.ProductID {
				return decimal.Zero, apperror.ReferenceNotFound("variant", *item.VariantID)
			}
			unitPrice = unitPrice.Add(variant.PriceModifier)
		}
		total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return total, nil
}
