package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-catalog-api/internal/apperror"
)

type fakeSource struct {
	products map[uuid.UUID]decimal.Decimal
	variants map[uuid.UUID]VariantPrice

	productCalls   int
	variantCalls   int
	lastProductIDs []uuid.UUID
}

func (f *fakeSource) ProductPrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	f.productCalls++
	f.lastProductIDs = ids
	out := make(map[uuid.UUID]decimal.Decimal, len(ids))
	for _, id := range ids {
		if price, ok := f.products[id]; ok {
			out[id] = price
		}
	}
	return out, nil
}

func (f *fakeSource) VariantPrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]VariantPrice, error) {
	f.variantCalls++
	out := make(map[uuid.UUID]VariantPrice, len(ids))
	for _, id := range ids {
		if v, ok := f.variants[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestComputeTotalExactFractionalSum(t *testing.T) {
	p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()
	src := &fakeSource{products: map[uuid.UUID]decimal.Decimal{
		p1: mustDecimal(t, "0.10"),
		p2: mustDecimal(t, "0.20"),
		p3: mustDecimal(t, "0.30"),
	}}

	total, err := NewCalculator(src).ComputeTotal(context.Background(), []LineItem{
		{ProductID: p1, Quantity: 1},
		{ProductID: p2, Quantity: 1},
		{ProductID: p3, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 0.10 + 0.20 + 0.30 must be exactly 0.60, no binary float drift.
	if !total.Equal(mustDecimal(t, "0.60")) {
		t.Errorf("total = %s, want 0.60", total)
	}
}

func TestComputeTotalWithVariantAndQuantity(t *testing.T) {
	productID, variantID := uuid.New(), uuid.New()
	src := &fakeSource{
		products: map[uuid.UUID]decimal.Decimal{productID: mustDecimal(t, "100")},
		variants: map[uuid.UUID]VariantPrice{
			variantID: {ProductID: productID, PriceModifier: mustDecimal(t, "10")},
		},
	}

	total, err := NewCalculator(src).ComputeTotal(context.Background(), []LineItem{
		{ProductID: productID, VariantID: &variantID, Quantity: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !total.Equal(mustDecimal(t, "220")) {
		t.Errorf("total = %s, want 220", total)
	}
}

func TestComputeTotalNegativeModifierBelowBase(t *testing.T) {
	productID, variantID := uuid.New(), uuid.New()
	src := &fakeSource{
		products: map[uuid.UUID]decimal.Decimal{productID: mustDecimal(t, "5.00")},
		variants: map[uuid.UUID]VariantPrice{
			variantID: {ProductID: productID, PriceModifier: mustDecimal(t, "-1.25")},
		},
	}

	total, err := NewCalculator(src).ComputeTotal(context.Background(), []LineItem{
		{ProductID: productID, VariantID: &variantID, Quantity: 4},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !total.Equal(mustDecimal(t, "15.00")) {
		t.Errorf("total = %s, want 15.00", total)
	}
}

func TestComputeTotalMissingProductFails(t *testing.T) {
	known, missing := uuid.New(), uuid.New()
	src := &fakeSource{products: map[uuid.UUID]decimal.Decimal{known: mustDecimal(t, "10")}}

	_, err := NewCalculator(src).ComputeTotal(context.Background(), []LineItem{
		{ProductID: known, Quantity: 1},
		{ProductID: missing, Quantity: 1},
	})
	if apperror.CodeOf(err) != apperror.CodeReferenceNotFound {
		t.Fatalf("err = %v, want ReferenceNotFound", err)
	}
}

func TestComputeTotalMissingVariantFails(t *testing.T) {
	productID, variantID := uuid.New(), uuid.New()
	src := &fakeSource{products: map[uuid.UUID]decimal.Decimal{productID: mustDecimal(t, "10")}}

	_, err := NewCalculator(src).ComputeTotal(context.Background(), []LineItem{
		{ProductID: productID, VariantID: &variantID, Quantity: 1},
	})
	if apperror.CodeOf(err) != apperror.CodeReferenceNotFound {
		t.Fatalf("err = %v, want ReferenceNotFound", err)
	}
}

func TestComputeTotalVariantOfOtherProductFails(t *testing.T) {
	productA, productB, variantID := uuid.New(), uuid.New(), uuid.New()
	src := &fakeSource{
		products: map[uuid.UUID]decimal.Decimal{
			productA: mustDecimal(t, "10"),
			productB: mustDecimal(t, "20"),
		},
		variants: map[uuid.UUID]VariantPrice{
			// Variant exists but belongs to product B.
			variantID: {ProductID: productB, PriceModifier: mustDecimal(t, "1")},
		},
	}

	_, err := NewCalculator(src).ComputeTotal(context.Background(), []LineItem{
		{ProductID: productA, VariantID: &variantID, Quantity: 1},
	})
	if apperror.CodeOf(err) != apperror.CodeReferenceNotFound {
		t.Fatalf("err = %v, want ReferenceNotFound", err)
	}
}

func TestComputeTotalBatchesLookups(t *testing.T) {
	productID, variantID := uuid.New(), uuid.New()
	src := &fakeSource{
		products: map[uuid.UUID]decimal.Decimal{productID: mustDecimal(t, "3")},
		variants: map[uuid.UUID]VariantPrice{
			variantID: {ProductID: productID, PriceModifier: mustDecimal(t, "1")},
		},
	}

	_, err := NewCalculator(src).ComputeTotal(context.Background(), []LineItem{
		{ProductID: productID, Quantity: 1},
		{ProductID: productID, VariantID: &variantID, Quantity: 2},
		{ProductID: productID, VariantID: &variantID, Quantity: 3},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.productCalls != 1 || src.variantCalls != 1 {
		t.Errorf("calls = %d product / %d variant, want 1 / 1", src.productCalls, src.variantCalls)
	}
	if len(src.lastProductIDs) != 1 {
		t.Errorf("product ids not deduplicated: %v", src.lastProductIDs)
	}
}

func TestComputeTotalEmptyItems(t *testing.T) {
	src := &fakeSource{}
	total, err := NewCalculator(src).ComputeTotal(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !total.IsZero() {
		t.Errorf("total = %s, want 0", total)
	}
	if src.productCalls != 0 {
		t.Errorf("expected no lookups for empty item list")
	}
}
