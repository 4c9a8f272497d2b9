package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"go-catalog-api/internal/apperror"
	"go-catalog-api/internal/model"
	"go-catalog-api/internal/pricing"
)

// DealDraft is the validator's view of a deal about to be created.
type DealDraft struct {
	Name          string
	Slug          string
	Description   string
	PriceModifier decimal.Decimal
	StartDate     time.Time
	EndDate       *time.Time
	Items         []pricing.LineItem
}

// DealPatch carries only the fields an update supplies; nil means the
// existing value is kept. Validation always runs against the merged view.
type DealPatch struct {
	Name          *string          `json:"name,omitempty"`
	Slug          *string          `json:"slug,omitempty"`
	Description   *string          `json:"description,omitempty"`
	PriceModifier *decimal.Decimal `json:"price_modifier,omitempty"`
	StartDate     *time.Time       `json:"start_date,omitempty"`
	EndDate       *time.Time       `json:"end_date,omitempty"`
}

// DealValidator is the pure gate evaluated before every mutating deal write.
// Nothing it decides is ever stored.
type DealValidator struct {
	src pricing.PriceSource
}

func NewDealValidator(src pricing.PriceSource) *DealValidator {
	return &DealValidator{src: src}
}

func (v *DealValidator) ValidateCreate(ctx context.Context, draft DealDraft) error {
	if err := checkDuplicateItems(draft.Items); err != nil {
		return err
	}
	if err := checkDateRange(draft.StartDate, draft.EndDate); err != nil {
		return err
	}
	return CheckPriceFloor(ctx, v.src, draft.Items, draft.PriceModifier)
}

// ValidateUpdate checks only the supplied fields against the merged view:
// a patched start date is compared to the existing end date (and vice
// versa), and a patched modifier re-runs the floor check over the existing
// items, which are not mutated through this path.
func (v *DealValidator) ValidateUpdate(ctx context.Context, existing *model.Deal, patch DealPatch) error {
	if patch.StartDate != nil || patch.EndDate != nil {
		start := existing.StartDate
		if patch.StartDate != nil {
			start = *patch.StartDate
		}
		end := existing.EndDate
		if patch.EndDate != nil {
			end = patch.EndDate
		}
		if err := checkDateRange(start, end); err != nil {
			return err
		}
	}
	if patch.PriceModifier != nil {
		return CheckPriceFloor(ctx, v.src, LineItemsOf(existing), *patch.PriceModifier)
	}
	return nil
}

// CheckPriceFloor recomputes the effective total and rejects anything below
// zero; exactly zero passes. Exported separately so deal writes can re-run
// it inside their own transaction via a transaction-scoped source.
func CheckPriceFloor(ctx context.Context, src pricing.PriceSource, items []pricing.LineItem, modifier decimal.Decimal) error {
	total, err := pricing.NewCalculator(src).ComputeTotal(ctx, items)
	if err != nil {
		return err
	}
	if total.Add(modifier).IsNegative() {
		return apperror.Newf(apperror.CodePriceFloorViolation,
			"deal effective total %s is below zero", total.Add(modifier))
	}
	return nil
}

// LineItemsOf converts a deal's live items into pricing line items.
func LineItemsOf(deal *model.Deal) []pricing.LineItem {
	live := deal.LiveItems()
	items := make([]pricing.LineItem, 0, len(live))
	for _, it := range live {
		items = append(items, pricing.LineItem{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
		})
	}
	return items
}

func checkDuplicateItems(items []pricing.LineItem) error {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		key := item.ProductID.String() + "/default"
		if item.VariantID != nil {
			key = item.ProductID.String() + "/" + item.VariantID.String()
		}
		if seen[key] {
			return apperror.Newf(apperror.CodeDuplicateItem,
				"duplicate deal item for product %s", item.ProductID)
		}
		seen[key] = true
	}
	return nil
}

func checkDateRange(start time.Time, end *time.Time) error {
	if end != nil && !start.Before(*end) {
		return apperror.New(apperror.CodeInvalidDateRange, "start date must be before end date")
	}
	return nil
}
