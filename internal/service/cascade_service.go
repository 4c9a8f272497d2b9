package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"go-catalog-api/internal/apperror"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/ws"
)

// CascadeResult is the outcome of a destructive call. ConfirmationRequired
// is a normal, non-mutating outcome, not a failure: it names the deals the
// cascade would take down so the caller can re-invoke with confirmed=true.
type CascadeResult struct {
	ConfirmationRequired bool        `json:"confirmation_required"`
	AffectedDealIDs      []uuid.UUID `json:"affected_deal_ids,omitempty"`
	DeletedAt            *time.Time  `json:"deleted_at,omitempty"`
	VariantsDeleted      int64       `json:"variants_deleted,omitempty"`
	DealsDeleted         int64       `json:"deals_deleted,omitempty"`
}

// CascadeService executes the soft-delete cascades. Every cascade stamps one
// timestamp across all affected rows inside one storage transaction.
type CascadeService interface {
	DeleteProduct(ctx context.Context, id uuid.UUID, confirmed bool) (*CascadeResult, error)
	DeleteVariant(ctx context.Context, id uuid.UUID, confirmed bool) (*CascadeResult, error)
	RemoveDealItem(ctx context.Context, dealID, productID uuid.UUID, variantID *uuid.UUID, confirmed bool) (*CascadeResult, error)
}

type cascadeService struct {
	products repository.ProductRepository
	variants repository.VariantRepository
	deals    repository.DealRepository
	cascades repository.CascadeRepository
	wsHub    *ws.Hub
	now      func() time.Time
}

func NewCascadeService(
	products repository.ProductRepository,
	variants repository.VariantRepository,
	deals repository.DealRepository,
	cascades repository.CascadeRepository,
	hub *ws.Hub,
) CascadeService {
	return &cascadeService{
		products: products,
		variants: variants,
		deals:    deals,
		cascades: cascades,
		wsHub:    hub,
		now:      time.Now,
	}
}

func (s *cascadeService) DeleteProduct(ctx context.Context, id uuid.UUID, confirmed bool) (*CascadeResult, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	affected, err := s.cascades.DealIDsReferencingProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !confirmed && len(affected) > 0 {
		return &CascadeResult{ConfirmationRequired: true, AffectedDealIDs: affected}, nil
	}

	at := s.now().UTC()
	outcome, err := s.cascades.SoftDeleteProductCascade(ctx, id, at)
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "product_deleted",
		Entity:  "Product",
		Message: fmt.Sprintf("product '%s' deleted with %d variant(s) and %d deal(s)", product.Name, outcome.VariantsDeleted, outcome.DealsDeleted),
		Data:    map[string]interface{}{"id": id, "deal_ids": outcome.DealIDs},
	})
	return &CascadeResult{
		AffectedDealIDs: outcome.DealIDs,
		DeletedAt:       &at,
		VariantsDeleted: outcome.VariantsDeleted,
		DealsDeleted:    outcome.DealsDeleted,
	}, nil
}

func (s *cascadeService) DeleteVariant(ctx context.Context, id uuid.UUID, confirmed bool) (*CascadeResult, error) {
	variant, err := s.variants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	affected, err := s.cascades.DealIDsReferencingVariant(ctx, id)
	if err != nil {
		return nil, err
	}
	if !confirmed && len(affected) > 0 {
		return &CascadeResult{ConfirmationRequired: true, AffectedDealIDs: affected}, nil
	}

	at := s.now().UTC()
	outcome, err := s.cascades.SoftDeleteVariantCascade(ctx, id, at)
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "variant_deleted",
		Entity:  "Variant",
		Message: fmt.Sprintf("variant '%s' deleted with %d deal(s)", variant.Label, outcome.DealsDeleted),
		Data:    map[string]interface{}{"id": id, "deal_ids": outcome.DealIDs},
	})
	return &CascadeResult{
		AffectedDealIDs: outcome.DealIDs,
		DeletedAt:       &at,
		DealsDeleted:    outcome.DealsDeleted,
	}, nil
}

// RemoveDealItem drops a single line from a deal. Removing the last live
// item leaves the deal empty, which is the inconsistent state the
// confirmation gate protects against.
func (s *cascadeService) RemoveDealItem(ctx context.Context, dealID, productID uuid.UUID, variantID *uuid.UUID, confirmed bool) (*CascadeResult, error) {
	deal, err := s.deals.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	live := deal.LiveItems()
	var itemID uuid.UUID
	found := false
	for _, it := range live {
		if it.ProductID != productID {
			continue
		}
		if (it.VariantID == nil) != (variantID == nil) {
			continue
		}
		if it.VariantID != nil && *it.VariantID != *variantID {
			continue
		}
		itemID = it.ID
		found = true
		break
	}
	if !found {
		return nil, apperror.NotFound("DealItem")
	}

	if !confirmed && len(live) == 1 {
		return &CascadeResult{ConfirmationRequired: true, AffectedDealIDs: []uuid.UUID{dealID}}, nil
	}

	at := s.now().UTC()
	if err := s.cascades.SoftDeleteDealItem(ctx, itemID, at); err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "deal_item_removed",
		Entity:  "DealItem",
		Message: fmt.Sprintf("item removed from deal '%s'", deal.Name),
		Data:    map[string]interface{}{"deal_id": dealID, "item_id": itemID},
	})
	return &CascadeResult{DeletedAt: &at}, nil
}
