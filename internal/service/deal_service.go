package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/pricing"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/ws"
	"go-catalog-api/pkg/validator"
)

type CreateDealInput struct {
	Name          string          `json:"name" validate:"required"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	StartDate     time.Time       `json:"start_date" validate:"required"`
	EndDate       *time.Time      `json:"end_date"`
	Items         []DealItemInput `json:"items" validate:"required,min=1,dive"`
}

type DealItemInput struct {
	ProductID uuid.UUID  `json:"product_id" validate:"uuid_required"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity" validate:"gt=0"`
}

type DealService interface {
	Create(ctx context.Context, input CreateDealInput, actor string) (*model.Deal, error)
	Update(ctx context.Context, id uuid.UUID, patch DealPatch, actor string) (*model.Deal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Deal, error)
	GetAll(ctx context.Context) ([]model.Deal, error)
}

type dealService struct {
	deals     repository.DealRepository
	validator *DealValidator
	wsHub     *ws.Hub
}

func NewDealService(deals repository.DealRepository, v *DealValidator, hub *ws.Hub) DealService {
	return &dealService{deals: deals, validator: v, wsHub: hub}
}

func (s *dealService) Create(ctx context.Context, input CreateDealInput, actor string) (*model.Deal, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	items := make([]pricing.LineItem, 0, len(input.Items))
	for _, it := range input.Items {
		items = append(items, pricing.LineItem{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
		})
	}

	draft := DealDraft{
		Name:          input.Name,
		Slug:          input.Slug,
		Description:   input.Description,
		PriceModifier: input.PriceModifier,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Items:         items,
	}
	if draft.Slug == "" {
		draft.Slug = slug.Make(draft.Name)
	}
	if err := s.validator.ValidateCreate(ctx, draft); err != nil {
		return nil, err
	}

	deal := &model.Deal{
		Name:          draft.Name,
		Slug:          draft.Slug,
		Description:   draft.Description,
		PriceModifier: draft.PriceModifier,
		StartDate:     draft.StartDate,
		EndDate:       draft.EndDate,
	}
	deal.CreatedBy = actor
	deal.UpdatedBy = actor
	for _, it := range input.Items {
		deal.Items = append(deal.Items, model.DealItem{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
		})
	}

	// The floor check runs again inside the write transaction so a price
	// change between validation and commit cannot slip a negative deal in.
	guard := func(src pricing.PriceSource) error {
		return CheckPriceFloor(ctx, src, items, draft.PriceModifier)
	}
	if err := s.deals.Create(ctx, deal, guard); err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "deal_created",
		Entity:  "Deal",
		Message: fmt.Sprintf("deal '%s' created", deal.Name),
		Data:    deal,
	})
	return deal, nil
}

func (s *dealService) Update(ctx context.Context, id uuid.UUID, patch DealPatch, actor string) (*model.Deal, error) {
	existing, err := s.deals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateUpdate(ctx, existing, patch); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		existing.Name = *patch.Name
	}
	if patch.Slug != nil {
		existing.Slug = *patch.Slug
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
	}
	if patch.StartDate != nil {
		existing.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		existing.EndDate = patch.EndDate
	}
	modifierPatched := patch.PriceModifier != nil
	if modifierPatched {
		existing.PriceModifier = *patch.PriceModifier
	}
	existing.UpdatedBy = actor

	var guard repository.DealGuard
	if modifierPatched {
		items := LineItemsOf(existing)
		modifier := existing.PriceModifier
		guard = func(src pricing.PriceSource) error {
			return CheckPriceFloor(ctx, src, items, modifier)
		}
	}
	if err := s.deals.Update(ctx, existing, guard); err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "deal_updated",
		Entity:  "Deal",
		Message: fmt.Sprintf("deal '%s' updated", existing.Name),
		Data:    existing,
	})
	return existing, nil
}

func (s *dealService) GetByID(ctx context.Context, id uuid.UUID) (*model.Deal, error) {
	return s.deals.FindByID(ctx, id)
}

func (s *dealService) GetAll(ctx context.Context) ([]model.Deal, error) {
	return s.deals.FindAll(ctx)
}
