package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"go-catalog-api/internal/apperror"
	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/ws"
	"go-catalog-api/pkg/validator"
)

type CreateProductInput struct {
	Name        string          `json:"name" validate:"required"`
	SKU         string          `json:"sku" validate:"required"`
	Slug        string          `json:"slug"`
	BasePrice   decimal.Decimal `json:"base_price" validate:"decimal_nonneg"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
}

type UpdateProductInput struct {
	Name        *string          `json:"name,omitempty"`
	SKU         *string          `json:"sku,omitempty"`
	Slug        *string          `json:"slug,omitempty"`
	BasePrice   *decimal.Decimal `json:"base_price,omitempty"`
	Description *string          `json:"description,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
}

type CreateVariantInput struct {
	Label         string          `json:"label" validate:"required"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
}

type UpdateVariantInput struct {
	Label         *string          `json:"label,omitempty"`
	PriceModifier *decimal.Decimal `json:"price_modifier,omitempty"`
}

type CatalogService interface {
	CreateProduct(ctx context.Context, input CreateProductInput, actor string) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput, actor string) (*model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetProducts(ctx context.Context) ([]model.Product, error)
	CreateVariant(ctx context.Context, productID uuid.UUID, input CreateVariantInput, actor string) (*model.Variant, error)
	UpdateVariant(ctx context.Context, id uuid.UUID, input UpdateVariantInput, actor string) (*model.Variant, error)
	GetVariants(ctx context.Context, productID uuid.UUID) ([]model.Variant, error)
}

type catalogService struct {
	products repository.ProductRepository
	variants repository.VariantRepository
	wsHub    *ws.Hub
}

func NewCatalogService(products repository.ProductRepository, variants repository.VariantRepository, hub *ws.Hub) CatalogService {
	return &catalogService{products: products, variants: variants, wsHub: hub}
}

func firstValidationError(errs []*validator.ErrorResponse) error {
	first := errs[0]
	return apperror.Newf(apperror.CodeBadRequest,
		"validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
}

func (s *catalogService) CreateProduct(ctx context.Context, input CreateProductInput, actor string) (*model.Product, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	product := &model.Product{
		Name:        input.Name,
		SKU:         input.SKU,
		Slug:        input.Slug,
		BasePrice:   input.BasePrice,
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}
	if product.Slug == "" {
		product.Slug = slug.Make(product.Name)
	}
	product.CreatedBy = actor
	product.UpdatedBy = actor

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "product_created",
		Entity:  "Product",
		Message: fmt.Sprintf("product '%s' created", product.Name),
		Data:    product,
	})
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput, actor string) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.SKU != nil {
		product.SKU = *input.SKU
	}
	if input.Slug != nil {
		product.Slug = *input.Slug
	}
	if input.BasePrice != nil {
		if input.BasePrice.IsNegative() {
			return nil, apperror.New(apperror.CodeBadRequest, "base price must not be negative")
		}
		product.BasePrice = *input.BasePrice
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	product.UpdatedBy = actor

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "product_updated",
		Entity:  "Product",
		Message: fmt.Sprintf("product '%s' updated", product.Name),
		Data:    product,
	})
	return product, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *catalogService) GetProducts(ctx context.Context) ([]model.Product, error) {
	return s.products.FindAll(ctx)
}

func (s *catalogService) CreateVariant(ctx context.Context, productID uuid.UUID, input CreateVariantInput, actor string) (*model.Variant, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	// Resolve the owner first so a bad product id reads as NotFound rather
	// than a foreign key violation.
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	variant := &model.Variant{
		ProductID:     productID,
		Label:         input.Label,
		PriceModifier: input.PriceModifier,
	}
	variant.CreatedBy = actor
	variant.UpdatedBy = actor

	if err := s.variants.Create(ctx, variant); err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "variant_created",
		Entity:  "Variant",
		Message: fmt.Sprintf("variant '%s' created", variant.Label),
		Data:    variant,
	})
	return variant, nil
}

func (s *catalogService) UpdateVariant(ctx context.Context, id uuid.UUID, input UpdateVariantInput, actor string) (*model.Variant, error) {
	variant, err := s.variants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Label != nil {
		variant.Label = *input.Label
	}
	if input.PriceModifier != nil {
		variant.PriceModifier = *input.PriceModifier
	}
	variant.UpdatedBy = actor

	if err := s.variants.Update(ctx, variant); err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "variant_updated",
		Entity:  "Variant",
		Message: fmt.Sprintf("variant '%s' updated", variant.Label),
		Data:    variant,
	})
	return variant, nil
}

func (s *catalogService) GetVariants(ctx context.Context, productID uuid.UUID) ([]model.Variant, error) {
	return s.variants.FindByProduct(ctx, productID)
}
