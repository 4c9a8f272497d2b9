package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/ws"
	"go-catalog-api/pkg/validator"
)

type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type UpdateCategoryInput struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
}

type CategoryService interface {
	Create(ctx context.Context, input CreateCategoryInput, actor string) (*model.Category, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput, actor string) (*model.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	GetAll(ctx context.Context) ([]model.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AttachProduct(ctx context.Context, categoryID, productID uuid.UUID) error
	DetachProduct(ctx context.Context, categoryID, productID uuid.UUID) error
}

type categoryService struct {
	categories repository.CategoryRepository
	wsHub      *ws.Hub
}

func NewCategoryService(categories repository.CategoryRepository, hub *ws.Hub) CategoryService {
	return &categoryService{categories: categories, wsHub: hub}
}

func (s *categoryService) Create(ctx context.Context, input CreateCategoryInput, actor string) (*model.Category, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	category := &model.Category{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
	}
	if category.Slug == "" {
		category.Slug = slug.Make(category.Name)
	}
	category.CreatedBy = actor
	category.UpdatedBy = actor

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "category_created",
		Entity:  "Category",
		Message: fmt.Sprintf("category '%s' created", category.Name),
		Data:    category,
	})
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput, actor string) (*model.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Slug != nil {
		category.Slug = *input.Slug
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	category.UpdatedBy = actor

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "category_updated",
		Entity:  "Category",
		Message: fmt.Sprintf("category '%s' updated", category.Name),
		Data:    category,
	})
	return category, nil
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *categoryService) GetAll(ctx context.Context) ([]model.Category, error) {
	return s.categories.FindAll(ctx)
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.categories.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.wsHub.Publish(ws.Event{
		Type:   "category_deleted",
		Entity: "Category",
		Data:   map[string]interface{}{"id": id},
	})
	return nil
}

func (s *categoryService) AttachProduct(ctx context.Context, categoryID, productID uuid.UUID) error {
	return s.categories.AttachProduct(ctx, categoryID, productID)
}

func (s *categoryService) DetachProduct(ctx context.Context, categoryID, productID uuid.UUID) error {
	return s.categories.DetachProduct(ctx, categoryID, productID)
}
