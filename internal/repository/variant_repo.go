package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/storeerr"
)

type VariantRepository interface {
	Create(ctx context.Context, variant *model.Variant) error
	Update(ctx context.Context, variant *model.Variant) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Variant, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.Variant, error)
}

type variantRepo struct {
	db *gorm.DB
}

func NewVariantRepo(db *gorm.DB) VariantRepository {
	return &variantRepo{db: db}
}

func (r *variantRepo) Create(ctx context.Context, variant *model.Variant) error {
	return storeerr.TranslateError(r.db.WithContext(ctx).Create(variant).Error, "Variant")
}

func (r *variantRepo) Update(ctx context.Context, variant *model.Variant) error {
	return storeerr.TranslateError(r.db.WithContext(ctx).Save(variant).Error, "Variant")
}

func (r *variantRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Variant, error) {
	var variant model.Variant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		return nil, storeerr.TranslateError(err, "Variant")
	}
	return &variant, nil
}

func (r *variantRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.Variant, error) {
	var variants []model.Variant
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at asc").
		Find(&variants).Error; err != nil {
		return nil, storeerr.TranslateError(err, "Variant")
	}
	return variants, nil
}
