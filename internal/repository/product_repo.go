package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/storeerr"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	FindAll(ctx context.Context) ([]model.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return storeerr.TranslateError(r.db.WithContext(ctx).Create(product).Error, "Product")
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return storeerr.TranslateError(r.db.WithContext(ctx).Save(product).Error, "Product")
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Categories").
		First(&product, "id = ?", id).Error; err != nil {
		return nil, storeerr.TranslateError(err, "Product")
	}
	return &product, nil
}

func (r *productRepo) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Categories").
		First(&product, "slug = ?", slug).Error; err != nil {
		return nil, storeerr.TranslateError(err, "Product")
	}
	return &product, nil
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Order("name asc").
		Find(&products).Error; err != nil {
		return nil, storeerr.TranslateError(err, "Product")
	}
	return products, nil
}
