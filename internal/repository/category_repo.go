package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/storeerr"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	FindAll(ctx context.Context) ([]model.Category, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	AttachProduct(ctx context.Context, categoryID, productID uuid.UUID) error
	DetachProduct(ctx context.Context, categoryID, productID uuid.UUID) error
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) error {
	return storeerr.TranslateError(r.db.WithContext(ctx).Create(category).Error, "Category")
}

func (r *categoryRepo) Update(ctx context.Context, category *model.Category) error {
	return storeerr.TranslateError(r.db.WithContext(ctx).Save(category).Error, "Category")
}

func (r *categoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).
		Preload("Products").
		First(&category, "id = ?", id).Error; err != nil {
		return nil, storeerr.TranslateError(err, "Category")
	}
	return &category, nil
}

func (r *categoryRepo) FindAll(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, storeerr.TranslateError(err, "Category")
	}
	return categories, nil
}

// SoftDelete marks the category itself; product associations stay in the
// join table and are invisible through the deleted category.
func (r *categoryRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Category{}, "id = ?", id)
	if res.Error != nil {
		return storeerr.TranslateError(res.Error, "Category")
	}
	if res.RowsAffected == 0 {
		return storeerr.TranslateError(gorm.ErrRecordNotFound, "Category")
	}
	return nil
}

func (r *categoryRepo) AttachProduct(ctx context.Context, categoryID, productID uuid.UUID) error {
	join := model.CategoryProduct{ProductID: productID, CategoryID: categoryID}
	return storeerr.TranslateError(r.db.WithContext(ctx).Create(&join).Error, "CategoryProduct")
}

func (r *categoryRepo) DetachProduct(ctx context.Context, categoryID, productID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("category_id = ? AND product_id = ?", categoryID, productID).
		Delete(&model.CategoryProduct{})
	if res.Error != nil {
		return storeerr.TranslateError(res.Error, "CategoryProduct")
	}
	if res.RowsAffected == 0 {
		return storeerr.TranslateError(gorm.ErrRecordNotFound, "CategoryProduct")
	}
	return nil
}
