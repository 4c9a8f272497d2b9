package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/pricing"
	"go-catalog-api/internal/storeerr"
)

// DealGuard runs inside the write transaction with a transaction-scoped
// price source. Deal writes re-validate the price floor through it right
// before commit, closing the read-then-write race on concurrent price
// changes.
type DealGuard func(src pricing.PriceSource) error

type DealRepository interface {
	Create(ctx context.Context, deal *model.Deal, guard DealGuard) error
	Update(ctx context.Context, deal *model.Deal, guard DealGuard) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Deal, error)
	FindBySlug(ctx context.Context, slug string) (*model.Deal, error)
	FindAll(ctx context.Context) ([]model.Deal, error)
}

type dealRepo struct {
	db *gorm.DB
}

func NewDealRepo(db *gorm.DB) DealRepository {
	return &dealRepo{db: db}
}

func (r *dealRepo) Create(ctx context.Context, deal *model.Deal, guard DealGuard) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if guard != nil {
			if err := guard(NewPriceSource(tx)); err != nil {
				return err
			}
		}
		return tx.Create(deal).Error
	})
	return storeerr.TranslateError(err, "Deal")
}

// Update persists the deal's own fields only; items are never mutated
// through this path.
func (r *dealRepo) Update(ctx context.Context, deal *model.Deal, guard DealGuard) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if guard != nil {
			if err := guard(NewPriceSource(tx)); err != nil {
				return err
			}
		}
		return tx.Omit(clause.Associations).Save(deal).Error
	})
	return storeerr.TranslateError(err, "Deal")
}

func (r *dealRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Deal, error) {
	var deal model.Deal
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&deal, "id = ?", id).Error; err != nil {
		return nil, storeerr.TranslateError(err, "Deal")
	}
	return &deal, nil
}

func (r *dealRepo) FindBySlug(ctx context.Context, slug string) (*model.Deal, error) {
	var deal model.Deal
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&deal, "slug = ?", slug).Error; err != nil {
		return nil, storeerr.TranslateError(err, "Deal")
	}
	return &deal, nil
}

func (r *dealRepo) FindAll(ctx context.Context) ([]model.Deal, error) {
	var deals []model.Deal
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Order("start_date desc").
		Find(&deals).Error; err != nil {
		return nil, storeerr.TranslateError(err, "Deal")
	}
	return deals, nil
}
