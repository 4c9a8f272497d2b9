package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/storeerr"
)

// CascadeOutcome reports what one cascade transaction stamped.
type CascadeOutcome struct {
	DealIDs         []uuid.UUID
	VariantsDeleted int64
	DealsDeleted    int64
}

// CascadeRepository owns the destructive soft-delete flows. Each cascade is
// one explicit transaction-scoped function: a single timestamp is written to
// every affected row, and either every write commits or none do.
type CascadeRepository interface {
	DealIDsReferencingProduct(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error)
	DealIDsReferencingVariant(ctx context.Context, variantID uuid.UUID) ([]uuid.UUID, error)
	SoftDeleteProductCascade(ctx context.Context, productID uuid.UUID, at time.Time) (*CascadeOutcome, error)
	SoftDeleteVariantCascade(ctx context.Context, variantID uuid.UUID, at time.Time) (*CascadeOutcome, error)
	SoftDeleteDealItem(ctx context.Context, itemID uuid.UUID, at time.Time) error
}

type cascadeRepo struct {
	db *gorm.DB
}

func NewCascadeRepo(db *gorm.DB) CascadeRepository {
	return &cascadeRepo{db: db}
}

func (r *cascadeRepo) DealIDsReferencingProduct(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := liveDealIDs(r.db.WithContext(ctx), "deal_items.product_id = ?", productID)
	return ids, storeerr.TranslateError(err, "Deal")
}

func (r *cascadeRepo) DealIDsReferencingVariant(ctx context.Context, variantID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := liveDealIDs(r.db.WithContext(ctx), "deal_items.variant_id = ?", variantID)
	return ids, storeerr.TranslateError(err, "Deal")
}

// liveDealIDs resolves the distinct live deals that have a live item
// matching cond. Runs against the root handle for the confirmation gate and
// against the transaction when re-derived inside a cascade.
func liveDealIDs(db *gorm.DB, cond string, arg interface{}) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.Model(&model.DealItem{}).
		Distinct("deal_items.deal_id").
		Joins("JOIN deals ON deals.id = deal_items.deal_id AND deals.deleted_at IS NULL").
		Where(cond, arg).
		Pluck("deal_items.deal_id", &ids).Error
	return ids, err
}

func (r *cascadeRepo) SoftDeleteProductCascade(ctx context.Context, productID uuid.UUID, at time.Time) (*CascadeOutcome, error) {
	outcome := &CascadeOutcome{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.Select("id").First(&product, "id = ?", productID).Error; err != nil {
			return err
		}

		// Affected deals are re-derived inside the transaction; the gate's
		// earlier read is advisory only.
		dealIDs, err := liveDealIDs(tx, "deal_items.product_id = ?", productID)
		if err != nil {
			return err
		}
		outcome.DealIDs = dealIDs

		stamp := map[string]interface{}{"deleted_at": at}

		res := tx.Model(&model.Variant{}).Where("product_id = ?", productID).Updates(stamp)
		if res.Error != nil {
			return res.Error
		}
		outcome.VariantsDeleted = res.RowsAffected

		if len(dealIDs) > 0 {
			res = tx.Model(&model.Deal{}).Where("id IN ?", dealIDs).Updates(stamp)
			if res.Error != nil {
				return res.Error
			}
			outcome.DealsDeleted = res.RowsAffected
		}

		return tx.Model(&model.Product{}).Where("id = ?", productID).Updates(stamp).Error
	})
	if err != nil {
		return nil, storeerr.TranslateError(err, "Product")
	}
	return outcome, nil
}

func (r *cascadeRepo) SoftDeleteVariantCascade(ctx context.Context, variantID uuid.UUID, at time.Time) (*CascadeOutcome, error) {
	outcome := &CascadeOutcome{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var variant model.Variant
		if err := tx.Select("id").First(&variant, "id = ?", variantID).Error; err != nil {
			return err
		}

		dealIDs, err := liveDealIDs(tx, "deal_items.variant_id = ?", variantID)
		if err != nil {
			return err
		}
		outcome.DealIDs = dealIDs

		stamp := map[string]interface{}{"deleted_at": at}

		if len(dealIDs) > 0 {
			res := tx.Model(&model.Deal{}).Where("id IN ?", dealIDs).Updates(stamp)
			if res.Error != nil {
				return res.Error
			}
			outcome.DealsDeleted = res.RowsAffected
		}

		return tx.Model(&model.Variant{}).Where("id = ?", variantID).Updates(stamp).Error
	})
	if err != nil {
		return nil, storeerr.TranslateError(err, "Variant")
	}
	return outcome, nil
}

func (r *cascadeRepo) SoftDeleteDealItem(ctx context.Context, itemID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.DealItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{"deleted_at": at})
	if res.Error != nil {
		return storeerr.TranslateError(res.Error, "DealItem")
	}
	if res.RowsAffected == 0 {
		return storeerr.TranslateError(gorm.ErrRecordNotFound, "DealItem")
	}
	return nil
}
