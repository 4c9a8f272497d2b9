package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deal bundles priced items under one slug with a signed price modifier and
// an optional validity window (EndDate nil = open-ended).
type Deal struct {
	BaseModel
	Name          string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_deals_name,where:deleted_at IS NULL" json:"name" validate:"required"`
	Slug          string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_deals_slug,where:deleted_at IS NULL" json:"slug"`
	Description   string          `gorm:"type:text" json:"description,omitempty"`
	PriceModifier decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0" json:"price_modifier"`
	StartDate     time.Time       `gorm:"not null;index" json:"start_date"`
	EndDate       *time.Time      `gorm:"index" json:"end_date,omitempty"`

	Items []DealItem `json:"items,omitempty"`
}

// DealItem references a product and optionally one of its variants. Within a
// live deal the (product, variant-or-default) pair is unique; the matching
// partial index is created with COALESCE over variant_id in the migration
// step since NULLs never collide on their own.
type DealItem struct {
	BaseModel
	DealID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"deal_id"`
	ProductID uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	VariantID *uuid.UUID `gorm:"type:uuid;index" json:"variant_id,omitempty"`
	Quantity  int        `gorm:"not null" json:"quantity" validate:"gt=0"`

	Deal    *Deal    `gorm:"foreignKey:DealID" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Variant *Variant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}

// LiveItems filters out soft-deleted items when the deal was loaded with an
// unscoped preload.
func (d *Deal) LiveItems() []DealItem {
	items := make([]DealItem, 0, len(d.Items))
	for _, it := range d.Items {
		if !it.DeletedAt.Valid {
			items = append(items, it)
		}
	}
	return items
}
