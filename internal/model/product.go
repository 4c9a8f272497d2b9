package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name        string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_products_name,where:deleted_at IS NULL" json:"name" validate:"required"`
	SKU         string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_products_sku,where:deleted_at IS NULL" json:"sku" validate:"required"`
	Slug        string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_products_slug,where:deleted_at IS NULL" json:"slug"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"base_price" validate:"decimal_nonneg"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	ImageURL    string          `gorm:"type:varchar(255)" json:"image_url,omitempty"`

	Variants   []Variant  `json:"variants,omitempty"`
	Categories []Category `gorm:"many2many:category_products;" json:"categories,omitempty"`
}

// Variant belongs to exactly one product. Its label is unique per live
// product, and the modifier is signed: it is added on top of the product's
// base price when a deal line references the variant.
type Variant struct {
	BaseModel
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_variants_product_label,where:deleted_at IS NULL" json:"product_id" validate:"uuid_required"`
	Label         string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_variants_product_label,where:deleted_at IS NULL" json:"label" validate:"required"`
	PriceModifier decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0" json:"price_modifier"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
