package model

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null;uniqueIndex:idx_categories_name,where:deleted_at IS NULL" json:"name" validate:"required"`
	Slug        string `gorm:"type:varchar(255);not null;uniqueIndex:idx_categories_slug,where:deleted_at IS NULL" json:"slug"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	Products []Product `gorm:"many2many:category_products;" json:"products,omitempty"`
}

// CategoryProduct is the join row behind the many2many association. Declared
// explicitly so the (product, category) pair gets its own unique index and a
// stable table for the constraint translator to name.
type CategoryProduct struct {
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey;uniqueIndex:idx_category_products_pair" json:"product_id"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey;uniqueIndex:idx_category_products_pair" json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (CategoryProduct) TableName() string {
	return "category_products"
}
