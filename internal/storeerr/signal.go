// Package storeerr is the single place that understands storage-engine error
// shapes. Repositories convert every write failure into a ConstraintSignal
// and translate it into the domain taxonomy before the error leaves the
// storage layer; no other component sees a raw driver error.
package storeerr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Kind int

const (
	KindOther Kind = iota
	KindUnique
	KindForeignKey
	KindNotFound
	KindRelationNotFound
)

// Postgres SQLSTATE classes the adapter cares about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgUndefinedTable      = "42P01"
)

// ConstraintSignal is the structured form of a storage failure: the kind of
// violation, the entity the operation targeted, and whatever the driver knows
// about the violated constraint. It is built directly from the driver error,
// never by re-parsing serialized error text.
type ConstraintSignal struct {
	Kind       Kind
	Entity     string
	Field      string
	Constraint string
}

// SignalFrom inspects a storage error and produces the matching signal.
// Returns ok=false for a nil error.
func SignalFrom(err error, entity string) (ConstraintSignal, bool) {
	if err == nil {
		return ConstraintSignal{}, false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ConstraintSignal{
				Kind:       KindUnique,
				Entity:     entity,
				Field:      fieldForUniqueConstraint(pgErr.ConstraintName),
				Constraint: pgErr.ConstraintName,
			}, true
		case pgForeignKeyViolation:
			return ConstraintSignal{
				Kind:       KindForeignKey,
				Entity:     entity,
				Constraint: pgErr.ConstraintName,
			}, true
		case pgUndefinedTable:
			return ConstraintSignal{Kind: KindRelationNotFound, Entity: entity}, true
		}
	}

	// Second layer: gorm's own sentinels, which carry no constraint
	// metadata. ErrRecordNotFound is raised by gorm itself on First().
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ConstraintSignal{Kind: KindUnique, Entity: entity}, true
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ConstraintSignal{Kind: KindForeignKey, Entity: entity}, true
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ConstraintSignal{Kind: KindNotFound, Entity: entity}, true
	}

	return ConstraintSignal{Kind: KindOther, Entity: entity}, true
}

// uniqueConstraintFields maps the partial unique indexes declared on the
// models to the field an admin actually sent.
var uniqueConstraintFields = map[string]string{
	"idx_products_name":          "name",
	"idx_products_sku":           "sku",
	"idx_products_slug":          "slug",
	"idx_variants_product_label": "label",
	"idx_categories_name":        "name",
	"idx_categories_slug":        "slug",
	"idx_deals_name":             "name",
	"idx_deals_slug":             "slug",
	"idx_deal_items_line":        "item",
	"idx_category_products_pair": "product",
	"category_products_pkey":     "product",
	"idx_users_email":            "email",
}

func fieldForUniqueConstraint(name string) string {
	if field, ok := uniqueConstraintFields[name]; ok {
		return field
	}
	return name
}
