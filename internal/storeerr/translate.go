package storeerr

import (
	"errors"

	"go-catalog-api/internal/apperror"
)

// foreignKeyMessages maps the relations of the schema to the message shown
// when an insert or update names a row that does not exist.
var foreignKeyMessages = map[string]string{
	"fk_variants_product":           "Referenced product not found for variant",
	"fk_category_products_product":  "Referenced product not found for category assignment",
	"fk_category_products_category": "Referenced category not found for category assignment",
	"fk_deal_items_deal":            "Referenced deal not found for deal item",
	"fk_deal_items_product":         "Referenced product not found for deal item",
	"fk_deal_items_variant":         "Referenced variant not found for deal item",
}

// Translate maps a constraint signal onto the domain taxonomy. Priority is
// fixed: unique, foreign key, relation-not-found, row-not-found, then the
// generic catch-all.
func Translate(sig ConstraintSignal) *apperror.Error {
	switch sig.Kind {
	case KindUnique:
		field := sig.Field
		if field == "" {
			field = "value"
		}
		return apperror.Conflict(field, sig.Entity)
	case KindForeignKey:
		if msg, ok := foreignKeyMessages[sig.Constraint]; ok {
			return apperror.New(apperror.CodeUnprocessableReference, msg)
		}
		return apperror.New(apperror.CodeUnprocessableReference, "Referenced resource not found")
	case KindRelationNotFound:
		return apperror.New(apperror.CodeNotFound, "Relation not found")
	case KindNotFound:
		return apperror.NotFound(sig.Entity)
	default:
		return apperror.New(apperror.CodeBadRequest, "Database Error")
	}
}

// TranslateError is the repository-boundary helper: domain errors pass
// through untouched, anything else is signalled and translated.
func TranslateError(err error, entity string) error {
	if err == nil {
		return nil
	}
	var domainErr *apperror.Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	sig, _ := SignalFrom(err, entity)
	return Translate(sig)
}
