package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-catalog-api/internal/apperror"
	"go-catalog-api/internal/model"
)

func TestCreateDealGeneratesSlug(t *testing.T) {
	src, productID, _ := scenarioSource(t)
	repo := &fakeDealRepo{guardSrc: src}
	svc := NewDealService(repo, NewDealValidator(src), runningHub())

	deal, err := svc.Create(context.Background(), CreateDealInput{
		Name:      "Summer Sale 2026",
		StartDate: time.Now(),
		Items:     []DealItemInput{{ProductID: productID, Quantity: 1}},
	}, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deal.Slug != "summer-sale-2026" {
		t.Errorf("slug = %q, want summer-sale-2026", deal.Slug)
	}
	if deal.CreatedBy != "alice" || deal.UpdatedBy != "alice" {
		t.Errorf("actor not recorded: %q / %q", deal.CreatedBy, deal.UpdatedBy)
	}
	if repo.lastCreate == nil {
		t.Fatal("deal never reached the repository")
	}
	if len(repo.lastCreate.Items) != 1 {
		t.Errorf("items = %d, want 1", len(repo.lastCreate.Items))
	}
}

func TestCreateDealRejectsInvalidInput(t *testing.T) {
	src, productID, _ := scenarioSource(t)
	repo := &fakeDealRepo{guardSrc: src}
	svc := NewDealService(repo, NewDealValidator(src), runningHub())

	tests := []struct {
		name  string
		input CreateDealInput
	}{
		{
			name: "missing name",
			input: CreateDealInput{
				StartDate: time.Now(),
				Items:     []DealItemInput{{ProductID: productID, Quantity: 1}},
			},
		},
		{
			name: "no items",
			input: CreateDealInput{
				Name:      "empty",
				StartDate: time.Now(),
			},
		},
		{
			name: "zero quantity",
			input: CreateDealInput{
				Name:      "bundle",
				StartDate: time.Now(),
				Items:     []DealItemInput{{ProductID: productID, Quantity: 0}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.input, "alice")
			if apperror.CodeOf(err) != apperror.CodeBadRequest {
				t.Fatalf("got %v, want BadRequest", err)
			}
		})
	}
	if repo.lastCreate != nil {
		t.Error("invalid input must not reach the repository")
	}
}

// Validation sees one price, the write transaction sees another. The guard
// runs against the commit-time state and must block the deal.
func TestCreateDealGuardCatchesPriceChange(t *testing.T) {
	validationSrc, productID, _ := scenarioSource(t)
	commitSrc := &fakePriceSource{
		products: map[uuid.UUID]decimal.Decimal{productID: dec(t, "50")},
	}
	repo := &fakeDealRepo{guardSrc: commitSrc}
	svc := NewDealService(repo, NewDealValidator(validationSrc), runningHub())

	// Modifier -100 against base 100: passes validation (effective 0), but
	// the commit-time base of 50 makes the effective total -50.
	_, err := svc.Create(context.Background(), CreateDealInput{
		Name:          "flash",
		PriceModifier: dec(t, "-100"),
		StartDate:     time.Now(),
		Items:         []DealItemInput{{ProductID: productID, Quantity: 1}},
	}, "alice")
	if apperror.CodeOf(err) != apperror.CodePriceFloorViolation {
		t.Fatalf("got %v, want PriceFloorViolation from the guard", err)
	}
	if !repo.guardRan {
		t.Error("guard never ran")
	}
	if repo.lastCreate != nil {
		t.Error("blocked deal must not be stored")
	}
}

func TestUpdateDealGuardOnlyWhenModifierPatched(t *testing.T) {
	src, productID, _ := scenarioSource(t)
	dealID := uuid.New()
	existing := &model.Deal{
		Name:      "bundle",
		StartDate: time.Now(),
		Items:     []model.DealItem{{ProductID: productID, Quantity: 1}},
	}
	existing.ID = dealID

	repo := &fakeDealRepo{
		deals:    map[uuid.UUID]*model.Deal{dealID: existing},
		guardSrc: src,
	}
	svc := NewDealService(repo, NewDealValidator(src), runningHub())

	name := "renamed"
	if _, err := svc.Update(context.Background(), dealID, DealPatch{Name: &name}, "bob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.guardRan {
		t.Error("name-only patch must not rerun the floor check in the transaction")
	}
	if repo.lastUpdate == nil || repo.lastUpdate.Name != "renamed" {
		t.Errorf("update not applied: %+v", repo.lastUpdate)
	}
	if repo.lastUpdate.UpdatedBy != "bob" {
		t.Errorf("actor = %q, want bob", repo.lastUpdate.UpdatedBy)
	}

	modifier := dec(t, "-50")
	if _, err := svc.Update(context.Background(), dealID, DealPatch{PriceModifier: &modifier}, "bob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.guardRan {
		t.Error("modifier patch must rerun the floor check in the transaction")
	}
}
