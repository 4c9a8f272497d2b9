package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"go-catalog-api/internal/apperror"
	"go-catalog-api/internal/model"
	"go-catalog-api/internal/pricing"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/ws"
)

type fakeProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func (f *fakeProductRepo) Create(ctx context.Context, p *model.Product) error { return nil }
func (f *fakeProductRepo) Update(ctx context.Context, p *model.Product) error { return nil }
func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, apperror.NotFound("Product")
}
func (f *fakeProductRepo) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return nil, apperror.NotFound("Product")
}
func (f *fakeProductRepo) FindAll(ctx context.Context) ([]model.Product, error) { return nil, nil }

type fakeVariantRepo struct {
	variants map[uuid.UUID]*model.Variant
}

func (f *fakeVariantRepo) Create(ctx context.Context, v *model.Variant) error { return nil }
func (f *fakeVariantRepo) Update(ctx context.Context, v *model.Variant) error { return nil }
func (f *fakeVariantRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Variant, error) {
	if v, ok := f.variants[id]; ok {
		return v, nil
	}
	return nil, apperror.NotFound("Variant")
}
func (f *fakeVariantRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.Variant, error) {
	return nil, nil
}

type fakeDealRepo struct {
	deals      map[uuid.UUID]*model.Deal
	guardSrc   pricing.PriceSource
	lastCreate *model.Deal
	lastUpdate *model.Deal
	guardRan   bool
}

// src is what the guard sees: the price state at commit time, which the test
// can make diverge from what validation saw.
func (f *fakeDealRepo) src() pricing.PriceSource {
	if f.guardSrc != nil {
		return f.guardSrc
	}
	return &fakePriceSource{}
}

func (f *fakeDealRepo) Create(ctx context.Context, deal *model.Deal, guard repository.DealGuard) error {
	if guard != nil {
		f.guardRan = true
		if err := guard(f.src()); err != nil {
			return err
		}
	}
	f.lastCreate = deal
	return nil
}
func (f *fakeDealRepo) Update(ctx context.Context, deal *model.Deal, guard repository.DealGuard) error {
	if guard != nil {
		f.guardRan = true
		if err := guard(f.src()); err != nil {
			return err
		}
	}
	f.lastUpdate = deal
	return nil
}
func (f *fakeDealRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Deal, error) {
	if d, ok := f.deals[id]; ok {
		return d, nil
	}
	return nil, apperror.NotFound("Deal")
}
func (f *fakeDealRepo) FindBySlug(ctx context.Context, slug string) (*model.Deal, error) {
	return nil, apperror.NotFound("Deal")
}
func (f *fakeDealRepo) FindAll(ctx context.Context) ([]model.Deal, error) { return nil, nil }

type cascadeCall struct {
	id uuid.UUID
	at time.Time
}

type fakeCascadeRepo struct {
	productDeals map[uuid.UUID][]uuid.UUID
	variantDeals map[uuid.UUID][]uuid.UUID
	failCascades bool

	productCascades []cascadeCall
	variantCascades []cascadeCall
	deletedItems    []cascadeCall
}

func (f *fakeCascadeRepo) DealIDsReferencingProduct(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	return f.productDeals[productID], nil
}
func (f *fakeCascadeRepo) DealIDsReferencingVariant(ctx context.Context, variantID uuid.UUID) ([]uuid.UUID, error) {
	return f.variantDeals[variantID], nil
}
func (f *fakeCascadeRepo) SoftDeleteProductCascade(ctx context.Context, productID uuid.UUID, at time.Time) (*repository.CascadeOutcome, error) {
	if f.failCascades {
		return nil, apperror.New(apperror.CodeBadRequest, "Database Error")
	}
	f.productCascades = append(f.productCascades, cascadeCall{id: productID, at: at})
	deals := f.productDeals[productID]
	return &repository.CascadeOutcome{DealIDs: deals, DealsDeleted: int64(len(deals)), VariantsDeleted: 1}, nil
}
func (f *fakeCascadeRepo) SoftDeleteVariantCascade(ctx context.Context, variantID uuid.UUID, at time.Time) (*repository.CascadeOutcome, error) {
	if f.failCascades {
		return nil, apperror.New(apperror.CodeBadRequest, "Database Error")
	}
	f.variantCascades = append(f.variantCascades, cascadeCall{id: variantID, at: at})
	deals := f.variantDeals[variantID]
	return &repository.CascadeOutcome{DealIDs: deals, DealsDeleted: int64(len(deals))}, nil
}
func (f *fakeCascadeRepo) SoftDeleteDealItem(ctx context.Context, itemID uuid.UUID, at time.Time) error {
	if f.failCascades {
		return apperror.New(apperror.CodeBadRequest, "Database Error")
	}
	f.deletedItems = append(f.deletedItems, cascadeCall{id: itemID, at: at})
	return nil
}

func runningHub() *ws.Hub {
	hub := ws.NewHub()
	go hub.Run()
	return hub
}

func newCascadeFixture(products *fakeProductRepo, variants *fakeVariantRepo, deals *fakeDealRepo, cascades *fakeCascadeRepo) *cascadeService {
	svc := NewCascadeService(products, variants, deals, cascades, runningHub()).(*cascadeService)
	return svc
}

func TestDeleteVariantConfirmationGate(t *testing.T) {
	variantID, dealID := uuid.New(), uuid.New()
	variants := &fakeVariantRepo{variants: map[uuid.UUID]*model.Variant{
		variantID: {Label: "large"},
	}}
	cascades := &fakeCascadeRepo{variantDeals: map[uuid.UUID][]uuid.UUID{
		variantID: {dealID},
	}}
	svc := newCascadeFixture(&fakeProductRepo{}, variants, &fakeDealRepo{}, cascades)

	// Unconfirmed: names the affected deal, writes nothing.
	result, err := svc.DeleteVariant(context.Background(), variantID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.ConfirmationRequired {
		t.Fatal("expected confirmation to be required")
	}
	if len(result.AffectedDealIDs) != 1 || result.AffectedDealIDs[0] != dealID {
		t.Errorf("affected deals = %v, want [%s]", result.AffectedDealIDs, dealID)
	}
	if len(cascades.variantCascades) != 0 {
		t.Error("unconfirmed call must not write")
	}

	// Confirmed: variant and deal go down with one shared timestamp.
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	result, err = svc.DeleteVariant(context.Background(), variantID, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ConfirmationRequired {
		t.Fatal("confirmed call should proceed")
	}
	if len(cascades.variantCascades) != 1 || !cascades.variantCascades[0].at.Equal(fixed) {
		t.Errorf("cascade calls = %+v, want one at %s", cascades.variantCascades, fixed)
	}
	if result.DeletedAt == nil || !result.DeletedAt.Equal(fixed) {
		t.Errorf("result.DeletedAt = %v, want %s", result.DeletedAt, fixed)
	}
	if result.DealsDeleted != 1 {
		t.Errorf("DealsDeleted = %d, want 1", result.DealsDeleted)
	}
}

func TestDeleteProductNoAffectedDealsSkipsGate(t *testing.T) {
	productID := uuid.New()
	products := &fakeProductRepo{products: map[uuid.UUID]*model.Product{
		productID: {Name: "widget"},
	}}
	cascades := &fakeCascadeRepo{}
	svc := newCascadeFixture(products, &fakeVariantRepo{}, &fakeDealRepo{}, cascades)

	result, err := svc.DeleteProduct(context.Background(), productID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ConfirmationRequired {
		t.Fatal("no affected deals: cascade should proceed unconfirmed")
	}
	if len(cascades.productCascades) != 1 {
		t.Errorf("cascade calls = %d, want 1", len(cascades.productCascades))
	}
}

func TestDeleteProductFailureLeavesNoWrites(t *testing.T) {
	productID := uuid.New()
	products := &fakeProductRepo{products: map[uuid.UUID]*model.Product{
		productID: {Name: "widget"},
	}}
	cascades := &fakeCascadeRepo{failCascades: true}
	svc := newCascadeFixture(products, &fakeVariantRepo{}, &fakeDealRepo{}, cascades)

	_, err := svc.DeleteProduct(context.Background(), productID, true)
	if err == nil {
		t.Fatal("expected the cascade failure to surface")
	}
	if len(cascades.productCascades) != 0 {
		t.Error("failed cascade must record no writes")
	}
}

func TestDeleteProductNotFound(t *testing.T) {
	svc := newCascadeFixture(&fakeProductRepo{}, &fakeVariantRepo{}, &fakeDealRepo{}, &fakeCascadeRepo{})

	_, err := svc.DeleteProduct(context.Background(), uuid.New(), true)
	if apperror.CodeOf(err) != apperror.CodeNotFound {
		t.Fatalf("got %v, want NotFound", err)
	}
}

func TestRemoveDealItemLastItemGate(t *testing.T) {
	dealID, productID, itemID := uuid.New(), uuid.New(), uuid.New()
	deal := &model.Deal{Name: "bundle"}
	deal.ID = dealID
	item := model.DealItem{ProductID: productID, Quantity: 1}
	item.ID = itemID
	deal.Items = []model.DealItem{item}

	deals := &fakeDealRepo{deals: map[uuid.UUID]*model.Deal{dealID: deal}}
	cascades := &fakeCascadeRepo{}
	svc := newCascadeFixture(&fakeProductRepo{}, &fakeVariantRepo{}, deals, cascades)

	result, err := svc.RemoveDealItem(context.Background(), dealID, productID, nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.ConfirmationRequired {
		t.Fatal("removing the last item must require confirmation")
	}
	if len(cascades.deletedItems) != 0 {
		t.Error("unconfirmed removal must not write")
	}

	result, err = svc.RemoveDealItem(context.Background(), dealID, productID, nil, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ConfirmationRequired {
		t.Fatal("confirmed removal should proceed")
	}
	if len(cascades.deletedItems) != 1 || cascades.deletedItems[0].id != itemID {
		t.Errorf("deleted items = %+v, want [%s]", cascades.deletedItems, itemID)
	}
}

func TestRemoveDealItemVariantMatching(t *testing.T) {
	dealID, productID, variantID := uuid.New(), uuid.New(), uuid.New()
	deal := &model.Deal{Name: "bundle"}
	deal.ID = dealID
	defaultItem := model.DealItem{ProductID: productID, Quantity: 1}
	defaultItem.ID = uuid.New()
	variantItem := model.DealItem{ProductID: productID, VariantID: &variantID, Quantity: 1}
	variantItem.ID = uuid.New()
	deal.Items = []model.DealItem{defaultItem, variantItem}

	deals := &fakeDealRepo{deals: map[uuid.UUID]*model.Deal{dealID: deal}}
	cascades := &fakeCascadeRepo{}
	svc := newCascadeFixture(&fakeProductRepo{}, &fakeVariantRepo{}, deals, cascades)

	// The variant line goes, the default line stays; two live items means no
	// gate.
	result, err := svc.RemoveDealItem(context.Background(), dealID, productID, &variantID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ConfirmationRequired {
		t.Fatal("deal keeps one item, no confirmation needed")
	}
	if len(cascades.deletedItems) != 1 || cascades.deletedItems[0].id != variantItem.ID {
		t.Errorf("deleted items = %+v, want the variant line", cascades.deletedItems)
	}

	// A line that does not exist is NotFound.
	other := uuid.New()
	_, err = svc.RemoveDealItem(context.Background(), dealID, productID, &other, true)
	if apperror.CodeOf(err) != apperror.CodeNotFound {
		t.Fatalf("got %v, want NotFound", err)
	}
}
