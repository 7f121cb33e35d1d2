package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"productattrs/internal/model"
	"productattrs/internal/repository"
	"productattrs/internal/testutil"
	"productattrs/internal/variation"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type testEnv struct {
	db         *gorm.DB
	attrRepo   repository.AttributeRepository
	assignRepo repository.AssignmentRepository
	stockRepo  repository.StockRepository
	ruleRepo   repository.PricingRuleRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return &testEnv{
		db:         db,
		attrRepo:   repository.NewAttributeRepository(db),
		assignRepo: repository.NewAssignmentRepository(db),
		stockRepo:  repository.NewStockRepository(db),
		ruleRepo:   repository.NewPricingRuleRepository(db),
		auditRepo:  repository.NewAuditRepository(db),
		txManager:  repository.NewTransactionManager(db),
	}
}

func (e *testEnv) variations(policy variation.DescriptionPolicy) *variationService {
	svc := NewVariationService(e.attrRepo, e.assignRepo, e.stockRepo, e.auditRepo, e.txManager,
		variation.NewSynthesizer(policy), "VAR", nil, zerolog.Nop())
	return svc.(*variationService)
}

// seedABC123 sets up the parent with size {Small/s, Large/l} and color {Red}, both assigned.
func seedABC123(t *testing.T, db *gorm.DB) {
	t.Helper()
	testutil.SeedStockItem(t, db, "ABC123", "Product ABC123 - ${SIZE} ${COLOR}")

	size, _ := testutil.SeedCategory(t, db, "size", "Size", 1)
	testutil.SeedValue(t, db, size.ID, "Small", "s", 1)
	testutil.SeedValue(t, db, size.ID, "Large", "l", 2)
	color, _ := testutil.SeedCategory(t, db, "color", "Color", 2, "Red")

	testutil.AssignCategory(t, db, "ABC123", size.ID)
	testutil.AssignCategory(t, db, "ABC123", color.ID)
}

func TestGenerateVariationsEndToEnd(t *testing.T) {
	env := setupServiceTest(t)
	seedABC123(t, env.db)
	svc := env.variations(variation.PolicyPlaceholder)

	got, err := svc.GenerateVariations(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("GenerateVariations: %v", err)
	}

	want := []struct{ id, desc string }{
		{"ABC123-S-RED", "Product ABC123 - Small Red"},
		{"ABC123-L-RED", "Product ABC123 - Large Red"},
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d variations, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].StockID != w.id {
			t.Errorf("variation %d: expected stock id %s, got %s", i, w.id, got[i].StockID)
		}
		if got[i].Description != w.desc {
			t.Errorf("variation %d: expected description %q, got %q", i, w.desc, got[i].Description)
		}
	}

	if n := testutil.MustCount(t, env.db, &model.StockItem{}, ""); n != 1 {
		t.Errorf("Generate must not write, found %d stock rows", n)
	}
}

func TestGenerateVariationsUsesAssignedValuesOnly(t *testing.T) {
	env := setupServiceTest(t)
	testutil.SeedStockItem(t, env.db, "TEE", "Tee")
	_, sizes := testutil.SeedCategory(t, env.db, "size", "Size", 3, "S", "M", "L")
	testutil.AssignValue(t, env.db, "TEE", sizes[0])
	testutil.AssignValue(t, env.db, "TEE", sizes[2])

	got, err := env.variations(variation.PolicyAppend).GenerateVariations(context.Background(), "TEE")
	if err != nil {
		t.Fatalf("GenerateVariations: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 variations, got %d", len(got))
	}
	if got[0].StockID != "TEE-S" || got[1].StockID != "TEE-L" {
		t.Errorf("Unexpected stock ids %s, %s", got[0].StockID, got[1].StockID)
	}
	if got[1].Description != "Tee (L)" {
		t.Errorf("Expected append policy description, got %q", got[1].Description)
	}
}

func TestGenerateVariationsPreconditions(t *testing.T) {
	env := setupServiceTest(t)
	svc := env.variations(variation.PolicyPlaceholder)
	ctx := context.Background()

	testutil.SeedStockItem(t, env.db, "PLAIN", "Plain")
	if _, err := svc.GenerateVariations(ctx, "PLAIN"); !errors.Is(err, variation.ErrNoCategoriesAssigned) {
		t.Errorf("Expected ErrNoCategoriesAssigned, got %v", err)
	}

	empty, _ := testutil.SeedCategory(t, env.db, "material", "Material", 8)
	testutil.AssignCategory(t, env.db, "PLAIN", empty.ID)
	if _, err := svc.GenerateVariations(ctx, "PLAIN"); !errors.Is(err, variation.ErrNoValuesForCategories) {
		t.Errorf("Expected ErrNoValuesForCategories, got %v", err)
	}

	if _, err := svc.GenerateVariations(ctx, "  "); !errors.Is(err, variation.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for blank id, got %v", err)
	}

	_, colors := testutil.SeedCategory(t, env.db, "color", "Color", 6, "Red")
	testutil.AssignValue(t, env.db, "GHOST", colors[0])
	_, err := svc.GenerateVariations(ctx, "GHOST")
	if !errors.Is(err, variation.ErrParentNotFound) {
		t.Errorf("Expected ErrParentNotFound, got %v", err)
	}
	if err != nil && err.Error() != "Parent product 'GHOST' not found" {
		t.Errorf("Unexpected message %q", err.Error())
	}
}

func TestCreateVariationsIsIdempotent(t *testing.T) {
	env := setupServiceTest(t)
	seedABC123(t, env.db)
	svc := env.variations(variation.PolicyPlaceholder)
	ctx := context.Background()

	first, err := svc.CreateVariations(ctx, "u1", "ABC123", false)
	if err != nil {
		t.Fatalf("first CreateVariations: %v", err)
	}
	if len(first.Created) != 2 || len(first.Errors) != 0 {
		t.Fatalf("Expected 2 created and no errors, got %+v", first)
	}
	if first.Message() != "Created 2 variations" {
		t.Errorf("Unexpected message %q", first.Message())
	}

	second, err := svc.CreateVariations(ctx, "u1", "ABC123", false)
	if err != nil {
		t.Fatalf("second CreateVariations: %v", err)
	}
	if len(second.Created) != 0 || len(second.Skipped) != 2 {
		t.Errorf("Expected 0 created and 2 skipped, got %+v", second)
	}

	if n := testutil.MustCount(t, env.db, &model.StockItem{}, "parent_stock_id = ?", "ABC123"); n != 2 {
		t.Errorf("Expected 2 children, got %d", n)
	}
	if n := testutil.MustCount(t, env.db, &model.AuditLog{}, "action = ?", model.ActionCreateVariations); n != 2 {
		t.Errorf("Expected 2 audit rows, got %d", n)
	}
}

func TestCreateVariationsCopiesParentFields(t *testing.T) {
	env := setupServiceTest(t)
	seedABC123(t, env.db)
	svc := env.variations(variation.PolicyPlaceholder)

	if _, err := svc.CreateVariations(context.Background(), "u1", "ABC123", false); err != nil {
		t.Fatalf("CreateVariations: %v", err)
	}

	child, err := env.stockRepo.FindByID(context.Background(), "ABC123-S-RED")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if child.Inactive {
		t.Error("Expected child to be active even though the parent is inactive")
	}
	if child.ParentStockID == nil || *child.ParentStockID != "ABC123" {
		t.Errorf("Expected parent ABC123, got %v", child.ParentStockID)
	}
	if child.Description != "Product ABC123 - Small Red" {
		t.Errorf("Unexpected description %q", child.Description)
	}
	if child.SalesAccount != "4010" || child.COGSAccount != "5010" || child.InventoryAccount != "1510" {
		t.Errorf("Accounts not copied: %+v", child)
	}
	if child.LongDescription != "Product ABC123 - ${SIZE} ${COLOR}" {
		t.Errorf("Expected the parent's long description, got %q", child.LongDescription)
	}
	if child.MaterialCost.String() != "4.25" {
		t.Errorf("Expected material cost 4.25, got %s", child.MaterialCost)
	}

	rows, err := env.assignRepo.ListAssignments(context.Background(), "ABC123-S-RED")
	if err != nil {
		t.Fatalf("ListAssignments: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected one assignment per category, got %d", len(rows))
	}
	for _, r := range rows {
		if r.ParentStockID == nil || *r.ParentStockID != "ABC123" {
			t.Errorf("Assignment %d missing parent", r.ID)
		}
	}
}

func TestCreateVariationsCopyPricing(t *testing.T) {
	env := setupServiceTest(t)
	seedABC123(t, env.db)
	testutil.SeedPrice(t, env.db, "ABC123", 1, "USD", "19.99")
	testutil.SeedPrice(t, env.db, "ABC123", 2, "USD", "17.50")
	svc := env.variations(variation.PolicyPlaceholder)

	if _, err := svc.CreateVariations(context.Background(), "u1", "ABC123", true); err != nil {
		t.Fatalf("CreateVariations: %v", err)
	}

	prices, err := env.stockRepo.ListPrices(context.Background(), "ABC123-L-RED")
	if err != nil {
		t.Fatalf("ListPrices: %v", err)
	}
	if len(prices) != 2 {
		t.Fatalf("Expected 2 copied prices, got %d", len(prices))
	}
	if n := testutil.MustCount(t, env.db, &model.Price{}, ""); n != 6 {
		t.Errorf("Expected 6 price rows in total, got %d", n)
	}
}

func TestCreateVariationsWithoutPricingLeavesPricesAlone(t *testing.T) {
	env := setupServiceTest(t)
	seedABC123(t, env.db)
	testutil.SeedPrice(t, env.db, "ABC123", 1, "USD", "19.99")

	if _, err := env.variations(variation.PolicyPlaceholder).CreateVariations(context.Background(), "u1", "ABC123", false); err != nil {
		t.Fatalf("CreateVariations: %v", err)
	}
	if n := testutil.MustCount(t, env.db, &model.Price{}, ""); n != 1 {
		t.Errorf("Expected only the parent price, got %d rows", n)
	}
}

func TestCreateVariationsReportsFailedChild(t *testing.T) {
	env := setupServiceTest(t)
	seedABC123(t, env.db)
	testutil.SeedPrice(t, env.db, "ABC123", 1, "USD", "19.99")
	// A leftover price row makes the price copy for ABC123-S-RED violate the price list key.
	testutil.SeedPrice(t, env.db, "ABC123-S-RED", 1, "USD", "5.00")
	ctx := context.Background()

	res, err := env.variations(variation.PolicyPlaceholder).CreateVariations(ctx, "u1", "ABC123", true)
	if err != nil {
		t.Fatalf("CreateVariations: %v", err)
	}
	if len(res.Created) != 1 || res.Created[0] != "ABC123-L-RED" {
		t.Errorf("Expected only ABC123-L-RED created, got %v", res.Created)
	}
	if len(res.Skipped) != 0 {
		t.Errorf("A failed child must not be reported as skipped, got %v", res.Skipped)
	}
	if len(res.Errors) != 1 || res.Errors[0].StockID != "ABC123-S-RED" {
		t.Fatalf("Expected one error for ABC123-S-RED, got %+v", res.Errors)
	}
	if !strings.HasPrefix(res.Message(), "Created 1 variations. Errors: ") {
		t.Errorf("Unexpected message %q", res.Message())
	}

	exists, err := env.stockRepo.Exists(ctx, "ABC123-S-RED")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Error("Expected the failed child to be rolled back")
	}
	if n := testutil.MustCount(t, env.db, &model.AttributeAssignment{}, "stock_id = ?", "ABC123-S-RED"); n != 0 {
		t.Errorf("Expected no assignment rows for the failed child, got %d", n)
	}
}

// staleStockRepository never sees existing rows, as when another request inserts the child
// between the existence check and the insert.
type staleStockRepository struct {
	repository.StockRepository
}

func (staleStockRepository) Exists(ctx context.Context, stockID string) (bool, error) {
	return false, nil
}

func TestCreateVariationsSkipsConcurrentlyCreatedChild(t *testing.T) {
	env := setupServiceTest(t)
	seedABC123(t, env.db)
	testutil.SeedStockItem(t, env.db, "ABC123-S-RED", "Inserted elsewhere")

	svc := NewVariationService(env.attrRepo, env.assignRepo, staleStockRepository{env.stockRepo}, env.auditRepo, env.txManager,
		variation.NewSynthesizer(variation.PolicyPlaceholder), "VAR", nil, zerolog.Nop())

	res, err := svc.CreateVariations(context.Background(), "u1", "ABC123", false)
	if err != nil {
		t.Fatalf("CreateVariations: %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != "ABC123-S-RED" {
		t.Errorf("Expected ABC123-S-RED skipped, got %v", res.Skipped)
	}
	if len(res.Created) != 1 || res.Created[0] != "ABC123-L-RED" {
		t.Errorf("Expected ABC123-L-RED created, got %v", res.Created)
	}
	if len(res.Errors) != 0 {
		t.Errorf("Expected no errors, got %+v", res.Errors)
	}
	if n := testutil.MustCount(t, env.db, &model.StockItem{}, "stock_id = ?", "ABC123-S-RED"); n != 1 {
		t.Errorf("Expected the existing row untouched, got %d rows", n)
	}
}

func TestCreateVariationsPreconditionHasNoSideEffects(t *testing.T) {
	env := setupServiceTest(t)
	testutil.SeedStockItem(t, env.db, "PLAIN", "Plain")

	_, err := env.variations(variation.PolicyPlaceholder).CreateVariations(context.Background(), "u1", "PLAIN", false)
	if !variation.IsPrecondition(err) {
		t.Fatalf("Expected a precondition error, got %v", err)
	}
	if n := testutil.MustCount(t, env.db, &model.StockItem{}, ""); n != 1 {
		t.Errorf("Expected no new rows, got %d", n)
	}
}

func TestCreateChild(t *testing.T) {
	env := setupServiceTest(t)
	seedABC123(t, env.db)
	_, materials := testutil.SeedCategory(t, env.db, "material", "Material", 8, "Cotton")
	testutil.AssignValue(t, env.db, "ABC123", materials[0])

	svc := env.variations(variation.PolicyPlaceholder)
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	ctx := context.Background()

	res, err := svc.CreateChild(ctx, "u1", "ABC123")
	if err != nil {
		t.Fatalf("CreateChild: %v", err)
	}
	if res.ChildStockID != "ABC123-VAR-1700000000" {
		t.Errorf("Unexpected child id %s", res.ChildStockID)
	}
	if want := "Child product 'ABC123-VAR-1700000000' created successfully from parent 'ABC123'"; res.Message() != want {
		t.Errorf("Unexpected message %q", res.Message())
	}
	if res.AssignmentsCopied != 1 {
		t.Errorf("Expected 1 copied assignment, got %d", res.AssignmentsCopied)
	}
	if n := testutil.MustCount(t, env.db, &model.CategoryAssignment{}, "stock_id = ?", res.ChildStockID); n != 0 {
		t.Errorf("Expected the child to carry no category assignments, got %d", n)
	}

	child, err := env.stockRepo.FindByID(ctx, res.ChildStockID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if child.MBFlag != model.MBFlagService {
		t.Errorf("Expected mb_flag D, got %s", child.MBFlag)
	}
	if !strings.HasSuffix(child.Description, " (Variation)") {
		t.Errorf("Unexpected description %q", child.Description)
	}
	if !strings.HasSuffix(child.LongDescription, " - Variation of ABC123") {
		t.Errorf("Unexpected long description %q", child.LongDescription)
	}

	pt, err := NewProductTypeService(env.assignRepo, env.stockRepo, env.auditRepo, env.txManager, nil, zerolog.Nop()).
		GetProductType(ctx, res.ChildStockID)
	if err != nil {
		t.Fatalf("GetProductType: %v", err)
	}
	if pt.Kind != variation.KindVariation || pt.ParentStockID != "ABC123" {
		t.Errorf("Expected variation of ABC123, got %+v", pt)
	}

	again, err := svc.CreateChild(ctx, "u1", "ABC123")
	if err != nil {
		t.Fatalf("second CreateChild: %v", err)
	}
	if again.ChildStockID == res.ChildStockID || !strings.HasPrefix(again.ChildStockID, res.ChildStockID+"-") {
		t.Errorf("Expected a disambiguated child id, got %s", again.ChildStockID)
	}
}

func TestCreateChildErrors(t *testing.T) {
	env := setupServiceTest(t)
	svc := env.variations(variation.PolicyPlaceholder)
	ctx := context.Background()

	_, err := svc.CreateChild(ctx, "u1", "")
	if !errors.Is(err, variation.ErrInvalidArgument) || err.Error() != "Stock ID is required" {
		t.Errorf("Expected stock id required, got %v", err)
	}
	if _, err := svc.CreateChild(ctx, "u1", "MISSING"); !errors.Is(err, variation.ErrParentNotFound) {
		t.Errorf("Expected ErrParentNotFound, got %v", err)
	}
}

func TestListVariations(t *testing.T) {
	env := setupServiceTest(t)
	seedABC123(t, env.db)
	svc := env.variations(variation.PolicyPlaceholder)
	ctx := context.Background()

	if _, err := svc.CreateVariations(ctx, "u1", "ABC123", false); err != nil {
		t.Fatalf("CreateVariations: %v", err)
	}
	list, err := svc.ListVariations(ctx, "ABC123")
	if err != nil {
		t.Fatalf("ListVariations: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 variations, got %d", len(list))
	}
	for _, v := range list {
		if v.ParentStockID != "ABC123" {
			t.Errorf("Unexpected parent %s", v.ParentStockID)
		}
	}
}

func TestCreateVariationsResultMessageWithErrors(t *testing.T) {
	r := &CreateVariationsResult{
		Created: []string{"A-1"},
		Errors:  []VariationError{{StockID: "A-2", Message: "boom"}, {StockID: "A-3", Message: "bang"}},
	}
	if got := r.Message(); got != "Created 1 variations. Errors: boom, bang" {
		t.Errorf("Unexpected message %q", got)
	}
}
