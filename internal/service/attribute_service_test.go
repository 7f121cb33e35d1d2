package service

import (
	"context"
	"errors"
	"testing"

	"productattrs/internal/model"
	"productattrs/internal/testutil"
	"productattrs/internal/variation"

	"github.com/rs/zerolog"
)

func (e *testEnv) attributes() AttributeService {
	return NewAttributeService(e.attrRepo, e.assignRepo, e.stockRepo, e.auditRepo, e.txManager, nil, zerolog.Nop())
}

func TestUpsertCategoryByCode(t *testing.T) {
	env := setupServiceTest(t)
	svc := env.attributes()
	ctx := context.Background()

	created, err := svc.UpsertCategory(ctx, "u1", UpsertCategoryRequest{Code: "size", Label: "Size", SortOrder: 3})
	if err != nil {
		t.Fatalf("UpsertCategory: %v", err)
	}
	if !created.Active {
		t.Error("Expected new category to be active")
	}

	inactive := false
	updated, err := svc.UpsertCategory(ctx, "u1", UpsertCategoryRequest{Code: "size", Label: "Garment size", SortOrder: 3, Active: &inactive})
	if err != nil {
		t.Fatalf("UpsertCategory update: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("Expected update of category %d, got new id %d", created.ID, updated.ID)
	}
	if updated.Label != "Garment size" || updated.Active {
		t.Errorf("Unexpected category %+v", updated)
	}

	list, err := svc.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(list) != 1 || list[0].RoyalOrderLabel != "Size" {
		t.Errorf("Unexpected list %+v", list)
	}
}

func TestUpsertCategoryValidation(t *testing.T) {
	env := setupServiceTest(t)
	svc := env.attributes()
	ctx := context.Background()

	tests := []struct {
		name string
		req  UpsertCategoryRequest
	}{
		{"blank code", UpsertCategoryRequest{Code: " ", Label: "Size"}},
		{"blank label", UpsertCategoryRequest{Code: "size"}},
		{"royal order too high", UpsertCategoryRequest{Code: "size", Label: "Size", SortOrder: 10}},
		{"negative royal order", UpsertCategoryRequest{Code: "size", Label: "Size", SortOrder: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.UpsertCategory(ctx, "u1", tt.req); !errors.Is(err, variation.ErrInvalidArgument) {
				t.Errorf("Expected ErrInvalidArgument, got %v", err)
			}
		})
	}

	if _, err := svc.UpsertCategory(ctx, "u1", UpsertCategoryRequest{ID: 42, Code: "x", Label: "X"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestUpsertValueDerivesSlug(t *testing.T) {
	env := setupServiceTest(t)
	svc := env.attributes()
	ctx := context.Background()
	color, _ := testutil.SeedCategory(t, env.db, "color", "Color", 6)

	v, err := svc.UpsertValue(ctx, "u1", color.ID, UpsertValueRequest{Value: "Navy Blue"})
	if err != nil {
		t.Fatalf("UpsertValue: %v", err)
	}
	if v.Slug != "navyblue" {
		t.Errorf("Expected slug navyblue, got %s", v.Slug)
	}

	again, err := svc.UpsertValue(ctx, "u1", color.ID, UpsertValueRequest{Value: "Navy blue", SortOrder: 4})
	if err != nil {
		t.Fatalf("UpsertValue again: %v", err)
	}
	if again.ID != v.ID || again.SortOrder != 4 {
		t.Errorf("Expected update by slug, got %+v", again)
	}

	if _, err := svc.UpsertValue(ctx, "u1", color.ID, UpsertValueRequest{Value: "!!!"}); !errors.Is(err, variation.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for unsluggable value, got %v", err)
	}
	if _, err := svc.UpsertValue(ctx, "u1", 999, UpsertValueRequest{Value: "Red"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown category, got %v", err)
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	env := setupServiceTest(t)
	seedABC123(t, env.db)
	svc := env.attributes()
	ctx := context.Background()

	size, err := env.attrRepo.FindCategoryByCode(ctx, "size")
	if err != nil {
		t.Fatalf("FindCategoryByCode: %v", err)
	}
	values, _ := env.attrRepo.ListValues(ctx, size.ID)
	testutil.AssignValue(t, env.db, "ABC123", values[0])

	if err := svc.DeleteCategory(ctx, "u1", size.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if n := testutil.MustCount(t, env.db, &model.AttributeValue{}, "category_id = ?", size.ID); n != 0 {
		t.Errorf("Expected values deleted, got %d", n)
	}
	if n := testutil.MustCount(t, env.db, &model.AttributeAssignment{}, "category_id = ?", size.ID); n != 0 {
		t.Errorf("Expected assignments deleted, got %d", n)
	}
	if n := testutil.MustCount(t, env.db, &model.CategoryAssignment{}, "category_id = ?", size.ID); n != 0 {
		t.Errorf("Expected category assignments deleted, got %d", n)
	}
	if err := svc.DeleteCategory(ctx, "u1", size.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestAddCategoryAssignmentRejectsVariation(t *testing.T) {
	env := setupServiceTest(t)
	testutil.SeedStockItem(t, env.db, "BASE", "Base")
	kid := testutil.SeedStockItem(t, env.db, "KID", "Kid")
	parent := "BASE"
	if err := env.db.Model(kid).Update("parent_stock_id", &parent).Error; err != nil {
		t.Fatalf("set parent: %v", err)
	}
	size, _ := testutil.SeedCategory(t, env.db, "size", "Size", 3, "S")
	svc := env.attributes()
	ctx := context.Background()

	if err := svc.AddCategoryAssignment(ctx, "KID", size.ID); !errors.Is(err, variation.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
	if err := svc.AddCategoryAssignment(ctx, "BASE", size.ID); err != nil {
		t.Fatalf("AddCategoryAssignment: %v", err)
	}
	if err := svc.AddCategoryAssignment(ctx, "BASE", size.ID); err != nil {
		t.Fatalf("AddCategoryAssignment twice: %v", err)
	}

	cats, err := svc.ListCategoryAssignments(ctx, "BASE")
	if err != nil {
		t.Fatalf("ListCategoryAssignments: %v", err)
	}
	if len(cats) != 1 {
		t.Errorf("Expected one category assignment, got %d", len(cats))
	}

	if err := svc.RemoveCategoryAssignment(ctx, "BASE", size.ID); err != nil {
		t.Fatalf("RemoveCategoryAssignment: %v", err)
	}
	if n := testutil.MustCount(t, env.db, &model.CategoryAssignment{}, ""); n != 0 {
		t.Errorf("Expected no category assignments, got %d", n)
	}
}

func TestAddAssignmentDeduplicates(t *testing.T) {
	env := setupServiceTest(t)
	testutil.SeedStockItem(t, env.db, "TEE", "Tee")
	_, colors := testutil.SeedCategory(t, env.db, "color", "Color", 6, "Red", "Blue")
	svc := env.attributes()
	ctx := context.Background()

	first, err := svc.AddAssignment(ctx, "TEE", AddAssignmentRequest{ValueID: colors[1].ID})
	if err != nil {
		t.Fatalf("AddAssignment: %v", err)
	}
	second, err := svc.AddAssignment(ctx, "TEE", AddAssignmentRequest{ValueID: colors[1].ID})
	if err != nil {
		t.Fatalf("AddAssignment again: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("Expected the existing assignment back, got %d and %d", first.ID, second.ID)
	}

	rows, err := svc.ListAssignments(ctx, "TEE")
	if err != nil {
		t.Fatalf("ListAssignments: %v", err)
	}
	if len(rows) != 1 || rows[0].Value != "Blue" || rows[0].CategoryCode != "color" {
		t.Errorf("Unexpected assignments %+v", rows)
	}

	if err := svc.DeleteAssignment(ctx, first.ID); err != nil {
		t.Fatalf("DeleteAssignment: %v", err)
	}
	if _, err := svc.AddAssignment(ctx, "TEE", AddAssignmentRequest{ValueID: 999}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown value, got %v", err)
	}
}
