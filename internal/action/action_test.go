package action

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"testing"

	"productattrs/internal/service"
	"productattrs/internal/variation"

	"github.com/rs/zerolog"
)

type fakeVariations struct {
	service.VariationService
	createErr   error
	copyPricing bool
	stockID     string
}

func (f *fakeVariations) CreateVariations(ctx context.Context, userID, stockID string, copyPricing bool) (*service.CreateVariationsResult, error) {
	f.stockID, f.copyPricing = stockID, copyPricing
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &service.CreateVariationsResult{ParentStockID: stockID, Created: []string{stockID + "-S", stockID + "-L"}}, nil
}

func (f *fakeVariations) CreateChild(ctx context.Context, userID, stockID string) (*service.CreateChildResult, error) {
	if stockID == "" {
		return nil, variation.Invalidf("Stock ID is required")
	}
	return &service.CreateChildResult{ChildStockID: stockID + "-VAR-1", ParentStockID: stockID}, nil
}

type fakeProductTypes struct {
	service.ProductTypeService
	got service.UpdateProductTypesRequest
}

func (f *fakeProductTypes) UpdateProductTypes(ctx context.Context, userID string, req service.UpdateProductTypesRequest) (*service.UpdateProductTypesResult, error) {
	f.got = req
	for _, c := range req.Changes {
		if c.Type == "variation" && c.ParentStockID == "" {
			return nil, variation.Invalidf("Parent product is required for variation type")
		}
	}
	return &service.UpdateProductTypesResult{Updated: len(req.Changes)}, nil
}

func TestFormIndexed(t *testing.T) {
	f := FormFromValues(url.Values{
		"product_types[A1]":    {"simple"},
		"product_types[B-2]":   {" variation "},
		"product_types[]":      {"variable"},
		"parent_products[B-2]": {"A1"},
		"stock_id":             {"X"},
	})

	got := f.Indexed("product_types")
	if len(got) != 2 || got["A1"] != "simple" || got["B-2"] != "variation" {
		t.Errorf("Unexpected product_types %v", got)
	}
	if f.Indexed("parent_products")["B-2"] != "A1" {
		t.Errorf("Unexpected parent_products %v", f.Indexed("parent_products"))
	}
}

func TestFormBool(t *testing.T) {
	f := Form{"a": "on", "b": "TRUE", "c": "0", "d": ""}
	if !f.Bool("a") || !f.Bool("b") || f.Bool("c") || f.Bool("d") || f.Bool("missing") {
		t.Errorf("Unexpected bool parsing for %v", f)
	}
}

func TestGenerateVariationsAction(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    string
		wantErr bool
	}{
		{"created", nil, "Created 2 variations", false},
		{"no categories", variation.ErrNoCategoriesAssigned, "No categories assigned to this product", false},
		{"no values", variation.ErrNoValuesForCategories, "No values found for assigned categories", false},
		{"invalid id", variation.Invalidf("Invalid stock ID"), "Invalid stock ID", false},
		{"store failure", errors.New("connection reset"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fv := &fakeVariations{createErr: tt.err}
			msg, err := NewGenerateVariations(fv).Handle(context.Background(), "u1", Form{"stock_id": " ABC ", "copy_pricing": "1"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unexpected error %v", err)
			}
			if msg != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, msg)
			}
			if fv.stockID != "ABC" || !fv.copyPricing {
				t.Errorf("Form not passed through: %q %v", fv.stockID, fv.copyPricing)
			}
		})
	}
}

func TestUpdateProductTypesActionBuildsChanges(t *testing.T) {
	fp := &fakeProductTypes{}
	msg, err := NewUpdateProductTypes(fp).Handle(context.Background(), "u1", Form{
		"product_types[A1]":   "simple",
		"product_types[B2]":   "variation",
		"parent_products[B2]": "A1",
		"parent_products[C3]": "A1",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if msg != "Updated product types for 2 products" {
		t.Errorf("Unexpected message %q", msg)
	}

	changes := fp.got.Changes
	sort.Slice(changes, func(i, j int) bool { return changes[i].StockID < changes[j].StockID })
	if len(changes) != 2 || changes[1].StockID != "B2" || changes[1].ParentStockID != "A1" || changes[0].ParentStockID != "" {
		t.Errorf("Unexpected changes %+v", changes)
	}
}

func TestDispatcher(t *testing.T) {
	d := NewDispatcher(zerolog.Nop(),
		NewGenerateVariations(&fakeVariations{}),
		NewCreateChild(&fakeVariations{}),
		NewUpdateProductTypes(&fakeProductTypes{}),
	)
	ctx := context.Background()

	if names := d.Names(); len(names) != 3 || names[0] != GenerateVariations {
		t.Errorf("Unexpected names %v", names)
	}

	if _, ok := d.Dispatch(ctx, "u1", "export_csv", Form{}); ok {
		t.Error("Expected unknown action to be left to the host")
	}

	msg, ok := d.Dispatch(ctx, "u1", CreateChild, Form{"stock_id": "ABC"})
	if !ok || msg != "Child product 'ABC-VAR-1' created successfully from parent 'ABC'" {
		t.Errorf("Unexpected result %q %v", msg, ok)
	}

	msg, ok = d.Dispatch(ctx, "u1", CreateChild, Form{})
	if !ok || msg != "Error handling plugin action 'create_child': Stock ID is required" {
		t.Errorf("Unexpected error message %q", msg)
	}

	msg, _ = d.Dispatch(ctx, "u1", UpdateProductTypes, Form{"product_types[X]": "variation"})
	if msg != "Error handling plugin action 'update_product_types': Parent product is required for variation type" {
		t.Errorf("Unexpected error message %q", msg)
	}
}
