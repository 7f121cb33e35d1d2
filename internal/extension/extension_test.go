package extension

import (
	"context"
	"errors"
	"strings"
	"testing"

	"productattrs/internal/model"
	"productattrs/internal/service"
	"productattrs/internal/variation"
)

type fakeAttributes struct {
	service.AttributeService
}

func (fakeAttributes) ListCategoryAssignments(ctx context.Context, stockID string) ([]model.AttributeCategory, error) {
	return []model.AttributeCategory{{ID: 1, Label: "Size", SortOrder: 3}, {ID: 2, Label: "Color", SortOrder: 6}}, nil
}

func (fakeAttributes) ListValues(ctx context.Context, categoryID uint) ([]model.AttributeValue, error) {
	if categoryID == 1 {
		return make([]model.AttributeValue, 3), nil
	}
	return make([]model.AttributeValue, 1), nil
}

type fakeVariations struct {
	service.VariationService
}

func (fakeVariations) ListVariations(ctx context.Context, parentStockID string) ([]service.VariationSummary, error) {
	return []service.VariationSummary{{StockID: parentStockID + "-S-RED", Description: "Tee <Small>"}}, nil
}

type fakeProductTypes struct {
	service.ProductTypeService
	cleaned []string
}

func (f *fakeProductTypes) GetProductType(ctx context.Context, stockID string) (variation.ProductType, error) {
	if stockID == "KID" {
		return variation.ProductType{StockID: stockID, Kind: variation.KindVariation, ParentStockID: "BASE"}, nil
	}
	return variation.ProductType{StockID: stockID, Kind: variation.KindSimple}, nil
}

func (f *fakeProductTypes) CleanupItem(ctx context.Context, userID, stockID string) error {
	f.cleaned = append(f.cleaned, stockID)
	return nil
}

type failingHook struct{ name string }

func (h failingHook) Name() string { return h.name }

func (h failingHook) PreDelete(ctx context.Context, userID, stockID string) error {
	return errors.New("refused")
}

type suffixTab struct{ suffix string }

func (s suffixTab) Name() string { return "suffix" + s.suffix }

func (s suffixTab) TabContent(ctx context.Context, req TabRequest) (string, error) {
	return req.ExistingContent + s.suffix, nil
}

func newVariations(pt *fakeProductTypes) *Variations {
	return NewVariations(fakeAttributes{}, fakeVariations{}, pt, "/api/actions/")
}

func TestVariationsTabContent(t *testing.T) {
	v := newVariations(&fakeProductTypes{})
	ctx := context.Background()

	out, err := v.TabContent(ctx, TabRequest{StockID: "TEE", Tab: AttributesTab, ExistingContent: "<p>core</p>"})
	if err != nil {
		t.Fatalf("TabContent: %v", err)
	}
	if !strings.HasPrefix(out, "<p>core</p>") {
		t.Error("Expected existing content to be kept first")
	}
	for _, want := range []string{
		"<td>Size</td><td>Size</td><td>3 values</td>",
		"<td>Color</td><td>Color</td><td>1 values</td>",
		"TEE-S-RED - Tee &lt;Small&gt;",
		`action="/api/actions/generate_variations"`,
		`name="stock_id" value="TEE"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q\n%s", want, out)
		}
	}

	other, err := v.TabContent(ctx, TabRequest{StockID: "TEE", Tab: "general", ExistingContent: "x"})
	if err != nil || other != "x" {
		t.Errorf("Expected other tabs to pass through, got %q %v", other, err)
	}
}

func TestVariationsPreSave(t *testing.T) {
	v := newVariations(&fakeProductTypes{})
	ctx := context.Background()

	item := ItemData{"description": "Tee"}
	got, err := v.PreSave(ctx, "TEE", item)
	if err != nil || got["description"] != "Tee" {
		t.Errorf("Expected item to pass through, got %v %v", got, err)
	}

	if _, err := v.PreSave(ctx, "TEE", ItemData{"parent_stock_id": "TEE"}); !errors.Is(err, variation.ErrInvalidArgument) {
		t.Errorf("Expected self parent to be rejected, got %v", err)
	}
	if _, err := v.PreSave(ctx, "TEE", ItemData{"parent_stock_id": "KID"}); !errors.Is(err, variation.ErrInvalidArgument) {
		t.Errorf("Expected variation parent to be rejected, got %v", err)
	}
	if _, err := v.PreSave(ctx, "TEE", ItemData{"parent_stock_id": "BASE"}); err != nil {
		t.Errorf("Expected simple parent to be accepted, got %v", err)
	}
}

func TestRegistryOrder(t *testing.T) {
	pt := &fakeProductTypes{}
	r := NewRegistry(suffixTab{"-a"}, newVariations(pt), suffixTab{"-b"})

	if names := r.Names(); len(names) != 3 || names[1] != "product_attributes_variations" {
		t.Errorf("Unexpected names %v", names)
	}

	out, err := r.TabContent(context.Background(), TabRequest{StockID: "TEE", Tab: "general", ExistingContent: "x"})
	if err != nil {
		t.Fatalf("TabContent: %v", err)
	}
	if out != "x-a-b" {
		t.Errorf("Expected providers applied in order, got %q", out)
	}
}

func TestRegistryPreDeleteRunsAllHooks(t *testing.T) {
	pt := &fakeProductTypes{}
	r := NewRegistry(failingHook{"first"}, newVariations(pt))

	err := r.PreDelete(context.Background(), "u1", "TEE")
	if err == nil || !strings.Contains(err.Error(), "first: refused") {
		t.Errorf("Expected joined error from failing hook, got %v", err)
	}
	if len(pt.cleaned) != 1 || pt.cleaned[0] != "TEE" {
		t.Errorf("Expected cleanup to still run, got %v", pt.cleaned)
	}
}

func TestRegistryPreSaveStopsOnRejection(t *testing.T) {
	r := NewRegistry(newVariations(&fakeProductTypes{}))
	item, err := r.PreSave(context.Background(), "TEE", ItemData{"parent_stock_id": "TEE"})
	if !errors.Is(err, variation.ErrInvalidArgument) {
		t.Fatalf("Expected rejection, got %v", err)
	}
	if item["parent_stock_id"] != "TEE" {
		t.Errorf("Expected original item back, got %v", item)
	}
}
