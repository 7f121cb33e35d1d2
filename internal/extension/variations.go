package extension

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"productattrs/internal/service"
	"productattrs/internal/variation"
)

// AttributesTab is the host tab the variations section is appended to.
const AttributesTab = "product_attributes"

var variationsTemplate = template.Must(template.New("variations").Parse(`
<div class="variations-section">
  <h4>Variation Categories</h4>
  {{- if .Categories}}
  <table class="tablestyle2">
    <tr><th>Category</th><th>Royal order</th><th>Values</th></tr>
    {{- range .Categories}}
    <tr><td>{{.Label}}</td><td>{{.RoyalOrder}}</td><td>{{.ValueCount}} values</td></tr>
    {{- end}}
  </table>
  {{- else}}
  <p>No variation categories assigned.</p>
  {{- end}}
  <h4>Product Variations</h4>
  {{- if .Variations}}
  <ul class="variations">
    {{- range .Variations}}
    <li>{{.StockID}} - {{.Description}}{{if .Inactive}} (inactive){{end}}</li>
    {{- end}}
  </ul>
  {{- else}}
  <p>No variations created yet.</p>
  {{- end}}
  <form method="post" action="{{.ActionURL}}/generate_variations">
    <input type="hidden" name="stock_id" value="{{.StockID}}">
    <label><input type="checkbox" name="copy_pricing" value="1"> Copy pricing</label>
    <input type="submit" name="generate" value="Generate Variations" class="btn btn-default">
  </form>
  <form method="post" action="{{.ActionURL}}/create_child">
    <input type="hidden" name="stock_id" value="{{.StockID}}">
    <input type="submit" name="create_child" value="Create Child Product" class="btn btn-default">
  </form>
</div>
`))

type categoryRow struct {
	Label      string
	RoyalOrder string
	ValueCount int
}

type tabView struct {
	StockID    string
	ActionURL  string
	Categories []categoryRow
	Variations []service.VariationSummary
}

// Variations contributes the variations section to the attributes tab, validates parent
// references on save and removes attribute data on delete.
type Variations struct {
	attributes   service.AttributeService
	variations   service.VariationService
	productTypes service.ProductTypeService
	actionURL    string
}

func NewVariations(attributes service.AttributeService, variations service.VariationService, productTypes service.ProductTypeService, actionURL string) *Variations {
	return &Variations{
		attributes:   attributes,
		variations:   variations,
		productTypes: productTypes,
		actionURL:    strings.TrimRight(actionURL, "/"),
	}
}

func (v *Variations) Name() string { return "product_attributes_variations" }

// TabContent appends the variations section to the attributes tab; other tabs pass through.
func (v *Variations) TabContent(ctx context.Context, req TabRequest) (string, error) {
	if req.Tab != AttributesTab || strings.TrimSpace(req.StockID) == "" {
		return req.ExistingContent, nil
	}

	categories, err := v.attributes.ListCategoryAssignments(ctx, req.StockID)
	if err != nil {
		return req.ExistingContent, err
	}
	view := tabView{StockID: req.StockID, ActionURL: v.actionURL}
	for _, c := range categories {
		values, err := v.attributes.ListValues(ctx, c.ID)
		if err != nil {
			return req.ExistingContent, err
		}
		view.Categories = append(view.Categories, categoryRow{
			Label:      c.Label,
			RoyalOrder: variation.RoyalOrderLabel(c.SortOrder),
			ValueCount: len(values),
		})
	}

	view.Variations, err = v.variations.ListVariations(ctx, req.StockID)
	if err != nil {
		return req.ExistingContent, err
	}

	var buf bytes.Buffer
	if err := variationsTemplate.Execute(&buf, view); err != nil {
		return req.ExistingContent, fmt.Errorf("failed to render variations tab: %w", err)
	}
	return req.ExistingContent + buf.String(), nil
}

// PreSave rejects an item naming itself, or another variation, as its parent.
func (v *Variations) PreSave(ctx context.Context, stockID string, item ItemData) (ItemData, error) {
	parent, _ := item["parent_stock_id"].(string)
	parent = strings.TrimSpace(parent)
	if parent == "" {
		return item, nil
	}
	if parent == stockID {
		return nil, variation.Invalidf("Product '%s' cannot be its own parent", stockID)
	}

	pt, err := v.productTypes.GetProductType(ctx, parent)
	if err != nil {
		return nil, err
	}
	if pt.Kind == variation.KindVariation {
		return nil, variation.Invalidf("Parent product '%s' is itself a variation of '%s'", parent, pt.ParentStockID)
	}
	return item, nil
}

func (v *Variations) PreDelete(ctx context.Context, userID, stockID string) error {
	return v.productTypes.CleanupItem(ctx, userID, stockID)
}
