package variation

import "strings"

// Kind is the derived classification of a stock item.
type Kind string

const (
	KindSimple    Kind = "simple"
	KindVariable  Kind = "variable"
	KindVariation Kind = "variation"
)

// ParseKind accepts simple, variable or variation (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSimple, KindVariable, KindVariation:
		return k, nil
	default:
		return "", Invalidf("Unknown product type %q", s)
	}
}

// ProductType is the tagged union {Simple, Variable(categories), Variation(parent)}.
// Exactly one of Categories / ParentStockID is populated, matching Kind.
type ProductType struct {
	StockID       string `json:"stock_id"`
	Kind          Kind   `json:"type"`
	Categories    []uint `json:"categories,omitempty"`
	ParentStockID string `json:"parent_stock_id,omitempty"`
}

// DeriveType classifies a product: category assignments win, then parent, else simple.
func DeriveType(stockID string, categoryIDs []uint, parentStockID string) ProductType {
	if len(categoryIDs) > 0 {
		return ProductType{StockID: stockID, Kind: KindVariable, Categories: categoryIDs}
	}
	if strings.TrimSpace(parentStockID) != "" {
		return ProductType{StockID: stockID, Kind: KindVariation, ParentStockID: parentStockID}
	}
	return ProductType{StockID: stockID, Kind: KindSimple}
}

// Transition lists the store mutations that move a product to a new type.
type Transition struct {
	Target                   Kind
	ClearCategoryAssignments bool
	ClearParent              bool
	SetParent                string
}

// PlanTransition computes the mutations needed to move current to target.
// ok is false when nothing would change. Moving to variation requires a parent.
func PlanTransition(current ProductType, target Kind, parentStockID string) (t Transition, ok bool, err error) {
	parentStockID = strings.TrimSpace(parentStockID)

	if target == current.Kind {
		if target != KindVariation || parentStockID == "" || parentStockID == current.ParentStockID {
			return Transition{}, false, nil
		}
	}

	switch target {
	case KindSimple:
		return Transition{Target: target, ClearCategoryAssignments: true, ClearParent: true}, true, nil
	case KindVariable:
		return Transition{Target: target, ClearParent: true}, true, nil
	case KindVariation:
		if parentStockID == "" {
			return Transition{}, false, Invalidf("Parent product is required for variation type")
		}
		if parentStockID == current.StockID {
			return Transition{}, false, Invalidf("Product '%s' cannot be its own parent", parentStockID)
		}
		return Transition{Target: target, ClearCategoryAssignments: true, SetParent: parentStockID}, true, nil
	default:
		return Transition{}, false, Invalidf("Unknown product type %q", target)
	}
}
