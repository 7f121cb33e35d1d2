package variation

import (
	"errors"
	"testing"
)

func TestDeriveType(t *testing.T) {
	tests := []struct {
		name       string
		categories []uint
		parent     string
		want       Kind
	}{
		{"no categories no parent", nil, "", KindSimple},
		{"categories", []uint{1, 2}, "", KindVariable},
		{"parent", nil, "ABC123", KindVariation},
		{"blank parent", nil, "  ", KindSimple},
		{"categories win over parent", []uint{1}, "ABC123", KindVariable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveType("P", tt.categories, tt.parent); got.Kind != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got.Kind)
			}
		})
	}
}

func TestPlanTransition(t *testing.T) {
	simple := ProductType{Kind: KindSimple}
	variable := ProductType{Kind: KindVariable, Categories: []uint{1}}
	variation := ProductType{Kind: KindVariation, ParentStockID: "P1"}

	tests := []struct {
		name    string
		current ProductType
		target  Kind
		parent  string
		wantOK  bool
		want    Transition
	}{
		{"simple to simple", simple, KindSimple, "", false, Transition{}},
		{"variable to variable", variable, KindVariable, "", false, Transition{}},
		{"variation same parent", variation, KindVariation, "P1", false, Transition{}},
		{"variation no parent given", variation, KindVariation, "", false, Transition{}},
		{"variable to simple", variable, KindSimple, "", true, Transition{Target: KindSimple, ClearCategoryAssignments: true, ClearParent: true}},
		{"variation to variable", variation, KindVariable, "", true, Transition{Target: KindVariable, ClearParent: true}},
		{"simple to variation", simple, KindVariation, "P2", true, Transition{Target: KindVariation, ClearCategoryAssignments: true, SetParent: "P2"}},
		{"variable to variation", variable, KindVariation, " P2 ", true, Transition{Target: KindVariation, ClearCategoryAssignments: true, SetParent: "P2"}},
		{"variation reparent", variation, KindVariation, "P3", true, Transition{Target: KindVariation, ClearCategoryAssignments: true, SetParent: "P3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := PlanTransition(tt.current, tt.target, tt.parent)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("Expected ok=%v, got %v", tt.wantOK, ok)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestPlanTransitionVariationRequiresParent(t *testing.T) {
	_, ok, err := PlanTransition(ProductType{Kind: KindSimple}, KindVariation, "")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Expected ErrInvalidArgument, got %v", err)
	}
	if ok {
		t.Error("Expected no transition when parent is missing")
	}
}

func TestPlanTransitionRejectsSelfParent(t *testing.T) {
	_, _, err := PlanTransition(ProductType{StockID: "P1", Kind: KindSimple}, KindVariation, "P1")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" Variable "); err != nil || k != KindVariable {
		t.Errorf("Expected variable, got %s (%v)", k, err)
	}
	if _, err := ParseKind("bundle"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}
