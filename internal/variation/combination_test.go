package variation

import (
	"errors"
	"testing"
)

func sizeColor() []CategoryValues {
	return []CategoryValues{
		{
			Category: Category{ID: 1, Code: "size", Label: "Size", SortOrder: 1},
			Values: []Value{
				{ID: 10, Label: "Small", Slug: "s"},
				{ID: 11, Label: "Large", Slug: "l"},
			},
		},
		{
			Category: Category{ID: 2, Code: "color", Label: "Color", SortOrder: 2},
			Values: []Value{
				{ID: 20, Label: "Red", Slug: "red"},
			},
		},
	}
}

func TestGenerateCombinationsEmptyInput(t *testing.T) {
	combos, err := GenerateCombinations(nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(combos) != 1 {
		t.Fatalf("Expected exactly one combination, got %d", len(combos))
	}
	if len(combos[0]) != 0 {
		t.Errorf("Expected the empty combination, got %v", combos[0])
	}
}

func TestGenerateCombinationsCartesianCompleteness(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   int
	}{
		{"single category", []int{3}, 3},
		{"two categories", []int{2, 2}, 4},
		{"three categories", []int{2, 3, 4}, 24},
		{"singleton axis", []int{5, 1, 2}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var input []CategoryValues
			for ci, n := range tt.counts {
				cv := CategoryValues{Category: Category{ID: uint(ci + 1), Code: string(rune('a' + ci))}}
				for vi := 0; vi < n; vi++ {
					cv.Values = append(cv.Values, Value{ID: uint((ci+1)*100 + vi), Slug: "v"})
				}
				input = append(input, cv)
			}

			combos, err := GenerateCombinations(input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(combos) != tt.want {
				t.Fatalf("Expected %d combinations, got %d", tt.want, len(combos))
			}

			seen := make(map[string]bool)
			for _, c := range combos {
				if len(c) != len(tt.counts) {
					t.Errorf("Expected combination length %d, got %d", len(tt.counts), len(c))
				}
				if seen[c.Key()] {
					t.Errorf("Duplicate combination %s", c.Key())
				}
				seen[c.Key()] = true
			}
		})
	}
}

func TestGenerateCombinationsRejectsEmptyAxis(t *testing.T) {
	input := sizeColor()
	input[1].Values = nil

	combos, err := GenerateCombinations(input)
	if !errors.Is(err, ErrNoValuesForCategories) {
		t.Fatalf("Expected ErrNoValuesForCategories, got %v", err)
	}
	if len(combos) != 0 {
		t.Errorf("Expected no combinations, got %d", len(combos))
	}
}

func TestGenerateCombinationsEnumerationOrder(t *testing.T) {
	combos, err := GenerateCombinations(sizeColor())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(combos) != 2 {
		t.Fatalf("Expected 2 combinations, got %d", len(combos))
	}
	if combos[0][0].ValueSlug != "s" || combos[1][0].ValueSlug != "l" {
		t.Errorf("Expected first category to vary slowest in value order, got %v", combos)
	}
	if combos[0][1].CategoryCode != "color" || combos[0][1].ValueLabel != "Red" {
		t.Errorf("Expected second entry to be color/Red, got %+v", combos[0][1])
	}
}

func TestGenerateCombinationsPermutationInvariant(t *testing.T) {
	forward := sizeColor()
	reversed := []CategoryValues{forward[1], forward[0]}

	a, err := GenerateCombinations(forward)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b, err := GenerateCombinations(reversed)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	keys := make(map[string]bool)
	for _, c := range a {
		keys[c.Key()] = true
	}
	if len(b) != len(a) {
		t.Fatalf("Expected %d combinations, got %d", len(a), len(b))
	}
	for _, c := range b {
		if !keys[c.Key()] {
			t.Errorf("Combination %s missing from forward enumeration", c.Key())
		}
	}
}

func TestSortCategoriesTieBreaksOnCode(t *testing.T) {
	input := []CategoryValues{
		{Category: Category{ID: 1, Code: "size", SortOrder: 3}},
		{Category: Category{ID: 2, Code: "color", SortOrder: 3}},
		{Category: Category{ID: 3, Code: "qty", SortOrder: 1}},
	}

	sorted := SortCategories(input)
	got := []string{sorted[0].Category.Code, sorted[1].Category.Code, sorted[2].Category.Code}
	want := []string{"qty", "color", "size"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, got)
		}
	}
	if input[0].Category.Code != "size" {
		t.Error("SortCategories must not reorder its input")
	}
}
