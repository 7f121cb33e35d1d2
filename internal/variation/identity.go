package variation

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownSortOrder is the canonical position of a category missing from the sort order table.
const UnknownSortOrder = 999

// DescriptionPolicy selects how variation descriptions are derived from the parent description.
type DescriptionPolicy string

const (
	// PolicyPlaceholder replaces ${CATEGORYCODE} tokens with the value label.
	PolicyPlaceholder DescriptionPolicy = "placeholder"
	// PolicyAppend appends " (label1, label2, ...)" in canonical category order.
	PolicyAppend DescriptionPolicy = "append"
)

// ParseDescriptionPolicy accepts "placeholder" or "append"; blank means placeholder.
func ParseDescriptionPolicy(s string) (DescriptionPolicy, error) {
	switch DescriptionPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyPlaceholder:
		return PolicyPlaceholder, nil
	case PolicyAppend:
		return PolicyAppend, nil
	default:
		return "", fmt.Errorf("%w: unknown description policy %q", ErrInvalidArgument, s)
	}
}

// SortOrders maps category id to its canonical (royal order) position.
type SortOrders map[uint]int

func (o SortOrders) of(categoryID uint) int {
	if order, ok := o[categoryID]; ok {
		return order
	}
	return UnknownSortOrder
}

// SortOrdersOf builds the sort order table for a set of categories.
func SortOrdersOf(categories []CategoryValues) SortOrders {
	orders := make(SortOrders, len(categories))
	for _, cv := range categories {
		orders[cv.Category.ID] = cv.Category.SortOrder
	}
	return orders
}

// GeneratedVariation is a named combination that has not been persisted.
type GeneratedVariation struct {
	StockID     string      `json:"stock_id"`
	Description string      `json:"description"`
	Combination Combination `json:"combination"`
}

// Synthesizer derives child stock ids and descriptions from a parent and one combination.
type Synthesizer struct {
	Policy DescriptionPolicy
}

// NewSynthesizer returns a synthesizer using the given description policy.
func NewSynthesizer(policy DescriptionPolicy) Synthesizer {
	if policy == "" {
		policy = PolicyPlaceholder
	}
	return Synthesizer{Policy: policy}
}

// Canonical returns a copy of the combination ordered by category sort order.
// Equal sort orders fall back to category code so the result never depends on input order.
func Canonical(combination Combination, orders SortOrders) Combination {
	out := make(Combination, len(combination))
	copy(out, combination)
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := orders.of(out[i].CategoryID), orders.of(out[j].CategoryID)
		if oi != oj {
			return oi < oj
		}
		return out[i].CategoryCode < out[j].CategoryCode
	})
	return out
}

// StockID joins the uppercased value slugs onto the parent id, e.g. ABC123-S-RED.
func (s Synthesizer) StockID(parentStockID string, combination Combination, orders SortOrders) string {
	sorted := Canonical(combination, orders)
	if len(sorted) == 0 {
		return parentStockID
	}

	parts := make([]string, 0, len(sorted)+1)
	parts = append(parts, parentStockID)
	for _, e := range sorted {
		parts = append(parts, strings.ToUpper(e.ValueSlug))
	}
	return strings.Join(parts, "-")
}

// Description renders the child description according to the configured policy.
func (s Synthesizer) Description(parentDescription string, combination Combination, orders SortOrders) string {
	sorted := Canonical(combination, orders)
	if s.Policy == PolicyAppend {
		return appendLabels(parentDescription, sorted)
	}
	return substitutePlaceholders(parentDescription, sorted)
}

// Variations sorts the categories canonically, expands them and names every combination.
func (s Synthesizer) Variations(parentStockID, parentDescription string, categories []CategoryValues) ([]GeneratedVariation, error) {
	sorted := SortCategories(categories)
	orders := SortOrdersOf(sorted)

	combinations, err := GenerateCombinations(sorted)
	if err != nil {
		return nil, err
	}

	variations := make([]GeneratedVariation, 0, len(combinations))
	for _, combo := range combinations {
		variations = append(variations, GeneratedVariation{
			StockID:     s.StockID(parentStockID, combo, orders),
			Description: s.Description(parentDescription, combo, orders),
			Combination: combo,
		})
	}
	return variations, nil
}

func substitutePlaceholders(description string, sorted Combination) string {
	if !strings.Contains(description, "${") {
		return description
	}

	pairs := make([]string, 0, len(sorted)*2)
	seen := make(map[string]bool, len(sorted))
	for _, e := range sorted {
		token := "${" + strings.ToUpper(e.CategoryCode) + "}"
		if seen[token] {
			continue
		}
		seen[token] = true
		pairs = append(pairs, token, e.ValueLabel)
	}
	return strings.NewReplacer(pairs...).Replace(description)
}

func appendLabels(description string, sorted Combination) string {
	if len(sorted) == 0 {
		return description
	}
	labels := make([]string, len(sorted))
	for i, e := range sorted {
		labels[i] = e.ValueLabel
	}
	return description + " (" + strings.Join(labels, ", ") + ")"
}
