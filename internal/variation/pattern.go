package variation

import (
	"sort"
	"strings"
)

// Pattern groups existing stock ids sharing a BASE-* prefix.
type Pattern struct {
	Key      string   `json:"pattern"`
	Base     string   `json:"base_stock_id"`
	StockIDs []string `json:"existing_variations"`
}

// PatternAnalysis describes the attribute structure implied by a pattern.
type PatternAnalysis struct {
	BaseStockID        string     `json:"base_stock_id"`
	ExistingVariations []string   `json:"existing_variations"`
	AttributeGroups    [][]string `json:"attribute_groups"`
	Confidence         float64    `json:"confidence"`
}

// IdentifyPatterns finds every BASE-* prefix (split on '-' and '_') shared by at least two
// stock ids. Patterns are returned in order of first appearance.
func IdentifyPatterns(stockIDs []string) []Pattern {
	index := make(map[string]int)
	var patterns []Pattern

	for _, stockID := range stockIDs {
		parts := strings.FieldsFunc(stockID, func(r rune) bool { return r == '-' || r == '_' })
		for baseLen := 1; baseLen < len(parts); baseLen++ {
			base := strings.Join(parts[:baseLen], "-")
			key := base + "-*"
			i, ok := index[key]
			if !ok {
				i = len(patterns)
				index[key] = i
				patterns = append(patterns, Pattern{Key: key, Base: base})
			}
			patterns[i].StockIDs = append(patterns[i].StockIDs, stockID)
		}
	}

	out := patterns[:0]
	for _, p := range patterns {
		if len(p.StockIDs) >= 2 {
			out = append(out, p)
		}
	}
	return out
}

// AnalyzePattern returns nil when no stock id carries the base prefix or when the members
// disagree on how many attribute parts follow it.
func AnalyzePattern(p Pattern) *PatternAnalysis {
	prefix := p.Base + "-"
	var attributeParts [][]string
	for _, stockID := range p.StockIDs {
		if strings.HasPrefix(stockID, prefix) {
			attributeParts = append(attributeParts, strings.Split(stockID[len(prefix):], "-"))
		}
	}
	if len(attributeParts) == 0 {
		return nil
	}

	count := len(attributeParts[0])
	for _, parts := range attributeParts {
		if len(parts) != count {
			return nil
		}
	}

	groups := make([][]string, count)
	for pos := 0; pos < count; pos++ {
		seen := make(map[string]bool)
		for _, parts := range attributeParts {
			if !seen[parts[pos]] {
				seen[parts[pos]] = true
				groups[pos] = append(groups[pos], parts[pos])
			}
		}
		sort.Strings(groups[pos])
	}

	return &PatternAnalysis{
		BaseStockID:        p.Base,
		ExistingVariations: p.StockIDs,
		AttributeGroups:    groups,
		Confidence:         confidence(len(p.StockIDs), groups),
	}
}

func confidence(total int, groups [][]string) float64 {
	expected := 1
	for _, g := range groups {
		expected *= len(g)
	}
	if total == expected {
		return 1
	}
	c := float64(total) / float64(expected)
	if c > 1 {
		return 1
	}
	return c
}
