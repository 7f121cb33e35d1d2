package variation

import (
	"sort"
	"strconv"
)

// Category is a variation axis as seen by the generator.
type Category struct {
	ID        uint   `json:"id"`
	Code      string `json:"code"`
	Label     string `json:"label"`
	SortOrder int    `json:"sort_order"`
}

// Value is one candidate value of a category.
type Value struct {
	ID    uint   `json:"id"`
	Label string `json:"value"`
	Slug  string `json:"slug"`
}

// CategoryValues pairs a category with its ordered candidate values.
type CategoryValues struct {
	Category Category
	Values   []Value
}

// Entry is one (category, value) selection inside a combination.
type Entry struct {
	CategoryID   uint   `json:"category_id"`
	CategoryCode string `json:"category_code"`
	ValueID      uint   `json:"value_id"`
	ValueSlug    string `json:"value_slug"`
	ValueLabel   string `json:"value_label"`
}

// Combination holds exactly one entry per category of the input.
type Combination []Entry

// Key identifies a combination by its (category, value) pairs regardless of entry order.
func (c Combination) Key() string {
	pairs := make([][2]uint, len(c))
	for i, e := range c {
		pairs[i] = [2]uint{e.CategoryID, e.ValueID}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})

	buf := make([]byte, 0, len(pairs)*8)
	for _, p := range pairs {
		buf = strconv.AppendUint(buf, uint64(p[0]), 10)
		buf = append(buf, ':')
		buf = strconv.AppendUint(buf, uint64(p[1]), 10)
		buf = append(buf, ';')
	}
	return string(buf)
}

// GenerateCombinations returns the Cartesian product of the candidate values.
//
// Categories are expanded in input order, so the first category varies slowest. An empty input
// yields a single empty combination. A category with no values short-circuits the whole product
// with ErrNoValuesForCategories instead of silently dropping that axis.
func GenerateCombinations(categories []CategoryValues) ([]Combination, error) {
	for _, cv := range categories {
		if len(cv.Values) == 0 {
			return nil, ErrNoValuesForCategories
		}
	}

	combinations := []Combination{{}}
	for _, cv := range categories {
		next := make([]Combination, 0, len(combinations)*len(cv.Values))
		for _, partial := range combinations {
			for _, v := range cv.Values {
				combo := make(Combination, len(partial), len(partial)+1)
				copy(combo, partial)
				combo = append(combo, Entry{
					CategoryID:   cv.Category.ID,
					CategoryCode: cv.Category.Code,
					ValueID:      v.ID,
					ValueSlug:    v.Slug,
					ValueLabel:   v.Label,
				})
				next = append(next, combo)
			}
		}
		combinations = next
	}

	return combinations, nil
}

// SortCategories orders categories canonically: ascending sort order, then code.
func SortCategories(categories []CategoryValues) []CategoryValues {
	out := make([]CategoryValues, len(categories))
	copy(out, categories)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Category, out[j].Category
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.Code < b.Code
	})
	return out
}
