package variation

// RoyalOrderOption is one position of the royal order of adjectives.
type RoyalOrderOption struct {
	SortOrder int    `json:"sort_order"`
	Label     string `json:"label"`
}

const (
	MinRoyalOrder = 1
	MaxRoyalOrder = 9
)

var royalOrder = []RoyalOrderOption{
	{1, "Quantity"},
	{2, "Opinion"},
	{3, "Size"},
	{4, "Age"},
	{5, "Shape"},
	{6, "Color"},
	{7, "Proper adjective"},
	{8, "Material"},
	{9, "Purpose"},
}

// RoyalOrderOptions returns the positions in ascending order.
func RoyalOrderOptions() []RoyalOrderOption {
	out := make([]RoyalOrderOption, len(royalOrder))
	copy(out, royalOrder)
	return out
}

// RoyalOrderLabel returns the label for a position, or "" when out of range.
func RoyalOrderLabel(sortOrder int) string {
	if !IsValidRoyalOrder(sortOrder) {
		return ""
	}
	return royalOrder[sortOrder-1].Label
}

// IsValidRoyalOrder reports whether sortOrder is within 1..9.
func IsValidRoyalOrder(sortOrder int) bool {
	return sortOrder >= MinRoyalOrder && sortOrder <= MaxRoyalOrder
}
