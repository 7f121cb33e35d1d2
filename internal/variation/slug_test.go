package variation

import "testing"

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Red":          "red",
		"Extra Large!": "extralarge",
		"XL-2":         "xl2",
		"  ":           "",
		"Größe":        "gre",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestRoyalOrder(t *testing.T) {
	opts := RoyalOrderOptions()
	if len(opts) != 9 {
		t.Fatalf("Expected 9 options, got %d", len(opts))
	}
	if RoyalOrderLabel(6) != "Color" {
		t.Errorf("Expected Color at 6, got %q", RoyalOrderLabel(6))
	}
	if RoyalOrderLabel(0) != "" || RoyalOrderLabel(10) != "" {
		t.Error("Expected empty labels outside 1..9")
	}
	if IsValidRoyalOrder(0) || !IsValidRoyalOrder(9) {
		t.Error("Unexpected royal order validity")
	}
}
