package steps

import (
	"strings"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/commerce"
)

// Diet is the coarse dietary category used to pick suggestions.
type Diet string

const (
	DietVeg    Diet = "veg"
	DietNonVeg Diet = "non-veg"
	DietVegan  Diet = "vegan"
)

// ExtractDiet scans free text for a dietary keyword and defaults to veg,
// which also covers plain "veg" and "vegetarian".
func ExtractDiet(text string) Diet {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "vegan"):
		return DietVegan
	case containsAny(lower, "non-veg", "non veg", "nonveg", "non vegetarian", "non-vegetarian", "nonvegetarian"):
		return DietNonVeg
	default:
		return DietVeg
	}
}

// DietaryType is the value stored on order and cart line items.
func (d Diet) DietaryType() string {
	switch d {
	case DietNonVeg:
		return commerce.DietNonVegetarian
	case DietVegan:
		return commerce.DietVegan
	default:
		return commerce.DietVegetarian
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
