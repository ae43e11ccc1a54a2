package commerce

// Dietary types as stored on order and cart line items.
const (
	DietVegetarian    = "vegetarian"
	DietNonVegetarian = "non-vegetarian"
	DietVegan         = "vegan"
)

// MenuItem is the projection shared by order and cart line items when they
// are offered back as suggestions.
type MenuItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}
