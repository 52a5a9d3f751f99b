package wizard

// Category is a scrap type a customer can select in the first step.
type Category struct {
	ID        string
	Name      string
	RatePerKg int
}

// Catalog is the fixed, ordered list of categories. Review text and submitted
// names follow this order, not selection order.
var Catalog = []Category{
	{ID: "plastic", Name: "Plastic", RatePerKg: 20},
	{ID: "metal", Name: "Metal", RatePerKg: 40},
	{ID: "paper", Name: "Paper", RatePerKg: 12},
	{ID: "cardboard", Name: "Cardboard", RatePerKg: 15},
	{ID: "electronics", Name: "Electronics", RatePerKg: 35},
	{ID: "glass", Name: "Glass", RatePerKg: 8},
}

func lookupCategory(id string) (Category, bool) {
	for _, c := range Catalog {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
