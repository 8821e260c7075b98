package model

// PlaceholderImage is served for products without an image of their own.
const PlaceholderImage = "/api/placeholder/80/80"

// Product holds the fields returned by the product-lookup service for a
// resolved barcode.
type Product struct {
	Barcode  string  `json:"barcode"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Quantity string  `json:"quantity"`
	Calories float64 `json:"calories"`
	Protein  string  `json:"protein"`
	Carbs    string  `json:"carbs"`
	Fats     string  `json:"fats"`
	Image    string  `json:"image"`
}

// WithDefaults fills any fields the lookup service left blank: display
// strings fall back to "Unknown", macro amounts to "0g".
func (p Product) WithDefaults() Product {
	if p.Name == "" {
		p.Name = "Unknown Product"
	}
	if p.Brand == "" {
		p.Brand = "Unknown"
	}
	if p.Quantity == "" {
		p.Quantity = "Unknown"
	}
	if p.Protein == "" {
		p.Protein = "0g"
	}
	if p.Carbs == "" {
		p.Carbs = "0g"
	}
	if p.Fats == "" {
		p.Fats = "0g"
	}
	if p.Calories < 0 {
		p.Calories = 0
	}
	if p.Image == "" {
		p.Image = PlaceholderImage
	}
	return p
}

// UnknownProduct is the sentinel record substituted when barcode resolution
// fails or returns no match. A scan of an unrecognized barcode still
// produces a visible entry.
func UnknownProduct(barcode string) Product {
	return Product{
		Barcode:  barcode,
		Name:     "Unknown Product",
		Brand:    "Unknown",
		Quantity: "Unknown",
		Calories: 0,
		Protein:  "0g",
		Carbs:    "0g",
		Fats:     "0g",
		Image:    PlaceholderImage,
	}
}
