package product

type Product struct {
	ID             string   `json:"id" validate:"required"`
	Name           string   `json:"name" validate:"required"`
	Brand          string   `json:"brand"`
	Price          int64    `json:"price" validate:"gte=0"`
	OriginalPrice  int64    `json:"originalPrice"`
	Images         []string `json:"image"`
	InStock        bool     `json:"inStock"`
	IsNew          bool     `json:"isNew"`
	Sizes          []string `json:"sizes"`
	Colors         []string `json:"colors"`
	RAMOptions     []string `json:"ramOptions"`
	StorageOptions []string `json:"storageOptions"`
	CategoryID     string   `json:"categoryId"`
}

// HasVariants reports whether the product requires a variant selection
// before it can be added to a cart.
func (p Product) HasVariants() bool {
	return len(p.Sizes) > 0 || len(p.Colors) > 0 ||
		len(p.RAMOptions) > 0 || len(p.StorageOptions) > 0
}
