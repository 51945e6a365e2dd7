package cart

// ShippingFee is the flat delivery charge added on top of the subtotal.
const ShippingFee int64 = 100

// Variant is the buyer's selection for products that come in more than
// one configuration. Which fields apply depends on the product.
type Variant struct {
	Size        string `json:"size,omitempty"`
	Color       string `json:"color,omitempty"`
	MemorySpec  string `json:"memorySpec,omitempty"`
	StorageSpec string `json:"storageSpec,omitempty"`
}

func (v Variant) Empty() bool {
	return v == Variant{}
}

// ProductSnapshot is the server-computed product view embedded in a line
// item. The server is the source of truth for its fields, pricing
// included.
type ProductSnapshot struct {
	Name   string   `json:"name" validate:"required"`
	Price  int64    `json:"price" validate:"gte=0"`
	Images []string `json:"images"`
}

type LineItem struct {
	ID        string          `json:"id" validate:"required"`
	ProductID string          `json:"productId" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gte=1"`
	Variant   Variant         `json:"variant"`
	Product   ProductSnapshot `json:"product"`
}
