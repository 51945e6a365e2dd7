package order

import "time"

// Summary is the lightweight listing record for the "my orders" view.
// Immutable once created except for Status.
type Summary struct {
	ID         string    `json:"id" validate:"required"`
	CreatedAt  time.Time `json:"createdAt"`
	Status     Status    `json:"orderStatus" validate:"required"`
	TotalPrice int64     `json:"totalPrice" validate:"gte=0"`
	ItemCount  int       `json:"itemCount"`
}

type ShippingAddress struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	AddressLine string `json:"addressLine" validate:"required"`
	Street      string `json:"street"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state"`
	Zipcode     string `json:"zipcode"`
}

type Payment struct {
	ID     string        `json:"id"`
	Method PaymentMethod `json:"paymentMethod"`
	Status PaymentStatus `json:"paymentStatus"`
}

// ItemSnapshot is the server-computed product view frozen into a detail
// row at checkout time.
type ItemSnapshot struct {
	Name   string   `json:"name"`
	Price  int64    `json:"price"`
	Images []string `json:"images"`
}

// Detail is one full record backing the order detail view, one row per
// line item. Target of push-based status updates.
type Detail struct {
	OrderID   string          `json:"orderId" validate:"required"`
	Product   ItemSnapshot    `json:"product"`
	Quantity  int             `json:"quantity"`
	Address   ShippingAddress `json:"shippingAddress"`
	Payment   Payment         `json:"payment"`
	Status    Status          `json:"orderStatus" validate:"required"`
	CreatedAt time.Time       `json:"createdAt"`
}

type CheckoutItem struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
	Price     int64  `json:"price" validate:"gte=0"`
}

// CheckoutPayload is the full order submission: shipping info, payment
// method and line items. TotalPrice is recomputed client-side before
// dispatch; a caller-provided value that disagrees is rejected.
type CheckoutPayload struct {
	FirstName     string         `json:"firstName" validate:"required"`
	LastName      string         `json:"lastName" validate:"required"`
	Email         string         `json:"email" validate:"required,email"`
	PhoneNumber   string         `json:"phoneNumber" validate:"required"`
	AddressLine   string         `json:"addressLine" validate:"required"`
	City          string         `json:"city" validate:"required"`
	Street        string         `json:"street"`
	State         string         `json:"state"`
	Zipcode       string         `json:"zipcode"`
	PaymentMethod PaymentMethod  `json:"paymentMethod" validate:"required,oneof=cod esewa khalti"`
	TotalPrice    int64          `json:"totalPrice"`
	Items         []CheckoutItem `json:"products" validate:"required,min=1,dive"`
}

// CheckoutResult is what the caller branches on after submission.
// RedirectURL is an explicit effect: when non-empty, the caller must
// navigate the browsing context to it; the store never does.
type CheckoutResult struct {
	Orders      []Summary
	RedirectURL string
}
