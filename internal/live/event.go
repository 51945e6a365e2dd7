package live

import (
	"encoding/json"

	"storefront-client/internal/order"
)

const (
	EventOrderStatusChanged   = "order-status-changed"
	EventPaymentStatusChanged = "payment-status-changed"
)

// Event is the wire frame for server-pushed updates.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

type orderStatusData struct {
	OrderID string       `json:"orderId"`
	Status  order.Status `json:"status"`
}

type paymentStatusData struct {
	OrderID   string              `json:"orderId"`
	PaymentID string              `json:"paymentId"`
	Status    order.PaymentStatus `json:"status"`
}
