package order

// Status is the order lifecycle state. The client never computes
// transitions on its own; it only applies transitions announced by the
// server and enforces which states are user-cancelable.
type Status string

const (
	StatusPending     Status = "pending"
	StatusPreparation Status = "preparation"
	StatusOnTheWay    Status = "on-the-way"
	StatusDelivered   Status = "delivered"
	StatusCancelled   Status = "cancelled"
)

var transitions = map[Status]map[Status]bool{
	StatusPending:     {StatusPreparation: true, StatusCancelled: true},
	StatusPreparation: {StatusOnTheWay: true, StatusCancelled: true},
	StatusOnTheWay:    {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered:   {},
	StatusCancelled:   {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s Status) CanTransitionTo(to Status) bool {
	return transitions[s][to]
}

// CanCancel reports user-initiated cancelability. Narrower than the
// machine itself: once the order is on the way the server refuses the
// cancel, so the client does not offer it.
func (s Status) CanCancel() bool {
	return s == StatusPending || s == StatusPreparation
}

// PaymentStatus is one-way: unpaid to paid.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

func (p PaymentStatus) Terminal() bool {
	return p == PaymentPaid
}

type PaymentMethod string

const (
	MethodCOD    PaymentMethod = "cod"
	MethodEsewa  PaymentMethod = "esewa"
	MethodKhalti PaymentMethod = "khalti"
)

// RequiresRedirect reports whether completing payment needs a full-page
// redirect to the external provider.
func (m PaymentMethod) RequiresRedirect() bool {
	return m == MethodEsewa || m == MethodKhalti
}
