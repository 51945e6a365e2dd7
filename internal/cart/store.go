package cart

import (
	"context"
	"sync"

	"storefront-client/internal/httpapi"
	"storefront-client/internal/logger"
	"storefront-client/internal/status"

	"go.uber.org/zap"
)

// Store owns the cart line items. All totals are derived on read; the
// only persisted facts are the items themselves.
type Store struct {
	mu    sync.Mutex
	api   *httpapi.Client
	items []LineItem
	state status.Status
}

func NewStore(api *httpapi.Client) *Store {
	return &Store{api: api, state: status.Loading}
}

type addPayload struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Variant
}

// AddItem sends a create request for one unit of the product. On success
// the entire line-item list is replaced with the server's authoritative
// list, since the server computes snapshot pricing.
func (s *Store) AddItem(ctx context.Context, productID string, variant Variant) error {
	log := logger.FromCtx(ctx).With(zap.String("product_id", productID))

	// 1. Guard before dispatch
	if productID == "" {
		return s.fail(log, "add to cart rejected", ErrProductRequired)
	}
	if variant.Empty() {
		return s.fail(log, "add to cart rejected", ErrVariantRequired)
	}

	// 2. Round-trip; server returns the full list
	var items []LineItem
	_, err := s.api.Post(ctx, "/cart", addPayload{
		ProductID: productID,
		Quantity:  1,
		Variant:   variant,
	}, &items)
	if err != nil {
		return s.fail(log, "failed to add item to cart", err)
	}

	// 3. Replace wholesale
	s.mu.Lock()
	s.items = items
	s.state = status.Success
	s.mu.Unlock()

	log.Info("cart item added", zap.Int("cart_size", len(items)))
	return nil
}

// UpdateQuantity patches a single line item's quantity in place. A
// quantity of zero or below is refused before any network call; removing
// an item is an explicit RemoveItem, never a zero-quantity update.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	log := logger.FromCtx(ctx).With(
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
	)

	// Guarded no-op: no network call, no state mutation of any kind.
	if quantity <= 0 {
		log.Warn("quantity update rejected", zap.Error(ErrInvalidQuantity))
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	idx := s.indexOf(productID)
	s.mu.Unlock()
	if idx == -1 {
		return s.fail(log, "quantity update rejected", ErrCartItemNotFound)
	}

	if _, err := s.api.Patch(ctx, "/cart/"+productID, map[string]int{"quantity": quantity}, nil); err != nil {
		return s.fail(log, "failed to update cart quantity", err)
	}

	// Optimistic merge: patch only the matching item, no refetch.
	s.mu.Lock()
	if i := s.indexOf(productID); i != -1 {
		s.items[i].Quantity = quantity
	}
	s.state = status.Success
	s.mu.Unlock()

	return nil
}

// RemoveItem deletes a line item on the server and splices it out of
// local state by product identity.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	log := logger.FromCtx(ctx).With(zap.String("product_id", productID))

	if productID == "" {
		return s.fail(log, "remove rejected", ErrProductRequired)
	}

	if _, err := s.api.Delete(ctx, "/cart/"+productID, nil); err != nil {
		return s.fail(log, "failed to remove cart item", err)
	}

	s.mu.Lock()
	if i := s.indexOf(productID); i != -1 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	s.state = status.Success
	s.mu.Unlock()

	log.Info("cart item removed")
	return nil
}

// FetchAll replaces local state wholly with the server response. Used on
// session start and after login.
func (s *Store) FetchAll(ctx context.Context) error {
	log := logger.FromCtx(ctx)

	var items []LineItem
	if _, err := s.api.Get(ctx, "/cart", &items); err != nil {
		return s.fail(log, "failed to fetch cart", err)
	}

	s.mu.Lock()
	s.items = items
	s.state = status.Success
	s.mu.Unlock()

	log.Info("cart fetched", zap.Int("cart_size", len(items)))
	return nil
}

// Items returns a snapshot of the current line items.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Subtotal is recomputed from current items on every call, never cached.
func (s *Store) Subtotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int64
	for _, item := range s.items {
		sum += item.Product.Price * int64(item.Quantity)
	}
	return sum
}

// Total is the subtotal plus the flat shipping fee.
func (s *Store) Total() int64 {
	return s.Subtotal() + ShippingFee
}

// TotalQuantity is the unit count across all line items.
func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, item := range s.items {
		n += item.Quantity
	}
	return n
}

func (s *Store) Status() status.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(productID string) int {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) fail(log *zap.Logger, msg string, err error) error {
	log.Warn(msg, zap.Error(err))
	s.mu.Lock()
	s.state = status.Error
	s.mu.Unlock()
	return err
}
