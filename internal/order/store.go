package order

import (
	"context"
	"sync"

	"storefront-client/internal/cart"
	"storefront-client/internal/httpapi"
	"storefront-client/internal/logger"
	"storefront-client/internal/status"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store owns the order slice: summaries for the listing view, detail
// rows for the detail view, and the payment redirect URL from checkout.
//
// Detail rows must stay consistent with server-side truth delivered both
// by fetches and by push events, and any of them can race. Every order
// carries a sequence number that is bumped by each applied update,
// fetched rows included; a fetch response that raced with a newer update
// is discarded instead of overwriting it.
type Store struct {
	mu          sync.Mutex
	api         *httpapi.Client
	validate    *validator.Validate
	summaries   []Summary
	details     []Detail
	seqs        map[string]uint64
	redirectURL string
	state       status.Status
}

func NewStore(api *httpapi.Client) *Store {
	return &Store{
		api:      api,
		validate: validator.New(),
		seqs:     map[string]uint64{},
		state:    status.Loading,
	}
}

// ListMine replaces the order-summary list wholesale from GET /order.
func (s *Store) ListMine(ctx context.Context) error {
	log := logger.FromCtx(ctx)

	var summaries []Summary
	if _, err := s.api.Get(ctx, "/order", &summaries); err != nil {
		return s.fail(log, "failed to fetch orders", err)
	}

	s.mu.Lock()
	s.summaries = summaries
	s.state = status.Success
	s.mu.Unlock()

	log.Info("orders fetched", zap.Int("count", len(summaries)))
	return nil
}

// FetchDetail loads the detail rows for one order and merges them in by
// orderId. Rows belonging to orders not named in the response survive,
// and a response that lost the race against a newer local update (push
// event, cancel, or an overlapping fetch) is discarded per order.
func (s *Store) FetchDetail(ctx context.Context, orderID string) error {
	log := logger.FromCtx(ctx).With(zap.String("order_id", orderID))

	s.mu.Lock()
	before := make(map[string]uint64, len(s.seqs))
	for id, seq := range s.seqs {
		before[id] = seq
	}
	s.mu.Unlock()

	var rows []Detail
	if _, err := s.api.Get(ctx, "/order/"+orderID, &rows); err != nil {
		return s.fail(log, "failed to fetch order detail", err)
	}

	// Group the response per order so staleness is judged per order.
	grouped := map[string][]Detail{}
	for _, row := range rows {
		grouped[row.OrderID] = append(grouped[row.OrderID], row)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, group := range grouped {
		if s.seqs[id] != before[id] {
			log.Info("discarding stale detail rows", zap.String("stale_order_id", id))
			continue
		}
		// Terminal states never regress, even when the server's read
		// replica is behind: keep the local terminal status while
		// accepting the rest of the row.
		if current, ok := s.statusOfLocked(id); ok && current.Terminal() {
			for i := range group {
				group[i].Status = current
			}
		}
		for _, existing := range s.detailsOfLocked(id) {
			if existing.Payment.Status.Terminal() {
				for i := range group {
					if group[i].Payment.ID == existing.Payment.ID {
						group[i].Payment.Status = existing.Payment.Status
					}
				}
			}
		}
		s.replaceDetailRows(id, group)
	}
	s.state = status.Success
	return nil
}

// Checkout submits the full order. The displayed total is recomputed
// here from the line items plus the flat shipping fee; the server
// recomputes it independently and the two must agree.
func (s *Store) Checkout(ctx context.Context, payload CheckoutPayload) (*CheckoutResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("payment_method", string(payload.PaymentMethod)),
		zap.Int("item_count", len(payload.Items)),
	)

	// 1. Guard before dispatch
	if len(payload.Items) == 0 {
		return nil, s.fail(log, "checkout rejected", ErrEmptyOrder)
	}
	if err := s.validate.Struct(payload); err != nil {
		return nil, s.fail(log, "checkout payload invalid", err)
	}

	var subtotal int64
	for _, item := range payload.Items {
		subtotal += item.Price * int64(item.Quantity)
	}
	total := subtotal + cart.ShippingFee
	if payload.TotalPrice != 0 && payload.TotalPrice != total {
		return nil, s.fail(log, "checkout rejected", ErrTotalMismatch)
	}
	payload.TotalPrice = total

	// 2. Submit with an idempotency key so a retried click cannot
	// create a second order.
	var created []Summary
	res, err := s.api.Post(ctx, "/order", payload, &created,
		httpapi.WithHeader("Idempotency-Key", uuid.NewString()))
	if err != nil {
		return nil, s.fail(log, "checkout failed", err)
	}

	s.mu.Lock()
	s.mergeSummariesLocked(created)
	s.redirectURL = res.URL
	s.state = status.Success
	s.mu.Unlock()

	log.Info("checkout completed",
		zap.Int64("total_price", total),
		zap.Bool("redirect", res.URL != ""),
	)

	// Navigation to the provider is the caller's effect, not ours.
	return &CheckoutResult{Orders: created, RedirectURL: res.URL}, nil
}

// Cancel requests cancellation and, on success, applies exactly one
// local transition to cancelled without refetching. Eligibility is
// checked client-side; the server stays the final authority.
func (s *Store) Cancel(ctx context.Context, orderID string) error {
	log := logger.FromCtx(ctx).With(zap.String("order_id", orderID))

	current, ok := s.statusOf(orderID)
	if !ok {
		return s.fail(log, "cancel rejected", ErrOrderNotFound)
	}
	if !current.CanCancel() {
		log.Warn("cancel rejected", zap.String("current_status", string(current)))
		return ErrNotCancelable
	}

	if _, err := s.api.Patch(ctx, "/order/cancel-order/"+orderID, nil, nil); err != nil {
		return s.fail(log, "cancel failed", err)
	}

	s.mu.Lock()
	s.applyStatusLocked(orderID, StatusCancelled)
	s.seqs[orderID]++
	s.state = status.Success
	s.mu.Unlock()

	log.Info("order cancelled")
	return nil
}

// ApplyOrderStatus applies a server-announced status transition. An
// orderId with no local detail rows is a no-op: a push event is not a
// substitute for a fetch. Terminal states never transition again.
// Returns whether the update was applied.
func (s *Store) ApplyOrderStatus(orderID string, newStatus Status) bool {
	log := logger.L().With(
		zap.String("order_id", orderID),
		zap.String("new_status", string(newStatus)),
	)

	if !newStatus.Valid() {
		log.Warn("ignoring unknown order status")
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.statusOfLocked(orderID)
	if !ok {
		log.Debug("ignoring status event for unknown order")
		return false
	}
	if current.Terminal() || !current.CanTransitionTo(newStatus) {
		log.Warn("ignoring invalid status transition",
			zap.String("current_status", string(current)))
		return false
	}

	s.applyStatusLocked(orderID, newStatus)
	s.seqs[orderID]++
	log.Info("order status applied")
	return true
}

// ApplyPaymentStatus applies a server-announced payment transition to
// the matching detail rows. Paid is terminal.
func (s *Store) ApplyPaymentStatus(orderID, paymentID string, newStatus PaymentStatus) bool {
	log := logger.L().With(
		zap.String("order_id", orderID),
		zap.String("payment_id", paymentID),
		zap.String("new_status", string(newStatus)),
	)

	if newStatus != PaymentPaid && newStatus != PaymentUnpaid {
		log.Warn("ignoring unknown payment status")
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	applied := false
	for i := range s.details {
		row := &s.details[i]
		if row.OrderID != orderID {
			continue
		}
		if paymentID != "" && row.Payment.ID != paymentID {
			continue
		}
		if row.Payment.Status.Terminal() || row.Payment.Status == newStatus {
			continue
		}
		row.Payment.Status = newStatus
		applied = true
	}

	if applied {
		s.seqs[orderID]++
		log.Info("payment status applied")
	} else {
		log.Debug("payment event did not match local state")
	}
	return applied
}

// Summaries returns a snapshot of the order-summary list.
func (s *Store) Summaries() []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Summary, len(s.summaries))
	copy(out, s.summaries)
	return out
}

// Details returns a snapshot of all held detail rows.
func (s *Store) Details() []Detail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Detail, len(s.details))
	copy(out, s.details)
	return out
}

// DetailsFor returns the detail rows for one order.
func (s *Store) DetailsFor(orderID string) []Detail {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Detail
	for _, row := range s.details {
		if row.OrderID == orderID {
			out = append(out, row)
		}
	}
	return out
}

// RedirectURL returns the pending payment redirect, if checkout produced
// one.
func (s *Store) RedirectURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redirectURL
}

func (s *Store) Status() status.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// statusOf resolves an order's current status from detail rows first,
// then summaries.
func (s *Store) statusOf(orderID string) (Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusOfLocked(orderID)
}

func (s *Store) statusOfLocked(orderID string) (Status, bool) {
	for i := range s.details {
		if s.details[i].OrderID == orderID {
			return s.details[i].Status, true
		}
	}
	for i := range s.summaries {
		if s.summaries[i].ID == orderID {
			return s.summaries[i].Status, true
		}
	}
	return "", false
}

// applyStatusLocked sets the status on every detail row and summary of
// the order. Must be called with the lock held.
func (s *Store) applyStatusLocked(orderID string, newStatus Status) {
	for i := range s.details {
		if s.details[i].OrderID == orderID {
			s.details[i].Status = newStatus
		}
	}
	for i := range s.summaries {
		if s.summaries[i].ID == orderID {
			s.summaries[i].Status = newStatus
		}
	}
}

// mergeSummariesLocked upserts summaries by id, keeping a previously
// fetched listing intact. Must be called with the lock held.
func (s *Store) mergeSummariesLocked(incoming []Summary) {
	for _, in := range incoming {
		replaced := false
		for i := range s.summaries {
			if s.summaries[i].ID == in.ID {
				s.summaries[i] = in
				replaced = true
				break
			}
		}
		if !replaced {
			s.summaries = append(s.summaries, in)
		}
	}
}

// detailsOfLocked returns the rows of one order. Must be called with
// the lock held.
func (s *Store) detailsOfLocked(orderID string) []Detail {
	var out []Detail
	for _, row := range s.details {
		if row.OrderID == orderID {
			out = append(out, row)
		}
	}
	return out
}

// replaceDetailRows swaps the rows of one order only and bumps its
// sequence, so an older fetch still in flight sees a mismatch and
// discards its response. Must be called with the lock held.
func (s *Store) replaceDetailRows(orderID string, rows []Detail) {
	kept := s.details[:0]
	for _, row := range s.details {
		if row.OrderID != orderID {
			kept = append(kept, row)
		}
	}
	s.details = append(kept, rows...)
	s.seqs[orderID]++
}

func (s *Store) fail(log *zap.Logger, msg string, err error) error {
	log.Warn(msg, zap.Error(err))
	s.mu.Lock()
	s.state = status.Error
	s.mu.Unlock()
	return err
}
