package product

import (
	"context"
	"strings"
	"sync"

	"storefront-client/internal/httpapi"
	"storefront-client/internal/logger"
	"storefront-client/internal/status"

	"go.uber.org/zap"
)

// Store holds the browsable catalog slice: the fetched product list and
// the currently selected product.
type Store struct {
	mu       sync.Mutex
	api      *httpapi.Client
	products []Product
	current  *Product
	state    status.Status
}

func NewStore(api *httpapi.Client) *Store {
	return &Store{api: api, state: status.Loading}
}

// FetchAll replaces the product list wholesale from GET /product.
func (s *Store) FetchAll(ctx context.Context) error {
	log := logger.FromCtx(ctx)

	var products []Product
	if _, err := s.api.Get(ctx, "/product", &products); err != nil {
		log.Warn("failed to fetch products", zap.Error(err))
		s.setStatus(status.Error)
		return err
	}

	s.mu.Lock()
	s.products = products
	s.state = status.Success
	s.mu.Unlock()

	log.Info("products fetched", zap.Int("count", len(products)))
	return nil
}

// FetchByID selects a product, short-circuiting to the already-fetched
// list before going to the network.
func (s *Store) FetchByID(ctx context.Context, id string) error {
	log := logger.FromCtx(ctx).With(zap.String("product_id", id))

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			s.current = &p
			s.state = status.Success
			s.mu.Unlock()
			return nil
		}
	}
	s.mu.Unlock()

	var p Product
	if _, err := s.api.Get(ctx, "/product/"+id, &p); err != nil {
		log.Warn("failed to fetch product", zap.Error(err))
		s.setStatus(status.Error)
		return err
	}

	s.mu.Lock()
	s.current = &p
	s.state = status.Success
	s.mu.Unlock()
	return nil
}

// Search filters the fetched list locally by name or brand.
func (s *Store) Search(query string) []Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var matched []Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Brand), q) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Products returns a snapshot of the fetched list.
func (s *Store) Products() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Current returns the selected product, if any.
func (s *Store) Current() (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Product{}, false
	}
	return *s.current, true
}

func (s *Store) Status() status.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) setStatus(v status.Status) {
	s.mu.Lock()
	s.state = v
	s.mu.Unlock()
}
