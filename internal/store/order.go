package store

import (
	"sync"

	"github.com/google/btree"

	"github.com/khannadk2/swift-order-entry/internal/domain"
)

// blotterLess orders the blotter index newest-first, breaking timestamp
// ties by order ID so the ordering is total.
func blotterLess(a, b *domain.Order) bool {
	if !a.SubmittedAt.Equal(b.SubmittedAt) {
		return a.SubmittedAt.After(b.SubmittedAt)
	}
	return a.OrderID < b.OrderID
}

// OrderStore is a thread-safe in-memory store for orders, with a primary
// index by order_id and a blotter index ordered newest-first.
type OrderStore struct {
	mu      sync.RWMutex
	orders  map[string]*domain.Order
	blotter *btree.BTreeG[*domain.Order]
}

// NewOrderStore creates an empty OrderStore.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders:  make(map[string]*domain.Order),
		blotter: btree.NewG(8, blotterLess),
	}
}

// Create adds an order to the store and the blotter index.
func (s *OrderStore) Create(o *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[o.OrderID] = o
	s.blotter.ReplaceOrInsert(o)
}

// Get retrieves an order by ID. It returns domain.ErrOrderNotFound if
// the order does not exist.
func (s *OrderStore) Get(id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

// List returns orders newest-first. If status is non-nil, only orders
// matching that status are included. Pagination is 1-based. Returns the
// requested page and the total count of matching orders.
func (s *OrderStore) List(status *domain.OrderStatus, page, limit int) ([]*domain.Order, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]*domain.Order, 0)
	s.blotter.Ascend(func(o *domain.Order) bool {
		if status == nil || o.Status == *status {
			filtered = append(filtered, o)
		}
		return true
	})

	total := len(filtered)

	start := (page - 1) * limit
	if start >= total {
		return []*domain.Order{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return filtered[start:end], total
}

// Working returns all orders currently live in the book (new or
// partially filled), newest-first.
func (s *OrderStore) Working() []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	working := make([]*domain.Order, 0)
	s.blotter.Ascend(func(o *domain.Order) bool {
		if o.Working() {
			working = append(working, o)
		}
		return true
	})
	return working
}

// Update applies fn to the order under the store lock, so status
// transitions from the approval workflow and the demo simulator cannot
// interleave with submissions. If fn returns an error the order is left
// as fn left it and the error is propagated.
func (s *OrderStore) Update(id string, fn func(*domain.Order) error) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if err := fn(o); err != nil {
		return nil, err
	}
	return o, nil
}

// Count returns the total number of orders in the store.
func (s *OrderStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
