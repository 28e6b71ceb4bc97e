package store

import (
	"sync"

	"github.com/khannadk2/swift-order-entry/internal/domain"
)

// ApprovalStore is a thread-safe queue of orders awaiting supervisory
// sign-off, in submission order.
type ApprovalStore struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Order
	pending []*domain.Order // FIFO
}

// NewApprovalStore creates an empty ApprovalStore.
func NewApprovalStore() *ApprovalStore {
	return &ApprovalStore{
		byID:    make(map[string]*domain.Order),
		pending: make([]*domain.Order, 0),
	}
}

// Add enqueues an order for approval.
func (s *ApprovalStore) Add(o *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[o.OrderID]; ok {
		return
	}
	s.byID[o.OrderID] = o
	s.pending = append(s.pending, o)
}

// Get retrieves a queued order by ID. It returns
// domain.ErrOrderNotPending if the order is not awaiting approval.
func (s *ApprovalStore) Get(orderID string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.byID[orderID]
	if !ok {
		return nil, domain.ErrOrderNotPending
	}
	return o, nil
}

// Pending returns the queued orders in submission order.
func (s *ApprovalStore) Pending() []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Order, len(s.pending))
	copy(result, s.pending)
	return result
}

// Remove dequeues an order after a decision (or cancellation). It
// returns domain.ErrOrderNotPending if the order is not queued.
func (s *ApprovalStore) Remove(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[orderID]; !ok {
		return domain.ErrOrderNotPending
	}
	delete(s.byID, orderID)

	for i, o := range s.pending {
		if o.OrderID == orderID {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of orders awaiting approval.
func (s *ApprovalStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending)
}
