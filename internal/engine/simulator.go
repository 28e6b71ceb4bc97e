package engine

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/khannadk2/swift-order-entry/internal/domain"
	"github.com/khannadk2/swift-order-entry/internal/store"
)

// StatusNotifier receives order status changes from the simulator
// without the engine layer depending on the service layer directly.
type StatusNotifier interface {
	NotifyOrderStatus(order *domain.Order)
}

// Simulator periodically advances working orders through the demo fill
// lifecycle (new → partially_filled → filled). It is seedable so demo
// runs and tests are reproducible, and it never touches orders that are
// pending approval, rejected, or cancelled. Order mutations go through
// the store's Update so they cannot race submissions.
type Simulator struct {
	interval   time.Duration
	orderStore *store.OrderStore
	notifier   StatusNotifier
	mu         sync.Mutex // guards rng
	rng        *rand.Rand
}

// NewSimulator creates a Simulator with the given tick interval and
// random seed.
func NewSimulator(interval time.Duration, seed int64, orderStore *store.OrderStore, notifier StatusNotifier) *Simulator {
	return &Simulator{
		interval:   interval,
		orderStore: orderStore,
		notifier:   notifier,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Start launches a background goroutine that ticks at the configured
// interval. It stops when ctx is cancelled.
func (s *Simulator) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

// tick advances each working order at most one lifecycle step.
func (s *Simulator) tick() {
	for _, order := range s.orderStore.Working() {
		if changed := s.advance(order.OrderID); changed != nil && s.notifier != nil {
			s.notifier.NotifyOrderStatus(changed)
		}
	}
}

// advance applies one random lifecycle step to the order under the
// store lock. It returns the order when its status or fill changed, or
// nil when the order was left alone (including orders that stopped
// being working between the snapshot and the update).
func (s *Simulator) advance(orderID string) *domain.Order {
	s.mu.Lock()
	roll := s.rng.Float64()
	fillFrac := s.rng.Float64()
	s.mu.Unlock()

	var changed bool
	order, err := s.orderStore.Update(orderID, func(o *domain.Order) error {
		switch o.Status {
		case domain.OrderStatusNew:
			switch {
			case roll < 0.25:
				o.FilledQuantity = o.Quantity
				o.Status = domain.OrderStatusFilled
				changed = true
			case roll < 0.60 && o.Quantity > 1:
				// Partial fill of at least one unit, never the full quantity.
				filled := int64(float64(o.Quantity) * fillFrac)
				if filled < 1 {
					filled = 1
				}
				if filled >= o.Quantity {
					filled = o.Quantity - 1
				}
				o.FilledQuantity = filled
				o.Status = domain.OrderStatusPartiallyFilled
				changed = true
			}
		case domain.OrderStatusPartiallyFilled:
			if roll < 0.50 {
				o.FilledQuantity = o.Quantity
				o.Status = domain.OrderStatusFilled
				changed = true
			}
		}
		return nil
	})
	if err != nil || !changed {
		return nil
	}
	return order
}
