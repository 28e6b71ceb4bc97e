package store

import (
	"sync"

	"github.com/khannadk2/swift-order-entry/internal/domain"
)

// WebhookStore is a thread-safe in-memory store for webhooks.
// Primary index: webhook_id → webhook.
// Secondary index: subscriber → event → webhook.
type WebhookStore struct {
	mu           sync.RWMutex
	webhooks     map[string]*domain.Webhook            // webhook_id → webhook
	bySubscriber map[string]map[string]*domain.Webhook // subscriber → event → webhook
}

// NewWebhookStore creates an empty WebhookStore.
func NewWebhookStore() *WebhookStore {
	return &WebhookStore{
		webhooks:     make(map[string]*domain.Webhook),
		bySubscriber: make(map[string]map[string]*domain.Webhook),
	}
}

// Upsert inserts or updates a webhook subscription keyed by
// (subscriber, event). If a subscription already exists for that pair,
// the URL and UpdatedAt are updated (the webhook_id remains stable). If
// the existing URL matches, it is a no-op. Returns true if a new
// subscription was created.
func (s *WebhookStore) Upsert(w *domain.Webhook) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if events, ok := s.bySubscriber[w.Subscriber]; ok {
		if existing, ok := events[w.Event]; ok {
			if existing.URL != w.URL {
				existing.URL = w.URL
				existing.UpdatedAt = w.UpdatedAt
			}
			return false
		}
	}

	// New subscription — add to both indexes.
	s.webhooks[w.WebhookID] = w

	if s.bySubscriber[w.Subscriber] == nil {
		s.bySubscriber[w.Subscriber] = make(map[string]*domain.Webhook)
	}
	s.bySubscriber[w.Subscriber][w.Event] = w

	return true
}

// Get retrieves a webhook by ID. It returns domain.ErrWebhookNotFound
// if the webhook does not exist.
func (s *WebhookStore) Get(id string) (*domain.Webhook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.webhooks[id]
	if !ok {
		return nil, domain.ErrWebhookNotFound
	}
	return w, nil
}

// ListBySubscriber returns all webhooks for a subscriber.
// Returns an empty slice if the subscriber has no subscriptions.
func (s *WebhookStore) ListBySubscriber(subscriber string) []*domain.Webhook {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := s.bySubscriber[subscriber]
	if len(events) == 0 {
		return []*domain.Webhook{}
	}

	result := make([]*domain.Webhook, 0, len(events))
	for _, w := range events {
		result = append(result, w)
	}
	return result
}

// Delete removes a webhook by ID. It returns domain.ErrWebhookNotFound
// if the webhook does not exist. Both indexes are cleaned up.
func (s *WebhookStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.webhooks[id]
	if !ok {
		return domain.ErrWebhookNotFound
	}

	delete(s.webhooks, id)

	if events, ok := s.bySubscriber[w.Subscriber]; ok {
		delete(events, w.Event)
		if len(events) == 0 {
			delete(s.bySubscriber, w.Subscriber)
		}
	}

	return nil
}

// GetBySubscriberEvent returns the webhook for a specific
// subscriber+event pair, or nil if no subscription exists.
func (s *WebhookStore) GetBySubscriberEvent(subscriber, event string) *domain.Webhook {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := s.bySubscriber[subscriber]
	if events == nil {
		return nil
	}
	return events[event]
}

// All returns every registered webhook for the given event across all
// subscribers. Used when broadcasting order events.
func (s *WebhookStore) All(event string) []*domain.Webhook {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Webhook, 0)
	for _, events := range s.bySubscriber {
		if w, ok := events[event]; ok {
			result = append(result, w)
		}
	}
	return result
}
