package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/khannadk2/swift-order-entry/internal/domain"
	"github.com/khannadk2/swift-order-entry/internal/store"
)

var subscriberRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// Valid webhook event types.
var validWebhookEvents = map[string]bool{
	"order.submitted":        true,
	"order.pending_approval": true,
	"order.approved":         true,
	"order.rejected":         true,
	"order.status_changed":   true,
}

// UpsertWebhookRequest represents the input for webhook registration.
type UpsertWebhookRequest struct {
	Subscriber string
	URL        string
	Events     []string
}

// WebhookService handles webhook CRUD and event dispatch.
type WebhookService struct {
	store  *store.WebhookStore
	client *http.Client
}

// NewWebhookService creates a new WebhookService with the given
// delivery timeout.
func NewWebhookService(webhookStore *store.WebhookStore, webhookTimeout time.Duration) *WebhookService {
	return &WebhookService{
		store: webhookStore,
		client: &http.Client{
			Timeout: webhookTimeout,
		},
	}
}

// Upsert validates the request and creates or updates webhook
// subscriptions. Returns the resulting webhooks, whether any new
// subscriptions were created, and any error.
func (s *WebhookService) Upsert(req UpsertWebhookRequest) ([]*domain.Webhook, bool, error) {
	if !subscriberRegex.MatchString(req.Subscriber) {
		return nil, false, &domain.ValidationError{
			Message: "subscriber must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}

	// Validate URL.
	if req.URL == "" {
		return nil, false, &domain.ValidationError{Message: "url is required"}
	}
	if len(req.URL) > 2048 {
		return nil, false, &domain.ValidationError{Message: "url must be at most 2048 characters"}
	}
	parsed, err := url.ParseRequestURI(req.URL)
	if err != nil || !parsed.IsAbs() {
		return nil, false, &domain.ValidationError{Message: "url must be a valid absolute URL"}
	}
	if parsed.Scheme != "https" {
		return nil, false, &domain.ValidationError{Message: "url must use https scheme"}
	}

	// Validate events.
	if len(req.Events) == 0 {
		return nil, false, &domain.ValidationError{Message: "events must be a non-empty array"}
	}

	// Deduplicate events while preserving order and validating.
	seen := make(map[string]bool, len(req.Events))
	dedupedEvents := make([]string, 0, len(req.Events))
	for _, event := range req.Events {
		if !validWebhookEvents[event] {
			return nil, false, &domain.ValidationError{
				Message: "Unknown event type: " + event + ". Must be one of: order.submitted, order.pending_approval, order.approved, order.rejected, order.status_changed",
			}
		}
		if !seen[event] {
			seen[event] = true
			dedupedEvents = append(dedupedEvents, event)
		}
	}

	// Upsert each (subscriber, event) pair.
	now := time.Now().UTC().Truncate(time.Second)
	anyCreated := false
	webhooks := make([]*domain.Webhook, 0, len(dedupedEvents))

	for _, event := range dedupedEvents {
		w := &domain.Webhook{
			WebhookID:  uuid.New().String(),
			Subscriber: req.Subscriber,
			Event:      event,
			URL:        req.URL,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		created := s.store.Upsert(w)
		if created {
			anyCreated = true
			webhooks = append(webhooks, w)
		} else {
			existing := s.store.GetBySubscriberEvent(req.Subscriber, event)
			if existing != nil {
				webhooks = append(webhooks, existing)
			}
		}
	}

	return webhooks, anyCreated, nil
}

// List returns all webhook subscriptions for a subscriber.
func (s *WebhookService) List(subscriber string) ([]*domain.Webhook, error) {
	if !subscriberRegex.MatchString(subscriber) {
		return nil, &domain.ValidationError{
			Message: "subscriber must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}
	return s.store.ListBySubscriber(subscriber), nil
}

// Delete removes a webhook subscription by ID.
func (s *WebhookService) Delete(webhookID string) error {
	return s.store.Delete(webhookID)
}

// DispatchOrderEvent delivers the payload to every subscriber of the
// event. Fire-and-forget — delivery errors are silently ignored.
func (s *WebhookService) DispatchOrderEvent(event string, payload any) {
	for _, wh := range s.store.All(event) {
		go s.deliver(wh, event, payload)
	}
}

// deliver sends the webhook payload via HTTP POST with the required
// headers. Errors are silently ignored (fire-and-forget).
func (s *WebhookService) deliver(wh *domain.Webhook, eventType string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, wh.URL, bytes.NewReader(body))
	if err != nil {
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-Id", uuid.New().String())
	req.Header.Set("X-Webhook-Id", wh.WebhookID)
	req.Header.Set("X-Event-Type", eventType)

	resp, err := s.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
