package domain

import "time"

// Webhook represents a subscriber's registration for an order event
// notification. Subscribers are desk-side systems (blotters, approval
// dashboards) identified by an opaque name.
type Webhook struct {
	WebhookID  string
	Subscriber string
	Event      string
	URL        string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
