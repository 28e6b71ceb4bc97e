package service

import (
	"time"

	"github.com/khannadk2/swift-order-entry/internal/domain"
	"github.com/khannadk2/swift-order-entry/internal/stream"
)

// orderEventPayload is the JSON envelope for order webhooks and the
// websocket stream.
type orderEventPayload struct {
	Event     string         `json:"event"`
	Timestamp string         `json:"timestamp"`
	Data      orderEventData `json:"data"`
}

type orderEventData struct {
	OrderID           string  `json:"order_id"`
	Symbol            string  `json:"symbol"`
	Side              string  `json:"side"`
	Type              string  `json:"type"`
	Status            string  `json:"status"`
	Quantity          int64   `json:"quantity"`
	FilledQuantity    int64   `json:"filled_quantity"`
	Amount            float64 `json:"amount"`
	Total             float64 `json:"total"`
	Urgency           string  `json:"urgency"`
	InvestmentAccount string  `json:"investment_account"`
}

// buildOrderEventPayload renders an order into the event envelope.
func buildOrderEventPayload(event string, o *domain.Order) orderEventPayload {
	return orderEventPayload{
		Event:     event,
		Timestamp: time.Now().UTC().Truncate(time.Second).Format(time.RFC3339),
		Data: orderEventData{
			OrderID:           o.OrderID,
			Symbol:            o.Symbol,
			Side:              string(o.Side),
			Type:              string(o.Type),
			Status:            string(o.Status),
			Quantity:          o.Quantity,
			FilledQuantity:    o.FilledQuantity,
			Amount:            o.Amount.InexactFloat64(),
			Total:             o.Total.InexactFloat64(),
			Urgency:           string(o.Urgency),
			InvestmentAccount: o.InvestmentAccount,
		},
	}
}

// publishOrderEvent sends the event to the websocket stream and to
// webhook subscribers. Either destination may be nil.
func publishOrderEvent(hub *stream.Hub, webhookSvc *WebhookService, event string, o *domain.Order) {
	payload := buildOrderEventPayload(event, o)
	if hub != nil {
		hub.Broadcast(payload)
	}
	if webhookSvc != nil {
		webhookSvc.DispatchOrderEvent(event, payload)
	}
}
