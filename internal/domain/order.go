package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderType distinguishes the pricing instruction of an order.
type OrderType string

const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
	OrderTypeStop   OrderType = "stop"
)

// OrderSide indicates whether an order buys or sells the security.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// TimeInForce is the order lifetime policy. It is carried on the order
// and echoed back to clients but never interpreted by the desk itself.
type TimeInForce string

const (
	TimeInForceDay TimeInForce = "day"
	TimeInForceGTC TimeInForce = "gtc"
	TimeInForceIOC TimeInForce = "ioc"
	TimeInForceFOK TimeInForce = "fok"
)

// OrderStatus represents the lifecycle state of a submitted order.
// Orders whose pre-trade checks came back soft start in pending_approval
// and only enter the working book once a supervisor approves them.
type OrderStatus string

const (
	OrderStatusPendingApproval OrderStatus = "pending_approval"
	OrderStatusNew             OrderStatus = "new"
	OrderStatusPartiallyFilled OrderStatus = "partially_filled"
	OrderStatusFilled          OrderStatus = "filled"
	OrderStatusRejected        OrderStatus = "rejected"
	OrderStatusCancelled       OrderStatus = "cancelled"
)

// WarningCode identifies a post-submission warning attached to an order
// for approval triage.
type WarningCode string

const (
	WarningLargeOrder      WarningCode = "large_order"
	WarningPriceDeviation  WarningCode = "price_deviation"
	WarningUnusualSecurity WarningCode = "unusual_security"
)

// Warning is a single triage flag on a submitted order.
type Warning struct {
	Code   WarningCode
	Detail string
}

// Urgency ranks an order for the approval queue. An order is high
// urgency when it carries two or more warnings.
type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

// Order is a desk order as recorded at submission time. Security fields
// are snapshotted so later catalog changes cannot alter the record.
type Order struct {
	OrderID           string
	Symbol            string
	SecurityName      string
	SecurityType      SecurityType
	Side              OrderSide
	Type              OrderType
	TimeInForce       TimeInForce
	Quantity          int64
	FilledQuantity    int64
	LimitPrice        *decimal.Decimal // nil for market and stop orders
	MarketPrice       decimal.Decimal  // price snapshot at submission
	Amount            decimal.Decimal  // notional value of the trade
	Fee               decimal.Decimal
	Total             decimal.Decimal
	InvestmentAccount string
	CashAccount       string
	Status            OrderStatus
	Warnings          []Warning
	Urgency           Urgency
	SubmittedAt       time.Time
	DecidedAt         *time.Time // set when approved or rejected
	ApprovalComment   string
}

// Cancellable reports whether the order may still be cancelled by the
// desk. Filled, rejected, and already-cancelled orders are terminal.
func (o *Order) Cancellable() bool {
	switch o.Status {
	case OrderStatusPendingApproval, OrderStatusNew, OrderStatusPartiallyFilled:
		return true
	}
	return false
}

// Working reports whether the order is live in the book and eligible
// for fill progression.
func (o *Order) Working() bool {
	return o.Status == OrderStatusNew || o.Status == OrderStatusPartiallyFilled
}
