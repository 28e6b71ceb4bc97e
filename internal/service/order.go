package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/khannadk2/swift-order-entry/internal/domain"
	"github.com/khannadk2/swift-order-entry/internal/engine"
	"github.com/khannadk2/swift-order-entry/internal/refdata"
	"github.com/khannadk2/swift-order-entry/internal/store"
	"github.com/khannadk2/swift-order-entry/internal/stream"
)

// ValidOrderStatuses lists all valid order status values for validation.
var ValidOrderStatuses = map[domain.OrderStatus]bool{
	domain.OrderStatusPendingApproval: true,
	domain.OrderStatusNew:             true,
	domain.OrderStatusPartiallyFilled: true,
	domain.OrderStatusFilled:          true,
	domain.OrderStatusRejected:        true,
	domain.OrderStatusCancelled:       true,
}

var validTimeInForce = map[domain.TimeInForce]bool{
	domain.TimeInForceDay: true,
	domain.TimeInForceGTC: true,
	domain.TimeInForceIOC: true,
	domain.TimeInForceFOK: true,
}

// OrderRequest represents the order-entry state sent by the client for
// both preview and submission. Exactly one of Quantity and Amount
// denominates the order; the other side is derived from the effective
// price. LimitPrice is the raw input string and may be partial during
// preview.
type OrderRequest struct {
	Symbol            string
	Side              domain.OrderSide
	Type              domain.OrderType
	TimeInForce       domain.TimeInForce
	Quantity          int64
	Amount            *float64
	LimitPrice        string
	InvestmentAccount string
	CashAccount       string
}

// OrderPreview is the live-computed order summary plus the compliance
// check panel contents. Recomputed on every preview call; nothing is
// stored.
type OrderPreview struct {
	Security         *domain.Security
	Price            decimal.Decimal // effective price used for derivation
	Quantity         int64
	Amount           decimal.Decimal
	Fee              decimal.Decimal
	Total            decimal.Decimal
	Checks           []engine.CheckResult
	Outcome          engine.Severity
	Submittable      bool
	RequiresApproval bool
}

// OrderService handles order preview, submission, retrieval,
// cancellation, and listing.
type OrderService struct {
	catalog       *refdata.Catalog
	refData       refdata.Provider
	orderStore    *store.OrderStore
	approvalStore *store.ApprovalStore
	webhookSvc    *WebhookService
	hub           *stream.Hub
}

// NewOrderService creates a new OrderService with the given
// dependencies. webhookSvc and hub may be nil.
func NewOrderService(
	catalog *refdata.Catalog,
	refData refdata.Provider,
	orderStore *store.OrderStore,
	approvalStore *store.ApprovalStore,
	webhookSvc *WebhookService,
	hub *stream.Hub,
) *OrderService {
	return &OrderService{
		catalog:       catalog,
		refData:       refData,
		orderStore:    orderStore,
		approvalStore: approvalStore,
		webhookSvc:    webhookSvc,
		hub:           hub,
	}
}

// PreviewOrder recomputes the order summary and compliance checks for
// the current order-entry state. It tolerates partial input: an empty
// symbol yields an empty preview, and a malformed limit price simply
// leaves the price-deviation check absent. Called on every relevant
// input change, so it performs no I/O beyond reference-data map reads.
func (s *OrderService) PreviewOrder(req OrderRequest) (*OrderPreview, error) {
	if req.Side != domain.OrderSideBuy && req.Side != domain.OrderSideSell {
		return nil, &domain.ValidationError{Message: "side must be 'buy' or 'sell'"}
	}
	if req.Type != domain.OrderTypeMarket && req.Type != domain.OrderTypeLimit && req.Type != domain.OrderTypeStop {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("Unknown order type: %s. Must be one of: market, limit, stop", req.Type),
		}
	}

	var sec *domain.Security
	if req.Symbol != "" {
		sec = s.catalog.Find(req.Symbol)
		if sec == nil {
			return nil, domain.ErrSecurityNotFound
		}
	}

	price, quantity, amount, fee, total := deriveTerms(sec, req)

	checks := engine.RunChecks(engine.OrderContext{
		Security:          sec,
		Side:              req.Side,
		OrderAmount:       amount,
		LimitPrice:        req.LimitPrice,
		OrderType:         req.Type,
		InvestmentAccount: req.InvestmentAccount,
		CashAccount:       req.CashAccount,
	}, s.refData)
	outcome := engine.Outcome(checks)

	fieldsComplete := sec != nil && quantity > 0 && amount.IsPositive() &&
		req.InvestmentAccount != "" && req.CashAccount != ""

	return &OrderPreview{
		Security:         sec,
		Price:            price,
		Quantity:         quantity,
		Amount:           amount,
		Fee:              fee,
		Total:            total,
		Checks:           checks,
		Outcome:          outcome,
		Submittable:      fieldsComplete && outcome != engine.SeverityHard,
		RequiresApproval: outcome == engine.SeveritySoft,
	}, nil
}

// SubmitOrder validates the request strictly, runs the compliance
// checks one final time, and records the order. A hard outcome blocks
// submission; a soft outcome records the order as pending supervisory
// approval.
func (s *OrderService) SubmitOrder(req OrderRequest) (*domain.Order, error) {
	// Validate order type and side.
	if req.Type != domain.OrderTypeMarket && req.Type != domain.OrderTypeLimit && req.Type != domain.OrderTypeStop {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("Unknown order type: %s. Must be one of: market, limit, stop", req.Type),
		}
	}
	if req.Side != domain.OrderSideBuy && req.Side != domain.OrderSideSell {
		return nil, &domain.ValidationError{Message: "side must be 'buy' or 'sell'"}
	}

	// Default and validate time in force.
	if req.TimeInForce == "" {
		req.TimeInForce = domain.TimeInForceDay
	}
	if !validTimeInForce[req.TimeInForce] {
		return nil, &domain.ValidationError{
			Message: "time_in_force must be one of: day, gtc, ioc, fok",
		}
	}

	// Validate security.
	if req.Symbol == "" {
		return nil, &domain.ValidationError{Message: "symbol is required"}
	}
	sec := s.catalog.Find(req.Symbol)
	if sec == nil {
		return nil, domain.ErrSecurityNotFound
	}

	// Validate denomination: exactly one of quantity or amount.
	if req.Quantity < 0 {
		return nil, &domain.ValidationError{Message: "quantity must be a positive integer"}
	}
	if req.Amount != nil && *req.Amount <= 0 {
		return nil, &domain.ValidationError{Message: "amount must be greater than 0"}
	}
	if req.Quantity == 0 && req.Amount == nil {
		return nil, &domain.ValidationError{Message: "either quantity or amount is required"}
	}
	if req.Quantity > 0 && req.Amount != nil {
		return nil, &domain.ValidationError{Message: "provide either quantity or amount, not both"}
	}

	// Both accounts are required for submission.
	if req.InvestmentAccount == "" {
		return nil, &domain.ValidationError{Message: "investment_account is required"}
	}
	if req.CashAccount == "" {
		return nil, &domain.ValidationError{Message: "cash_account is required"}
	}

	// Type-specific limit price validation. Preview tolerates malformed
	// limit prices; submission does not.
	var limitPrice *decimal.Decimal
	if req.Type == domain.OrderTypeLimit {
		lp, ok := domain.ParseDecimal(req.LimitPrice)
		if !ok {
			return nil, &domain.ValidationError{
				Message: "limit_price is required for limit orders and must be a valid number",
			}
		}
		if !lp.IsPositive() {
			return nil, &domain.ValidationError{Message: "limit_price must be greater than 0"}
		}
		limitPrice = &lp
	} else if req.LimitPrice != "" {
		return nil, &domain.ValidationError{Message: "limit_price is only allowed for limit orders"}
	}

	_, quantity, amount, fee, total := deriveTerms(sec, req)
	if quantity <= 0 {
		return nil, &domain.ValidationError{
			Message: "amount is too small for one unit at the current price",
		}
	}

	// Final compliance evaluation gates the submission.
	checks := engine.RunChecks(engine.OrderContext{
		Security:          sec,
		Side:              req.Side,
		OrderAmount:       amount,
		LimitPrice:        req.LimitPrice,
		OrderType:         req.Type,
		InvestmentAccount: req.InvestmentAccount,
		CashAccount:       req.CashAccount,
	}, s.refData)

	if engine.Outcome(checks) == engine.SeverityHard {
		var reasons []string
		for _, c := range checks {
			if c.Severity == engine.SeverityHard {
				reasons = append(reasons, c.Message)
			}
		}
		return nil, &domain.ComplianceError{Reasons: reasons}
	}

	warnings, urgency := engine.DeriveWarnings(sec.Symbol, sec.Price, quantity, limitPrice)

	order := &domain.Order{
		OrderID:           uuid.New().String(),
		Symbol:            sec.Symbol,
		SecurityName:      sec.Name,
		SecurityType:      sec.Type,
		Side:              req.Side,
		Type:              req.Type,
		TimeInForce:       req.TimeInForce,
		Quantity:          quantity,
		LimitPrice:        limitPrice,
		MarketPrice:       sec.Price,
		Amount:            amount,
		Fee:               fee,
		Total:             total,
		InvestmentAccount: req.InvestmentAccount,
		CashAccount:       req.CashAccount,
		Status:            domain.OrderStatusNew,
		Warnings:          warnings,
		Urgency:           urgency,
		SubmittedAt:       time.Now().UTC(),
	}

	// A soft outcome means the order is a request for supervisory
	// approval rather than an immediate working order.
	pendingApproval := engine.Outcome(checks) == engine.SeveritySoft
	if pendingApproval {
		order.Status = domain.OrderStatusPendingApproval
	}

	s.orderStore.Create(order)
	if pendingApproval {
		s.approvalStore.Add(order)
	}

	publishOrderEvent(s.hub, s.webhookSvc, "order.submitted", order)
	if pendingApproval {
		publishOrderEvent(s.hub, s.webhookSvc, "order.pending_approval", order)
	}

	return order, nil
}

// GetOrder retrieves an order by ID.
func (s *OrderService) GetOrder(orderID string) (*domain.Order, error) {
	return s.orderStore.Get(orderID)
}

// ListOrders returns a paginated page of the desk blotter, newest
// first, with optional status filtering.
func (s *OrderService) ListOrders(status *domain.OrderStatus, page, limit int) ([]*domain.Order, int, error) {
	if status != nil {
		if !ValidOrderStatuses[*status] {
			return nil, 0, &domain.ValidationError{
				Message: fmt.Sprintf("Invalid status filter: '%s'. Must be one of: pending_approval, new, partially_filled, filled, rejected, cancelled", *status),
			}
		}
	}

	if page < 1 {
		return nil, 0, &domain.ValidationError{Message: "page must be >= 1"}
	}
	if limit < 1 || limit > 100 {
		return nil, 0, &domain.ValidationError{Message: "limit must be between 1 and 100"}
	}

	orders, total := s.orderStore.List(status, page, limit)
	return orders, total, nil
}

// CancelOrder cancels an order that has not reached a terminal state.
// A pending-approval order is also removed from the approval queue.
func (s *OrderService) CancelOrder(orderID string) (*domain.Order, error) {
	wasPending := false
	order, err := s.orderStore.Update(orderID, func(o *domain.Order) error {
		if !o.Cancellable() {
			return domain.ErrOrderNotCancellable
		}
		wasPending = o.Status == domain.OrderStatusPendingApproval
		o.Status = domain.OrderStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	if wasPending {
		_ = s.approvalStore.Remove(orderID)
	}

	publishOrderEvent(s.hub, s.webhookSvc, "order.status_changed", order)
	return order, nil
}

// NotifyOrderStatus publishes a status change picked up outside the
// submission path (the demo fill simulator). Implements
// engine.StatusNotifier.
func (s *OrderService) NotifyOrderStatus(order *domain.Order) {
	publishOrderEvent(s.hub, s.webhookSvc, "order.status_changed", order)
}

// deriveTerms computes the effective price and the derived
// quantity/amount/fee/total for the order summary. For limit orders a
// parseable positive limit price takes the place of the market price;
// fees are 0.1% of the notional, added for buys and deducted for sells.
func deriveTerms(sec *domain.Security, req OrderRequest) (price decimal.Decimal, quantity int64, amount, fee, total decimal.Decimal) {
	if sec == nil {
		return decimal.Zero, 0, decimal.Zero, decimal.Zero, decimal.Zero
	}

	price = sec.Price
	if req.Type == domain.OrderTypeLimit {
		if lp, ok := domain.ParseDecimal(req.LimitPrice); ok && lp.IsPositive() {
			price = lp
		}
	}

	switch {
	case req.Quantity > 0:
		quantity = req.Quantity
		amount = price.Mul(decimal.NewFromInt(quantity))
	case req.Amount != nil && *req.Amount > 0:
		amount = decimal.NewFromFloat(*req.Amount)
		if price.IsPositive() {
			quantity = amount.Div(price).IntPart()
		}
	}

	fee = amount.Mul(engine.FeeRate).Round(2)
	if req.Side == domain.OrderSideSell {
		total = amount.Sub(fee)
	} else {
		total = amount.Add(fee)
	}
	return price, quantity, amount, fee, total
}
