package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/khannadk2/swift-order-entry/internal/domain"
	"github.com/khannadk2/swift-order-entry/internal/service"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	orderSvc *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// orderRequest is the JSON request body for POST /orders and
// POST /orders/preview. limit_price arrives as a string so partial or
// malformed input degrades gracefully during preview.
type orderRequest struct {
	Symbol            string   `json:"symbol"`
	Side              string   `json:"side"`
	Type              string   `json:"type"`
	TimeInForce       string   `json:"time_in_force"`
	Quantity          int64    `json:"quantity"`
	Amount            *float64 `json:"amount"`
	LimitPrice        string   `json:"limit_price"`
	InvestmentAccount string   `json:"investment_account"`
	CashAccount       string   `json:"cash_account"`
}

// checkResponse is a single compliance check result.
type checkResponse struct {
	Name     string `json:"name"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// previewResponse is the JSON response for POST /orders/preview.
type previewResponse struct {
	Security         *securityResponse `json:"security"`
	Price            string            `json:"price"`
	Quantity         int64             `json:"quantity"`
	Amount           string            `json:"amount"`
	Fee              string            `json:"fee"`
	Total            string            `json:"total"`
	Checks           []checkResponse   `json:"checks"`
	Outcome          string            `json:"outcome"`
	Submittable      bool              `json:"submittable"`
	RequiresApproval bool              `json:"requires_approval"`
}

// warningResponse is a single triage warning on an order.
type warningResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// orderResponse is the JSON representation of a submitted order.
type orderResponse struct {
	OrderID           string            `json:"order_id"`
	Symbol            string            `json:"symbol"`
	SecurityName      string            `json:"security_name"`
	SecurityType      string            `json:"security_type"`
	Side              string            `json:"side"`
	Type              string            `json:"type"`
	TimeInForce       string            `json:"time_in_force"`
	Quantity          int64             `json:"quantity"`
	FilledQuantity    int64             `json:"filled_quantity"`
	LimitPrice        *string           `json:"limit_price"`
	MarketPrice       string            `json:"market_price"`
	Amount            string            `json:"amount"`
	Fee               string            `json:"fee"`
	Total             string            `json:"total"`
	InvestmentAccount string            `json:"investment_account"`
	CashAccount       string            `json:"cash_account"`
	Status            string            `json:"status"`
	Warnings          []warningResponse `json:"warnings"`
	Urgency           string            `json:"urgency"`
	SubmittedAt       string            `json:"submitted_at"`
	DecidedAt         *string           `json:"decided_at"`
	ApprovalComment   string            `json:"approval_comment"`
}

// orderListResponse is the JSON response for GET /orders.
type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Total  int             `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

// complianceBlockedResponse is the error body when submission is
// blocked by hard check failures.
type complianceBlockedResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Reasons []string `json:"reasons"`
}

// PreviewOrder handles POST /orders/preview.
func (h *OrderHandler) PreviewOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	preview, err := h.orderSvc.PreviewOrder(toServiceRequest(req))
	if err != nil {
		mapOrderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildPreviewResponse(preview))
}

// SubmitOrder handles POST /orders.
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, err := h.orderSvc.SubmitOrder(toServiceRequest(req))
	if err != nil {
		mapOrderError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildOrderResponse(order))
}

// GetOrder handles GET /orders/{order_id}.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	order, err := h.orderSvc.GetOrder(orderID)
	if err != nil {
		mapOrderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}

// ListOrders handles GET /orders.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var status *domain.OrderStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.OrderStatus(s)
		status = &st
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		var err error
		page, err = strconv.Atoi(p)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "page must be a valid integer")
			return
		}
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		var err error
		limit, err = strconv.Atoi(l)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "limit must be a valid integer")
			return
		}
	}

	orders, total, err := h.orderSvc.ListOrders(status, page, limit)
	if err != nil {
		mapOrderError(w, err)
		return
	}

	resp := orderListResponse{
		Orders: make([]orderResponse, len(orders)),
		Total:  total,
		Page:   page,
		Limit:  limit,
	}
	for i, o := range orders {
		resp.Orders[i] = buildOrderResponse(o)
	}

	WriteJSON(w, http.StatusOK, resp)
}

// CancelOrder handles DELETE /orders/{order_id}.
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	order, err := h.orderSvc.CancelOrder(orderID)
	if err != nil {
		mapOrderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}

// toServiceRequest converts the JSON request to the service input.
func toServiceRequest(req orderRequest) service.OrderRequest {
	return service.OrderRequest{
		Symbol:            req.Symbol,
		Side:              domain.OrderSide(req.Side),
		Type:              domain.OrderType(req.Type),
		TimeInForce:       domain.TimeInForce(req.TimeInForce),
		Quantity:          req.Quantity,
		Amount:            req.Amount,
		LimitPrice:        req.LimitPrice,
		InvestmentAccount: req.InvestmentAccount,
		CashAccount:       req.CashAccount,
	}
}

// buildPreviewResponse converts a service preview to the response DTO.
func buildPreviewResponse(p *service.OrderPreview) previewResponse {
	checks := make([]checkResponse, len(p.Checks))
	for i, c := range p.Checks {
		checks[i] = checkResponse{
			Name:     c.Name,
			Severity: string(c.Severity),
			Message:  c.Message,
		}
	}

	resp := previewResponse{
		Price:            p.Price.StringFixed(2),
		Quantity:         p.Quantity,
		Amount:           p.Amount.StringFixed(2),
		Fee:              p.Fee.StringFixed(2),
		Total:            p.Total.StringFixed(2),
		Checks:           checks,
		Outcome:          string(p.Outcome),
		Submittable:      p.Submittable,
		RequiresApproval: p.RequiresApproval,
	}
	if p.Security != nil {
		sec := buildSecurityResponse(p.Security)
		resp.Security = &sec
	}
	return resp
}

// buildOrderResponse converts a domain order to the response DTO.
func buildOrderResponse(o *domain.Order) orderResponse {
	warnings := make([]warningResponse, len(o.Warnings))
	for i, wn := range o.Warnings {
		warnings[i] = warningResponse{
			Code:   string(wn.Code),
			Detail: wn.Detail,
		}
	}

	resp := orderResponse{
		OrderID:           o.OrderID,
		Symbol:            o.Symbol,
		SecurityName:      o.SecurityName,
		SecurityType:      string(o.SecurityType),
		Side:              string(o.Side),
		Type:              string(o.Type),
		TimeInForce:       string(o.TimeInForce),
		Quantity:          o.Quantity,
		FilledQuantity:    o.FilledQuantity,
		MarketPrice:       o.MarketPrice.StringFixed(2),
		Amount:            o.Amount.StringFixed(2),
		Fee:               o.Fee.StringFixed(2),
		Total:             o.Total.StringFixed(2),
		InvestmentAccount: o.InvestmentAccount,
		CashAccount:       o.CashAccount,
		Status:            string(o.Status),
		Warnings:          warnings,
		Urgency:           string(o.Urgency),
		SubmittedAt:       o.SubmittedAt.UTC().Format(time.RFC3339),
		ApprovalComment:   o.ApprovalComment,
	}

	if o.LimitPrice != nil {
		s := o.LimitPrice.StringFixed(2)
		resp.LimitPrice = &s
	}
	if o.DecidedAt != nil {
		s := o.DecidedAt.UTC().Format(time.RFC3339)
		resp.DecidedAt = &s
	}

	return resp
}

// mapOrderError maps domain errors to HTTP responses for order
// endpoints.
func mapOrderError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	var complianceErr *domain.ComplianceError
	if errors.As(err, &complianceErr) {
		WriteJSON(w, http.StatusUnprocessableEntity, complianceBlockedResponse{
			Error:   "compliance_blocked",
			Message: "One or more pre-trade checks block this order",
			Reasons: complianceErr.Reasons,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrSecurityNotFound):
		WriteError(w, http.StatusNotFound, "security_not_found", err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, domain.ErrOrderNotCancellable):
		WriteError(w, http.StatusConflict, "order_not_cancellable", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
