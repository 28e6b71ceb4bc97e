package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/khannadk2/swift-order-entry/internal/domain"
	"github.com/khannadk2/swift-order-entry/internal/service"
)

// ApprovalHandler handles HTTP requests for the supervisory approval
// queue.
type ApprovalHandler struct {
	approvalSvc *service.ApprovalService
}

// NewApprovalHandler creates a new ApprovalHandler.
func NewApprovalHandler(approvalSvc *service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalSvc: approvalSvc}
}

// decisionRequest is the JSON request body for approve/reject.
type decisionRequest struct {
	Comment string `json:"comment"`
}

// approvalListResponse is the JSON response for GET /approvals.
type approvalListResponse struct {
	Orders []orderResponse `json:"orders"`
}

// ListPending handles GET /approvals.
func (h *ApprovalHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending := h.approvalSvc.ListPending()

	resp := approvalListResponse{
		Orders: make([]orderResponse, len(pending)),
	}
	for i, o := range pending {
		resp.Orders[i] = buildOrderResponse(o)
	}

	WriteJSON(w, http.StatusOK, resp)
}

// Approve handles POST /approvals/{order_id}/approve.
func (h *ApprovalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	var req decisionRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, err := h.approvalSvc.Approve(orderID, req.Comment)
	if err != nil {
		mapApprovalError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}

// Reject handles POST /approvals/{order_id}/reject.
func (h *ApprovalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	var req decisionRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, err := h.approvalSvc.Reject(orderID, req.Comment)
	if err != nil {
		mapApprovalError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}

// mapApprovalError maps domain errors to HTTP responses for approval
// endpoints.
func mapApprovalError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrOrderNotPending):
		WriteError(w, http.StatusNotFound, "order_not_pending_approval", err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "order_not_found", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
