package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/khannadk2/swift-order-entry/internal/domain"
	"github.com/khannadk2/swift-order-entry/internal/service"
)

// SecurityHandler handles HTTP requests for security endpoints.
type SecurityHandler struct {
	securitySvc *service.SecurityService
}

// NewSecurityHandler creates a new SecurityHandler.
func NewSecurityHandler(securitySvc *service.SecurityService) *SecurityHandler {
	return &SecurityHandler{securitySvc: securitySvc}
}

// securityResponse is a single security in responses.
type securityResponse struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Price  string `json:"price"`
}

// securityListResponse is the JSON response for GET /securities.
type securityListResponse struct {
	Securities []securityResponse `json:"securities"`
}

// Search handles GET /securities.
func (h *SecurityHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	securities, err := h.securitySvc.Search(query)
	if err != nil {
		mapSecurityError(w, err)
		return
	}

	resp := securityListResponse{
		Securities: make([]securityResponse, len(securities)),
	}
	for i, sec := range securities {
		resp.Securities[i] = buildSecurityResponse(sec)
	}

	WriteJSON(w, http.StatusOK, resp)
}

// Get handles GET /securities/{symbol}.
func (h *SecurityHandler) Get(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	sec, err := h.securitySvc.Get(symbol)
	if err != nil {
		mapSecurityError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildSecurityResponse(sec))
}

// buildSecurityResponse converts a domain security to the response DTO.
func buildSecurityResponse(sec *domain.Security) securityResponse {
	return securityResponse{
		Symbol: sec.Symbol,
		Name:   sec.Name,
		Type:   string(sec.Type),
		Price:  sec.Price.StringFixed(2),
	}
}

// mapSecurityError maps domain errors to HTTP responses for security
// endpoints.
func mapSecurityError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrSecurityNotFound):
		WriteError(w, http.StatusNotFound, "security_not_found", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
