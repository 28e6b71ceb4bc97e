package service

import (
	"github.com/khannadk2/swift-order-entry/internal/domain"
	"github.com/khannadk2/swift-order-entry/internal/refdata"
)

const maxSearchQueryLen = 64

// SecurityService handles security search and lookup over the catalog.
type SecurityService struct {
	catalog *refdata.Catalog
}

// NewSecurityService creates a new SecurityService.
func NewSecurityService(catalog *refdata.Catalog) *SecurityService {
	return &SecurityService{catalog: catalog}
}

// Search returns securities whose symbol or name matches the query.
// An empty query returns the full catalog.
func (s *SecurityService) Search(query string) ([]*domain.Security, error) {
	if len(query) > maxSearchQueryLen {
		return nil, &domain.ValidationError{Message: "query must be at most 64 characters"}
	}
	return s.catalog.Search(query), nil
}

// Get returns the security for a symbol.
func (s *SecurityService) Get(symbol string) (*domain.Security, error) {
	sec := s.catalog.Find(symbol)
	if sec == nil {
		return nil, domain.ErrSecurityNotFound
	}
	return sec, nil
}
