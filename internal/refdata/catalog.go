package refdata

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/khannadk2/swift-order-entry/internal/domain"
)

// Catalog is the searchable set of tradable securities. Like Static, it
// is fixed at construction and safe for concurrent reads.
type Catalog struct {
	bySymbol map[string]*domain.Security
	ordered  []*domain.Security // sorted by symbol for stable search results
}

// NewCatalog builds a catalog from the given securities.
func NewCatalog(securities []domain.Security) *Catalog {
	c := &Catalog{
		bySymbol: make(map[string]*domain.Security, len(securities)),
		ordered:  make([]*domain.Security, 0, len(securities)),
	}
	for i := range securities {
		sec := securities[i]
		c.bySymbol[sec.Symbol] = &sec
		c.ordered = append(c.ordered, &sec)
	}
	sort.Slice(c.ordered, func(i, j int) bool {
		return c.ordered[i].Symbol < c.ordered[j].Symbol
	})
	return c
}

// Find returns the security for a symbol, or nil when unknown.
func (c *Catalog) Find(symbol string) *domain.Security {
	return c.bySymbol[symbol]
}

// Search returns all securities whose symbol or name contains the query,
// case-insensitively, ordered by symbol. An empty query returns the full
// catalog.
func (c *Catalog) Search(query string) []*domain.Security {
	q := strings.ToLower(strings.TrimSpace(query))

	result := make([]*domain.Security, 0)
	for _, sec := range c.ordered {
		if q == "" ||
			strings.Contains(strings.ToLower(sec.Symbol), q) ||
			strings.Contains(strings.ToLower(sec.Name), q) {
			result = append(result, sec)
		}
	}
	return result
}

// DemoCatalog returns the demo desk's tradable universe.
func DemoCatalog() *Catalog {
	return NewCatalog([]domain.Security{
		{Symbol: "AAPL", Name: "Apple Inc.", Type: domain.SecurityTypeEquity, Price: dec("189.40")},
		{Symbol: "AMZN", Name: "Amazon.com Inc.", Type: domain.SecurityTypeEquity, Price: dec("183.75")},
		{Symbol: "GOOG", Name: "Alphabet Inc. Class C", Type: domain.SecurityTypeEquity, Price: dec("176.80")},
		{Symbol: "MSFT", Name: "Microsoft Corp.", Type: domain.SecurityTypeEquity, Price: dec("415.20")},
		{Symbol: "NVDA", Name: "NVIDIA Corp.", Type: domain.SecurityTypeEquity, Price: dec("120.15")},
		{Symbol: "VFIAX", Name: "Vanguard 500 Index Fund Admiral", Type: domain.SecurityTypeFund, Price: dec("512.30")},
		{Symbol: "VBTLX", Name: "Vanguard Total Bond Market Index Fund", Type: domain.SecurityTypeFund, Price: dec("9.72")},
		{Symbol: "UST10Y", Name: "US Treasury Note 10 Year", Type: domain.SecurityTypeBond, Price: dec("98.25")},
		{Symbol: "CORP5Y", Name: "Investment Grade Corporate Bond 5 Year", Type: domain.SecurityTypeBond, Price: dec("101.50")},
		{Symbol: "MUNI7Y", Name: "Municipal Revenue Bond 7 Year", Type: domain.SecurityTypeBond, Price: dec("103.10")},
	})
}

// DemoProvider returns the demo desk's account and restriction tables.
func DemoProvider() *Static {
	return NewStatic(StaticData{
		PortfolioValues: map[string]decimal.Decimal{
			"INV-001 Main":   dec("500000"),
			"INV-002 Growth": dec("1250000"),
		},
		CashBalances: map[string]decimal.Decimal{
			"CASH-001 USD": dec("75000"),
			"CASH-002 USD": dec("310000"),
		},
		Holdings: map[string]map[string]decimal.Decimal{
			"INV-001 Main": {
				"AAPL": dec("80000"),
				"MSFT": dec("45000"),
			},
			"INV-002 Growth": {
				"NVDA": dec("150000"),
			},
		},
		Restricted: []string{"MUNI7Y"},
		Residency: map[string]string{
			"UST10Y": "UST10Y is not available to clients in your residency jurisdiction.",
		},
	})
}

// dec parses a literal decimal; panics on invalid input since callers
// pass compile-time constants only.
func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
