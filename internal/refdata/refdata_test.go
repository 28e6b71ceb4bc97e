package refdata

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/khannadk2/swift-order-entry/internal/domain"
)

func TestStaticLookups(t *testing.T) {
	s := NewStatic(StaticData{
		PortfolioValues: map[string]decimal.Decimal{"INV-001 Main": dec("500000")},
		CashBalances:    map[string]decimal.Decimal{"CASH-001 USD": dec("75000")},
		Holdings: map[string]map[string]decimal.Decimal{
			"INV-001 Main": {"AAPL": dec("80000")},
		},
		Restricted: []string{"MUNI7Y"},
		Residency:  map[string]string{"UST10Y": "not available in your jurisdiction"},
	})

	if got := s.PortfolioValue("INV-001 Main"); !got.Equal(dec("500000")) {
		t.Errorf("PortfolioValue = %s, want 500000", got)
	}
	if got := s.CashBalance("CASH-001 USD"); !got.Equal(dec("75000")) {
		t.Errorf("CashBalance = %s, want 75000", got)
	}
	if got := s.CurrentHolding("INV-001 Main", "AAPL"); !got.Equal(dec("80000")) {
		t.Errorf("CurrentHolding = %s, want 80000", got)
	}
	if !s.IsRestricted("MUNI7Y") {
		t.Error("IsRestricted(MUNI7Y) = false, want true")
	}
	reason, ok := s.ResidencyRestriction("UST10Y")
	if !ok || reason != "not available in your jurisdiction" {
		t.Errorf("ResidencyRestriction = (%q, %v), want restriction", reason, ok)
	}
}

// Every Provider lookup is total: unknown keys return zero values, never
// an error, so the check engine can evaluate any input.
func TestStaticUnknownKeysReturnZero(t *testing.T) {
	s := NewStatic(StaticData{})

	if got := s.PortfolioValue("NOPE"); !got.IsZero() {
		t.Errorf("PortfolioValue(unknown) = %s, want 0", got)
	}
	if got := s.CashBalance("NOPE"); !got.IsZero() {
		t.Errorf("CashBalance(unknown) = %s, want 0", got)
	}
	if got := s.CurrentHolding("NOPE", "AAPL"); !got.IsZero() {
		t.Errorf("CurrentHolding(unknown) = %s, want 0", got)
	}
	if s.IsRestricted("NOPE") {
		t.Error("IsRestricted(unknown) = true, want false")
	}
	if _, ok := s.ResidencyRestriction("NOPE"); ok {
		t.Error("ResidencyRestriction(unknown) ok, want not ok")
	}
}

func TestStaticCopiesInput(t *testing.T) {
	cash := map[string]decimal.Decimal{"CASH-001 USD": dec("75000")}
	s := NewStatic(StaticData{CashBalances: cash})

	cash["CASH-001 USD"] = dec("1")

	if got := s.CashBalance("CASH-001 USD"); !got.Equal(dec("75000")) {
		t.Errorf("CashBalance after caller mutation = %s, want 75000", got)
	}
}

func TestCatalogFind(t *testing.T) {
	c := DemoCatalog()

	sec := c.Find("AAPL")
	if sec == nil {
		t.Fatal("Find(AAPL) = nil, want security")
	}
	if sec.Name != "Apple Inc." || sec.Type != domain.SecurityTypeEquity {
		t.Errorf("Find(AAPL) = %+v", sec)
	}
	if c.Find("ZZZZ") != nil {
		t.Error("Find(ZZZZ) != nil, want nil")
	}
}

func TestCatalogSearch(t *testing.T) {
	c := DemoCatalog()

	all := c.Search("")
	if len(all) != 10 {
		t.Fatalf("Search(\"\") returned %d securities, want 10", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Symbol >= all[i].Symbol {
			t.Fatalf("Search results not sorted: %s before %s", all[i-1].Symbol, all[i].Symbol)
		}
	}

	byName := c.Search("vanguard")
	if len(byName) != 2 {
		t.Fatalf("Search(vanguard) returned %d, want 2", len(byName))
	}

	bySymbol := c.Search("aapl")
	if len(bySymbol) != 1 || bySymbol[0].Symbol != "AAPL" {
		t.Fatalf("Search(aapl) = %v, want [AAPL]", bySymbol)
	}

	if got := c.Search("no such thing"); len(got) != 0 {
		t.Fatalf("Search(no match) returned %d, want 0", len(got))
	}
}

func TestDemoProviderFixtures(t *testing.T) {
	p := DemoProvider()

	if !p.IsRestricted("MUNI7Y") {
		t.Error("MUNI7Y should be restricted")
	}
	if _, ok := p.ResidencyRestriction("UST10Y"); !ok {
		t.Error("UST10Y should carry a residency restriction")
	}
	if got := p.CashBalance("CASH-001 USD"); !got.Equal(dec("75000")) {
		t.Errorf("CASH-001 USD balance = %s, want 75000", got)
	}
	if got := p.CurrentHolding("INV-001 Main", "AAPL"); !got.Equal(dec("80000")) {
		t.Errorf("INV-001 Main AAPL holding = %s, want 80000", got)
	}
}
