package refdata

import "github.com/shopspring/decimal"

// holdingKey identifies a position as (investment account, symbol).
type holdingKey struct {
	account string
	symbol  string
}

// Static is a Provider backed by in-memory tables. The tables are fixed
// at construction, so lookups need no locking and every evaluation of
// the check engine sees a consistent snapshot.
type Static struct {
	portfolioValues map[string]decimal.Decimal
	cashBalances    map[string]decimal.Decimal
	holdings        map[holdingKey]decimal.Decimal
	restricted      map[string]bool
	residency       map[string]string
}

// StaticData is the constructor input for Static. Any field may be nil.
type StaticData struct {
	PortfolioValues map[string]decimal.Decimal
	CashBalances    map[string]decimal.Decimal
	// Holdings maps investment account → symbol → position value.
	Holdings   map[string]map[string]decimal.Decimal
	Restricted []string
	// Residency maps symbol → restriction reason.
	Residency map[string]string
}

// NewStatic builds a Static provider from the given tables, copying
// every map so the provider cannot observe later mutations.
func NewStatic(data StaticData) *Static {
	s := &Static{
		portfolioValues: make(map[string]decimal.Decimal, len(data.PortfolioValues)),
		cashBalances:    make(map[string]decimal.Decimal, len(data.CashBalances)),
		holdings:        make(map[holdingKey]decimal.Decimal),
		restricted:      make(map[string]bool, len(data.Restricted)),
		residency:       make(map[string]string, len(data.Residency)),
	}
	for k, v := range data.PortfolioValues {
		s.portfolioValues[k] = v
	}
	for k, v := range data.CashBalances {
		s.cashBalances[k] = v
	}
	for account, positions := range data.Holdings {
		for symbol, value := range positions {
			s.holdings[holdingKey{account, symbol}] = value
		}
	}
	for _, symbol := range data.Restricted {
		s.restricted[symbol] = true
	}
	for k, v := range data.Residency {
		s.residency[k] = v
	}
	return s
}

// PortfolioValue implements Provider.
func (s *Static) PortfolioValue(investmentAccount string) decimal.Decimal {
	return s.portfolioValues[investmentAccount]
}

// CashBalance implements Provider.
func (s *Static) CashBalance(cashAccount string) decimal.Decimal {
	return s.cashBalances[cashAccount]
}

// CurrentHolding implements Provider.
func (s *Static) CurrentHolding(investmentAccount, symbol string) decimal.Decimal {
	return s.holdings[holdingKey{investmentAccount, symbol}]
}

// IsRestricted implements Provider.
func (s *Static) IsRestricted(symbol string) bool {
	return s.restricted[symbol]
}

// ResidencyRestriction implements Provider.
func (s *Static) ResidencyRestriction(symbol string) (string, bool) {
	reason, ok := s.residency[symbol]
	return reason, ok
}
