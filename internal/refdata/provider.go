// Package refdata supplies the account and restriction reference data
// consulted by the pre-trade compliance checks, plus the tradable
// securities catalog.
package refdata

import "github.com/shopspring/decimal"

// Provider supplies account balances, positions, and trading
// restrictions. All lookups are total functions: a missing key means
// "no position / no restriction" and yields the zero value, never an
// error. Implementations must be side-effect-free for the duration of
// one check evaluation; anything backed by remote data should hand the
// engine a pre-fetched snapshot.
type Provider interface {
	// PortfolioValue returns the net value of an investment account,
	// or zero for an unknown account.
	PortfolioValue(investmentAccount string) decimal.Decimal

	// CashBalance returns the available cash in a cash account, or
	// zero for an unknown account.
	CashBalance(cashAccount string) decimal.Decimal

	// CurrentHolding returns the current value of the account's
	// position in symbol, or zero when no position exists.
	CurrentHolding(investmentAccount, symbol string) decimal.Decimal

	// IsRestricted reports whether the symbol is on the restricted
	// securities list.
	IsRestricted(symbol string) bool

	// ResidencyRestriction returns the human-readable restriction
	// reason for the symbol and true, or "" and false when the symbol
	// carries no residency restriction.
	ResidencyRestriction(symbol string) (string, bool)
}
