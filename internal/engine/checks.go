// Package engine implements the pre-trade compliance check engine and
// the post-submission warning derivation that feeds approval triage.
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/khannadk2/swift-order-entry/internal/domain"
	"github.com/khannadk2/swift-order-entry/internal/refdata"
)

// Severity classifies a check result. Hard failures block submission,
// soft failures route the order to supervisory approval, warnings are
// informational only.
type Severity string

const (
	SeverityHard    Severity = "hard"
	SeveritySoft    Severity = "soft"
	SeverityWarning Severity = "warning"
	SeverityPass    Severity = "pass"
)

// priority orders severities for the outcome reduction:
// hard > soft > warning > pass.
func (s Severity) priority() int {
	switch s {
	case SeverityHard:
		return 3
	case SeveritySoft:
		return 2
	case SeverityWarning:
		return 1
	}
	return 0
}

// Check names. Each rule always reports under the same name and the
// same firing severity; only the pass/fail branch varies per evaluation.
const (
	CheckRestrictedSecurity = "Restricted Security"
	CheckClientResidency    = "Client Residency"
	CheckCashSufficiency    = "Cash Sufficiency"
	CheckConcentrationLimit = "Concentration Limit"
	CheckOrderSize          = "Order Size"
	CheckPriceDeviation     = "Price Deviation"
)

// Contract constants. DeriveWarnings reuses OrderSizeThreshold and
// PriceDeviationLimitPct so the live checks and the approval triage
// cannot disagree on thresholds.
var (
	// ConcentrationLimitPct is the maximum post-trade position value as
	// a percentage of portfolio value.
	ConcentrationLimitPct = decimal.NewFromInt(20)

	// OrderSizeThreshold is the notional value above which an order
	// requires supervisory approval. The comparison is strictly
	// greater-than: an order of exactly this value passes.
	OrderSizeThreshold = decimal.NewFromInt(100000)

	// PriceDeviationLimitPct is the limit-to-market deviation above
	// which a warning is raised.
	PriceDeviationLimitPct = decimal.NewFromInt(3)

	// FeeRate is the commission rate (0.1%) applied upstream when
	// deriving order totals. It is part of the desk contract but not
	// consulted by the checks themselves.
	FeeRate = decimal.RequireFromString("0.001")

	hundred = decimal.NewFromInt(100)
)

// CheckResult is one evaluated rule. Message is fully rendered with
// concrete numbers at evaluation time.
type CheckResult struct {
	Name     string
	Severity Severity
	Message  string
}

// OrderContext is the order-entry state a check evaluation runs against.
// LimitPrice arrives as the raw input string and may be empty or
// non-numeric; a failed parse skips the price-deviation rule rather than
// raising an error.
type OrderContext struct {
	Security          *domain.Security
	Side              domain.OrderSide
	OrderAmount       decimal.Decimal
	LimitPrice        string
	OrderType         domain.OrderType
	InvestmentAccount string
	CashAccount       string
}

// RunChecks evaluates the fixed rule sequence against the order context
// and reference data. It is pure: no I/O, no hidden state, and safe to
// call on every keystroke. The returned slice preserves rule order for
// display. An incomplete order (no security or non-positive amount)
// yields no results at all.
func RunChecks(ctx OrderContext, ref refdata.Provider) []CheckResult {
	if ctx.Security == nil || !ctx.OrderAmount.IsPositive() {
		return nil
	}

	symbol := ctx.Security.Symbol
	results := make([]CheckResult, 0, 6)

	// Restricted security. Silent when it does not fire: "not
	// restricted" is not noteworthy enough to display.
	if ref.IsRestricted(symbol) {
		results = append(results, CheckResult{
			Name:     CheckRestrictedSecurity,
			Severity: SeverityHard,
			Message:  fmt.Sprintf("%s is on the restricted securities list and cannot be traded.", symbol),
		})
	}

	// Client residency. Also silent when not applicable; the message is
	// the reference-data reason verbatim.
	if reason, ok := ref.ResidencyRestriction(symbol); ok {
		results = append(results, CheckResult{
			Name:     CheckClientResidency,
			Severity: SeverityHard,
			Message:  reason,
		})
	}

	// Cash sufficiency. Only meaningful for buys with a cash account
	// chosen; otherwise the rule is entirely absent.
	if ctx.Side == domain.OrderSideBuy && ctx.CashAccount != "" {
		available := ref.CashBalance(ctx.CashAccount)
		if ctx.OrderAmount.GreaterThan(available) {
			results = append(results, CheckResult{
				Name:     CheckCashSufficiency,
				Severity: SeverityHard,
				Message: fmt.Sprintf("Order requires %s but only %s is available in %s.",
					domain.FormatUSD(ctx.OrderAmount), domain.FormatUSD(available), ctx.CashAccount),
			})
		} else {
			results = append(results, CheckResult{
				Name:     CheckCashSufficiency,
				Severity: SeverityPass,
				Message:  fmt.Sprintf("Available funds of %s cover the order.", domain.FormatUSD(available)),
			})
		}
	}

	// Concentration limit. Needs an investment account. Sells reduce
	// exposure; a zero-value portfolio counts as zero concentration.
	if ctx.InvestmentAccount != "" {
		portfolio := ref.PortfolioValue(ctx.InvestmentAccount)
		holding := ref.CurrentHolding(ctx.InvestmentAccount, symbol)

		var newExposure decimal.Decimal
		if ctx.Side == domain.OrderSideBuy {
			newExposure = holding.Add(ctx.OrderAmount)
		} else {
			newExposure = holding.Sub(ctx.OrderAmount)
		}

		concentration := decimal.Zero
		if portfolio.IsPositive() {
			concentration = newExposure.Div(portfolio).Mul(hundred)
		}

		if concentration.GreaterThan(ConcentrationLimitPct) {
			results = append(results, CheckResult{
				Name:     CheckConcentrationLimit,
				Severity: SeverityHard,
				Message: fmt.Sprintf("Resulting position concentration of %s exceeds the %s single-position limit.",
					domain.FormatPercent(concentration), domain.FormatPercent(ConcentrationLimitPct)),
			})
		} else {
			results = append(results, CheckResult{
				Name:     CheckConcentrationLimit,
				Severity: SeverityPass,
				Message: fmt.Sprintf("Resulting position concentration of %s is within the %s limit.",
					domain.FormatPercent(concentration), domain.FormatPercent(ConcentrationLimitPct)),
			})
		}
	}

	// Order size. Always evaluated once the guard clause passes.
	if ctx.OrderAmount.GreaterThan(OrderSizeThreshold) {
		results = append(results, CheckResult{
			Name:     CheckOrderSize,
			Severity: SeveritySoft,
			Message: fmt.Sprintf("Order value of %s exceeds the %s threshold; supervisory approval is required.",
				domain.FormatUSD(ctx.OrderAmount), domain.FormatUSD(OrderSizeThreshold)),
		})
	} else {
		results = append(results, CheckResult{
			Name:     CheckOrderSize,
			Severity: SeverityPass,
			Message: fmt.Sprintf("Order value of %s is within the %s threshold.",
				domain.FormatUSD(ctx.OrderAmount), domain.FormatUSD(OrderSizeThreshold)),
		})
	}

	// Price deviation. Limit orders with a parseable limit price only.
	// A malformed limit price means the rule does not fire — partial
	// input must never crash the caller.
	if ctx.OrderType == domain.OrderTypeLimit {
		if limit, ok := domain.ParseDecimal(ctx.LimitPrice); ok && ctx.Security.Price.IsPositive() {
			deviation := limit.Sub(ctx.Security.Price).Abs().Div(ctx.Security.Price).Mul(hundred)
			if deviation.GreaterThan(PriceDeviationLimitPct) {
				results = append(results, CheckResult{
					Name:     CheckPriceDeviation,
					Severity: SeverityWarning,
					Message: fmt.Sprintf("Limit price deviates %s from the market price of %s.",
						domain.FormatPercent(deviation), domain.FormatUSD(ctx.Security.Price)),
				})
			} else {
				results = append(results, CheckResult{
					Name:     CheckPriceDeviation,
					Severity: SeverityPass,
					Message: fmt.Sprintf("Limit price is within %s of the market price of %s.",
						domain.FormatPercent(PriceDeviationLimitPct), domain.FormatUSD(ctx.Security.Price)),
				})
			}
		}
	}

	return results
}

// Outcome reduces a result list to the highest-priority severity
// present. The reduction is order-independent; an empty list reduces to
// pass for caller convenience.
func Outcome(results []CheckResult) Severity {
	outcome := SeverityPass
	for _, r := range results {
		if r.Severity.priority() > outcome.priority() {
			outcome = r.Severity
		}
	}
	return outcome
}
