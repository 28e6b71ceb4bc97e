package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/khannadk2/swift-order-entry/internal/domain"
)

// unusualSecuritySymbols is the designated set of fixed-income
// instruments whose orders are flagged for approval triage.
var unusualSecuritySymbols = map[string]bool{
	"UST10Y": true,
	"CORP5Y": true,
	"MUNI7Y": true,
}

// DeriveWarnings inspects a finalized order and returns the triage
// warnings for the approval queue plus the resulting urgency. It shares
// OrderSizeThreshold and PriceDeviationLimitPct with the live checks;
// urgency is high when two or more warnings accumulate.
func DeriveWarnings(symbol string, price decimal.Decimal, quantity int64, limitPrice *decimal.Decimal) ([]domain.Warning, domain.Urgency) {
	var warnings []domain.Warning

	notional := price.Mul(decimal.NewFromInt(quantity))
	if notional.GreaterThan(OrderSizeThreshold) {
		warnings = append(warnings, domain.Warning{
			Code: domain.WarningLargeOrder,
			Detail: fmt.Sprintf("Order value of %s exceeds %s.",
				domain.FormatUSD(notional), domain.FormatUSD(OrderSizeThreshold)),
		})
	}

	if limitPrice != nil && price.IsPositive() {
		deviation := limitPrice.Sub(price).Abs().Div(price).Mul(hundred)
		if deviation.GreaterThan(PriceDeviationLimitPct) {
			warnings = append(warnings, domain.Warning{
				Code: domain.WarningPriceDeviation,
				Detail: fmt.Sprintf("Limit price deviates %s from the market price of %s.",
					domain.FormatPercent(deviation), domain.FormatUSD(price)),
			})
		}
	}

	if unusualSecuritySymbols[symbol] {
		warnings = append(warnings, domain.Warning{
			Code:   domain.WarningUnusualSecurity,
			Detail: fmt.Sprintf("%s is a fixed-income instrument that is unusual for this desk.", symbol),
		})
	}

	urgency := domain.UrgencyNormal
	if len(warnings) >= 2 {
		urgency = domain.UrgencyHigh
	}
	return warnings, urgency
}
