package engine

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/khannadk2/swift-order-entry/internal/domain"
	"github.com/khannadk2/swift-order-entry/internal/refdata"
)

const residencyReason = "UST10Y is not available to clients in your residency jurisdiction."

// testRefData mirrors the demo desk tables at round numbers so the
// expected percentages and dollar figures are exact.
func testRefData() refdata.Provider {
	return refdata.NewStatic(refdata.StaticData{
		PortfolioValues: map[string]decimal.Decimal{
			"INV-001 Main": dec("500000"),
		},
		CashBalances: map[string]decimal.Decimal{
			"CASH-001 USD": dec("75000"),
		},
		Holdings: map[string]map[string]decimal.Decimal{
			"INV-001 Main": {"AAPL": dec("80000")},
		},
		Restricted: []string{"MUNI7Y"},
		Residency: map[string]string{
			"UST10Y": residencyReason,
		},
	})
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sec(symbol, price string) *domain.Security {
	return &domain.Security{
		Symbol: symbol,
		Name:   symbol,
		Type:   domain.SecurityTypeEquity,
		Price:  dec(price),
	}
}

func findCheck(t *testing.T, results []CheckResult, name string) CheckResult {
	t.Helper()
	for _, r := range results {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("check %q absent from results %+v", name, results)
	return CheckResult{}
}

func hasCheck(results []CheckResult, name string) bool {
	for _, r := range results {
		if r.Name == name {
			return true
		}
	}
	return false
}

func TestRunChecks_IncompleteOrderYieldsNothing(t *testing.T) {
	ref := testRefData()

	tests := []struct {
		name string
		ctx  OrderContext
	}{
		{"nil security", OrderContext{Security: nil, Side: domain.OrderSideBuy, OrderAmount: dec("1000")}},
		{"zero amount", OrderContext{Security: sec("AAPL", "100"), Side: domain.OrderSideBuy, OrderAmount: decimal.Zero}},
		{"negative amount", OrderContext{Security: sec("AAPL", "100"), Side: domain.OrderSideBuy, OrderAmount: dec("-50")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RunChecks(tt.ctx, ref); len(got) != 0 {
				t.Errorf("RunChecks = %+v, want empty", got)
			}
		})
	}
}

func TestRunChecks_RestrictedSecurity(t *testing.T) {
	ref := testRefData()

	results := RunChecks(OrderContext{
		Security:    sec("MUNI7Y", "103.10"),
		Side:        domain.OrderSideSell,
		OrderAmount: dec("1000"),
	}, ref)

	r := findCheck(t, results, CheckRestrictedSecurity)
	if r.Severity != SeverityHard {
		t.Errorf("severity = %s, want hard", r.Severity)
	}
	if r.Message != "MUNI7Y is on the restricted securities list and cannot be traded." {
		t.Errorf("message = %q", r.Message)
	}

	// The rule is silent when the security is not restricted.
	clean := RunChecks(OrderContext{
		Security:    sec("AAPL", "100"),
		Side:        domain.OrderSideBuy,
		OrderAmount: dec("1000"),
	}, ref)
	if hasCheck(clean, CheckRestrictedSecurity) {
		t.Error("Restricted Security present for an unrestricted symbol")
	}
}

// The restriction does not depend on side, accounts, or amount sign
// beyond the guard clause.
func TestRunChecks_RestrictedFiresRegardlessOfOtherFields(t *testing.T) {
	ref := testRefData()

	for _, side := range []domain.OrderSide{domain.OrderSideBuy, domain.OrderSideSell} {
		for _, accounts := range []struct{ inv, cash string }{
			{"", ""},
			{"INV-001 Main", "CASH-001 USD"},
		} {
			results := RunChecks(OrderContext{
				Security:          sec("MUNI7Y", "103.10"),
				Side:              side,
				OrderAmount:       dec("250"),
				InvestmentAccount: accounts.inv,
				CashAccount:       accounts.cash,
			}, ref)
			r := findCheck(t, results, CheckRestrictedSecurity)
			if r.Severity != SeverityHard {
				t.Errorf("side=%s inv=%q cash=%q: severity = %s, want hard", side, accounts.inv, accounts.cash, r.Severity)
			}
		}
	}
}

func TestRunChecks_ClientResidency(t *testing.T) {
	ref := testRefData()

	results := RunChecks(OrderContext{
		Security:    sec("UST10Y", "98.25"),
		Side:        domain.OrderSideBuy,
		OrderAmount: dec("1000"),
	}, ref)

	r := findCheck(t, results, CheckClientResidency)
	if r.Severity != SeverityHard {
		t.Errorf("severity = %s, want hard", r.Severity)
	}
	if r.Message != residencyReason {
		t.Errorf("message = %q, want the reference-data reason verbatim", r.Message)
	}

	clean := RunChecks(OrderContext{
		Security:    sec("AAPL", "100"),
		Side:        domain.OrderSideBuy,
		OrderAmount: dec("1000"),
	}, ref)
	if hasCheck(clean, CheckClientResidency) {
		t.Error("Client Residency present for an unrestricted symbol")
	}
}

func TestRunChecks_CashSufficiency(t *testing.T) {
	ref := testRefData()

	t.Run("insufficient funds", func(t *testing.T) {
		results := RunChecks(OrderContext{
			Security:    sec("AAPL", "100"),
			Side:        domain.OrderSideBuy,
			OrderAmount: dec("80000"),
			CashAccount: "CASH-001 USD",
		}, ref)

		r := findCheck(t, results, CheckCashSufficiency)
		if r.Severity != SeverityHard {
			t.Errorf("severity = %s, want hard", r.Severity)
		}
		if r.Message != "Order requires $80,000.00 but only $75,000.00 is available in CASH-001 USD." {
			t.Errorf("message = %q", r.Message)
		}
	})

	t.Run("sufficient funds", func(t *testing.T) {
		results := RunChecks(OrderContext{
			Security:    sec("AAPL", "100"),
			Side:        domain.OrderSideBuy,
			OrderAmount: dec("50000"),
			CashAccount: "CASH-001 USD",
		}, ref)

		r := findCheck(t, results, CheckCashSufficiency)
		if r.Severity != SeverityPass {
			t.Errorf("severity = %s, want pass", r.Severity)
		}
		if !strings.Contains(r.Message, "$75,000.00") {
			t.Errorf("message %q does not show the available balance", r.Message)
		}
	})

	t.Run("exact balance passes", func(t *testing.T) {
		results := RunChecks(OrderContext{
			Security:    sec("AAPL", "100"),
			Side:        domain.OrderSideBuy,
			OrderAmount: dec("75000"),
			CashAccount: "CASH-001 USD",
		}, ref)

		r := findCheck(t, results, CheckCashSufficiency)
		if r.Severity != SeverityPass {
			t.Errorf("severity = %s, want pass", r.Severity)
		}
	})

	t.Run("absent for sells", func(t *testing.T) {
		results := RunChecks(OrderContext{
			Security:    sec("AAPL", "100"),
			Side:        domain.OrderSideSell,
			OrderAmount: dec("80000"),
			CashAccount: "CASH-001 USD",
		}, ref)
		if hasCheck(results, CheckCashSufficiency) {
			t.Error("Cash Sufficiency present for a sell")
		}
	})

	t.Run("absent without a cash account", func(t *testing.T) {
		results := RunChecks(OrderContext{
			Security:    sec("AAPL", "100"),
			Side:        domain.OrderSideBuy,
			OrderAmount: dec("80000"),
		}, ref)
		if hasCheck(results, CheckCashSufficiency) {
			t.Error("Cash Sufficiency present without a cash account")
		}
	})
}

func TestRunChecks_ConcentrationLimit(t *testing.T) {
	ref := testRefData()

	t.Run("buy pushing over the limit", func(t *testing.T) {
		// Holding 80,000 + buy 25,000 = 105,000 of a 500,000 portfolio: 21.0%.
		results := RunChecks(OrderContext{
			Security:          sec("AAPL", "100"),
			Side:              domain.OrderSideBuy,
			OrderAmount:       dec("25000"),
			InvestmentAccount: "INV-001 Main",
		}, ref)

		r := findCheck(t, results, CheckConcentrationLimit)
		if r.Severity != SeverityHard {
			t.Errorf("severity = %s, want hard", r.Severity)
		}
		if r.Message != "Resulting position concentration of 21.0% exceeds the 20.0% single-position limit." {
			t.Errorf("message = %q", r.Message)
		}
	})

	t.Run("buy within the limit", func(t *testing.T) {
		// Holding 80,000 + buy 10,000 = 90,000 of 500,000: 18.0%.
		results := RunChecks(OrderContext{
			Security:          sec("AAPL", "100"),
			Side:              domain.OrderSideBuy,
			OrderAmount:       dec("10000"),
			InvestmentAccount: "INV-001 Main",
		}, ref)

		r := findCheck(t, results, CheckConcentrationLimit)
		if r.Severity != SeverityPass {
			t.Errorf("severity = %s, want pass", r.Severity)
		}
		if !strings.Contains(r.Message, "18.0%") {
			t.Errorf("message %q does not show the computed concentration", r.Message)
		}
	})

	t.Run("exactly at the limit passes", func(t *testing.T) {
		// Holding 80,000 + buy 20,000 = 100,000 of 500,000: exactly 20.0%.
		results := RunChecks(OrderContext{
			Security:          sec("AAPL", "100"),
			Side:              domain.OrderSideBuy,
			OrderAmount:       dec("20000"),
			InvestmentAccount: "INV-001 Main",
		}, ref)

		r := findCheck(t, results, CheckConcentrationLimit)
		if r.Severity != SeverityPass {
			t.Errorf("severity = %s, want pass", r.Severity)
		}
	})

	t.Run("sells reduce exposure", func(t *testing.T) {
		// Holding 80,000 - sell 25,000 = 55,000 of 500,000: 11.0%.
		results := RunChecks(OrderContext{
			Security:          sec("AAPL", "100"),
			Side:              domain.OrderSideSell,
			OrderAmount:       dec("25000"),
			InvestmentAccount: "INV-001 Main",
		}, ref)

		r := findCheck(t, results, CheckConcentrationLimit)
		if r.Severity != SeverityPass {
			t.Errorf("severity = %s, want pass", r.Severity)
		}
		if !strings.Contains(r.Message, "11.0%") {
			t.Errorf("message %q, want 11.0%% exposure", r.Message)
		}
	})

	t.Run("unknown portfolio counts as zero concentration", func(t *testing.T) {
		results := RunChecks(OrderContext{
			Security:          sec("AAPL", "100"),
			Side:              domain.OrderSideBuy,
			OrderAmount:       dec("25000"),
			InvestmentAccount: "INV-UNKNOWN",
		}, ref)

		r := findCheck(t, results, CheckConcentrationLimit)
		if r.Severity != SeverityPass {
			t.Errorf("severity = %s, want pass", r.Severity)
		}
		if !strings.Contains(r.Message, "0.0%") {
			t.Errorf("message %q, want 0.0%% concentration", r.Message)
		}
	})

	t.Run("absent without an investment account", func(t *testing.T) {
		results := RunChecks(OrderContext{
			Security:    sec("AAPL", "100"),
			Side:        domain.OrderSideBuy,
			OrderAmount: dec("25000"),
		}, ref)
		if hasCheck(results, CheckConcentrationLimit) {
			t.Error("Concentration Limit present without an investment account")
		}
	})
}

func TestRunChecks_OrderSize(t *testing.T) {
	ref := testRefData()

	run := func(amount string) CheckResult {
		results := RunChecks(OrderContext{
			Security:    sec("AAPL", "100"),
			Side:        domain.OrderSideSell,
			OrderAmount: dec(amount),
		}, ref)
		return findCheck(t, results, CheckOrderSize)
	}

	t.Run("above threshold is soft", func(t *testing.T) {
		r := run("100001")
		if r.Severity != SeveritySoft {
			t.Errorf("severity = %s, want soft", r.Severity)
		}
		if r.Message != "Order value of $100,001.00 exceeds the $100,000.00 threshold; supervisory approval is required." {
			t.Errorf("message = %q", r.Message)
		}
	})

	t.Run("exactly at threshold passes", func(t *testing.T) {
		r := run("100000")
		if r.Severity != SeverityPass {
			t.Errorf("severity = %s, want pass", r.Severity)
		}
		if !strings.Contains(r.Message, "$100,000.00") {
			t.Errorf("message = %q", r.Message)
		}
	})

	t.Run("small order passes", func(t *testing.T) {
		if r := run("500"); r.Severity != SeverityPass {
			t.Errorf("severity = %s, want pass", r.Severity)
		}
	})
}

func TestRunChecks_PriceDeviation(t *testing.T) {
	ref := testRefData()

	run := func(orderType domain.OrderType, limitPrice string) []CheckResult {
		return RunChecks(OrderContext{
			Security:    sec("AAPL", "100"),
			Side:        domain.OrderSideSell,
			OrderAmount: dec("1000"),
			OrderType:   orderType,
			LimitPrice:  limitPrice,
		}, ref)
	}

	t.Run("limit above tolerance warns", func(t *testing.T) {
		r := findCheck(t, run(domain.OrderTypeLimit, "104"), CheckPriceDeviation)
		if r.Severity != SeverityWarning {
			t.Errorf("severity = %s, want warning", r.Severity)
		}
		if r.Message != "Limit price deviates 4.0% from the market price of $100.00." {
			t.Errorf("message = %q", r.Message)
		}
	})

	t.Run("limit below market warns symmetrically", func(t *testing.T) {
		r := findCheck(t, run(domain.OrderTypeLimit, "96"), CheckPriceDeviation)
		if r.Severity != SeverityWarning {
			t.Errorf("severity = %s, want warning", r.Severity)
		}
		if !strings.Contains(r.Message, "4.0%") {
			t.Errorf("message = %q, want 4.0%% deviation", r.Message)
		}
	})

	t.Run("limit within tolerance passes", func(t *testing.T) {
		r := findCheck(t, run(domain.OrderTypeLimit, "102.5"), CheckPriceDeviation)
		if r.Severity != SeverityPass {
			t.Errorf("severity = %s, want pass", r.Severity)
		}
	})

	t.Run("exactly at tolerance passes", func(t *testing.T) {
		r := findCheck(t, run(domain.OrderTypeLimit, "103"), CheckPriceDeviation)
		if r.Severity != SeverityPass {
			t.Errorf("severity = %s, want pass", r.Severity)
		}
	})

	t.Run("absent for market orders", func(t *testing.T) {
		if hasCheck(run(domain.OrderTypeMarket, "104"), CheckPriceDeviation) {
			t.Error("Price Deviation present for a market order")
		}
	})

	t.Run("absent for malformed limit price", func(t *testing.T) {
		for _, lp := range []string{"", "abc", "1.2.3", "$104"} {
			if hasCheck(run(domain.OrderTypeLimit, lp), CheckPriceDeviation) {
				t.Errorf("Price Deviation present for limit price %q", lp)
			}
		}
	})
}

// A restricted fixed-income order against full accounts still evaluates
// every applicable rule: the hard restriction does not short-circuit the
// rest of the sequence.
func TestRunChecks_RestrictedOrderStillEvaluatesEverything(t *testing.T) {
	ref := testRefData()

	results := RunChecks(OrderContext{
		Security:          sec("MUNI7Y", "103.10"),
		Side:              domain.OrderSideBuy,
		OrderAmount:       dec("120000"),
		InvestmentAccount: "INV-001 Main",
		CashAccount:       "CASH-001 USD",
	}, ref)

	restricted := 0
	for _, r := range results {
		if r.Name == CheckRestrictedSecurity {
			restricted++
		}
	}
	if restricted != 1 {
		t.Fatalf("Restricted Security appeared %d times, want exactly 1", restricted)
	}

	if r := findCheck(t, results, CheckCashSufficiency); r.Severity != SeverityHard {
		t.Errorf("Cash Sufficiency severity = %s, want hard", r.Severity)
	}
	if r := findCheck(t, results, CheckConcentrationLimit); r.Severity != SeverityHard {
		t.Errorf("Concentration Limit severity = %s, want hard", r.Severity)
	}
	if r := findCheck(t, results, CheckOrderSize); r.Severity != SeveritySoft {
		t.Errorf("Order Size severity = %s, want soft", r.Severity)
	}

	if got := Outcome(results); got != SeverityHard {
		t.Errorf("Outcome = %s, want hard", got)
	}
}

// Results come back in the fixed rule sequence regardless of severity.
func TestRunChecks_PreservesRuleOrder(t *testing.T) {
	ref := testRefData()

	results := RunChecks(OrderContext{
		Security:          sec("MUNI7Y", "100"),
		Side:              domain.OrderSideBuy,
		OrderAmount:       dec("120000"),
		OrderType:         domain.OrderTypeLimit,
		LimitPrice:        "104",
		InvestmentAccount: "INV-001 Main",
		CashAccount:       "CASH-001 USD",
	}, ref)

	want := []string{
		CheckRestrictedSecurity,
		CheckCashSufficiency,
		CheckConcentrationLimit,
		CheckOrderSize,
		CheckPriceDeviation,
	}
	if len(results) != len(want) {
		t.Fatalf("got %d results, want %d: %+v", len(results), len(want), results)
	}
	for i, name := range want {
		if results[i].Name != name {
			t.Errorf("results[%d].Name = %q, want %q", i, results[i].Name, name)
		}
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name       string
		severities []Severity
		want       Severity
	}{
		{"empty is pass", nil, SeverityPass},
		{"all pass", []Severity{SeverityPass, SeverityPass}, SeverityPass},
		{"warning beats pass", []Severity{SeverityPass, SeverityWarning}, SeverityWarning},
		{"soft beats warning", []Severity{SeverityWarning, SeveritySoft, SeverityPass}, SeveritySoft},
		{"hard beats everything", []Severity{SeveritySoft, SeverityHard, SeverityWarning}, SeverityHard},
		{"order independent", []Severity{SeverityHard, SeverityPass}, SeverityHard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make([]CheckResult, len(tt.severities))
			for i, s := range tt.severities {
				results[i] = CheckResult{Name: "x", Severity: s}
			}
			if got := Outcome(results); got != tt.want {
				t.Errorf("Outcome = %s, want %s", got, tt.want)
			}
		})
	}
}
