package recurrence

import (
	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

var (
	twelve = decimal.NewFromInt(12)

	monthlyMultipliers = map[core.Frequency]decimal.Decimal{
		core.Daily:    decimal.NewFromInt(30),
		core.Weekly:   decimal.RequireFromString("4.33"),
		core.Biweekly: decimal.RequireFromString("2.17"),
		core.Monthly:  decimal.NewFromInt(1),
	}
)

// MonthlyTotals is the amortised monthly impact of a set of definitions.
type MonthlyTotals struct {
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	MonthlyIncome   decimal.Decimal `json:"monthly_income"`
	MonthlyNet      decimal.Decimal `json:"monthly_net"`
}

// Round returns the totals rounded to the given number of decimal places.
func (t MonthlyTotals) Round(places int32) MonthlyTotals {
	return MonthlyTotals{
		MonthlyExpenses: t.MonthlyExpenses.Round(places),
		MonthlyIncome:   t.MonthlyIncome.Round(places),
		MonthlyNet:      t.MonthlyNet.Round(places),
	}
}

// MonthlyEquivalent converts the absolute amount of one occurrence into a
// comparable monthly rate. Unknown frequencies pass the amount through unchanged.
// The active window is ignored.
func MonthlyEquivalent(def core.RecurringDefinition) decimal.Decimal {
	amount := def.Amount.Abs()
	if def.Frequency == core.Yearly {
		return amount.Div(twelve)
	}
	if m, ok := monthlyMultipliers[def.Frequency]; ok {
		return amount.Mul(m)
	}
	return amount
}

// AggregateMonthly sums the monthly equivalents of active definitions into
// expense and income buckets.
func AggregateMonthly(defs []core.RecurringDefinition) MonthlyTotals {
	totals := MonthlyTotals{
		MonthlyExpenses: decimal.Zero,
		MonthlyIncome:   decimal.Zero,
	}
	for _, def := range defs {
		if !def.Active() {
			continue
		}
		if def.IsIncome {
			totals.MonthlyIncome = totals.MonthlyIncome.Add(MonthlyEquivalent(def))
		} else {
			totals.MonthlyExpenses = totals.MonthlyExpenses.Add(MonthlyEquivalent(def))
		}
	}
	totals.MonthlyNet = totals.MonthlyIncome.Sub(totals.MonthlyExpenses)
	return totals
}
