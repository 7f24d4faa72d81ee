package core

import "github.com/shopspring/decimal"

// CategoryTotal is an amount aggregated by category.
type CategoryTotal struct {
	CategoryID int64
	Name       string
	Amount     decimal.Decimal
}

// Summary is the income/expense overview of a single user.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	// TopExpense is nil when the user has no expense transactions.
	TopExpense *CategoryTotal
	// ByExpenseCategory lists summed expenses per category, largest first.
	ByExpenseCategory []CategoryTotal
}

// RemainingBudget is income minus expense.
func (s Summary) RemainingBudget() decimal.Decimal {
	return s.TotalIncome.Sub(s.TotalExpense)
}
