package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/storage"
)

type SummaryService struct {
	store SummaryStore
}

func NewSummaryService(store SummaryStore) *SummaryService {
	return &SummaryService{store: store}
}

// Summarize totals the user's income and expense and finds the expense
// category with the largest sum. A type with no transactions counts as zero.
func (s *SummaryService) Summarize(ctx context.Context, userID int64) (core.Summary, error) {
	totals, err := s.store.TotalsByType(ctx, userID)
	if err != nil {
		return core.Summary{}, fmt.Errorf("summarize: %w", err)
	}

	summary := core.Summary{
		TotalIncome:  valueOrZero(totals, core.Income),
		TotalExpense: valueOrZero(totals, core.Expense),
	}

	top, err := s.store.TopExpenseCategory(ctx, userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return core.Summary{}, fmt.Errorf("summarize: %w", err)
	default:
		summary.TopExpense = &top
	}

	summary.ByExpenseCategory, err = s.store.ExpenseBreakdown(ctx, userID)
	if err != nil {
		return core.Summary{}, fmt.Errorf("summarize: %w", err)
	}

	log.FromContext(ctx).WithComponent(log.ComponentSummary).DebugContext(ctx, "Summary computed",
		log.FieldOperation, log.OpSummarize,
		"total_income", core.FormatAmount(summary.TotalIncome),
		"total_expense", core.FormatAmount(summary.TotalExpense))
	return summary, nil
}

func valueOrZero(totals map[core.CategoryType]decimal.Decimal, t core.CategoryType) decimal.Decimal {
	if v, ok := totals[t]; ok {
		return v
	}
	return decimal.Zero
}
