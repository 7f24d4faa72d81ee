package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

// Ports implemented by storage.Store.
type (
	CategoryStore interface {
		CreateCategory(ctx context.Context, userID int64, name string, categoryType core.CategoryType) (core.Category, error)
		ListCategories(ctx context.Context, userID int64) ([]core.Category, error)
		UpdateCategory(ctx context.Context, userID, categoryID int64, name string, categoryType core.CategoryType) (int64, error)
		DeleteCategory(ctx context.Context, userID, categoryID int64) (storage.DeleteResult, error)
	}

	TransactionStore interface {
		CreateTransaction(ctx context.Context, userID, categoryID int64, amount decimal.Decimal, date time.Time) (core.Transaction, error)
		ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error)
	}

	SummaryStore interface {
		TotalsByType(ctx context.Context, userID int64) (map[core.CategoryType]decimal.Decimal, error)
		TopExpenseCategory(ctx context.Context, userID int64) (core.CategoryTotal, error)
		ExpenseBreakdown(ctx context.Context, userID int64) ([]core.CategoryTotal, error)
	}
)
