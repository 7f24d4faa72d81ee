package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

type typeTotalRow struct {
	Type  string          `db:"type"`
	Total decimal.Decimal `db:"total"`
}

// TotalsByType sums the user's transaction amounts per category type.
// Types without transactions are absent from the map.
func (s *Store) TotalsByType(ctx context.Context, userID int64) (map[core.CategoryType]decimal.Decimal, error) {
	var rows []typeTotalRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT c.type AS type, SUM(t.amount) AS total
		FROM transactions t
		JOIN categories c ON t.category_id = c.category_id
		WHERE t.user_id = ?
		GROUP BY c.type`),
		userID)
	if err != nil {
		return nil, fmt.Errorf("select totals by type: %w", err)
	}

	totals := make(map[core.CategoryType]decimal.Decimal, len(rows))
	for _, r := range rows {
		totals[core.CategoryType(r.Type)] = r.Total.Round(core.AmountScale)
	}
	return totals, nil
}

type categoryTotalRow struct {
	ID    int64           `db:"category_id"`
	Name  string          `db:"category_name"`
	Total decimal.Decimal `db:"total"`
}

func (r categoryTotalRow) toCore() core.CategoryTotal {
	return core.CategoryTotal{
		CategoryID: r.ID,
		Name:       r.Name,
		Amount:     r.Total.Round(core.AmountScale),
	}
}

const expenseTotalsQuery = `
	SELECT c.category_id AS category_id, c.category_name AS category_name, SUM(t.amount) AS total
	FROM transactions t
	JOIN categories c ON t.category_id = c.category_id
	WHERE t.user_id = ? AND c.type = 'expense'
	GROUP BY c.category_id, c.category_name
	ORDER BY total DESC, c.category_name ASC`

// TopExpenseCategory returns the expense category with the largest summed
// amount, or ErrNotFound when the user has no expenses. Ties are broken by
// name only to keep output stable; callers must not rely on it.
func (s *Store) TopExpenseCategory(ctx context.Context, userID int64) (core.CategoryTotal, error) {
	var row categoryTotalRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(expenseTotalsQuery+` LIMIT 1`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.CategoryTotal{}, ErrNotFound
	}
	if err != nil {
		return core.CategoryTotal{}, fmt.Errorf("select top expense category: %w", err)
	}
	return row.toCore(), nil
}

// ExpenseBreakdown returns summed expenses for every expense category that
// has transactions, largest first.
func (s *Store) ExpenseBreakdown(ctx context.Context, userID int64) ([]core.CategoryTotal, error) {
	var rows []categoryTotalRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(expenseTotalsQuery), userID); err != nil {
		return nil, fmt.Errorf("select expense breakdown: %w", err)
	}

	totals := make([]core.CategoryTotal, len(rows))
	for i, r := range rows {
		totals[i] = r.toCore()
	}
	return totals, nil
}
