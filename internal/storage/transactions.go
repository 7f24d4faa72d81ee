package storage

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

// sqlDate scans DATE columns. lib/pq and modernc (for DATE-declared columns
// holding a parseable value) yield time.Time; anything else arrives as text.
type sqlDate struct {
	time.Time
}

func (d *sqlDate) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		d.Time = time.Time{}
		return nil
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into date", value)
	}
}

func (d *sqlDate) parse(s string) error {
	s = strings.TrimSpace(s)
	if len(s) > len(core.DateLayout) {
		s = s[:len(core.DateLayout)]
	}
	t, err := time.Parse(core.DateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// dateValue writes dates as YYYY-MM-DD text, which both drivers store
// without a time component.
func dateValue(t time.Time) driver.Value {
	return t.Format(core.DateLayout)
}

// CreateTransaction records an amount against categoryID. Ownership of the
// category is not checked; a category id that does not exist at all fails
// referential integrity and yields core.ErrCategoryNotFound.
func (s *Store) CreateTransaction(ctx context.Context, userID, categoryID int64, amount decimal.Decimal, date time.Time) (core.Transaction, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		s.db.Rebind(`INSERT INTO transactions (user_id, category_id, amount, transaction_date) VALUES (?, ?, ?, ?) RETURNING transaction_id`),
		userID, categoryID, amount.StringFixed(core.AmountScale), dateValue(date))
	if err != nil {
		if isForeignKeyViolation(err) {
			return core.Transaction{}, core.ErrCategoryNotFound
		}
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	s.logger.DebugContext(ctx, "Transaction created",
		log.FieldUserID, userID,
		log.FieldCategoryID, categoryID,
		log.FieldAmount, amount.StringFixed(core.AmountScale),
		log.FieldDate, date.Format(core.DateLayout))

	return core.Transaction{
		ID:         id,
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		Date:       date,
	}, nil
}

type transactionRow struct {
	ID           int64           `db:"transaction_id"`
	UserID       int64           `db:"user_id"`
	CategoryID   int64           `db:"category_id"`
	CategoryName *string         `db:"category_name"`
	Amount       decimal.Decimal `db:"amount"`
	Date         sqlDate         `db:"transaction_date"`
}

// ListTransactions returns the user's transactions, newest first.
func (s *Store) ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	var rows []transactionRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT t.transaction_id, t.user_id, t.category_id, c.category_name, t.amount, t.transaction_date
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.category_id
		WHERE t.user_id = ?
		ORDER BY t.transaction_date DESC, t.transaction_id DESC`),
		userID)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}

	transactions := make([]core.Transaction, len(rows))
	for i, r := range rows {
		transactions[i] = core.Transaction{
			ID:         r.ID,
			UserID:     r.UserID,
			CategoryID: r.CategoryID,
			Amount:     r.Amount.Round(core.AmountScale),
			Date:       r.Date.Time,
		}
		if r.CategoryName != nil {
			transactions[i].CategoryName = *r.CategoryName
		}
	}
	return transactions, nil
}
