package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), Options{
		Driver:     DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "data", "test.db"),
		Logger:     log.Discard(),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustUser(t *testing.T, s *Store, name string) core.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), name, "digest-"+name)
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func mustCategory(t *testing.T, s *Store, userID int64, name string, typ core.CategoryType) core.Category {
	t.Helper()
	c, err := s.CreateCategory(context.Background(), userID, name, typ)
	if err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return c
}

func mustTransaction(t *testing.T, s *Store, userID, categoryID int64, amount, date string) {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if _, err := s.CreateTransaction(context.Background(), userID, categoryID, decimal.RequireFromString(amount), d); err != nil {
		t.Fatalf("create transaction: %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tracker.db")
	ctx := context.Background()

	first, err := Open(ctx, Options{Driver: DriverSQLite, SQLitePath: path, Logger: log.Discard()})
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if !first.Created() {
		t.Fatalf("expected first open to create the database")
	}
	mustUser(t, first, "alice")
	first.Close()

	second, err := Open(ctx, Options{Driver: DriverSQLite, SQLitePath: path, Logger: log.Discard()})
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer second.Close()
	if second.Created() {
		t.Fatalf("expected second open to reuse the database")
	}
	if _, _, err := second.GetCredentials(ctx, "alice"); err != nil {
		t.Fatalf("expected data to survive reopen: %v", err)
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	if _, err := Open(context.Background(), Options{Driver: "mysql"}); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "alice", "digest")
	if err != nil || u.ID == 0 || u.Username != "alice" {
		t.Fatalf("unexpected create: %+v, %v", u, err)
	}

	if _, err := s.CreateUser(ctx, "alice", "other"); !errors.Is(err, core.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestCredentials(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")

	u, hash, err := s.GetCredentials(ctx, "alice")
	if err != nil || u.ID != alice.ID || hash != "digest-alice" {
		t.Fatalf("unexpected credentials: %+v %q %v", u, hash, err)
	}

	if _, _, err := s.GetCredentials(ctx, "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.UpdatePasswordHash(ctx, alice.ID, "new-digest"); err != nil {
		t.Fatalf("update hash: %v", err)
	}
	hash, err = s.GetPasswordHash(ctx, alice.ID)
	if err != nil || hash != "new-digest" {
		t.Fatalf("expected new digest, got %q %v", hash, err)
	}

	if err := s.UpdatePasswordHash(ctx, 9999, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
	if _, err := s.GetPasswordHash(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	salary := mustCategory(t, s, alice.ID, "Salary", core.Income)
	food := mustCategory(t, s, alice.ID, "Food", core.Expense)
	mustCategory(t, s, bob.ID, "Rent", core.Expense)

	cats, err := s.ListCategories(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != 2 || cats[0].ID != salary.ID || cats[1].Name != "Food" || cats[1].Type != core.Expense {
		t.Fatalf("unexpected categories: %+v", cats)
	}

	n, err := s.UpdateCategory(ctx, alice.ID, food.ID, "Groceries", core.Expense)
	if err != nil || n != 1 {
		t.Fatalf("update own category: n=%d err=%v", n, err)
	}
	cats, _ = s.ListCategories(ctx, alice.ID)
	if cats[1].Name != "Groceries" {
		t.Fatalf("expected renamed category, got %+v", cats[1])
	}

	// bob cannot touch alice's category
	n, err = s.UpdateCategory(ctx, bob.ID, food.ID, "Hijacked", core.Income)
	if err != nil || n != 0 {
		t.Fatalf("expected no-op update, n=%d err=%v", n, err)
	}
	cats, _ = s.ListCategories(ctx, alice.ID)
	if cats[1].Name != "Groceries" || cats[1].Type != core.Expense {
		t.Fatalf("category mutated by another user: %+v", cats[1])
	}

	if bobs, _ := s.ListCategories(ctx, bob.ID); len(bobs) != 0 {
		t.Fatalf("alice's category listed for bob: %+v", bobs)
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	food := mustCategory(t, s, alice.ID, "Food", core.Expense)
	salary := mustCategory(t, s, alice.ID, "Salary", core.Income)

	mustTransaction(t, s, alice.ID, food.ID, "10.00", "2024-01-01")
	mustTransaction(t, s, alice.ID, food.ID, "20.00", "2024-01-02")
	mustTransaction(t, s, alice.ID, salary.ID, "1000.00", "2024-01-01")

	res, err := s.DeleteCategory(ctx, alice.ID, food.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if res.Transactions != 2 || res.Categories != 1 {
		t.Fatalf("unexpected delete result: %+v", res)
	}

	txns, err := s.ListTransactions(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txns) != 1 || txns[0].CategoryID != salary.ID {
		t.Fatalf("expected only salary transaction left, got %+v", txns)
	}

	cats, _ := s.ListCategories(ctx, alice.ID)
	if len(cats) != 1 || cats[0].ID != salary.ID {
		t.Fatalf("expected food to be gone, got %+v", cats)
	}
}

func TestDeleteCategoryInUseRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	bobs := mustCategory(t, s, bob.ID, "Shared", core.Expense)

	mustTransaction(t, s, bob.ID, bobs.ID, "5.00", "2024-01-01")
	// logging against another user's category is allowed
	mustTransaction(t, s, alice.ID, bobs.ID, "7.00", "2024-01-02")

	res, err := s.DeleteCategory(ctx, bob.ID, bobs.ID)
	if !errors.Is(err, core.ErrCategoryInUse) {
		t.Fatalf("expected ErrCategoryInUse, got %v", err)
	}
	if res != (DeleteResult{}) {
		t.Fatalf("expected empty result, got %+v", res)
	}

	// bob's own transaction deletion was rolled back
	if txns, _ := s.ListTransactions(ctx, bob.ID); len(txns) != 1 {
		t.Fatalf("expected bob's transaction to survive, got %+v", txns)
	}
	if txns, _ := s.ListTransactions(ctx, alice.ID); len(txns) != 1 || txns[0].CategoryName != "Shared" {
		t.Fatalf("expected alice's transaction untouched, got %+v", txns)
	}
	if cats, _ := s.ListCategories(ctx, bob.ID); len(cats) != 1 {
		t.Fatalf("expected category to survive, got %+v", cats)
	}
}

func TestDeleteForeignCategoryIsNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	food := mustCategory(t, s, alice.ID, "Food", core.Expense)
	mustTransaction(t, s, alice.ID, food.ID, "10.00", "2024-01-01")

	res, err := s.DeleteCategory(ctx, bob.ID, food.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if res.Categories != 0 || res.Transactions != 0 {
		t.Fatalf("expected nothing deleted, got %+v", res)
	}
	if txns, _ := s.ListTransactions(ctx, alice.ID); len(txns) != 1 {
		t.Fatalf("expected alice's transaction to survive, got %+v", txns)
	}
}

func TestTransactions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	food := mustCategory(t, s, alice.ID, "Food", core.Expense)
	rent := mustCategory(t, s, bob.ID, "Rent", core.Expense)

	mustTransaction(t, s, alice.ID, food.ID, "150.00", "2024-01-05")
	mustTransaction(t, s, alice.ID, food.ID, "-2.50", "2024-01-06")
	// no ownership check on the category
	mustTransaction(t, s, alice.ID, rent.ID, "1.00", "2024-01-04")

	date, _ := core.ParseDate("2024-01-01")
	if _, err := s.CreateTransaction(ctx, alice.ID, 4242, decimal.NewFromInt(1), date); !errors.Is(err, core.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	txns, err := s.ListTransactions(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txns) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txns))
	}
	newest := txns[0]
	if newest.CategoryName != "Food" || core.FormatAmount(newest.Amount) != "-2.50" {
		t.Fatalf("unexpected newest transaction: %+v", newest)
	}
	if !newest.Date.Equal(time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", newest.Date)
	}
	if txns[2].CategoryName != "Rent" {
		t.Fatalf("expected cross-user category name, got %+v", txns[2])
	}
}

func TestSummaryQueries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	salary := mustCategory(t, s, alice.ID, "Salary", core.Income)
	food := mustCategory(t, s, alice.ID, "Food", core.Expense)

	if _, err := s.TopExpenseCategory(ctx, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound without expenses, got %v", err)
	}
	totals, err := s.TotalsByType(ctx, alice.ID)
	if err != nil || len(totals) != 0 {
		t.Fatalf("expected empty totals, got %v %v", totals, err)
	}

	mustTransaction(t, s, alice.ID, salary.ID, "1000.00", "2024-01-01")
	mustTransaction(t, s, alice.ID, food.ID, "150.00", "2024-01-05")

	totals, err = s.TotalsByType(ctx, alice.ID)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if core.FormatAmount(totals[core.Income]) != "1000.00" || core.FormatAmount(totals[core.Expense]) != "150.00" {
		t.Fatalf("unexpected totals: %v", totals)
	}

	top, err := s.TopExpenseCategory(ctx, alice.ID)
	if err != nil || top.Name != "Food" || core.FormatAmount(top.Amount) != "150.00" {
		t.Fatalf("unexpected top category: %+v %v", top, err)
	}
}

func TestExpenseBreakdown(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	food := mustCategory(t, s, alice.ID, "Food", core.Expense)
	rent := mustCategory(t, s, alice.ID, "Rent", core.Expense)
	salary := mustCategory(t, s, alice.ID, "Salary", core.Income)

	mustTransaction(t, s, alice.ID, food.ID, "0.10", "2024-01-01")
	mustTransaction(t, s, alice.ID, food.ID, "0.20", "2024-01-02")
	mustTransaction(t, s, alice.ID, rent.ID, "700.00", "2024-01-03")
	mustTransaction(t, s, alice.ID, salary.ID, "2000.00", "2024-01-03")

	breakdown, err := s.ExpenseBreakdown(ctx, alice.ID)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if len(breakdown) != 2 {
		t.Fatalf("expected 2 expense categories, got %+v", breakdown)
	}
	if breakdown[0].Name != "Rent" || breakdown[1].Name != "Food" {
		t.Fatalf("expected largest first, got %+v", breakdown)
	}
	if core.FormatAmount(breakdown[1].Amount) != "0.30" {
		t.Fatalf("expected exact 0.30, got %s", breakdown[1].Amount)
	}
}
