package storage

import (
	"context"
	"fmt"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

type categoryRow struct {
	ID     int64  `db:"category_id"`
	UserID int64  `db:"user_id"`
	Name   string `db:"category_name"`
	Type   string `db:"type"`
}

func (r categoryRow) toCore() core.Category {
	return core.Category{
		ID:     r.ID,
		UserID: r.UserID,
		Name:   r.Name,
		Type:   core.CategoryType(r.Type),
	}
}

// CreateCategory inserts a category owned by userID.
func (s *Store) CreateCategory(ctx context.Context, userID int64, name string, categoryType core.CategoryType) (core.Category, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		s.db.Rebind(`INSERT INTO categories (user_id, category_name, type) VALUES (?, ?, ?) RETURNING category_id`),
		userID, name, string(categoryType))
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}

	s.logger.DebugContext(ctx, "Category created",
		log.NewFields().WithOperation(log.OpCreate).WithUser(userID).WithCategory(id, name, string(categoryType)).ToSlice()...)

	return core.Category{ID: id, UserID: userID, Name: name, Type: categoryType}, nil
}

// ListCategories returns every category owned by userID in creation order.
func (s *Store) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	var rows []categoryRow
	err := s.db.SelectContext(ctx, &rows,
		s.db.Rebind(`SELECT category_id, user_id, category_name, type FROM categories WHERE user_id = ? ORDER BY category_id`),
		userID)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}

	categories := make([]core.Category, len(rows))
	for i, r := range rows {
		categories[i] = r.toCore()
	}
	return categories, nil
}

// UpdateCategory renames and retypes a category. The row is matched on both
// categoryID and userID, so another user's category is left untouched and
// zero rows are reported.
func (s *Store) UpdateCategory(ctx context.Context, userID, categoryID int64, name string, categoryType core.CategoryType) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind(`UPDATE categories SET category_name = ?, type = ? WHERE category_id = ? AND user_id = ?`),
		name, string(categoryType), categoryID, userID)
	if err != nil {
		return 0, fmt.Errorf("update category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update category: %w", err)
	}
	return n, nil
}

// DeleteResult counts the rows removed by DeleteCategory.
type DeleteResult struct {
	Transactions int64
	Categories   int64
}

// DeleteCategory removes the user's transactions in the category and then
// the category itself. Both statements run in one database transaction so
// a failure cannot leave transactions pointing at a missing category.
// Transactions other users logged against the category keep it alive;
// the delete is rolled back and core.ErrCategoryInUse returned.
func (s *Store) DeleteCategory(ctx context.Context, userID, categoryID int64) (DeleteResult, error) {
	var result DeleteResult

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin delete category: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		tx.Rebind(`DELETE FROM transactions WHERE category_id = ? AND user_id = ?`),
		categoryID, userID)
	if err != nil {
		return result, fmt.Errorf("delete category transactions: %w", err)
	}
	if result.Transactions, err = res.RowsAffected(); err != nil {
		return result, fmt.Errorf("delete category transactions: %w", err)
	}

	res, err = tx.ExecContext(ctx,
		tx.Rebind(`DELETE FROM categories WHERE category_id = ? AND user_id = ?`),
		categoryID, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return DeleteResult{}, core.ErrCategoryInUse
		}
		return DeleteResult{}, fmt.Errorf("delete category row: %w", err)
	}
	if result.Categories, err = res.RowsAffected(); err != nil {
		return DeleteResult{}, fmt.Errorf("delete category row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return DeleteResult{}, fmt.Errorf("commit delete category: %w", err)
	}

	s.logger.InfoContext(ctx, "Category deleted",
		log.FieldUserID, userID,
		log.FieldCategoryID, categoryID,
		"transactions_deleted", result.Transactions,
		"categories_deleted", result.Categories)

	return result, nil
}
