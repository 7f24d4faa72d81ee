package services

import (
	"context"
	"fmt"

	"expensetracker/internal/cache"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/storage"
)

// CategoryService manages the categories owned by a user. Listings are
// cached per user and dropped on every mutation by that user.
type CategoryService struct {
	store CategoryStore
	cache cache.Cache[int64, []core.Category]
}

// NewCategoryService builds the service; listings are not cached when c is nil.
func NewCategoryService(store CategoryStore, c cache.Cache[int64, []core.Category]) *CategoryService {
	return &CategoryService{
		store: store,
		cache: c,
	}
}

// AddCategory creates a category for userID.
func (s *CategoryService) AddCategory(ctx context.Context, userID int64, name string, categoryType core.CategoryType) (core.Category, error) {
	if err := (core.Category{Name: name, Type: categoryType}).Validate(); err != nil {
		return core.Category{}, err
	}

	category, err := s.store.CreateCategory(ctx, userID, name, categoryType)
	if err != nil {
		return core.Category{}, fmt.Errorf("add category: %w", err)
	}
	s.invalidate(userID)

	log.FromContext(ctx).WithComponent(log.ComponentCategory).InfoContext(ctx, "Category added",
		log.NewFields().WithOperation(log.OpCreate).WithCategory(category.ID, name, categoryType.String()).ToSlice()...)
	return category, nil
}

// ListCategories returns the user's categories. The returned slice is the
// caller's to modify.
func (s *CategoryService) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(userID); ok {
			return append([]core.Category(nil), cached...), nil
		}
	}

	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	if s.cache != nil {
		s.cache.Set(userID, append([]core.Category(nil), categories...))
	}
	return categories, nil
}

// UpdateCategory renames and retypes a category owned by userID. It
// reports false, without error, when the category is not the user's.
func (s *CategoryService) UpdateCategory(ctx context.Context, userID, categoryID int64, name string, categoryType core.CategoryType) (bool, error) {
	if err := (core.Category{Name: name, Type: categoryType}).Validate(); err != nil {
		return false, err
	}

	n, err := s.store.UpdateCategory(ctx, userID, categoryID, name, categoryType)
	if err != nil {
		return false, fmt.Errorf("update category: %w", err)
	}
	s.invalidate(userID)

	log.FromContext(ctx).WithComponent(log.ComponentCategory).InfoContext(ctx, "Category updated",
		log.NewFields().WithOperation(log.OpUpdate).WithCategory(categoryID, name, categoryType.String()).ToSlice()...,
	)
	return n > 0, nil
}

// DeleteCategory removes a category owned by userID together with the
// user's transactions in it.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, categoryID int64) (storage.DeleteResult, error) {
	res, err := s.store.DeleteCategory(ctx, userID, categoryID)
	if err != nil {
		return storage.DeleteResult{}, fmt.Errorf("delete category: %w", err)
	}
	s.invalidate(userID)
	return res, nil
}

func (s *CategoryService) invalidate(userID int64) {
	if s.cache != nil {
		s.cache.Delete(userID)
	}
}
