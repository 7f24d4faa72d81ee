package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  CategoryType = "income"
	Expense CategoryType = "expense"
)

// DateLayout is the calendar date format accepted on input and used when
// writing transaction dates to the database.
const DateLayout = "2006-01-02"

type (
	CategoryType string

	User struct {
		ID       int64
		Username string
	}

	Category struct {
		ID     int64
		UserID int64
		Name   string
		Type   CategoryType
	}

	Transaction struct {
		ID           int64
		UserID       int64
		CategoryID   int64
		CategoryName string // populated on reads only
		Amount       decimal.Decimal
		Date         time.Time
	}
)

var (
	ErrDuplicateUsername   = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrInvalidCategoryType = errors.New("invalid category type")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDate         = errors.New("invalid date")
	ErrEmptyCategoryName   = errors.New("empty category name")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryInUse       = errors.New("category has transactions of another user")
)

// ParseCategoryType lowercases and trims s and checks it names a known type.
func ParseCategoryType(s string) (CategoryType, error) {
	t := CategoryType(strings.ToLower(strings.TrimSpace(s)))
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

func (t CategoryType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidCategoryType
	}
}

func (t CategoryType) String() string {
	return string(t)
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategoryName
	}
	return c.Type.Validate()
}
