package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

// TransactionService records and lists dated amounts.
//
// Amounts are taken as given: zero and negative values are stored, and the
// category is not checked to belong to the user.
type TransactionService struct {
	store TransactionStore
}

func NewTransactionService(store TransactionStore) *TransactionService {
	return &TransactionService{store: store}
}

func (s *TransactionService) LogTransaction(ctx context.Context, userID, categoryID int64, amount decimal.Decimal, date time.Time) (core.Transaction, error) {
	txn, err := s.store.CreateTransaction(ctx, userID, categoryID, amount.Round(core.AmountScale), date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("log transaction: %w", err)
	}

	log.FromContext(ctx).WithComponent(log.ComponentTransaction).InfoContext(ctx, "Transaction logged",
		log.FieldOperation, log.OpCreate,
		log.FieldCategoryID, categoryID,
		log.FieldAmount, core.FormatAmount(txn.Amount),
		log.FieldDate, date.Format(core.DateLayout))
	return txn, nil
}

func (s *TransactionService) ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	txns, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}
