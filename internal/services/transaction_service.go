package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"

	"github.com/google/uuid"
)

// TransactionService records hand-entered transactions and lists the ledger,
// including occurrences booked by the RecurringProcessor.
type TransactionService struct {
	store TransactionStore
	newID func() string
}

func NewTransactionService(store TransactionStore) *TransactionService {
	return &TransactionService{
		store: store,
		newID: uuid.NewString,
	}
}

// Create normalises and validates tx, then stores it under a fresh id.
// Hand-entered transactions never carry a recurring back-reference.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.ID = s.newID()
	tx.RecurringID = ""
	tx.Normalize()
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if _, err := s.store.InsertTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"id", tx.ID,
		"date", tx.Date.String(),
		"amount", tx.Amount.String())
	return tx, nil
}

// List returns transactions newest first, optionally only those booked from
// one recurring definition.
func (s *TransactionService) List(ctx context.Context, recurringID string) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx, recurringID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}
