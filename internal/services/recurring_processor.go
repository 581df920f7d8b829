package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/recurrence"

	"github.com/google/uuid"
)

// RecurringProcessor materialises due occurrences of recurring definitions
// into transactions.
type RecurringProcessor struct {
	recurring RecurringReader
	ledger    LedgerWriter
	newID     func() string
}

// NewRecurringProcessor creates a new recurring transaction processor
func NewRecurringProcessor(recurring RecurringReader, ledger LedgerWriter) *RecurringProcessor {
	return &RecurringProcessor{
		recurring: recurring,
		ledger:    ledger,
		newID:     uuid.NewString,
	}
}

// ProcessDue books every occurrence dated on or before now's calendar day that
// has not been booked yet, and returns how many transactions were created.
// A definition that fails is logged and skipped.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.recurring == nil || p.ledger == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	defs, err := p.recurring.ListRecurring(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list recurring definitions: %w", err)
	}

	today := core.DateOf(now)
	slog.InfoContext(ctx, "Processing recurring transactions",
		"total", len(defs),
		"processing_date", today.String())

	created := 0
	for _, def := range defs {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		if !def.Active() {
			continue
		}

		n, err := p.processOne(ctx, def, today)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to process recurring definition",
				"recurring_id", def.ID,
				"name", def.Name,
				"error", err)
			continue
		}
		created += n
	}

	slog.InfoContext(ctx, "Recurring transaction processing complete",
		"created", created,
		"total_checked", len(defs))

	return created, nil
}

func (p *RecurringProcessor) processOne(ctx context.Context, def core.RecurringDefinition, today core.Date) (int, error) {
	from := def.StartDate
	if def.LastProcessed != nil {
		if err := def.LastProcessed.Validate(); err != nil {
			return 0, fmt.Errorf("%w: last processed: %v", recurrence.ErrInvalidDateData, err)
		}
		from = def.LastProcessed.AddDays(1)
	}
	if from.Valid() && from.After(today.Time) {
		return 0, nil
	}

	dates, err := recurrence.OccurrencesBetween(def, from, today)
	if err != nil {
		return 0, err
	}
	if len(dates) == 0 {
		return 0, nil
	}

	through := today
	if len(dates) == recurrence.MaxOccurrences {
		through = dates[len(dates)-1]
	}

	txs := make([]core.Transaction, len(dates))
	for i, d := range dates {
		txs[i] = core.Transaction{
			ID:          p.newID(),
			Name:        def.Name,
			Amount:      core.SignedAmount(def.Amount, def.IsIncome),
			Category:    def.Category,
			IsIncome:    def.IsIncome,
			Date:        d,
			Description: def.Description,
			RecurringID: def.ID,
		}
	}

	return p.ledger.RecordOccurrences(ctx, def.ID, txs, through)
}
