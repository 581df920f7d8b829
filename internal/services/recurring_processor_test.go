package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/recurrence"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor(store *memoryStore) *RecurringProcessor {
	p := NewRecurringProcessor(store, store)
	p.newID = sequentialIDs("t")
	return p
}

func TestProcessDueBooksMissedOccurrences(t *testing.T) {
	store := newMemoryStore(core.RecurringDefinition{
		ID: "rent", Name: "Rent", Category: "Housing", Amount: decimal.NewFromInt(-900),
		Frequency: core.Monthly, StartDate: core.NewDate(2024, 1, 31), Description: "flat",
	})
	p := newTestProcessor(store)
	ctx := context.Background()

	created, err := p.ProcessDue(ctx, time.Date(2024, 4, 15, 6, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	var dates []string
	for _, tx := range store.txs {
		dates = append(dates, tx.Date.String())
		assert.Equal(t, "rent", tx.RecurringID)
		assert.Equal(t, "-900", tx.Amount.String())
		assert.False(t, tx.IsIncome)
	}
	assert.Equal(t, []string{"2024-01-31", "2024-02-29", "2024-03-31"}, dates)
	assert.Equal(t, "2024-04-15", store.defs["rent"].LastProcessed.String())

	// Running again the same day books nothing.
	created, err = p.ProcessDue(ctx, time.Date(2024, 4, 15, 18, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	created, err = p.ProcessDue(ctx, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, "2024-04-30", store.txs[3].Date.String())
}

func TestProcessDueResumesAfterCappedScan(t *testing.T) {
	store := newMemoryStore(core.RecurringDefinition{
		ID: "coffee", Name: "Coffee", Category: "Food", Amount: decimal.NewFromInt(-3),
		Frequency: core.Daily, StartDate: core.NewDate(2020, 1, 1),
	})
	p := newTestProcessor(store)
	ctx := context.Background()
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)

	created, err := p.ProcessDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, recurrence.MaxOccurrences, created)
	assert.Equal(t, "2022-09-26", store.defs["coffee"].LastProcessed.String())
	assert.Equal(t, "2022-09-26", store.txs[len(store.txs)-1].Date.String())

	created, err = p.ProcessDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 628, created)
	assert.Equal(t, "2022-09-27", store.txs[recurrence.MaxOccurrences].Date.String())
	assert.Equal(t, "2024-06-15", store.defs["coffee"].LastProcessed.String())

	created, err = p.ProcessDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Len(t, store.txs, 1628)
}

func TestProcessDueSkipsPausedFutureAndBroken(t *testing.T) {
	paused := false
	store := newMemoryStore(
		core.RecurringDefinition{ID: "paused", Name: "Paused", Amount: decimal.NewFromInt(-1),
			Frequency: core.Daily, StartDate: core.NewDate(2024, 1, 1), IsActive: &paused},
		core.RecurringDefinition{ID: "future", Name: "Future", Amount: decimal.NewFromInt(-1),
			Frequency: core.Daily, StartDate: core.NewDate(2030, 1, 1)},
		core.RecurringDefinition{ID: "broken", Name: "Broken", Amount: decimal.NewFromInt(-1),
			Frequency: "hourly", StartDate: core.NewDate(2024, 1, 1)},
		core.RecurringDefinition{ID: "salary", Name: "Salary", Amount: decimal.NewFromInt(-2000), IsIncome: true,
			Frequency: core.Weekly, StartDate: core.NewDate(2024, 3, 1), EndDate: ptrDate(core.NewDate(2024, 3, 10))},
	)
	p := newTestProcessor(store)

	created, err := p.ProcessDue(context.Background(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	for _, tx := range store.txs {
		assert.Equal(t, "salary", tx.RecurringID)
		assert.Equal(t, "2000", tx.Amount.String())
		assert.True(t, tx.IsIncome)
	}
	assert.Nil(t, store.defs["paused"].LastProcessed)
	assert.Nil(t, store.defs["future"].LastProcessed)
	assert.Nil(t, store.defs["broken"].LastProcessed)
}

func TestProcessDueListError(t *testing.T) {
	store := newMemoryStore()
	store.listErr = errors.New("database is locked")
	_, err := newTestProcessor(store).ProcessDue(context.Background(), time.Now())
	assert.Error(t, err)

	_, err = (&RecurringProcessor{}).ProcessDue(context.Background(), time.Now())
	assert.Error(t, err)
}

func TestProcessDueStopsOnCancel(t *testing.T) {
	store := newMemoryStore(core.RecurringDefinition{ID: "r", Name: "R", Amount: decimal.NewFromInt(-1),
		Frequency: core.Daily, StartDate: core.NewDate(2024, 1, 1)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	created, err := newTestProcessor(store).ProcessDue(ctx, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, created)
}

func ptrDate(d core.Date) *core.Date {
	return &d
}
