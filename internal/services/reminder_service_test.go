package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reminderFixture() *memoryStore {
	processed := core.NewDate(2024, 5, 10)
	return newMemoryStore(
		core.RecurringDefinition{ID: "a-today", Name: "Gym", Category: "Health", Amount: decimal.RequireFromString("-29.9"),
			Frequency: core.Weekly, StartDate: core.NewDate(2024, 6, 1)},
		core.RecurringDefinition{ID: "b-tomorrow", Name: "Salary", Category: "Work", Amount: decimal.NewFromInt(2500),
			Frequency: core.Monthly, StartDate: core.NewDate(2024, 1, 16), IsIncome: true},
		core.RecurringDefinition{ID: "c-three", Name: "Rent", Category: "Housing", Amount: decimal.NewFromInt(-900),
			Frequency: core.Monthly, StartDate: core.NewDate(2024, 1, 18)},
		core.RecurringDefinition{ID: "d-overdue", Name: "Phone", Category: "Bills", Amount: decimal.NewFromInt(-15),
			Frequency: core.Monthly, StartDate: core.NewDate(2024, 1, 10), LastProcessed: &processed},
		core.RecurringDefinition{ID: "e-far", Name: "Insurance", Category: "Bills", Amount: decimal.NewFromInt(-400),
			Frequency: core.Yearly, StartDate: core.NewDate(2024, 9, 1)},
	)
}

func TestReminderSync(t *testing.T) {
	store := reminderFixture()
	pub := &recordingPublisher{}
	svc := NewReminderService(store, store, store, pub)
	svc.newID = sequentialIDs("n")
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)

	created, err := svc.Sync(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	require.Len(t, store.notifications, 3)
	got := map[string]core.Notification{}
	for _, n := range store.notifications {
		got[n.RecurringID] = n
		assert.Equal(t, core.NotificationTypeRecurring, n.Type)
		assert.Equal(t, now, n.CreatedAt)
	}

	assert.Equal(t, "Gym due Today", got["a-today"].Title)
	assert.Equal(t, "-€29.90 • Health • weekly", got["a-today"].Body)
	assert.Equal(t, "2024-06-15", got["a-today"].NotificationDate.String())

	assert.Equal(t, "Salary due Tomorrow", got["b-tomorrow"].Title)
	assert.Equal(t, "€2500.00 • Work • monthly", got["b-tomorrow"].Body)

	assert.Equal(t, "Rent due In 3 days", got["c-three"].Title)
	assert.NotContains(t, got, "d-overdue")
	assert.NotContains(t, got, "e-far")

	assert.Len(t, pub.published, 3)

	// A second sync raises nothing new.
	created, err = svc.Sync(context.Background(), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Len(t, pub.published, 3)
}

func TestReminderSyncDisabled(t *testing.T) {
	store := reminderFixture()
	store.settings.NotificationsEnabled = false
	svc := NewReminderService(store, store, store, nil)

	created, err := svc.Sync(context.Background(), time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Empty(t, store.notifications)
}

func TestReminderSyncUsesLeadDaysAndSymbol(t *testing.T) {
	store := reminderFixture()
	store.settings.NotificationsLeadDays = 1
	store.settings.CurrencySymbol = "$"
	svc := NewReminderService(store, store, store, nil)

	created, err := svc.Sync(context.Background(), time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	for _, n := range store.notifications {
		assert.NotEqual(t, "c-three", n.RecurringID)
		assert.Contains(t, n.Body, "$")
	}
}

func TestReminderSyncPublishFailureKeepsReminder(t *testing.T) {
	store := reminderFixture()
	pub := &recordingPublisher{err: errors.New("circuit breaker is open")}
	svc := NewReminderService(store, store, store, pub)

	created, err := svc.Sync(context.Background(), time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 3, created)
	assert.Len(t, store.notifications, 3)
}
