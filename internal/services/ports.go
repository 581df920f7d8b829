package services

import (
	"context"

	"fintrack/internal/core"
)

// RecurringReader lists the stored recurring definitions.
type RecurringReader interface {
	ListRecurring(ctx context.Context) ([]core.RecurringDefinition, error)
}

// RecurringStore persists recurring definitions.
type RecurringStore interface {
	RecurringReader
	GetRecurring(ctx context.Context, id string) (core.RecurringDefinition, error)
	CreateRecurring(ctx context.Context, def core.RecurringDefinition) error
	UpdateRecurring(ctx context.Context, def core.RecurringDefinition) error
	SetRecurringActive(ctx context.Context, id string, active bool) error
	DeleteRecurring(ctx context.Context, id string) error
}

// SettingsReader provides the per-installation preferences.
type SettingsReader interface {
	GetSettings(ctx context.Context) (core.Settings, error)
}

// LedgerWriter books materialised occurrences and advances a definition's
// last processed date atomically.
type LedgerWriter interface {
	RecordOccurrences(ctx context.Context, recurringID string, txs []core.Transaction, through core.Date) (int, error)
}

// NotificationWriter stores in-app notifications, ignoring duplicates.
type NotificationWriter interface {
	CreateNotification(ctx context.Context, n core.Notification) (bool, error)
}

// ReminderPublisher hands a new reminder to the external notifier.
type ReminderPublisher interface {
	PublishReminder(ctx context.Context, n core.Notification) error
}

// TransactionStore books and lists transactions.
type TransactionStore interface {
	InsertTransaction(ctx context.Context, tx core.Transaction) (bool, error)
	ListTransactions(ctx context.Context, recurringID string) ([]core.Transaction, error)
}
