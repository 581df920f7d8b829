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

// ReminderService turns due and upcoming occurrences into in-app
// notifications and forwards new ones to the notifier.
type ReminderService struct {
	recurring     RecurringReader
	settings      SettingsReader
	notifications NotificationWriter
	publisher     ReminderPublisher
	newID         func() string
}

// NewReminderService creates a reminder service. publisher may be nil, in
// which case reminders are only stored in-app.
func NewReminderService(recurring RecurringReader, settings SettingsReader, notifications NotificationWriter, publisher ReminderPublisher) *ReminderService {
	return &ReminderService{
		recurring:     recurring,
		settings:      settings,
		notifications: notifications,
		publisher:     publisher,
		newID:         uuid.NewString,
	}
}

// Sync raises one reminder per definition and occurrence date for
// occurrences due today or within the lead window. Overdue occurrences are
// not reminded. It returns the number of new reminders.
func (s *ReminderService) Sync(ctx context.Context, now time.Time) (int, error) {
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return 0, fmt.Errorf("get settings: %w", err)
	}
	if !settings.NotificationsEnabled {
		return 0, nil
	}

	defs, err := s.recurring.ListRecurring(ctx)
	if err != nil {
		return 0, fmt.Errorf("list recurring: %w", err)
	}

	result := recurrence.Classify(defs, now, settings.NotificationsLeadDays)
	logIssues(ctx, result.Issues)

	items := make([]recurrence.Item, 0, len(result.Due)+len(result.Upcoming))
	for _, it := range result.Due {
		if it.DaysUntil == 0 {
			items = append(items, it)
		}
	}
	items = append(items, result.Upcoming...)

	created := 0
	for _, it := range items {
		date := it.NextOccurrence
		n := core.Notification{
			ID:               s.newID(),
			Title:            reminderTitle(it),
			Body:             reminderBody(it, settings.CurrencySymbol),
			Type:             core.NotificationTypeRecurring,
			RecurringID:      it.DefinitionID,
			NotificationDate: &date,
			CreatedAt:        now,
		}

		ok, err := s.notifications.CreateNotification(ctx, n)
		if err != nil {
			return created, fmt.Errorf("create reminder for %s: %w", it.DefinitionID, err)
		}
		if !ok {
			continue
		}
		created++
		s.publish(ctx, n)
	}

	if created > 0 {
		slog.InfoContext(ctx, "Recurring reminders raised", "created", created)
	}
	return created, nil
}

func (s *ReminderService) publish(ctx context.Context, n core.Notification) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No reminder publisher configured, reminder stored in-app only", "id", n.ID)
		return
	}
	if err := s.publisher.PublishReminder(ctx, n); err != nil {
		// Reminder is already stored in-app
		slog.ErrorContext(ctx, "Failed to publish reminder",
			"id", n.ID,
			"recurring_id", n.RecurringID,
			"error", err)
	}
}

func reminderTitle(it recurrence.Item) string {
	var when string
	switch it.DaysUntil {
	case 0:
		when = "Today"
	case 1:
		when = "Tomorrow"
	default:
		when = fmt.Sprintf("In %d days", it.DaysUntil)
	}
	return fmt.Sprintf("%s due %s", it.Name, when)
}

func reminderBody(it recurrence.Item, symbol string) string {
	return fmt.Sprintf("%s • %s • %s", core.FormatAmount(it.Amount, symbol, it.IsIncome), it.Category, it.Frequency)
}
