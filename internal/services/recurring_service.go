// Package services provides business logic and orchestration services.
//
// RecurringService guards the data boundary for recurring definitions,
// RecurringProcessor books due occurrences and ReminderService raises
// reminders for due and upcoming ones.
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

// RecurringService validates and normalises recurring definitions and exposes
// the engine's derived views over the stored set.
type RecurringService struct {
	store    RecurringStore
	settings SettingsReader
	newID    func() string
}

func NewRecurringService(store RecurringStore, settings SettingsReader) *RecurringService {
	return &RecurringService{
		store:    store,
		settings: settings,
		newID:    uuid.NewString,
	}
}

func (s *RecurringService) List(ctx context.Context) ([]core.RecurringDefinition, error) {
	defs, err := s.store.ListRecurring(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recurring: %w", err)
	}
	return defs, nil
}

func (s *RecurringService) Get(ctx context.Context, id string) (core.RecurringDefinition, error) {
	return s.store.GetRecurring(ctx, id)
}

// Create normalises def, validates it and stores it under a fresh id.
func (s *RecurringService) Create(ctx context.Context, def core.RecurringDefinition) (core.RecurringDefinition, error) {
	def.ID = s.newID()
	def.LastProcessed = nil
	def.Normalize()
	if err := def.Validate(); err != nil {
		return core.RecurringDefinition{}, err
	}
	if err := s.store.CreateRecurring(ctx, def); err != nil {
		return core.RecurringDefinition{}, fmt.Errorf("create recurring: %w", err)
	}
	return def, nil
}

// Update replaces the editable fields of an existing definition.
func (s *RecurringService) Update(ctx context.Context, id string, def core.RecurringDefinition) (core.RecurringDefinition, error) {
	existing, err := s.store.GetRecurring(ctx, id)
	if err != nil {
		return core.RecurringDefinition{}, err
	}

	def.ID = id
	def.LastProcessed = existing.LastProcessed
	if def.IsActive == nil {
		def.IsActive = existing.IsActive
	}
	def.Normalize()
	if err := def.Validate(); err != nil {
		return core.RecurringDefinition{}, err
	}
	if err := s.store.UpdateRecurring(ctx, def); err != nil {
		return core.RecurringDefinition{}, fmt.Errorf("update recurring: %w", err)
	}
	return def, nil
}

// Toggle flips the active flag and returns the updated definition.
func (s *RecurringService) Toggle(ctx context.Context, id string) (core.RecurringDefinition, error) {
	def, err := s.store.GetRecurring(ctx, id)
	if err != nil {
		return core.RecurringDefinition{}, err
	}
	def.SetActive(!def.Active())
	if err := s.store.SetRecurringActive(ctx, id, def.Active()); err != nil {
		return core.RecurringDefinition{}, err
	}
	return def, nil
}

func (s *RecurringService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteRecurring(ctx, id)
}

// Stats returns the monthly-equivalent totals of the active definitions.
func (s *RecurringService) Stats(ctx context.Context) (recurrence.MonthlyTotals, error) {
	defs, err := s.List(ctx)
	if err != nil {
		return recurrence.MonthlyTotals{}, err
	}
	return recurrence.AggregateMonthly(defs), nil
}

// Upcoming classifies the stored definitions into due and upcoming buckets
// using the configured lead days.
func (s *RecurringService) Upcoming(ctx context.Context, now time.Time) (recurrence.Classification, error) {
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return recurrence.Classification{}, fmt.Errorf("get settings: %w", err)
	}
	defs, err := s.List(ctx)
	if err != nil {
		return recurrence.Classification{}, err
	}

	result := recurrence.Classify(defs, now, settings.NotificationsLeadDays)
	logIssues(ctx, result.Issues)
	return result, nil
}

func logIssues(ctx context.Context, issues []recurrence.Issue) {
	for _, issue := range issues {
		slog.WarnContext(ctx, "Recurring definition skipped",
			"recurring_id", issue.DefinitionID,
			"kind", issue.Kind,
			"error", issue.Err)
	}
}
