package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Daily    Frequency = "daily"
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
	Yearly   Frequency = "yearly"
)

type (
	// Frequency is the cadence of a recurring definition.
	Frequency string

	// RecurringDefinition is a user-authored template for a repeating cash flow.
	// IsIncome is authoritative; Normalize keeps the sign of Amount in line with it.
	RecurringDefinition struct {
		ID            string          `json:"id"`
		Name          string          `json:"name"`
		Category      string          `json:"category"`
		Amount        decimal.Decimal `json:"amount"`
		Frequency     Frequency       `json:"frequency"`
		StartDate     Date            `json:"start_date"`
		EndDate       *Date           `json:"end_date"`
		IsIncome      bool            `json:"is_income"`
		IsActive      *bool           `json:"is_active,omitempty"`
		Description   string          `json:"description"`
		LastProcessed *Date           `json:"last_processed,omitempty"`
	}

	// Occurrence is one projected instance of a definition. Never persisted.
	Occurrence struct {
		DefinitionID string          `json:"definition_id"`
		DueDate      Date            `json:"due_date"`
		Amount       decimal.Decimal `json:"amount"`
		IsIncome     bool            `json:"is_income"`
	}

	// Transaction is a booked cash flow, either entered by hand or
	// materialised from a recurring occurrence.
	Transaction struct {
		ID          string          `json:"id"`
		Name        string          `json:"name"`
		Amount      decimal.Decimal `json:"amount"`
		Category    string          `json:"category"`
		IsIncome    bool            `json:"is_income"`
		Date        Date            `json:"date"`
		Description string          `json:"description"`
		RecurringID string          `json:"recurring_id,omitempty"`
	}

	// Notification is an in-app alert. Recurring reminders carry the
	// definition and occurrence date they were raised for.
	Notification struct {
		ID               string     `json:"id"`
		Title            string     `json:"title"`
		Body             string     `json:"body"`
		Type             string     `json:"type"`
		RecurringID      string     `json:"recurring_id,omitempty"`
		NotificationDate *Date      `json:"notification_date,omitempty"`
		Read             bool       `json:"read"`
		CreatedAt        time.Time  `json:"created_at"`
		DeletedAt        *time.Time `json:"deleted_at"`
	}

	// Settings are the per-installation preferences the engine consumers need.
	Settings struct {
		CurrencySymbol        string `json:"currency_symbol"`
		NotificationsEnabled  bool   `json:"notifications_enabled"`
		NotificationsLeadDays int    `json:"notifications_lead_days"`
	}
)

const (
	NotificationTypeInfo      = "info"
	NotificationTypeRecurring = "recurring"
)

// DefaultSettings mirrors the defaults seeded by the initial migration.
func DefaultSettings() Settings {
	return Settings{
		CurrencySymbol:        "€",
		NotificationsEnabled:  true,
		NotificationsLeadDays: 3,
	}
}

var (
	ErrValidation       = errors.New("validation error")
	ErrEmptyName        = fmt.Errorf("%w: empty name", ErrValidation)
	ErrEmptyCategory    = fmt.Errorf("%w: empty category", ErrValidation)
	ErrInvalidAmount    = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrInvalidFrequency = fmt.Errorf("%w: invalid frequency", ErrValidation)
	ErrInvalidStartDate = fmt.Errorf("%w: invalid start date", ErrValidation)
	ErrInvalidEndDate   = fmt.Errorf("%w: invalid end date", ErrValidation)
	ErrEndBeforeStart   = fmt.Errorf("%w: end date must not be before start date", ErrValidation)
	ErrInvalidDateField = fmt.Errorf("%w: invalid date", ErrValidation)
)

// IsValid reports whether f is one of the supported cadences.
func (f Frequency) IsValid() bool {
	switch f {
	case Daily, Weekly, Biweekly, Monthly, Yearly:
		return true
	}
	return false
}

// Active reports whether the definition takes part in occurrence generation.
// A missing flag means active.
func (d RecurringDefinition) Active() bool {
	return d.IsActive == nil || *d.IsActive
}

// SetActive stores an explicit active flag.
func (d *RecurringDefinition) SetActive(active bool) {
	d.IsActive = &active
}

// Normalize trims text fields and forces the amount sign to agree with
// IsIncome: negative for expenses, positive for income.
func (d *RecurringDefinition) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Category = strings.TrimSpace(d.Category)
	d.Description = strings.TrimSpace(d.Description)
	d.Frequency = Frequency(strings.ToLower(strings.TrimSpace(string(d.Frequency))))
	d.Amount = SignedAmount(d.Amount, d.IsIncome)
}

func (d RecurringDefinition) Validate() error {
	if d.Name == "" {
		return ErrEmptyName
	}
	if len(d.Name) > 200 {
		return fmt.Errorf("%w: name too long (max 200 characters)", ErrValidation)
	}
	if d.Category == "" {
		return ErrEmptyCategory
	}
	if d.Amount.IsZero() {
		return ErrInvalidAmount
	}
	if d.IsIncome != d.Amount.IsPositive() {
		return fmt.Errorf("%w: amount sign does not match is_income", ErrValidation)
	}
	if !d.Frequency.IsValid() {
		return fmt.Errorf("%w %q", ErrInvalidFrequency, d.Frequency)
	}
	if err := d.StartDate.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStartDate, err)
	}
	if d.EndDate != nil {
		if err := d.EndDate.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidEndDate, err)
		}
		if d.EndDate.Before(d.StartDate.Time) {
			return ErrEndBeforeStart
		}
	}
	return nil
}

// Normalize trims text fields and signs the amount from IsIncome.
func (t *Transaction) Normalize() {
	t.Name = strings.TrimSpace(t.Name)
	t.Category = strings.TrimSpace(t.Category)
	t.Description = strings.TrimSpace(t.Description)
	t.Amount = SignedAmount(t.Amount, t.IsIncome)
}

func (t Transaction) Validate() error {
	if t.Name == "" {
		return ErrEmptyName
	}
	if len(t.Name) > 200 {
		return fmt.Errorf("%w: name too long (max 200 characters)", ErrValidation)
	}
	if t.Category == "" {
		return ErrEmptyCategory
	}
	if t.Amount.IsZero() {
		return ErrInvalidAmount
	}
	if t.IsIncome != t.Amount.IsPositive() {
		return fmt.Errorf("%w: amount sign does not match is_income", ErrValidation)
	}
	if err := t.Date.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDateField, err)
	}
	return nil
}
