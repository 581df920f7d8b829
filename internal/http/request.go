package http

import (
	"bytes"
	"encoding/json"
	"fmt"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

// recurringRequest is the body of POST and PUT /api/recurring. Amount may be
// a JSON number or a string using either decimal separator. When is_income
// is missing it follows the sign of amount.
type recurringRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Amount      json.RawMessage `json:"amount"`
	Frequency   string          `json:"frequency"`
	StartDate   string          `json:"start_date"`
	EndDate     *string         `json:"end_date"`
	IsIncome    *bool           `json:"is_income"`
	IsActive    *bool           `json:"is_active"`
	Description string          `json:"description"`
}

func (req recurringRequest) toDefinition() (core.RecurringDefinition, error) {
	amount, err := parseAmountField(req.Amount)
	if err != nil {
		return core.RecurringDefinition{}, err
	}

	start, err := core.ParseDate(sanitizeInput(req.StartDate))
	if err != nil {
		return core.RecurringDefinition{}, fmt.Errorf("%w: %v", core.ErrInvalidStartDate, err)
	}

	def := core.RecurringDefinition{
		Name:        sanitizeInput(req.Name),
		Category:    sanitizeInput(req.Category),
		Amount:      amount,
		Frequency:   core.Frequency(sanitizeInput(req.Frequency)),
		StartDate:   start,
		IsActive:    req.IsActive,
		Description: sanitizeInput(req.Description),
	}

	if req.EndDate != nil && sanitizeInput(*req.EndDate) != "" {
		end, err := core.ParseDate(sanitizeInput(*req.EndDate))
		if err != nil {
			return core.RecurringDefinition{}, fmt.Errorf("%w: %v", core.ErrInvalidEndDate, err)
		}
		def.EndDate = &end
	}

	if req.IsIncome != nil {
		def.IsIncome = *req.IsIncome
	} else {
		def.IsIncome = amount.IsPositive()
	}
	return def, nil
}

func parseAmountField(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, core.ErrInvalidAmount
	}
	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero, core.ErrInvalidAmount
		}
	}
	return core.ParseAmount(text)
}

// transactionRequest is the body of POST /api/transactions. Amount and
// is_income follow the same rules as recurringRequest.
type transactionRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Amount      json.RawMessage `json:"amount"`
	Date        string          `json:"date"`
	IsIncome    *bool           `json:"is_income"`
	Description string          `json:"description"`
}

func (req transactionRequest) toTransaction() (core.Transaction, error) {
	amount, err := parseAmountField(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := core.ParseDate(sanitizeInput(req.Date))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %v", core.ErrInvalidDateField, err)
	}

	tx := core.Transaction{
		Name:        sanitizeInput(req.Name),
		Category:    sanitizeInput(req.Category),
		Amount:      amount,
		Date:        date,
		IsIncome:    amount.IsPositive(),
		Description: sanitizeInput(req.Description),
	}
	if req.IsIncome != nil {
		tx.IsIncome = *req.IsIncome
	}
	return tx, nil
}

// settingsRequest is the body of PUT /api/settings. Missing fields keep
// their stored value.
type settingsRequest struct {
	CurrencySymbol        *string `json:"currency_symbol"`
	NotificationsEnabled  *bool   `json:"notifications_enabled"`
	NotificationsLeadDays *int    `json:"notifications_lead_days"`
}

// apply merges the request into current. Negative lead days become zero.
func (req settingsRequest) apply(current core.Settings) (core.Settings, error) {
	if req.CurrencySymbol != nil {
		symbol := sanitizeInput(*req.CurrencySymbol)
		if symbol == "" {
			return current, fmt.Errorf("%w: currency symbol cannot be empty", core.ErrValidation)
		}
		if len([]rune(symbol)) > 8 {
			return current, fmt.Errorf("%w: currency symbol too long (max 8 characters)", core.ErrValidation)
		}
		current.CurrencySymbol = symbol
	}
	if req.NotificationsEnabled != nil {
		current.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.NotificationsLeadDays != nil {
		current.NotificationsLeadDays = max(*req.NotificationsLeadDays, 0)
	}
	return current, nil
}
