package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
)

// GetSettings returns the installation settings, falling back to the
// defaults if the row is missing.
func (r *SQLiteRepository) GetSettings(ctx context.Context) (core.Settings, error) {
	var s core.Settings
	err := r.db.QueryRowContext(ctx, `
		SELECT currency_symbol, notifications_enabled, notifications_lead_days
		FROM settings WHERE id = 1`).Scan(&s.CurrencySymbol, &s.NotificationsEnabled, &s.NotificationsLeadDays)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultSettings(), nil
	}
	if err != nil {
		return s, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) UpdateSettings(ctx context.Context, s core.Settings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, currency_symbol, notifications_enabled, notifications_lead_days)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			currency_symbol = excluded.currency_symbol,
			notifications_enabled = excluded.notifications_enabled,
			notifications_lead_days = excluded.notifications_lead_days`,
		s.CurrencySymbol, s.NotificationsEnabled, s.NotificationsLeadDays)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}

	slog.InfoContext(ctx, "Settings updated",
		"notifications_enabled", s.NotificationsEnabled,
		"lead_days", s.NotificationsLeadDays)
	return nil
}
