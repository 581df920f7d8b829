package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
)

const recurringColumns = `id, name, category, amount, frequency, start_date, end_date,
	is_income, is_active, description, last_processed`

func scanRecurring(row rowScanner) (core.RecurringDefinition, error) {
	var (
		def           core.RecurringDefinition
		amount        string
		frequency     string
		startDate     string
		endDate       sql.NullString
		isActive      sql.NullBool
		lastProcessed sql.NullString
	)
	err := row.Scan(&def.ID, &def.Name, &def.Category, &amount, &frequency, &startDate,
		&endDate, &def.IsIncome, &isActive, &def.Description, &lastProcessed)
	if err != nil {
		return def, err
	}

	if def.Amount, err = parseDecimal("amount", amount); err != nil {
		return def, err
	}
	def.Frequency = core.Frequency(frequency)
	def.StartDate = core.ParseDateLenient(startDate)
	def.EndDate = scanDate(endDate)
	def.LastProcessed = scanDate(lastProcessed)
	if isActive.Valid {
		def.SetActive(isActive.Bool)
	}
	return def, nil
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

// ListRecurring returns every definition, paused ones included, ordered by name.
func (r *SQLiteRepository) ListRecurring(ctx context.Context) ([]core.RecurringDefinition, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recurringColumns+` FROM recurring_definitions ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("list recurring definitions: %w", err)
	}
	defer rows.Close()

	defs := []core.RecurringDefinition{}
	for rows.Next() {
		def, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recurring definition: %w", err)
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recurring definitions: %w", err)
	}
	return defs, nil
}

func (r *SQLiteRepository) GetRecurring(ctx context.Context, id string) (core.RecurringDefinition, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recurringColumns+` FROM recurring_definitions WHERE id = ?`, id)
	def, err := scanRecurring(row)
	if errors.Is(err, sql.ErrNoRows) {
		return def, fmt.Errorf("recurring definition %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return def, fmt.Errorf("get recurring definition: %w", err)
	}
	return def, nil
}

func (r *SQLiteRepository) CreateRecurring(ctx context.Context, def core.RecurringDefinition) error {
	now := formatTimestamp(r.now())
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recurring_definitions (`+recurringColumns+`, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		def.ID, def.Name, def.Category, def.Amount.String(), string(def.Frequency),
		def.StartDate.String(), nullDate(def.EndDate), def.IsIncome, nullBool(def.IsActive),
		def.Description, nullDate(def.LastProcessed), now, now)
	if err != nil {
		return fmt.Errorf("create recurring definition: %w", err)
	}

	slog.InfoContext(ctx, "Recurring definition saved",
		"id", def.ID,
		"name", def.Name,
		"frequency", def.Frequency,
		"amount", def.Amount.String())
	return nil
}

// UpdateRecurring replaces the user-editable fields of a definition.
// last_processed is left alone.
func (r *SQLiteRepository) UpdateRecurring(ctx context.Context, def core.RecurringDefinition) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recurring_definitions
		SET name = ?, category = ?, amount = ?, frequency = ?, start_date = ?, end_date = ?,
			is_income = ?, is_active = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		def.Name, def.Category, def.Amount.String(), string(def.Frequency), def.StartDate.String(),
		nullDate(def.EndDate), def.IsIncome, nullBool(def.IsActive), def.Description,
		formatTimestamp(r.now()), def.ID)
	if err != nil {
		return fmt.Errorf("update recurring definition: %w", err)
	}
	return requireAffected(res, "recurring definition", def.ID)
}

func (r *SQLiteRepository) SetRecurringActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_definitions SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, formatTimestamp(r.now()), id)
	if err != nil {
		return fmt.Errorf("set recurring active: %w", err)
	}
	if err := requireAffected(res, "recurring definition", id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Recurring definition toggled", "id", id, "active", active)
	return nil
}

// DeleteRecurring removes a definition. Materialised transactions are kept
// and lose their back-reference; reminders are removed with it.
func (r *SQLiteRepository) DeleteRecurring(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recurring_definitions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recurring definition: %w", err)
	}
	if err := requireAffected(res, "recurring definition", id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Recurring definition deleted", "id", id)
	return nil
}
