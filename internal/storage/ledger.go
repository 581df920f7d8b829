package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
)

const insertTransaction = `
	INSERT INTO transactions (id, name, amount, category, is_income, date, description, recurring_id, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT DO NOTHING`

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *SQLiteRepository) insertTransaction(ctx context.Context, db execer, tx core.Transaction) (bool, error) {
	recurringID := sql.NullString{String: tx.RecurringID, Valid: tx.RecurringID != ""}
	res, err := db.ExecContext(ctx, insertTransaction,
		tx.ID, tx.Name, tx.Amount.String(), tx.Category, tx.IsIncome, tx.Date.String(),
		tx.Description, recurringID, formatTimestamp(r.now()))
	if err != nil {
		return false, fmt.Errorf("insert transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert transaction rows affected: %w", err)
	}
	return n > 0, nil
}

// markProcessed records the last day whose occurrences were materialised.
func (r *SQLiteRepository) markProcessed(ctx context.Context, db execer, id string, through core.Date) error {
	res, err := db.ExecContext(ctx,
		`UPDATE recurring_definitions SET last_processed = ?, updated_at = ? WHERE id = ?`,
		through.String(), formatTimestamp(r.now()), id)
	if err != nil {
		return fmt.Errorf("mark recurring processed: %w", err)
	}
	return requireAffected(res, "recurring definition", id)
}

// InsertTransaction stores a transaction. It reports false when the
// occurrence it materialises was already booked.
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, tx core.Transaction) (bool, error) {
	return r.insertTransaction(ctx, r.db, tx)
}

// RecordOccurrences books the transactions of one definition and advances its
// last_processed date in a single database transaction. It returns how many
// transactions were new.
func (r *SQLiteRepository) RecordOccurrences(ctx context.Context, recurringID string, txs []core.Transaction, through core.Date) (int, error) {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	created := 0
	for _, tx := range txs {
		ok, err := r.insertTransaction(ctx, dbTx, tx)
		if err != nil {
			return 0, err
		}
		if ok {
			created++
		}
	}

	if err := r.markProcessed(ctx, dbTx, recurringID, through); err != nil {
		return 0, err
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit occurrences: %w", err)
	}

	if created > 0 {
		slog.InfoContext(ctx, "Recurring occurrences booked",
			"recurring_id", recurringID,
			"created", created,
			"through", through.String())
	}
	return created, nil
}

// ListTransactions returns transactions newest first. A non-empty recurringID
// restricts the list to one definition.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, recurringID string) ([]core.Transaction, error) {
	query := `SELECT id, name, amount, category, is_income, date, description, recurring_id FROM transactions`
	var args []any
	if recurringID != "" {
		query += ` WHERE recurring_id = ?`
		args = append(args, recurringID)
	}
	query += ` ORDER BY date DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := []core.Transaction{}
	for rows.Next() {
		var (
			tx     core.Transaction
			amount string
			date   string
			rid    sql.NullString
		)
		if err := rows.Scan(&tx.ID, &tx.Name, &amount, &tx.Category, &tx.IsIncome, &date,
			&tx.Description, &rid); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if tx.Amount, err = parseDecimal("amount", amount); err != nil {
			return nil, err
		}
		tx.Date = core.ParseDateLenient(date)
		tx.RecurringID = rid.String
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}
