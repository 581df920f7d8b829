package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
)

// CreateNotification stores a notification. Reminders are unique per
// definition and occurrence date; a duplicate, even of a deleted reminder,
// is ignored and reported as false.
func (r *SQLiteRepository) CreateNotification(ctx context.Context, n core.Notification) (bool, error) {
	createdAt := n.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}
	recurringID := sql.NullString{String: n.RecurringID, Valid: n.RecurringID != ""}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, title, body, type, recurring_id, notification_date, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		n.ID, n.Title, n.Body, n.Type, recurringID, nullDate(n.NotificationDate), n.Read,
		formatTimestamp(createdAt))
	if err != nil {
		return false, fmt.Errorf("create notification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create notification rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	slog.InfoContext(ctx, "Notification created",
		"id", n.ID,
		"type", n.Type,
		"recurring_id", n.RecurringID)
	return true, nil
}

// ListNotifications returns notifications that were not deleted, newest first.
func (r *SQLiteRepository) ListNotifications(ctx context.Context) ([]core.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, body, type, recurring_id, notification_date, read, created_at
		FROM notifications
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := []core.Notification{}
	for rows.Next() {
		var (
			n                core.Notification
			recurringID      sql.NullString
			notificationDate sql.NullString
			createdAt        string
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Type, &recurringID, &notificationDate,
			&n.Read, &createdAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.RecurringID = recurringID.String
		n.NotificationDate = scanDate(notificationDate)
		if n.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return requireAffected(res, "notification", id)
}

// DeleteNotification soft-deletes a notification.
func (r *SQLiteRepository) DeleteNotification(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		formatTimestamp(r.now()), id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return requireAffected(res, "notification", id)
}
