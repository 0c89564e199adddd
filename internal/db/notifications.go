package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/school-app-backend/internal/models"
)

func InsertNotification(ctx context.Context, database *sql.DB, n models.Notification) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
INSERT INTO notifications (user_id, title, body) VALUES ($1, $2, $3) RETURNING id`,
		n.UserID, n.Title, n.Body).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}
	return id, nil
}

func ListNotifications(ctx context.Context, database *sql.DB, userID int64, unreadOnly bool) ([]models.Notification, error) {
	query := `
SELECT id, user_id, title, body, read, created_at
FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND NOT read`
	}
	query += ` ORDER BY created_at DESC LIMIT 100`

	rows, err := database.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func MarkNotificationRead(ctx context.Context, database *sql.DB, id, userID int64) error {
	res, err := database.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
