package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Spok95/school-app-backend/internal/models"
)

func CreateUser(ctx context.Context, database *sql.DB, u models.User) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
INSERT INTO users (username, password_hash, full_name, role, registration_number, telegram_chat_id, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`,
		u.Username, u.PasswordHash, u.FullName, string(u.Role), u.RegistrationNumber, u.TelegramChatID, u.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create user %q: %w", u.Username, err)
	}
	return id, nil
}

func GetUserByID(ctx context.Context, database *sql.DB, id int64) (*models.User, error) {
	return scanUser(database.QueryRowContext(ctx, `
SELECT id, username, password_hash, full_name, role, registration_number, telegram_chat_id, is_active, created_at
FROM users WHERE id = $1`, id))
}

func GetUserByUsername(ctx context.Context, database *sql.DB, username string) (*models.User, error) {
	return scanUser(database.QueryRowContext(ctx, `
SELECT id, username, password_hash, full_name, role, registration_number, telegram_chat_id, is_active, created_at
FROM users WHERE username = $1`, username))
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &role,
		&u.RegistrationNumber, &u.TelegramChatID, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Role = models.Role(role)
	return &u, nil
}

func SetTelegramChat(ctx context.Context, database *sql.DB, userID, chatID int64) error {
	res, err := database.ExecContext(ctx,
		`UPDATE users SET telegram_chat_id = $1 WHERE id = $2`, chatID, userID)
	if err != nil {
		return fmt.Errorf("set telegram chat: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ParentsOf — родители, привязанные к ученику. Привязка пока по совпадению
// registration_number родителя и ученика.
func ParentsOf(ctx context.Context, database *sql.DB, studentID int64) ([]models.User, error) {
	rows, err := database.QueryContext(ctx, `
SELECT p.id, p.username, p.password_hash, p.full_name, p.role, p.registration_number, p.telegram_chat_id, p.is_active, p.created_at
FROM users p
JOIN students s ON s.id = $1
JOIN users su ON su.id = s.user_id
WHERE p.role = 'parent'
  AND p.is_active
  AND p.registration_number IS NOT NULL
  AND p.registration_number = su.registration_number`, studentID)
	if err != nil {
		return nil, fmt.Errorf("parents of student %d: %w", studentID, err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		var role string
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &role,
			&u.RegistrationNumber, &u.TelegramChatID, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Role = models.Role(role)
		out = append(out, u)
	}
	return out, rows.Err()
}
