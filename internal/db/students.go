package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Spok95/school-app-backend/internal/models"
)

func CreateStudent(ctx context.Context, database *sql.DB, userID int64, className string) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
INSERT INTO students (user_id, class_name) VALUES ($1, $2) RETURNING id`,
		userID, className).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create student: %w", err)
	}
	return id, nil
}

func GetStudentByID(ctx context.Context, database *sql.DB, id int64) (*models.StudentProfile, error) {
	row := database.QueryRowContext(ctx, `
SELECT s.id, s.user_id, s.class_name, s.points, s.created_at, u.username, u.full_name, u.registration_number
FROM students s JOIN users u ON u.id = s.user_id
WHERE s.id = $1`, id)
	return scanStudent(row)
}

func GetStudentByUserID(ctx context.Context, database *sql.DB, userID int64) (*models.StudentProfile, error) {
	row := database.QueryRowContext(ctx, `
SELECT s.id, s.user_id, s.class_name, s.points, s.created_at, u.username, u.full_name, u.registration_number
FROM students s JOIN users u ON u.id = s.user_id
WHERE s.user_id = $1`, userID)
	return scanStudent(row)
}

func scanStudent(row *sql.Row) (*models.StudentProfile, error) {
	var s models.StudentProfile
	err := row.Scan(&s.ID, &s.UserID, &s.ClassName, &s.Points, &s.CreatedAt,
		&s.Username, &s.FullName, &s.RegistrationNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan student: %w", err)
	}
	return &s, nil
}

func ListStudents(ctx context.Context, database *sql.DB) ([]models.StudentProfile, error) {
	rows, err := database.QueryContext(ctx, `
SELECT s.id, s.user_id, s.class_name, s.points, s.created_at, u.username, u.full_name, u.registration_number
FROM students s JOIN users u ON u.id = s.user_id
WHERE u.is_active
ORDER BY s.class_name, u.full_name`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var out []models.StudentProfile
	for rows.Next() {
		var s models.StudentProfile
		if err := rows.Scan(&s.ID, &s.UserID, &s.ClassName, &s.Points, &s.CreatedAt,
			&s.Username, &s.FullName, &s.RegistrationNumber); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteStudent — удаляет ученика вместе с пользователем; attendance,
// literacy_logs, scores и pets уходят каскадом.
func DeleteStudent(ctx context.Context, database *sql.DB, id int64) error {
	res, err := database.ExecContext(ctx, `
DELETE FROM users WHERE id = (SELECT user_id FROM students WHERE id = $1)`, id)
	if err != nil {
		return fmt.Errorf("delete student %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AddStudentPoints — дельта к балансу баллов (может быть отрицательной).
func AddStudentPoints(ctx context.Context, database *sql.DB, studentID int64, delta int) error {
	_, err := database.ExecContext(ctx,
		`UPDATE students SET points = points + $1 WHERE id = $2`, delta, studentID)
	if err != nil {
		return fmt.Errorf("add points: %w", err)
	}
	return nil
}
