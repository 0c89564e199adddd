package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/school-app-backend/internal/models"
)

// AddScore — запись в журнал + дельта к балансу ученика, в одной транзакции.
func AddScore(ctx context.Context, database *sql.DB, s models.Score) (int64, error) {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowContext(ctx, `
INSERT INTO scores (student_id, points, category, note, created_by)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`,
		s.StudentID, s.Points, s.Category, s.Note, s.CreatedBy).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert score: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE students SET points = points + $1 WHERE id = $2`, s.Points, s.StudentID); err != nil {
		return 0, fmt.Errorf("update balance: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func ListScoresByStudent(ctx context.Context, database *sql.DB, studentID int64) ([]models.Score, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, student_id, points, category, note, created_by, created_at
FROM scores WHERE student_id = $1
ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var out []models.Score
	for rows.Next() {
		var s models.Score
		if err := rows.Scan(&s.ID, &s.StudentID, &s.Points, &s.Category, &s.Note,
			&s.CreatedBy, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func ListScoresWithStudents(ctx context.Context, database *sql.DB) ([]models.ScoreWithStudent, error) {
	rows, err := database.QueryContext(ctx, `
SELECT sc.id, sc.student_id, sc.points, sc.category, sc.note, sc.created_by, sc.created_at,
       u.full_name AS student_name, s.class_name, cu.full_name AS added_by_name
FROM scores sc
JOIN students s ON s.id = sc.student_id
JOIN users u ON u.id = s.user_id
JOIN users cu ON cu.id = sc.created_by
ORDER BY sc.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list scores with students: %w", err)
	}
	defer rows.Close()

	var out []models.ScoreWithStudent
	for rows.Next() {
		var s models.ScoreWithStudent
		if err := rows.Scan(&s.ID, &s.StudentID, &s.Points, &s.Category, &s.Note,
			&s.CreatedBy, &s.CreatedAt, &s.StudentName, &s.ClassName, &s.AddedByName); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SpendStudentPoints — списание при кормлении питомца; отказ при нехватке.
func SpendStudentPoints(ctx context.Context, database *sql.DB, studentID int64, cost int) error {
	res, err := database.ExecContext(ctx, `
UPDATE students SET points = points - $1 WHERE id = $2 AND points >= $1`, cost, studentID)
	if err != nil {
		return fmt.Errorf("spend points: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
