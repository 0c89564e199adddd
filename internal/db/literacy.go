package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Spok95/school-app-backend/internal/models"
)

const literacyCols = `id, student_id, book_title, duration_minutes, summary, status, teacher_note, points_awarded, remote_key, created_at, graded_at, graded_by`

func InsertLiteracyLog(ctx context.Context, database *sql.DB, l models.LiteracyLog) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
INSERT INTO literacy_logs (student_id, book_title, duration_minutes, summary, status, remote_key)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`,
		l.StudentID, l.BookTitle, l.DurationMinutes, l.Summary, string(models.LiteracyPending), l.RemoteKey).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert literacy log: %w", err)
	}
	return id, nil
}

// UpsertLiteracyByRemoteKey — идемпотентный приём документа из удалённого
// хранилища: перезапись по ключу. Оценка (status и далее) не трогается, чтобы
// повторная доставка не затёрла решение учителя.
func UpsertLiteracyByRemoteKey(ctx context.Context, database *sql.DB, l models.LiteracyLog) error {
	if l.RemoteKey == nil {
		return errors.New("remote key is required")
	}
	_, err := database.ExecContext(ctx, `
INSERT INTO literacy_logs (student_id, book_title, duration_minutes, summary, status, remote_key)
VALUES ($1, $2, $3, $4, 'pending', $5)
ON CONFLICT (remote_key) DO UPDATE SET
    book_title = excluded.book_title,
    duration_minutes = excluded.duration_minutes,
    summary = excluded.summary`,
		l.StudentID, l.BookTitle, l.DurationMinutes, l.Summary, *l.RemoteKey)
	if err != nil {
		return fmt.Errorf("upsert literacy by remote key: %w", err)
	}
	return nil
}

func GetLiteracyLog(ctx context.Context, database *sql.DB, id int64) (*models.LiteracyLog, error) {
	var l models.LiteracyLog
	var status string
	err := database.QueryRowContext(ctx, `
SELECT `+literacyCols+` FROM literacy_logs WHERE id = $1`, id).
		Scan(&l.ID, &l.StudentID, &l.BookTitle, &l.DurationMinutes, &l.Summary, &status,
			&l.TeacherNote, &l.PointsAwarded, &l.RemoteKey, &l.CreatedAt, &l.GradedAt, &l.GradedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get literacy log: %w", err)
	}
	l.Status = models.LiteracyStatus(status)
	return &l, nil
}

func ListLiteracyLogs(ctx context.Context, database *sql.DB, studentID int64, status models.LiteracyStatus) ([]models.LiteracyLog, error) {
	query := `SELECT ` + literacyCols + ` FROM literacy_logs WHERE 1=1`
	var args []any
	if studentID != 0 {
		args = append(args, studentID)
		query += fmt.Sprintf(" AND student_id = $%d", len(args))
	}
	if status != "" {
		args = append(args, string(status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list literacy logs: %w", err)
	}
	defer rows.Close()

	var out []models.LiteracyLog
	for rows.Next() {
		var l models.LiteracyLog
		var st string
		if err := rows.Scan(&l.ID, &l.StudentID, &l.BookTitle, &l.DurationMinutes, &l.Summary, &st,
			&l.TeacherNote, &l.PointsAwarded, &l.RemoteKey, &l.CreatedAt, &l.GradedAt, &l.GradedBy); err != nil {
			return nil, err
		}
		l.Status = models.LiteracyStatus(st)
		out = append(out, l)
	}
	return out, rows.Err()
}

// GradeLiteracyLog — решение учителя; только pending-записи.
func GradeLiteracyLog(ctx context.Context, database *sql.DB, id int64, status models.LiteracyStatus, note *string, points int, gradedBy int64) error {
	res, err := database.ExecContext(ctx, `
UPDATE literacy_logs
SET status = $1, teacher_note = $2, points_awarded = $3, graded_at = $4, graded_by = $5
WHERE id = $6 AND status = 'pending'`,
		string(status), note, points, time.Now().UTC(), gradedBy, id)
	if err != nil {
		return fmt.Errorf("grade literacy log %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
