package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Spok95/school-app-backend/internal/models"
)

const attendanceCols = `id, student_id, date, status, check_in_time, method, note, recorded_by, created_at`

func GetAttendanceForDate(ctx context.Context, database *sql.DB, studentID int64, date time.Time) (*models.AttendanceRecord, error) {
	row := database.QueryRowContext(ctx, `
SELECT `+attendanceCols+` FROM attendance WHERE student_id = $1 AND date = $2`,
		studentID, date.Format("2006-01-02"))
	return scanAttendance(row)
}

func scanAttendance(row *sql.Row) (*models.AttendanceRecord, error) {
	var a models.AttendanceRecord
	var status string
	err := row.Scan(&a.ID, &a.StudentID, &a.Date, &status, &a.CheckInTime,
		&a.Method, &a.Note, &a.RecordedBy, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan attendance: %w", err)
	}
	a.Status = models.AttendanceStatus(status)
	return &a, nil
}

func InsertAttendance(ctx context.Context, database *sql.DB, a models.AttendanceRecord) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
INSERT INTO attendance (student_id, date, status, check_in_time, method, note, recorded_by)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`,
		a.StudentID, a.Date.Format("2006-01-02"), string(a.Status),
		a.CheckInTime, a.Method, a.Note, a.RecordedBy).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert attendance: %w", err)
	}
	return id, nil
}

// UpsertAttendance — ручная корректировка учителем: та же строка (student, date)
// перезаписывается на месте.
func UpsertAttendance(ctx context.Context, database *sql.DB, a models.AttendanceRecord) error {
	_, err := database.ExecContext(ctx, `
INSERT INTO attendance (student_id, date, status, check_in_time, method, note, recorded_by)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (student_id, date) DO UPDATE SET
    status = excluded.status,
    check_in_time = excluded.check_in_time,
    method = excluded.method,
    note = excluded.note,
    recorded_by = excluded.recorded_by`,
		a.StudentID, a.Date.Format("2006-01-02"), string(a.Status),
		a.CheckInTime, a.Method, a.Note, a.RecordedBy)
	if err != nil {
		return fmt.Errorf("upsert attendance: %w", err)
	}
	return nil
}

func ListAttendanceByDate(ctx context.Context, database *sql.DB, date time.Time) ([]models.AttendanceRecord, error) {
	return listAttendance(ctx, database, `
SELECT `+attendanceCols+` FROM attendance WHERE date = $1 ORDER BY student_id`,
		date.Format("2006-01-02"))
}

func ListAttendanceHistory(ctx context.Context, database *sql.DB, studentID int64, from, to time.Time) ([]models.AttendanceRecord, error) {
	return listAttendance(ctx, database, `
SELECT `+attendanceCols+` FROM attendance
WHERE student_id = $1 AND date BETWEEN $2 AND $3
ORDER BY date DESC`,
		studentID, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

func listAttendance(ctx context.Context, database *sql.DB, query string, args ...any) ([]models.AttendanceRecord, error) {
	rows, err := database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var out []models.AttendanceRecord
	for rows.Next() {
		var a models.AttendanceRecord
		var status string
		if err := rows.Scan(&a.ID, &a.StudentID, &a.Date, &status, &a.CheckInTime,
			&a.Method, &a.Note, &a.RecordedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Status = models.AttendanceStatus(status)
		out = append(out, a)
	}
	return out, rows.Err()
}

// StudentsWithoutRecord — ученики без записи за дату; джоба absent-marker
// ставит им 'absent' после конца учебного дня.
func StudentsWithoutRecord(ctx context.Context, database *sql.DB, date time.Time) ([]int64, error) {
	rows, err := database.QueryContext(ctx, `
SELECT s.id
FROM students s
JOIN users u ON u.id = s.user_id AND u.is_active
WHERE NOT EXISTS (
    SELECT 1 FROM attendance a WHERE a.student_id = s.id AND a.date = $1
)`, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("students without record: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
