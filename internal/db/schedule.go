package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Spok95/school-app-backend/internal/models"
)

func GetSchedule(ctx context.Context, database *sql.DB) ([]models.ScheduleEntry, error) {
	rows, err := database.QueryContext(ctx, `
SELECT day_of_week, day_name, start_time, end_time, is_holiday
FROM schedule ORDER BY day_of_week`)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	defer rows.Close()

	var out []models.ScheduleEntry
	for rows.Next() {
		var e models.ScheduleEntry
		if err := rows.Scan(&e.DayOfWeek, &e.DayName, &e.StartTime, &e.EndTime, &e.IsHoliday); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func GetScheduleForDay(ctx context.Context, database *sql.DB, day time.Weekday) (*models.ScheduleEntry, error) {
	var e models.ScheduleEntry
	err := database.QueryRowContext(ctx, `
SELECT day_of_week, day_name, start_time, end_time, is_holiday
FROM schedule WHERE day_of_week = $1`, int(day)).
		Scan(&e.DayOfWeek, &e.DayName, &e.StartTime, &e.EndTime, &e.IsHoliday)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("schedule for day %d: %w", day, err)
	}
	return &e, nil
}

// ReplaceSchedule — админ заменяет все 7 строк целиком, в одной транзакции.
func ReplaceSchedule(ctx context.Context, database *sql.DB, entries []models.ScheduleEntry) error {
	if len(entries) != 7 {
		return fmt.Errorf("schedule must have 7 entries, got %d", len(entries))
	}
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule`); err != nil {
		return fmt.Errorf("clear schedule: %w", err)
	}
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO schedule (day_of_week, day_name, start_time, end_time, is_holiday)
VALUES ($1, $2, $3, $4, $5)`,
			e.DayOfWeek, e.DayName, e.StartTime, e.EndTime, e.IsHoliday); err != nil {
			return fmt.Errorf("insert schedule day %d: %w", e.DayOfWeek, err)
		}
	}
	return tx.Commit()
}

func GetSchoolLocation(ctx context.Context, database *sql.DB) (*models.SchoolLocation, error) {
	var loc models.SchoolLocation
	err := database.QueryRowContext(ctx, `
SELECT latitude, longitude, radius_m FROM school_location WHERE id = 1`).
		Scan(&loc.Latitude, &loc.Longitude, &loc.RadiusM)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("school location: %w", err)
	}
	return &loc, nil
}

func SetSchoolLocation(ctx context.Context, database *sql.DB, loc models.SchoolLocation) error {
	_, err := database.ExecContext(ctx, `
UPDATE school_location SET latitude = $1, longitude = $2, radius_m = $3 WHERE id = 1`,
		loc.Latitude, loc.Longitude, loc.RadiusM)
	if err != nil {
		return fmt.Errorf("set school location: %w", err)
	}
	return nil
}
