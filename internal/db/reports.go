package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/school-app-backend/internal/models"
)

func InsertBullyingReport(ctx context.Context, database *sql.DB, r models.BullyingReport) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
INSERT INTO bullying_reports (reporter_id, description, incident_date, status)
VALUES ($1, $2, $3, 'open')
RETURNING id`,
		r.ReporterID, r.Description, r.IncidentDate.Format("2006-01-02")).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert bullying report: %w", err)
	}
	return id, nil
}

func ListBullyingReports(ctx context.Context, database *sql.DB, status models.ReportStatus) ([]models.BullyingReport, error) {
	query := `
SELECT id, reporter_id, description, incident_date, status, handled_by, created_at
FROM bullying_reports`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bullying reports: %w", err)
	}
	defer rows.Close()

	var out []models.BullyingReport
	for rows.Next() {
		var r models.BullyingReport
		var st string
		if err := rows.Scan(&r.ID, &r.ReporterID, &r.Description, &r.IncidentDate,
			&st, &r.HandledBy, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Status = models.ReportStatus(st)
		out = append(out, r)
	}
	return out, rows.Err()
}

func SetBullyingReportStatus(ctx context.Context, database *sql.DB, id int64, status models.ReportStatus, handledBy int64) error {
	res, err := database.ExecContext(ctx, `
UPDATE bullying_reports SET status = $1, handled_by = $2 WHERE id = $3`,
		string(status), handledBy, id)
	if err != nil {
		return fmt.Errorf("set report status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
