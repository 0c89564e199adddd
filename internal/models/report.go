package models

import "time"

type ReportStatus string

const (
	ReportOpen      ReportStatus = "open"
	ReportReviewing ReportStatus = "reviewing"
	ReportClosed    ReportStatus = "closed"
)

// BullyingReport — обращение о буллинге. ReporterID == nil — анонимно.
type BullyingReport struct {
	ID           int64        `db:"id" json:"id"`
	ReporterID   *int64       `db:"reporter_id" json:"reporter_id"`
	Description  string       `db:"description" json:"description"`
	IncidentDate time.Time    `db:"incident_date" json:"incident_date"`
	Status       ReportStatus `db:"status" json:"status"`
	HandledBy    *int64       `db:"handled_by" json:"handled_by"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}
