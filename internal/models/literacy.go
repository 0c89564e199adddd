package models

import "time"

type LiteracyStatus string

const (
	LiteracyPending  LiteracyStatus = "pending"
	LiteracyApproved LiteracyStatus = "approved"
	LiteracyRejected LiteracyStatus = "rejected"
)

type LiteracyLog struct {
	ID              int64          `db:"id" json:"id"`
	StudentID       int64          `db:"student_id" json:"student_id"`
	BookTitle       string         `db:"book_title" json:"book_title"`
	DurationMinutes int            `db:"duration_minutes" json:"duration_minutes"`
	Summary         string         `db:"summary" json:"summary"`
	Status          LiteracyStatus `db:"status" json:"status"`
	TeacherNote     *string        `db:"teacher_note" json:"teacher_note"`
	PointsAwarded   int            `db:"points_awarded" json:"points_awarded"`
	RemoteKey       *string        `db:"remote_key" json:"-"` // ключ документа в удалённом хранилище
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	GradedAt        *time.Time     `db:"graded_at" json:"graded_at"`
	GradedBy        *int64         `db:"graded_by" json:"graded_by"`
}
