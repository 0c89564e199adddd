package models

import "time"

// Score — запись в журнале дисциплинарных баллов. Баланс ученика — сумма
// points по всем записям (отрицательные points — снятие).
type Score struct {
	ID        int64     `db:"id" json:"id"`
	StudentID int64     `db:"student_id" json:"student_id"`
	Points    int       `db:"points" json:"points"`
	Category  string    `db:"category" json:"category"`
	Note      *string   `db:"note" json:"note"`
	CreatedBy int64     `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type ScoreWithStudent struct {
	Score
	StudentName string `db:"student_name" json:"student_name"`
	ClassName   string `db:"class_name" json:"class_name"`
	AddedByName string `db:"added_by_name" json:"added_by_name"`
}
