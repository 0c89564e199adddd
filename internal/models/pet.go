package models

import "time"

// Pet — игровой питомец ученика. XP растёт от одобренных читательских
// дневников, happiness падает фоновой джобой без активности.
type Pet struct {
	StudentID int64     `db:"student_id" json:"student_id"`
	Name      string    `db:"name" json:"name"`
	Species   string    `db:"species" json:"species"`
	Level     int       `db:"level" json:"level"`
	XP        int       `db:"xp" json:"xp"`
	Happiness int       `db:"happiness" json:"happiness"` // 0..100
	LastFedAt time.Time `db:"last_fed_at" json:"last_fed_at"`
}

const (
	PetXPPerLevel    = 100
	PetMaxHappiness  = 100
	PetFeedCost      = 10 // баллов за кормление
	PetFeedHappiness = 20
)
