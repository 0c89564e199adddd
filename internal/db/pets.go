package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Spok95/school-app-backend/internal/models"
)

// EnsurePet — создаёт питомца при первом обращении.
func EnsurePet(ctx context.Context, database *sql.DB, studentID int64) (*models.Pet, error) {
	_, err := database.ExecContext(ctx, `
INSERT INTO pets (student_id) VALUES ($1) ON CONFLICT (student_id) DO NOTHING`, studentID)
	if err != nil {
		return nil, fmt.Errorf("ensure pet: %w", err)
	}
	return GetPet(ctx, database, studentID)
}

func GetPet(ctx context.Context, database *sql.DB, studentID int64) (*models.Pet, error) {
	var p models.Pet
	err := database.QueryRowContext(ctx, `
SELECT student_id, name, species, level, xp, happiness, last_fed_at
FROM pets WHERE student_id = $1`, studentID).
		Scan(&p.StudentID, &p.Name, &p.Species, &p.Level, &p.XP, &p.Happiness, &p.LastFedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pet: %w", err)
	}
	return &p, nil
}

func RenamePet(ctx context.Context, database *sql.DB, studentID int64, name string) error {
	_, err := database.ExecContext(ctx,
		`UPDATE pets SET name = $1 WHERE student_id = $2`, name, studentID)
	if err != nil {
		return fmt.Errorf("rename pet: %w", err)
	}
	return nil
}

// FeedPet — поднимает happiness (с потолком) и отмечает время кормления.
// Списание баллов — отдельно, в SpendStudentPoints.
func FeedPet(ctx context.Context, database *sql.DB, studentID int64) error {
	_, err := database.ExecContext(ctx, `
UPDATE pets
SET happiness = LEAST(happiness + $1, $2), last_fed_at = $3
WHERE student_id = $4`,
		models.PetFeedHappiness, models.PetMaxHappiness, time.Now().UTC(), studentID)
	if err != nil {
		return fmt.Errorf("feed pet: %w", err)
	}
	return nil
}

// AddPetXP — опыт за одобренный читательский дневник; уровень — xp/100+1.
func AddPetXP(ctx context.Context, database *sql.DB, studentID int64, xp int) error {
	_, err := database.ExecContext(ctx, `
UPDATE pets
SET xp = xp + $1, level = (xp + $1) / $2 + 1
WHERE student_id = $3`, xp, models.PetXPPerLevel, studentID)
	if err != nil {
		return fmt.Errorf("add pet xp: %w", err)
	}
	return nil
}

// DecayPets — ежедневное уныние питомцев, которых давно не кормили.
func DecayPets(ctx context.Context, database *sql.DB, olderThan time.Time, delta int) (int64, error) {
	res, err := database.ExecContext(ctx, `
UPDATE pets SET happiness = GREATEST(happiness - $1, 0)
WHERE last_fed_at < $2 AND happiness > 0`, delta, olderThan)
	if err != nil {
		return 0, fmt.Errorf("decay pets: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
