package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/school-app-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// SeedDemo — демо-данные для стенда. Вызывается только явно (флаг -seed у
// cmd/server), никогда из пути аутентификации. Повторный запуск — no-op.
func SeedDemo(ctx context.Context, database *sql.DB) error {
	var count int
	if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("check users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo12345"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	nip := "19800101"
	if _, err := CreateUser(ctx, database, models.User{
		Username: "admin", PasswordHash: string(hash), FullName: "Admin Sekolah",
		Role: models.Admin, IsActive: true,
	}); err != nil {
		return err
	}
	if _, err := CreateUser(ctx, database, models.User{
		Username: "guru.budi", PasswordHash: string(hash), FullName: "Budi Santoso",
		Role: models.Teacher, RegistrationNumber: &nip, IsActive: true,
	}); err != nil {
		return err
	}

	classes := []string{"7A", "7B", "8A"}
	n := 0
	for _, class := range classes {
		for i := 1; i <= 10; i++ {
			n++
			nis := fmt.Sprintf("2024%04d", n)
			userID, err := CreateUser(ctx, database, models.User{
				Username:           fmt.Sprintf("siswa%s.%d", class, i),
				PasswordHash:       string(hash),
				FullName:           fmt.Sprintf("Siswa %s %d", class, i),
				Role:               models.Student,
				RegistrationNumber: &nis,
				IsActive:           true,
			})
			if err != nil {
				return fmt.Errorf("seed student %s/%d: %w", class, i, err)
			}
			studentID, err := CreateStudent(ctx, database, userID, class)
			if err != nil {
				return err
			}
			if _, err := EnsurePet(ctx, database, studentID); err != nil {
				return err
			}
		}
	}

	// родитель первого ученика: привязка по registration_number
	firstNIS := "20240001"
	if _, err := CreateUser(ctx, database, models.User{
		Username: "ortu.1", PasswordHash: string(hash), FullName: "Orang Tua Siswa 1",
		Role: models.Parent, RegistrationNumber: &firstNIS, IsActive: true,
	}); err != nil {
		return err
	}

	return nil
}
