//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/Spok95/school-app-backend/internal/db"
	"github.com/Spok95/school-app-backend/internal/models"
	"github.com/Spok95/school-app-backend/internal/testutil/testdb"
)

func seedParent(ctx context.Context, t *testing.T, database *testdb.DBHandle, username, childNIS string) int64 {
	t.Helper()
	id, err := db.CreateUser(ctx, database.DB, models.User{
		Username:           username,
		PasswordHash:       "x",
		FullName:           "Родитель " + username,
		Role:               models.Parent,
		RegistrationNumber: &childNIS,
		IsActive:           true,
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestTelegramLink_ParentsOf(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	studentID := seedStudent(ctx, t, h, "budi", "Budi Santoso")
	parentID := seedParent(ctx, t, h, "budi.parent", "T-budi")
	// родитель другого ученика в выборку попадать не должен
	seedParent(ctx, t, h, "other.parent", "T-siti")

	parents, err := db.ParentsOf(ctx, h.DB, studentID)
	if err != nil {
		t.Fatal(err)
	}
	if len(parents) != 1 || parents[0].ID != parentID {
		t.Fatalf("ожидали одного родителя %d, получили %#v", parentID, parents)
	}
	if parents[0].TelegramChatID != nil {
		t.Fatalf("чат ещё не привязан, а в ответе %d", *parents[0].TelegramChatID)
	}

	if err := db.SetTelegramChat(ctx, h.DB, parentID, 777001); err != nil {
		t.Fatal(err)
	}
	parents, err = db.ParentsOf(ctx, h.DB, studentID)
	if err != nil {
		t.Fatal(err)
	}
	if len(parents) != 1 || parents[0].TelegramChatID == nil || *parents[0].TelegramChatID != 777001 {
		t.Fatalf("после привязки ожидали чат 777001, получили %#v", parents)
	}
}

func TestSetTelegramChat_UnknownUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	if err := db.SetTelegramChat(ctx, h.DB, 9999, 777001); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("ожидали sql.ErrNoRows, получили %v", err)
	}
}
