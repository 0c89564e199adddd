//go:build testutil
// +build testutil

package notify_test

import (
	"context"
	"testing"

	"github.com/Spok95/school-app-backend/internal/db"
	"github.com/Spok95/school-app-backend/internal/models"
	"github.com/Spok95/school-app-backend/internal/notify"
	"github.com/Spok95/school-app-backend/internal/testutil/testdb"
	"go.uber.org/zap"
)

// Без телеграм-бота уведомления родителям всё равно ложатся строками
// в notifications.
func TestNotifyParents_InAppWithoutBot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	nis := "T-budi"
	studentUserID, err := db.CreateUser(ctx, h.DB, models.User{
		Username: "budi", PasswordHash: "x", FullName: "Budi Santoso",
		Role: models.Student, RegistrationNumber: &nis, IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	studentID, err := db.CreateStudent(ctx, h.DB, studentUserID, "7A")
	if err != nil {
		t.Fatal(err)
	}
	parentID, err := db.CreateUser(ctx, h.DB, models.User{
		Username: "budi.parent", PasswordHash: "x", FullName: "Ибу Budi",
		Role: models.Parent, RegistrationNumber: &nis, IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	n := notify.New(h.DB, nil, zap.NewNop())
	title, body := notify.LateMessage("Budi Santoso", "07:12")
	n.NotifyParents(ctx, studentID, title, body)

	got, err := db.ListNotifications(ctx, h.DB, parentID, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("ожидали одно уведомление родителю, получили %d", len(got))
	}
	if got[0].Title != title || got[0].Body != body {
		t.Fatalf("не тот текст: %#v", got[0])
	}
}
