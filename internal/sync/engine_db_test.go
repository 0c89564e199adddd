//go:build testutil
// +build testutil

package sync

import (
	"context"
	"testing"

	"github.com/Spok95/school-app-backend/internal/db"
	"github.com/Spok95/school-app-backend/internal/models"
	"github.com/Spok95/school-app-backend/internal/testutil/testdb"
	"go.uber.org/zap"
)

// Неатрибутированный документ не должен порождать строку в literacy_logs:
// он считается пропущенным, а не записанным под чужим учеником.
func TestEngineIngest_UnattributedSkipped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	nis := "1001"
	userID, err := db.CreateUser(ctx, h.DB, models.User{
		Username: "budi", PasswordHash: "x", FullName: "Budi Santoso",
		Role: models.Student, RegistrationNumber: &nis, IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	studentID, err := db.CreateStudent(ctx, h.DB, userID, "7A")
	if err != nil {
		t.Fatal(err)
	}

	e := NewEngine(nil, h.DB, zap.NewNop())
	if err := e.RefreshRoster(ctx); err != nil {
		t.Fatal(err)
	}

	countRows := func() int {
		var n int
		if err := h.DB.QueryRowContext(ctx, `SELECT count(*) FROM literacy_logs`).Scan(&n); err != nil {
			t.Fatal(err)
		}
		return n
	}

	// никого из ростера в документе нет
	e.ingestDoc(ctx, "doc-unknown", Document{
		"nama":  "Tidak Dikenal",
		"judul": "Laskar Pelangi",
	})
	if n := countRows(); n != 0 {
		t.Fatalf("документ без владельца записан: %d строк", n)
	}

	// атрибутированный документ ложится под правильным учеником
	e.ingestDoc(ctx, "doc-1", Document{
		"username": "budi",
		"judul":    "Bumi",
		"durasi":   "30",
	})
	logs, err := db.ListLiteracyLogs(ctx, h.DB, studentID, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 || logs[0].BookTitle != "Bumi" || logs[0].DurationMinutes != 30 {
		t.Fatalf("ожидали один дневник под учеником %d, получили %#v", studentID, logs)
	}
}
