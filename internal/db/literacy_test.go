//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"testing"

	"github.com/Spok95/school-app-backend/internal/db"
	"github.com/Spok95/school-app-backend/internal/models"
	"github.com/Spok95/school-app-backend/internal/testutil/testdb"
)

// Повторная доставка документа по тому же remote_key обновляет содержимое,
// но не сбрасывает решение учителя.
func TestUpsertLiteracyByRemoteKey_RedeliveryKeepsGrade(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	studentID := seedStudent(ctx, t, h, "budi", "Budi Santoso")
	teacherNIS := "G-1"
	teacherID, err := db.CreateUser(ctx, h.DB, models.User{
		Username: "guru", PasswordHash: "x", FullName: "Pak Guru",
		Role: models.Teacher, RegistrationNumber: &teacherNIS, IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	key := "doc-42"
	if err := db.UpsertLiteracyByRemoteKey(ctx, h.DB, models.LiteracyLog{
		StudentID: studentID, BookTitle: "Bumi", DurationMinutes: 20, RemoteKey: &key,
	}); err != nil {
		t.Fatal(err)
	}
	logs, err := db.ListLiteracyLogs(ctx, h.DB, studentID, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("ожидали одну запись, получили %d", len(logs))
	}
	id := logs[0].ID

	note := "молодец"
	if err := db.GradeLiteracyLog(ctx, h.DB, id, models.LiteracyApproved, &note, 5, teacherID); err != nil {
		t.Fatal(err)
	}

	// повторная доставка того же документа с подправленным содержимым
	if err := db.UpsertLiteracyByRemoteKey(ctx, h.DB, models.LiteracyLog{
		StudentID: studentID, BookTitle: "Bumi (edisi 2)", DurationMinutes: 25, RemoteKey: &key,
	}); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetLiteracyLog(ctx, h.DB, id)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("запись пропала после повторной доставки")
	}
	if got.Status != models.LiteracyApproved {
		t.Fatalf("статус сброшен: %s", got.Status)
	}
	if got.TeacherNote == nil || *got.TeacherNote != note {
		t.Fatalf("комментарий учителя потерян: %#v", got.TeacherNote)
	}
	if got.PointsAwarded != 5 {
		t.Fatalf("баллы потеряны: %d", got.PointsAwarded)
	}
	if got.BookTitle != "Bumi (edisi 2)" || got.DurationMinutes != 25 {
		t.Fatalf("содержимое не обновилось: %#v", got)
	}

	// уже оценённую запись второй раз не оценить
	if err := db.GradeLiteracyLog(ctx, h.DB, id, models.LiteracyRejected, nil, 0, teacherID); err == nil {
		t.Fatal("повторная оценка прошла, хотя запись уже approved")
	}
}
