//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/Spok95/school-app-backend/internal/db"
	"github.com/Spok95/school-app-backend/internal/models"
	"github.com/Spok95/school-app-backend/internal/testutil/testdb"
)

func seedStudent(ctx context.Context, t *testing.T, database *testdb.DBHandle, username, name string) int64 {
	t.Helper()
	nis := "T-" + username
	userID, err := db.CreateUser(ctx, database.DB, models.User{
		Username:           username,
		PasswordHash:       "x",
		FullName:           name,
		Role:               models.Student,
		RegistrationNumber: &nis,
		IsActive:           true,
	})
	if err != nil {
		t.Fatal(err)
	}
	studentID, err := db.CreateStudent(ctx, database.DB, userID, "7A")
	if err != nil {
		t.Fatal(err)
	}
	return studentID
}

func TestAttendance_InsertAndLookup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	studentID := seedStudent(ctx, t, h, "budi", "Budi Santoso")
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	got, err := db.GetAttendanceForDate(ctx, h.DB, studentID, date)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("пустая база, а запись есть: %#v", got)
	}

	checkIn := "06:42"
	method := "self"
	if _, err := db.InsertAttendance(ctx, h.DB, models.AttendanceRecord{
		StudentID:   studentID,
		Date:        date,
		Status:      models.AttendancePresent,
		CheckInTime: &checkIn,
		Method:      &method,
	}); err != nil {
		t.Fatal(err)
	}

	got, err = db.GetAttendanceForDate(ctx, h.DB, studentID, date)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Status != models.AttendancePresent {
		t.Fatalf("ожидали present, получили %#v", got)
	}
	if got.CheckInTime == nil || *got.CheckInTime != "06:42" {
		t.Fatalf("ожидали check_in 06:42, получили %#v", got.CheckInTime)
	}
	if got.RecordedBy != nil {
		t.Fatalf("самостоятельная отметка не должна иметь recorded_by")
	}

	// Повторная вставка за тот же день упирается в уникальный индекс.
	if _, err := db.InsertAttendance(ctx, h.DB, models.AttendanceRecord{
		StudentID: studentID,
		Date:      date,
		Status:    models.AttendanceLate,
	}); err == nil {
		t.Fatal("ожидали ошибку уникальности (student_id, date)")
	}
}

func TestAttendance_OverrideKeepsOneRow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	studentID := seedStudent(ctx, t, h, "citra", "Citra Lestari")
	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	method := "auto"
	if _, err := db.InsertAttendance(ctx, h.DB, models.AttendanceRecord{
		StudentID: studentID,
		Date:      date,
		Status:    models.AttendanceAbsent,
		Method:    &method,
	}); err != nil {
		t.Fatal(err)
	}

	teacherID, err := db.CreateUser(ctx, h.DB, models.User{
		Username: "guru", PasswordHash: "x", FullName: "Guru", Role: models.Teacher, IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	manual := "manual"
	note := "справка от врача"
	if err := db.UpsertAttendance(ctx, h.DB, models.AttendanceRecord{
		StudentID:  studentID,
		Date:       date,
		Status:     models.AttendanceSick,
		Method:     &manual,
		Note:       &note,
		RecordedBy: &teacherID,
	}); err != nil {
		t.Fatal(err)
	}

	list, err := db.ListAttendanceByDate(ctx, h.DB, date)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("корректировка должна переписать ту же строку, строк: %d", len(list))
	}
	if list[0].Status != models.AttendanceSick || list[0].RecordedBy == nil {
		t.Fatalf("ожидали sick от учителя, получили %#v", list[0])
	}
}

func TestAttendance_StudentsWithoutRecord(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	marked := seedStudent(ctx, t, h, "dewi", "Dewi Anggraini")
	missing := seedStudent(ctx, t, h, "eko", "Eko Prasetyo")
	date := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	if _, err := db.InsertAttendance(ctx, h.DB, models.AttendanceRecord{
		StudentID: marked,
		Date:      date,
		Status:    models.AttendancePresent,
	}); err != nil {
		t.Fatal(err)
	}

	ids, err := db.StudentsWithoutRecord(ctx, h.DB, date)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != missing {
		t.Fatalf("ожидали только %d без записи, получили %v", missing, ids)
	}
}
