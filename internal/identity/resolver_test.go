package identity

import "testing"

func demoRoster() []RosterEntry {
	return []RosterEntry{
		{StudentID: 1, UserID: 10, Username: "siswa7a.1", FullName: "Andi Wijaya", RegistrationNumber: "20240001"},
		{StudentID: 2, UserID: 11, Username: "siswa7a.2", FullName: "Budi Hartono", RegistrationNumber: "20240002"},
		{StudentID: 3, UserID: 12, Username: "siswa7b.1", FullName: "Citra Lestari", RegistrationNumber: "20240003"},
		// полный тёзка третьего — для проверки неоднозначности
		{StudentID: 4, UserID: 13, Username: "siswa7b.2", FullName: "Citra Lestari", RegistrationNumber: "20240004"},
	}
}

func TestResolve_StudentIDHintTrusted(t *testing.T) {
	r := NewResolver(demoRoster())
	// hint доверяется как есть, без проверки существования
	id, ok := r.Resolve(RemoteRef{StudentIDHint: "99", Username: "siswa7a.1"})
	if !ok || id != 99 {
		t.Fatalf("hint: получили (%d, %v)", id, ok)
	}
}

func TestResolve_Username(t *testing.T) {
	r := NewResolver(demoRoster())
	id, ok := r.Resolve(RemoteRef{Username: "siswa7a.2"})
	if !ok || id != 2 {
		t.Fatalf("username: (%d, %v)", id, ok)
	}
}

func TestResolve_UserIDHint(t *testing.T) {
	r := NewResolver(demoRoster())
	id, ok := r.Resolve(RemoteRef{UserIDHint: "12"})
	if !ok || id != 3 {
		t.Fatalf("user id hint: (%d, %v)", id, ok)
	}
	// неизвестный username не обрывает цепочку — добираемся до user id
	id, ok = r.Resolve(RemoteRef{Username: "ghost", UserIDHint: "10"})
	if !ok || id != 1 {
		t.Fatalf("username-промах + user id: (%d, %v)", id, ok)
	}
}

func TestResolve_RegistrationNumberExact(t *testing.T) {
	r := NewResolver(demoRoster())
	id, ok := r.Resolve(RemoteRef{RegistrationNumber: "20240002"})
	if !ok || id != 2 {
		t.Fatalf("nis: (%d, %v)", id, ok)
	}
	// регистрозависимое точное сравнение
	if _, ok := r.Resolve(RemoteRef{RegistrationNumber: " 20240002x"}); ok {
		t.Fatal("левый nis не должен матчиться")
	}
}

func TestResolve_FullNameTrimmedCaseInsensitive(t *testing.T) {
	r := NewResolver(demoRoster())
	id, ok := r.Resolve(RemoteRef{FullName: "  budi hartono "})
	if !ok || id != 2 {
		t.Fatalf("full name: (%d, %v)", id, ok)
	}
}

func TestResolve_AmbiguousTakesFirstAndReports(t *testing.T) {
	r := NewResolver(demoRoster())
	var ambiguous string
	r.OnAmbiguous = func(field string) { ambiguous = field }

	id, ok := r.Resolve(RemoteRef{FullName: "Citra Lestari"})
	if !ok || id != 3 {
		t.Fatalf("тёзки: (%d, %v)", id, ok)
	}
	if ambiguous != "full_name" {
		t.Fatalf("ожидали сигнал о неоднозначности, получили %q", ambiguous)
	}
}

func TestResolve_UnresolvedIsExplicit(t *testing.T) {
	r := NewResolver(demoRoster())
	id, ok := r.Resolve(RemoteRef{Username: "ghost", UserIDHint: "777", FullName: "Nobody", RegistrationNumber: "000"})
	if ok || id != 0 {
		t.Fatalf("ожидали (0, false), получили (%d, %v)", id, ok)
	}
	// пустой документ тоже не резолвится
	if _, ok := r.Resolve(RemoteRef{}); ok {
		t.Fatal("пустой ref не должен резолвиться")
	}
}

func TestResolve_Deterministic(t *testing.T) {
	r := NewResolver(demoRoster())
	a, _ := r.Resolve(RemoteRef{Username: "siswa7b.1"})
	b, _ := r.Resolve(RemoteRef{Username: "siswa7b.1"})
	if a != b {
		t.Fatalf("недетерминизм: %d != %d", a, b)
	}
}
