package sync

import "testing"

func TestFieldAliases_HistoricalNames(t *testing.T) {
	// три поколения одного поля
	for _, doc := range []Document{
		{"duration_minutes": float64(25)},
		{"durationMinutes": "25"},
		{"duration": float64(25)},
		{"durasi": "25"},
	} {
		if got := intField(doc, "duration_minutes"); got != 25 {
			t.Fatalf("doc %v: duration = %d", doc, got)
		}
	}

	doc := Document{"judul": "Laskar Pelangi", "nisn": "20240001"}
	if got := strField(doc, "book_title"); got != "Laskar Pelangi" {
		t.Fatalf("book_title: %q", got)
	}
	if got := strField(doc, "registration_number"); got != "20240001" {
		t.Fatalf("registration_number: %q", got)
	}
}

func TestFieldAliases_CanonicalWins(t *testing.T) {
	// канонический ключ приоритетнее легаси-алиасов
	doc := Document{"book_title": "A", "judul": "B"}
	if got := strField(doc, "book_title"); got != "A" {
		t.Fatalf("ожидали канонический, получили %q", got)
	}
}

func TestRemoteRefOf(t *testing.T) {
	doc := Document{
		"studentId": float64(7),
		"nama":      "  Andi Wijaya ",
		"nis":       "20240001",
	}
	ref := RemoteRefOf(doc)
	if ref.StudentIDHint != "7" {
		t.Fatalf("student hint: %q", ref.StudentIDHint)
	}
	if ref.FullName != "Andi Wijaya" {
		t.Fatalf("full name: %q", ref.FullName)
	}
	if ref.RegistrationNumber != "20240001" {
		t.Fatalf("nis: %q", ref.RegistrationNumber)
	}
}

func TestLiteracyOf_MalformedNumbers(t *testing.T) {
	doc := Document{"book_title": "Bumi", "duration_minutes": "sebentar"}
	f := LiteracyOf(doc)
	if f.DurationMinutes != 0 {
		t.Fatalf("мусорная длительность должна деградировать в 0, получили %d", f.DurationMinutes)
	}
	if f.BookTitle != "Bumi" {
		t.Fatalf("book title: %q", f.BookTitle)
	}
}
