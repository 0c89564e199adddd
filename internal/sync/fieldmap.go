package sync

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Spok95/school-app-backend/internal/identity"
)

// Удалённая схема «историческая»: одно и то же поле в старых документах
// называется по-разному. Все варианты собраны здесь, а не размазаны по коду;
// первый алиас в списке — канонический для исходящих документов.
var fieldAliases = map[string][]string{
	"student_id":          {"student_id", "studentId", "siswa_id"},
	"username":            {"username", "user_name"},
	"user_id":             {"user_id", "userId"},
	"full_name":           {"full_name", "fullName", "name", "nama"},
	"registration_number": {"registration_number", "registrationNumber", "nisn", "nis"},
	"book_title":          {"book_title", "bookTitle", "title", "judul"},
	"duration_minutes":    {"duration_minutes", "durationMinutes", "duration", "durasi"},
	"summary":             {"summary", "ringkasan", "notes"},
}

// strField — первое непустое значение среди алиасов канонического имени.
func strField(doc Document, canonical string) string {
	for _, key := range fieldAliases[canonical] {
		v, ok := doc[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			// числовые id приходят и числом, и строкой
			return strconv.FormatFloat(t, 'f', -1, 64)
		default:
			if s := strings.TrimSpace(fmt.Sprint(t)); s != "" && s != "<nil>" {
				return s
			}
		}
	}
	return ""
}

func intField(doc Document, canonical string) int {
	s := strField(doc, canonical)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// RemoteRefOf — идентификационные поля документа для резолвера.
func RemoteRefOf(doc Document) identity.RemoteRef {
	return identity.RemoteRef{
		StudentIDHint:      strField(doc, "student_id"),
		Username:           strField(doc, "username"),
		UserIDHint:         strField(doc, "user_id"),
		FullName:           strField(doc, "full_name"),
		RegistrationNumber: strField(doc, "registration_number"),
	}
}

// LiteracyFields — содержимое читательского дневника из документа.
type LiteracyFields struct {
	BookTitle       string
	DurationMinutes int
	Summary         string
}

func LiteracyOf(doc Document) LiteracyFields {
	return LiteracyFields{
		BookTitle:       strField(doc, "book_title"),
		DurationMinutes: intField(doc, "duration_minutes"),
		Summary:         strField(doc, "summary"),
	}
}
