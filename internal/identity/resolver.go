package identity

import (
	"strconv"
	"strings"
)

// RosterEntry — локальный ученик со связанными полями пользователя.
// Снимок ростера неизменяемый; резолвер его только читает.
type RosterEntry struct {
	StudentID          int64
	UserID             int64
	Username           string
	FullName           string
	RegistrationNumber string
}

// RemoteRef — частично идентифицированный удалённый документ: любые из полей
// могут быть пустыми.
type RemoteRef struct {
	StudentIDHint      string // числовая строка, доверяется как есть
	Username           string
	UserIDHint         string // числовая строка
	FullName           string
	RegistrationNumber string
}

type Resolver struct {
	roster     []RosterEntry
	byUsername map[string]int64 // username → student id
	byUserID   map[int64]int64  // user id → student id

	// OnAmbiguous вызывается, когда фолбэк-скан находит больше одного
	// кандидата (берём первого, но хотим видеть это в метриках).
	OnAmbiguous func(field string)
}

func NewResolver(roster []RosterEntry) *Resolver {
	r := &Resolver{
		roster:     roster,
		byUsername: make(map[string]int64, len(roster)),
		byUserID:   make(map[int64]int64, len(roster)),
	}
	for _, e := range roster {
		if e.Username != "" {
			if _, dup := r.byUsername[e.Username]; !dup {
				r.byUsername[e.Username] = e.StudentID
			}
		}
		r.byUserID[e.UserID] = e.StudentID
	}
	return r
}

// Resolve — детерминированная цепочка фолбэков; первый успех выигрывает.
// (0, false) — документ не атрибутирован; вызывающий пропускает его, а не
// пишет под чужим id.
func (r *Resolver) Resolve(ref RemoteRef) (int64, bool) {
	if id, err := strconv.ParseInt(strings.TrimSpace(ref.StudentIDHint), 10, 64); err == nil && id > 0 {
		return id, true
	}

	// шаг, не давший совпадения, не обрывает цепочку — пробуем следующий
	if u := strings.TrimSpace(ref.Username); u != "" {
		if id, ok := r.byUsername[u]; ok {
			return id, true
		}
	}

	if uid, err := strconv.ParseInt(strings.TrimSpace(ref.UserIDHint), 10, 64); err == nil && uid > 0 {
		if id, ok := r.byUserID[uid]; ok {
			return id, true
		}
	}

	if reg := strings.TrimSpace(ref.RegistrationNumber); reg != "" {
		return r.scan("registration_number", func(e RosterEntry) bool {
			return e.RegistrationNumber == reg
		})
	}
	if name := strings.TrimSpace(ref.FullName); name != "" {
		return r.scan("full_name", func(e RosterEntry) bool {
			return strings.EqualFold(strings.TrimSpace(e.FullName), name)
		})
	}
	return 0, false
}

// scan — O(n) по ростеру; приемлемо на масштабе одной школы.
func (r *Resolver) scan(field string, match func(RosterEntry) bool) (int64, bool) {
	var found int64
	matches := 0
	for _, e := range r.roster {
		if match(e) {
			matches++
			if matches == 1 {
				found = e.StudentID
			}
		}
	}
	if matches == 0 {
		return 0, false
	}
	if matches > 1 && r.OnAmbiguous != nil {
		r.OnAmbiguous(field)
	}
	return found, true
}
