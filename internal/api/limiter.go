package api

import "sync"

// StudentLimiter сериализует «проверка записи за сегодня → вставка» по
// ученику: двойной тап на кнопке отметки не даёт двух строк.
type StudentLimiter struct {
	mu   sync.Mutex
	byID map[int64]*sync.Mutex
}

func NewStudentLimiter() *StudentLimiter {
	return &StudentLimiter{byID: make(map[int64]*sync.Mutex)}
}

func (l *StudentLimiter) lock(studentID int64) func() {
	l.mu.Lock()
	m, ok := l.byID[studentID]
	if !ok {
		m = &sync.Mutex{}
		l.byID[studentID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return func() { m.Unlock() }
}
