package sync

import (
	"testing"
	"time"
)

func TestNextBackoff(t *testing.T) {
	// серия коротких обрывов: удвоение до потолка
	b := baseBackoff
	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second,
		16 * time.Second, 30 * time.Second, 30 * time.Second}
	for i, w := range want {
		b = nextBackoff(b, 100*time.Millisecond)
		if b != w {
			t.Fatalf("шаг %d: ожидали %v, получили %v", i, w, b)
		}
	}

	// долгая здоровая сессия возвращает бэкофф к базовому
	if got := nextBackoff(30*time.Second, 2*time.Hour); got != baseBackoff {
		t.Fatalf("после долгой сессии ожидали %v, получили %v", baseBackoff, got)
	}
	if got := nextBackoff(4*time.Second, healthySession); got != baseBackoff {
		t.Fatalf("сессия ровно в %v тоже здоровая, получили %v", healthySession, got)
	}
}
