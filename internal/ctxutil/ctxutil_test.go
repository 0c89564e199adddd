package ctxutil

import (
	"context"
	"testing"
	"time"
)

func TestUserIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := UserID(ctx); ok {
		t.Fatal("пустой контекст не должен отдавать userID")
	}
	ctx = WithUserID(ctx, 42)
	id, ok := UserID(ctx)
	if !ok || id != 42 {
		t.Fatalf("ожидали 42, получили %d (ok=%v)", id, ok)
	}
}

func TestOpRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := Op(ctx); ok {
		t.Fatal("пустой контекст не должен отдавать имя операции")
	}
	ctx = WithOp(ctx, "POST /api/attendance/checkin")
	op, ok := Op(ctx)
	if !ok || op != "POST /api/attendance/checkin" {
		t.Fatalf("ожидали имя операции, получили %q (ok=%v)", op, ok)
	}
}

func TestWithDBTimeout_RespectsParentDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ctx, cancel2 := WithDBTimeout(parent)
	defer cancel2()
	dl, ok := ctx.Deadline()
	if !ok {
		t.Fatal("нет дедлайна")
	}
	if time.Until(dl) > time.Second+50*time.Millisecond {
		t.Fatalf("дедлайн вышел за родительский: %v", time.Until(dl))
	}
}
