package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunExecutesHooksInReverseOrder(t *testing.T) {
	h := NewHandler(time.Second)

	var order []string
	h.OnShutdown(func(ctx context.Context) error {
		order = append(order, "storage")
		return nil
	})
	h.OnShutdown(func(ctx context.Context) error {
		order = append(order, "http")
		return nil
	})

	if err := h.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(order) != 2 || order[0] != "http" || order[1] != "storage" {
		t.Fatalf("hook order = %v, want [http storage]", order)
	}

	select {
	case <-h.Done():
	default:
		t.Fatal("Done channel not closed after Run")
	}
}

func TestRunReturnsLastError(t *testing.T) {
	h := NewHandler(time.Second)

	first := errors.New("first")
	last := errors.New("last")
	h.OnShutdown(func(ctx context.Context) error { return last })
	h.OnShutdown(func(ctx context.Context) error { return first })

	// hooks run in reverse order, so "last" really is last
	if err := h.Run(); !errors.Is(err, last) {
		t.Fatalf("Run = %v, want %v", err, last)
	}
}

func TestHooksSeeDeadline(t *testing.T) {
	h := NewHandler(50 * time.Millisecond)

	h.OnShutdown(func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("hook context has no deadline")
		}
		return nil
	})

	if err := h.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
