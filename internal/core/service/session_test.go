package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/augejs/tokenstore-go/internal/core/domain"
	"github.com/augejs/tokenstore-go/internal/storage/memory"
)

func TestSessionCreateResolveRoundTrip(t *testing.T) {
	svc := NewSessionTokenService(memory.New(), nil, nil, 5*time.Minute)
	ctx := context.Background()

	rec, err := svc.Create(ctx, &CreateSessionTokenRequest{
		SessionName: "login",
		Props:       map[string]any{"captcha": "x7k2"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Key() != rec.Token() {
		t.Fatal("session token should be its own storage key")
	}

	got, err := svc.Resolve(ctx, rec.Token())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.SessionName() != "login" {
		t.Fatalf("SessionName = %q, want login", got.SessionName())
	}
	if got.GetString("captcha", "") != "x7k2" {
		t.Fatalf("captcha = %q, want x7k2", got.GetString("captcha", ""))
	}
}

func TestSessionCreateRequiresName(t *testing.T) {
	svc := NewSessionTokenService(memory.New(), nil, nil, 5*time.Minute)

	_, err := svc.Create(context.Background(), &CreateSessionTokenRequest{})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("Create without name = %v, want ErrInvalidArgument", err)
	}
}

func TestSessionResolveMissAndCorrupt(t *testing.T) {
	backend := memory.New()
	svc := NewSessionTokenService(backend, nil, nil, 5*time.Minute)
	ctx := context.Background()

	if _, err := svc.Resolve(ctx, "no-such-token"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("Resolve miss = %v, want ErrRecordNotFound", err)
	}

	backend.Set(ctx, "broken", "{oops", time.Minute)
	if _, err := svc.Resolve(ctx, "broken"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("Resolve corrupt = %v, want ErrRecordNotFound", err)
	}
}

func TestSessionTouchKeepsRecordAlive(t *testing.T) {
	now := time.Unix(1000, 0)
	backend := memory.NewWithClock(func() time.Time { return now })
	svc := NewSessionTokenService(backend, nil, nil, 5*time.Minute)
	ctx := context.Background()

	rec, err := svc.Create(ctx, &CreateSessionTokenRequest{SessionName: "login"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// refresh at the 4 minute mark, then step past the original expiry
	now = now.Add(4 * time.Minute)
	if err := svc.Touch(ctx, rec); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	now = now.Add(4 * time.Minute)

	if _, err := svc.Resolve(ctx, rec.Token()); err != nil {
		t.Fatalf("Resolve after touch = %v, want alive", err)
	}

	// without another refresh the record eventually dies
	now = now.Add(2 * time.Minute)
	if _, err := svc.Resolve(ctx, rec.Token()); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("Resolve after expiry = %v, want ErrRecordNotFound", err)
	}
}

func TestSessionDelete(t *testing.T) {
	svc := NewSessionTokenService(memory.New(), nil, nil, 5*time.Minute)
	ctx := context.Background()

	rec, err := svc.Create(ctx, &CreateSessionTokenRequest{SessionName: "login"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, rec); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !rec.Deleted() {
		t.Fatal("record not marked deleted")
	}
	if _, err := svc.Resolve(ctx, rec.Token()); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("Resolve after delete = %v, want ErrRecordNotFound", err)
	}
}
