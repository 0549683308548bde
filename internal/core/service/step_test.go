package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/augejs/tokenstore-go/internal/core/domain"
	"github.com/augejs/tokenstore-go/internal/storage/memory"
)

func TestStepCreateResolveRoundTrip(t *testing.T) {
	svc := NewStepTokenService(memory.New(), nil, nil, 5*time.Minute)
	ctx := context.Background()

	rec, err := svc.Create(ctx, &CreateStepTokenRequest{
		SessionName: "register",
		Steps:       []string{"verify", "setPassword"},
		Props:       map[string]any{"email": "a@example.com"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Resolve(ctx, rec.Token())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.SessionName() != "register" {
		t.Fatalf("SessionName = %q, want register", got.SessionName())
	}
	steps := got.Steps()
	if len(steps) != 2 || steps[0] != "verify" || steps[1] != "setPassword" {
		t.Fatalf("Steps = %v, want [verify setPassword]", steps)
	}
}

func TestStepProgressionPersists(t *testing.T) {
	svc := NewStepTokenService(memory.New(), nil, nil, 5*time.Minute)
	ctx := context.Background()

	rec, err := svc.Create(ctx, &CreateStepTokenRequest{
		SessionName: "register",
		Steps:       []string{"verify", "setPassword"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// complete the first step and persist
	if step, ok := rec.PopStep(); !ok || step != "verify" {
		t.Fatalf("PopStep = %q/%v, want verify/true", step, ok)
	}
	if err := svc.Save(ctx, rec, false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := svc.Resolve(ctx, rec.Token())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if step, ok := got.CurrentStep(); !ok || step != "setPassword" {
		t.Fatalf("CurrentStep = %q/%v, want setPassword/true", step, ok)
	}
	if !got.HasNextStep() {
		t.Fatal("HasNextStep = false, want true")
	}
}

func TestStepEmptyStackResolvesEmpty(t *testing.T) {
	svc := NewStepTokenService(memory.New(), nil, nil, 5*time.Minute)
	ctx := context.Background()

	rec, err := svc.Create(ctx, &CreateStepTokenRequest{SessionName: "register"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Resolve(ctx, rec.Token())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.HasNextStep() {
		t.Fatal("empty flow should have no next step")
	}
	if got.Steps() == nil {
		t.Fatal("Steps should be empty, not nil")
	}
}

func TestStepResolveMiss(t *testing.T) {
	svc := NewStepTokenService(memory.New(), nil, nil, 5*time.Minute)

	_, err := svc.Resolve(context.Background(), "missing")
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("Resolve miss = %v, want ErrRecordNotFound", err)
	}
}
