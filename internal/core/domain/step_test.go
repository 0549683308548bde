// Package domain defines the core record models for the token store.
package domain

import "testing"

func TestNewStepRecord_StackNeverNil(t *testing.T) {
	r, err := NewStepRecord("signup", 300_000, nil, nil)
	if err != nil {
		t.Fatalf("NewStepRecord() error = %v", err)
	}
	if r.Steps() == nil {
		t.Error("Steps() should never be nil after creation")
	}
	if r.HasNextStep() {
		t.Error("An empty stack has no next step")
	}
	if _, ok := r.CurrentStep(); ok {
		t.Error("CurrentStep on an empty stack should report absent")
	}
}

func TestStepRecord_PushPopPeek(t *testing.T) {
	r, err := NewStepRecord("signup", 300_000, []string{"verify", "setPassword"}, nil)
	if err != nil {
		t.Fatalf("NewStepRecord() error = %v", err)
	}

	if cur, ok := r.CurrentStep(); !ok || cur != "verify" {
		t.Errorf("CurrentStep() = %q, %v; want verify, true", cur, ok)
	}
	if !r.HasNextStep() {
		t.Error("HasNextStep() should be true with steps remaining")
	}

	step, ok := r.PopStep()
	if !ok || step != "verify" {
		t.Errorf("PopStep() = %q, %v; want verify, true", step, ok)
	}
	if cur, _ := r.CurrentStep(); cur != "setPassword" {
		t.Errorf("CurrentStep() after pop = %q, want setPassword", cur)
	}

	// PushStep prepends: the pushed step becomes current.
	r.PushStep("confirm")
	if cur, _ := r.CurrentStep(); cur != "confirm" {
		t.Errorf("CurrentStep() after push = %q, want confirm", cur)
	}

	r.PopStep()
	r.PopStep()
	if r.HasNextStep() {
		t.Error("HasNextStep() should be false once the stack drains")
	}
	if _, ok := r.PopStep(); ok {
		t.Error("PopStep on an empty stack should report absent")
	}
}

func TestStepRecord_MutationsMarkDirty(t *testing.T) {
	r, _ := NewStepRecord("signup", 300_000, []string{"verify"}, nil)
	r.MarkSaved()

	r.PushStep("extra")
	if !r.Dirty() {
		t.Error("PushStep should mark dirty")
	}

	r.MarkSaved()
	r.PopStep()
	if !r.Dirty() {
		t.Error("PopStep should mark dirty")
	}
}

func TestStepRecord_RoundTrip(t *testing.T) {
	r, err := NewStepRecord("signup", 300_000, []string{"verify", "setPassword"}, map[string]any{"email": "a@b.c"})
	if err != nil {
		t.Fatalf("NewStepRecord() error = %v", err)
	}

	data, err := r.MarshalPayload()
	if err != nil {
		t.Fatalf("MarshalPayload() error = %v", err)
	}

	loaded, err := LoadStepRecord(data)
	if err != nil {
		t.Fatalf("LoadStepRecord() error = %v", err)
	}
	if loaded.Dirty() {
		t.Error("A loaded record should be clean")
	}
	if loaded.SessionName() != "signup" {
		t.Errorf("SessionName = %q, want signup", loaded.SessionName())
	}

	steps := loaded.Steps()
	if len(steps) != 2 || steps[0] != "verify" || steps[1] != "setPassword" {
		t.Errorf("Steps = %v, want [verify setPassword]", steps)
	}
	if got := loaded.GetString("email", ""); got != "a@b.c" {
		t.Errorf("Custom field email = %q, want a@b.c", got)
	}
}

func TestLoadStepRecord_MissingSteps(t *testing.T) {
	// A payload without a steps key still yields a usable empty stack.
	loaded, err := LoadStepRecord([]byte(`{"token":"abc","sessionName":"signup","maxAge":1000}`))
	if err != nil {
		t.Fatalf("LoadStepRecord() error = %v", err)
	}
	if loaded.Steps() == nil {
		t.Error("Steps() should never be nil")
	}
	if loaded.HasNextStep() {
		t.Error("Missing steps key should load as an empty stack")
	}
}
