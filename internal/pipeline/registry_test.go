package pipeline

import (
	"errors"
	"testing"
)

func newTestRun(t *testing.T, p *Pipeline) *Run {
	t.Helper()
	r, err := p.NewRun(newFakeSource(1), Options{})
	if err != nil {
		t.Fatalf("NewRun() error = %v", err)
	}
	return r
}

func TestRegistry_Register(t *testing.T) {
	p := newFixture(t, "en").pipeline(t, nil)
	reg := NewRegistry(0)

	run := newTestRun(t, p)
	if err := reg.Register(run); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Duplicate registration should fail
	if err := reg.Register(run); !errors.Is(err, ErrRunAlreadyRegistered) {
		t.Errorf("expected ErrRunAlreadyRegistered, got %v", err)
	}

	got, err := reg.Get(run.ID())
	if err != nil || got != run {
		t.Errorf("Get() = %v, %v", got, err)
	}
	if _, err := reg.Get("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestRegistry_ListNewestFirst(t *testing.T) {
	p := newFixture(t, "en").pipeline(t, nil)
	reg := NewRegistry(0)

	a, b, c := newTestRun(t, p), newTestRun(t, p), newTestRun(t, p)
	for _, r := range []*Run{a, b, c} {
		if err := reg.Register(r); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	}

	list := reg.List()
	if len(list) != 3 || list[0] != c || list[2] != a {
		t.Errorf("List() order wrong")
	}
}

func TestRegistry_Limit(t *testing.T) {
	p := newFixture(t, "en").pipeline(t, nil)
	reg := NewRegistry(2)

	a, b, c := newTestRun(t, p), newTestRun(t, p), newTestRun(t, p)
	for _, r := range []*Run{a, b, c} {
		if err := reg.Register(r); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	}

	if reg.Len() != 2 {
		t.Errorf("Len() = %d, want 2", reg.Len())
	}
	if _, err := reg.Get(a.ID()); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("oldest run should be evicted, got %v", err)
	}
}
