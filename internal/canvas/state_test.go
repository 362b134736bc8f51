package canvas

import "testing"

func TestNewStateIsTransientWithOneRef(t *testing.T) {
	s := New(100, 100)
	if !s.IsTransient() {
		t.Fatal("New state should be transient")
	}
	if s.RefCount() != 1 {
		t.Fatalf("RefCount() = %d, want 1", s.RefCount())
	}
}

func TestGetOrMakeTransientReusesUniqueOwner(t *testing.T) {
	s := New(10, 10)
	Freeze(s)
	if s.IsTransient() {
		t.Fatal("Freeze should clear transient bit")
	}

	got := GetOrMakeTransient(s)
	if got != s {
		t.Fatal("GetOrMakeTransient should reuse s in place when refcount == 1")
	}
	if !got.IsTransient() {
		t.Fatal("GetOrMakeTransient result must be transient")
	}
}

func TestGetOrMakeTransientForksWhenShared(t *testing.T) {
	s := New(10, 10)
	Freeze(s)
	shared := s.Ref() // refcount now 2

	fork := GetOrMakeTransient(shared)
	if fork == s {
		t.Fatal("GetOrMakeTransient should fork a new state when shared")
	}
	if !fork.IsTransient() {
		t.Fatal("forked state must be transient")
	}
	if fork.Width != s.Width || fork.Height != s.Height {
		t.Fatal("fork should copy dimensions")
	}
	// s's reference from Ref() was consumed by the fork call, leaving
	// the original single reference intact.
	if s.RefCount() != 1 {
		t.Fatalf("RefCount() after fork = %d, want 1", s.RefCount())
	}
}

func TestReleasePanicsOnUnbalancedRelease(t *testing.T) {
	s := New(1, 1)
	s.Release()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unbalanced Release")
		}
	}()
	s.Release()
}

func TestRefPanicsOnTransient(t *testing.T) {
	s := New(1, 1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling Ref on a transient state")
		}
	}()
	s.Ref()
}

func TestNoTwoTransientReferencesToSameState(t *testing.T) {
	// Invariant: no two threads ever hold a transient reference to the
	// same canvas state. GetOrMakeTransient on a shared state must
	// never return the shared state itself still marked transient
	// while other refs exist.
	s := New(1, 1)
	Freeze(s)
	a := s.Ref()
	b := s
	forkA := GetOrMakeTransient(a)
	if forkA == b && forkA.IsTransient() {
		t.Fatal("forked transient state must not alias a still-shared reference")
	}
}
