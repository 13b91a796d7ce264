package recipe

import (
	"errors"
	"testing"
)

func TestSessionManagerLifecycle(t *testing.T) {
	manager := NewSessionManager(testClock)

	session := manager.Create()
	if session.ID() == "" {
		t.Fatal("created session must have an id")
	}

	got, err := manager.Get(session.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != session {
		t.Fatal("Get must return the registered session")
	}

	manager.Remove(session.ID())
	if _, err := manager.Get(session.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionManagerDistinctIDs(t *testing.T) {
	manager := NewSessionManager(nil)
	a := manager.Create()
	b := manager.Create()
	if a.ID() == b.ID() {
		t.Fatalf("session ids must be unique, both %q", a.ID())
	}
}
