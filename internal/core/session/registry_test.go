package session_test

import (
	"testing"

	"github.com/bsdmy2005/rental-agent-sub005/internal/core/session"
)

func TestRegistryUpsertCreatesEntry(t *testing.T) {
	r := session.NewRegistry()

	state := r.Upsert("main", func(s *session.State) {
		s.Status = session.StatusConnecting
	})

	if state.ID != "main" {
		t.Fatalf("expected id main, got %q", state.ID)
	}
	if state.Status != session.StatusConnecting {
		t.Fatalf("expected status connecting, got %q", state.Status)
	}
	if state.UpdatedAt.IsZero() {
		t.Fatal("expected UpdatedAt to be set")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", r.Len())
	}
}

func TestRegistryGetReturnsSnapshot(t *testing.T) {
	r := session.NewRegistry()
	r.Upsert("main", func(s *session.State) {
		s.Status = session.StatusConnected
		s.PhoneNumber = "27821234567"
	})

	snap, ok := r.Get("main")
	if !ok {
		t.Fatal("expected session to exist")
	}

	// mutação no snapshot não pode vazar para o registro
	snap.PhoneNumber = "mutated"

	again, _ := r.Get("main")
	if again.PhoneNumber != "27821234567" {
		t.Fatalf("snapshot mutation leaked into registry: %q", again.PhoneNumber)
	}
}

func TestRegistryUpsertMergesUnderLock(t *testing.T) {
	r := session.NewRegistry()
	r.Upsert("main", func(s *session.State) {
		s.Status = session.StatusQRPending
		s.QRImage = "data:image/png;base64,xyz"
	})
	r.Upsert("main", func(s *session.State) {
		s.Status = session.StatusConnected
		s.QRImage = ""
		s.PhoneNumber = "27821234567"
	})

	snap, _ := r.Get("main")
	if snap.Status != session.StatusConnected {
		t.Fatalf("expected connected, got %q", snap.Status)
	}
	if snap.QRImage != "" {
		t.Fatal("expected QR image cleared on connect")
	}
	if snap.PhoneNumber != "27821234567" {
		t.Fatalf("expected phone number preserved, got %q", snap.PhoneNumber)
	}
}

func TestRegistryRemove(t *testing.T) {
	r := session.NewRegistry()
	r.Upsert("main", func(s *session.State) {})
	r.Remove("main")

	if _, ok := r.Get("main"); ok {
		t.Fatal("expected session removed")
	}
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}
}

func TestRegistryList(t *testing.T) {
	r := session.NewRegistry()
	r.Upsert("a", func(s *session.State) {})
	r.Upsert("b", func(s *session.State) {})

	states := r.List()
	if len(states) != 2 {
		t.Fatalf("expected 2 states, got %d", len(states))
	}
}
