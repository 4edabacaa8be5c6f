package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newBuntTestStore(t *testing.T, cfg TokenConfig) *BuntTokenStore {
	t.Helper()
	s, err := NewBuntTokenStore(":memory:", cfg)
	if err != nil {
		t.Fatalf("failed to open buntdb store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBuntTokenStore_IssueAndStatus(t *testing.T) {
	s := newBuntTestStore(t, TokenConfig{TTL: time.Minute})
	ctx := context.Background()

	tok, err := s.Issue(ctx, IssueParams{Subject: "Box A", Kind: KindStandard, Locale: "fr"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	st, err := s.Status(ctx, tok.ID)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !st.Exists || st.Authorized || st.Expired {
		t.Errorf("unexpected status: %+v", st)
	}
	if st.Subject != "Box A" {
		t.Errorf("subject mismatch: %q", st.Subject)
	}
	if st.TimeRemaining <= 0 || st.TimeRemaining > time.Minute {
		t.Errorf("time remaining out of range: %v", st.TimeRemaining)
	}
}

func TestBuntTokenStore_AuthorizeIdempotent(t *testing.T) {
	s := newBuntTestStore(t, TokenConfig{TTL: time.Minute})
	ctx := context.Background()

	tok, err := s.Issue(ctx, IssueParams{Subject: "Pkg 7", Kind: KindSuspended})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	first, err := s.Authorize(ctx, tok.ID)
	if err != nil {
		t.Fatalf("first Authorize failed: %v", err)
	}
	if !first.FirstTransition || first.Kind != KindSuspended {
		t.Errorf("unexpected first snapshot: %+v", first)
	}

	second, err := s.Authorize(ctx, tok.ID)
	if err != nil {
		t.Fatalf("second Authorize failed: %v", err)
	}
	if second.FirstTransition {
		t.Error("second call must not report a transition")
	}
	if second.Subject != first.Subject || second.Kind != first.Kind {
		t.Errorf("snapshots differ: %+v vs %+v", first, second)
	}
}

func TestBuntTokenStore_ExpiredRejected(t *testing.T) {
	s := newBuntTestStore(t, TokenConfig{TTL: time.Millisecond})
	ctx := context.Background()

	tok, err := s.Issue(ctx, IssueParams{Subject: "pkg", Kind: KindStandard})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, err := s.Authorize(ctx, tok.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	st, err := s.Status(ctx, tok.ID)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st.Exists && !st.Expired {
		t.Error("surviving record must report expired")
	}
}

func TestBuntTokenStore_UnknownID(t *testing.T) {
	s := newBuntTestStore(t, TokenConfig{})
	ctx := context.Background()

	if _, err := s.Authorize(ctx, "no-such-token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	st, err := s.Status(ctx, "no-such-token")
	if err != nil {
		t.Fatalf("Status must be total: %v", err)
	}
	if st.Exists {
		t.Error("unknown id should not exist")
	}
}
