package refetch

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFromPool_ReturnsSameInstance(t *testing.T) {
	p := NewPool()
	st := newFakeStore()

	a, err := FromPool[string](p, "classes", st)
	if err != nil {
		t.Fatalf("FromPool: %v", err)
	}
	b, err := FromPool[string](p, "classes", st)
	if err != nil {
		t.Fatalf("FromPool: %v", err)
	}
	if a != b {
		t.Fatal("expected the same instance for the same identity key")
	}
	if p.Len() != 1 {
		t.Fatalf("Len = %d, want 1", p.Len())
	}
}

func TestFromPool_FirstConfigurationWins(t *testing.T) {
	p := NewPool()
	st := newFakeStore()

	a, err := FromPool[string](p, "k", st, WithRefreshInterval(time.Hour))
	if err != nil {
		t.Fatalf("FromPool: %v", err)
	}
	b, err := FromPool[string](p, "k", newFakeStore(), WithRefreshInterval(time.Minute))
	if err != nil {
		t.Fatalf("FromPool: %v", err)
	}
	if a != b {
		t.Fatal("expected reuse of the first instance")
	}
	if got := b.Status().RefreshInterval; got != time.Hour {
		t.Fatalf("RefreshInterval = %v, want first caller's %v", got, time.Hour)
	}
}

func TestFromPool_TypeMismatch(t *testing.T) {
	p := NewPool()
	st := newFakeStore()

	if _, err := FromPool[string](p, "k", st); err != nil {
		t.Fatalf("FromPool: %v", err)
	}
	_, err := FromPool[int](p, "k", st)
	if !errors.Is(err, ErrPoolTypeMismatch) {
		t.Fatalf("expected ErrPoolTypeMismatch, got %v", err)
	}
}

func TestPool_StatusInRegistrationOrder(t *testing.T) {
	p := NewPool()
	st := newFakeStore()

	for _, key := range []string{"c", "a", "b"} {
		if _, err := FromPool[string](p, key, st); err != nil {
			t.Fatalf("FromPool(%q): %v", key, err)
		}
	}

	statuses := p.Status()
	if len(statuses) != 3 {
		t.Fatalf("got %d statuses, want 3", len(statuses))
	}
	for i, want := range []string{"c", "a", "b"} {
		if statuses[i].Key != want {
			t.Fatalf("statuses[%d].Key = %q, want %q", i, statuses[i].Key, want)
		}
	}
}

func TestPool_CancelAllKeepsStoredEntries(t *testing.T) {
	p := NewPool()
	st := newFakeStore()

	c, err := FromPool[string](p, "k", st)
	if err != nil {
		t.Fatalf("FromPool: %v", err)
	}
	fetch, _ := countFetcher()
	if _, err := c.Get(context.Background(), fetch); err != nil {
		t.Fatalf("Get: %v", err)
	}

	p.CancelAll()
	if _, ok := st.raw("k"); !ok {
		t.Fatal("CancelAll must not delete stored entries")
	}
}
