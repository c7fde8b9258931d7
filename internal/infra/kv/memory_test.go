package kv

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_IncrementCountsFromZero(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	n, err := store.Increment(ctx, "counter")
	if err != nil {
		t.Fatalf("Increment() error = %v", err)
	}
	if n != 1 {
		t.Errorf("first increment = %d, want 1", n)
	}

	n, err = store.Increment(ctx, "counter")
	if err != nil {
		t.Fatalf("Increment() error = %v", err)
	}
	if n != 2 {
		t.Errorf("second increment = %d, want 2", n)
	}
}

func TestMemoryStore_ExpiryIsLazy(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.Now = func() time.Time { return now }
	ctx := context.Background()

	if _, err := store.Increment(ctx, "counter"); err != nil {
		t.Fatalf("Increment() error = %v", err)
	}
	if err := store.Expire(ctx, "counter", time.Minute); err != nil {
		t.Fatalf("Expire() error = %v", err)
	}

	// Still alive within the window.
	now = now.Add(30 * time.Second)
	if _, err := store.Get(ctx, "counter"); err != nil {
		t.Fatalf("Get() before expiry error = %v", err)
	}

	// Gone after the window; the next increment restarts from 1.
	now = now.Add(31 * time.Second)
	if _, err := store.Get(ctx, "counter"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after expiry = %v, want ErrNotFound", err)
	}
	n, err := store.Increment(ctx, "counter")
	if err != nil {
		t.Fatalf("Increment() error = %v", err)
	}
	if n != 1 {
		t.Errorf("increment after expiry = %d, want 1", n)
	}
}

func TestMemoryStore_SetGetWithTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.Now = func() time.Time { return now }
	ctx := context.Background()

	if err := store.SetWithTTL(ctx, "robots:example.com", `{"allowed":[]}`, 24*time.Hour); err != nil {
		t.Fatalf("SetWithTTL() error = %v", err)
	}

	val, err := store.Get(ctx, "robots:example.com")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if val != `{"allowed":[]}` {
		t.Errorf("Get() = %q", val)
	}

	now = now.Add(25 * time.Hour)
	if _, err := store.Get(ctx, "robots:example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after TTL = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_FailAll(t *testing.T) {
	store := NewMemoryStore()
	store.FailAll = true
	ctx := context.Background()

	if _, err := store.Increment(ctx, "k"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Increment() = %v, want ErrUnavailable", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Get() = %v, want ErrUnavailable", err)
	}
	if err := store.SetWithTTL(ctx, "k", "v", time.Minute); !errors.Is(err, ErrUnavailable) {
		t.Errorf("SetWithTTL() = %v, want ErrUnavailable", err)
	}
}
