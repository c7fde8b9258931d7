package kv

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// MemoryStore is a thread-safe in-memory Store for tests and single-process
// deployments. Expiry is checked lazily on access rather than by a sweeper
// goroutine, which keeps behavior deterministic under a fake clock.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry

	// Now is the clock; overridable in tests. Defaults to time.Now.
	Now func() time.Time

	// FailAll makes every operation return ErrUnavailable, simulating an
	// unreachable backend for fail-open/fail-closed tests.
	FailAll bool
}

// ErrUnavailable simulates a store outage in tests.
var ErrUnavailable = errString("kv: store unavailable")

type errString string

func (e errString) Error() string { return string(e) }

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		Now:     time.Now,
	}
}

func (s *MemoryStore) live(key string) *memoryEntry {
	e, ok := s.entries[key]
	if !ok {
		return nil
	}
	if !e.expiresAt.IsZero() && s.Now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil
	}
	return e
}

// Increment atomically increments the integer at key.
func (s *MemoryStore) Increment(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailAll {
		return 0, ErrUnavailable
	}

	e := s.live(key)
	if e == nil {
		e = &memoryEntry{value: "0"}
		s.entries[key] = e
	}

	n, _ := strconv.ParseInt(e.value, 10, 64)
	n++
	e.value = strconv.FormatInt(n, 10)
	return n, nil
}

// Expire sets the TTL for key. Missing keys are ignored, matching Redis.
func (s *MemoryStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailAll {
		return ErrUnavailable
	}

	if e := s.live(key); e != nil {
		e.expiresAt = s.Now().Add(ttl)
	}
	return nil
}

// Get returns the value at key, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailAll {
		return "", ErrUnavailable
	}

	e := s.live(key)
	if e == nil {
		return "", ErrNotFound
	}
	return e.value, nil
}

// SetWithTTL stores value at key with the given TTL.
func (s *MemoryStore) SetWithTTL(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailAll {
		return ErrUnavailable
	}

	s.entries[key] = &memoryEntry{
		value:     value,
		expiresAt: s.Now().Add(ttl),
	}
	return nil
}

// TTLOf reports the remaining TTL of key. Zero duration and false mean the
// key is absent or has no expiry. Test helper.
func (s *MemoryStore) TTLOf(key string) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(key)
	if e == nil || e.expiresAt.IsZero() {
		return 0, false
	}
	return e.expiresAt.Sub(s.Now()), true
}
