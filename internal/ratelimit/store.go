// Package ratelimit provides a keyed fixed-window request counter.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of counting one request against a key.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// Wait is the time left until ResetAt, measured on the store's clock
	Wait time.Duration
}

// RetryAfter returns how long the caller should wait before the window resets.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if wait := d.ResetAt.Sub(now); wait > 0 {
		return wait
	}
	return 0
}

// Store counts requests per source key.
// Implementations must make Take atomic per key.
type Store interface {
	Take(key string) Decision
	Reset(key string)
}

type window struct {
	count     int
	expiresAt time.Time
}

// WindowStore allows Limit requests per key in each window of Window length.
// The window for a key starts with its first request. It is safe for concurrent use.
type WindowStore struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	window  time.Duration
	now     func() time.Time
}

// Option configures a WindowStore
type Option func(*WindowStore)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *WindowStore) {
		s.now = now
	}
}

// NewWindowStore creates a store allowing limit requests per key per window.
func NewWindowStore(limit int, windowLen time.Duration, opts ...Option) *WindowStore {
	s := &WindowStore{
		windows: make(map[string]*window),
		limit:   limit,
		window:  windowLen,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Take counts one request for key and reports whether it is allowed.
// Denied requests do not extend the window.
func (s *WindowStore) Take(key string) Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, exists := s.windows[key]

	// If no window exists or window expired, start a new one
	if !exists || !now.Before(w.expiresAt) {
		w = &window{expiresAt: now.Add(s.window)}
		s.windows[key] = w
	}

	if w.count >= s.limit {
		d := Decision{Allowed: false, Limit: s.limit, Remaining: 0, ResetAt: w.expiresAt}
		d.Wait = d.RetryAfter(now)
		return d
	}

	w.count++
	d := Decision{
		Allowed:   true,
		Limit:     s.limit,
		Remaining: s.limit - w.count,
		ResetAt:   w.expiresAt,
	}
	d.Wait = d.RetryAfter(now)
	return d
}

// Reset clears the counter for key.
func (s *WindowStore) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, key)
}

// Sweep removes expired windows and returns how many were dropped.
func (s *WindowStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, w := range s.windows {
		if !now.Before(w.expiresAt) {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (s *WindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// StartJanitor sweeps expired windows every interval until ctx is done.
func (s *WindowStore) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}
