// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"sync"
	"time"
)

// Limiter spaces requests to the same host and lets a rate-limited caller
// pause every other caller of that host. It is safe for concurrent use; a
// nil *Limiter never waits.
type Limiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	next        map[string]time.Time
	now         func() time.Time
}

// NewLimiter returns a Limiter that keeps at least minInterval between
// requests to one host.
func NewLimiter(minInterval time.Duration) *Limiter {
	return &Limiter{
		minInterval: minInterval,
		next:        make(map[string]time.Time),
		now:         time.Now,
	}
}

// Wait blocks until the host's next slot and reserves the slot after it.
func (l *Limiter) Wait(ctx context.Context, host string) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	now := l.now()
	slot := l.next[host]
	if slot.Before(now) {
		slot = now
	}
	l.next[host] = slot.Add(l.minInterval)
	l.mu.Unlock()

	wait := slot.Sub(now)
	if wait <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

// Pause pushes the host's next slot to at least d from now.
func (l *Limiter) Pause(host string, d time.Duration) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	until := l.now().Add(d)
	if until.After(l.next[host]) {
		l.next[host] = until
	}
}
