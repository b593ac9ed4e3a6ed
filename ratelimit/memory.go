package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a mutex-guarded fixed-window counter held in process
// memory. State is per instance: in a horizontally scaled deployment each
// instance enforces the limit independently, which bounds but does not
// perfectly cap the global rate. Use the Redis limiter when that matters.
type MemoryLimiter struct {
	mu        sync.Mutex
	windows   map[string]*window
	max       int
	window    time.Duration
	now       func() time.Time
	nextSweep time.Time
}

func NewMemoryLimiter(max int, windowDur time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
		max:     max,
		window:  windowDur,
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	if key == "" {
		key = UnknownKey
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)
	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		l.windows[key] = &window{count: 1, resetAt: now.Add(l.window)}
		return true, nil
	}

	if w.count >= l.max {
		return false, nil
	}
	w.count++
	return true, nil
}

// sweep drops expired windows at most once per window duration so the
// map does not grow forever with one entry per client ever seen. Caller
// holds l.mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Before(l.nextSweep) {
		return
	}
	for key, w := range l.windows {
		if now.After(w.resetAt) {
			delete(l.windows, key)
		}
	}
	l.nextSweep = now.Add(l.window)
}
