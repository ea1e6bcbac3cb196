package ratelimit

import (
	"context"
	"sync"
	"time"
)

// sweepThreshold is the number of tracked keys above which expired windows are purged
const sweepThreshold = 1024

type window struct {
	start time.Time
	count int64
}

// MemoryLimiter is a fixed window counter local to one process. Counts do
// not survive restarts and are not shared between instances.
type MemoryLimiter struct {
	rule Rule
	now  func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

// NewMemoryLimiter creates an in-process limiter
func NewMemoryLimiter(rule Rule) *MemoryLimiter {
	return &MemoryLimiter{
		rule:    rule,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

// Allow counts a hit for key
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	at := l.now()
	if len(l.windows) > sweepThreshold {
		l.sweep(at)
	}

	w, ok := l.windows[key]
	if !ok || at.Sub(w.start) >= l.rule.Window {
		w = &window{start: at}
		l.windows[key] = w
	}
	w.count++

	if w.count <= l.rule.Limit {
		return Decision{Allowed: true, Remaining: l.rule.Limit - w.count}, nil
	}
	return Decision{Allowed: false, RetryAfter: w.start.Add(l.rule.Window).Sub(at)}, nil
}

func (l *MemoryLimiter) sweep(at time.Time) {
	for key, w := range l.windows {
		if at.Sub(w.start) >= l.rule.Window {
			delete(l.windows, key)
		}
	}
}
