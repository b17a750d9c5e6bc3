package limiter

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// InmemLimiter is a single-process fixed-window limiter; the fallback when no
// redis address is configured.
type InmemLimiter struct {
	mu      sync.Mutex
	limit   int
	windows map[string]window
	swept   time.Time
	now     func() time.Time
}

// NewInmem creates an in-process limiter allowing limit requests per minute.
func NewInmem(limit int) *InmemLimiter {
	return &InmemLimiter{
		limit:   limit,
		windows: make(map[string]window),
		now:     time.Now,
	}
}

func (l *InmemLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := windowStart(l.now())
	l.dropExpired(start)

	w, ok := l.windows[key]
	if !ok || !w.start.Equal(start) {
		w = window{start: start}
	}
	w.count++
	l.windows[key] = w
	return w.count <= l.limit, nil
}

func (l *InmemLimiter) Info(ctx context.Context, key string) (*Info, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := windowStart(l.now())
	count := 0
	if w, ok := l.windows[key]; ok && w.start.Equal(start) {
		count = w.count
	}
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return &Info{
		Limit:     l.limit,
		Remaining: remaining,
		ResetTime: start.Add(time.Minute),
	}, nil
}

// dropExpired removes windows from past minutes once per rollover so keys seen
// only once do not accumulate. Caller holds the mutex.
func (l *InmemLimiter) dropExpired(start time.Time) {
	if l.swept.Equal(start) {
		return
	}
	for key, w := range l.windows {
		if !w.start.Equal(start) {
			delete(l.windows, key)
		}
	}
	l.swept = start
}
