// Package limiter provides fixed-window request rate limiting with redis and
// in-process backends.
package limiter

import (
	"context"
	"time"
)

// Info describes the current window for a key.
type Info struct {
	Limit     int
	Remaining int
	ResetTime time.Time
}

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	// Allow records a request for key and reports whether it is within
	// the per-minute budget.
	Allow(ctx context.Context, key string) (bool, error)
	// Info returns the state of key's current window.
	Info(ctx context.Context, key string) (*Info, error)
}

// windowStart truncates now to the current minute.
func windowStart(now time.Time) time.Time {
	return now.Truncate(time.Minute)
}
