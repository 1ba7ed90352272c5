// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ratelimit implements the inbound signature rate limiter
// (spec.md §4.4 cross-cutting component): caps inbound checkpoint
// signatures per peer per window; excess is dropped, not recorded
// (spec.md §5 "Propagation policy").
package ratelimit

import (
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// Limiter caps how many signatures a single peer may submit within a
// fixed window.
type Limiter struct {
	mu       sync.Mutex
	cap      int
	duration time.Duration
	windows  map[string]*window
}

// NewLimiter returns a limiter allowing cap signatures per peer per
// duration.
func NewLimiter(cap int, duration time.Duration) *Limiter {
	return &Limiter{cap: cap, duration: duration, windows: make(map[string]*window)}
}

// Allow reports whether peer may submit one more signature at now. Excess
// requests are silently denied: the caller is expected to drop the
// signature without recording the event (spec.md §5).
func (l *Limiter) Allow(peer string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[peer]
	if !ok || now.Sub(w.start) >= l.duration {
		l.windows[peer] = &window{start: now, count: 1}
		return true
	}
	if w.count >= l.cap {
		return false
	}
	w.count++
	return true
}
