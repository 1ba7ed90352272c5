// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package produce implements the Block Production Engine (spec.md §4.3):
// the slot timer, the authoring loop's state machine, and block import
// verification.
package produce

import (
	"sync"
	"time"
)

// HealthScore is a 0-100 liveness/performance score fed in from the Health
// Monitor; higher is healthier (spec.md §4.3 "Slot timer").
type HealthScore = uint8

const (
	// goodHealthThreshold and poorHealthThreshold bound the health range
	// over which slot duration scales linearly between base and 3x base.
	goodHealthThreshold HealthScore = 80
	poorHealthThreshold HealthScore = 30
)

// SlotTimer is a monotone, wall-clock-driven slot counter whose duration
// adapts to recent health (spec.md §4.3 "Slot timer").
type SlotTimer struct {
	mu sync.Mutex

	base       time.Duration
	lastSlotMS int64
	health     HealthScore
}

// NewSlotTimer returns a timer with the given base slot duration, starting
// from a full-health assumption.
func NewSlotTimer(base time.Duration) *SlotTimer {
	return &SlotTimer{base: base, health: 100}
}

// SetHealth updates the health score driving CurrentDuration.
func (t *SlotTimer) SetHealth(h HealthScore) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.health = h
}

// CurrentDuration returns the adaptive slot duration, clamped to
// [base, 3*base]: health at or above goodHealthThreshold yields base;
// health at or below poorHealthThreshold yields 3*base; between the two it
// scales linearly.
func (t *SlotTimer) CurrentDuration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentDurationLocked()
}

func (t *SlotTimer) currentDurationLocked() time.Duration {
	switch {
	case t.health >= goodHealthThreshold:
		return t.base
	case t.health <= poorHealthThreshold:
		return 3 * t.base
	default:
		span := float64(goodHealthThreshold - poorHealthThreshold)
		frac := float64(goodHealthThreshold-t.health) / span
		scale := 1 + 2*frac // 1x at good, 3x at poor
		return time.Duration(float64(t.base) * scale)
	}
}

// IsNextSlot reports whether at least CurrentDuration has elapsed since the
// last accepted slot transition, given the current wall-clock time in
// milliseconds. A clock regression (nowMS before the last accepted slot)
// is treated as "no new slot" (spec.md §4.3 "Failure semantics").
func (t *SlotTimer) IsNextSlot(nowMS int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if nowMS <= t.lastSlotMS {
		return false
	}
	elapsed := time.Duration(nowMS-t.lastSlotMS) * time.Millisecond
	return elapsed >= t.currentDurationLocked()
}

// Advance commits the slot transition at nowMS. Calling Advance with a
// nowMS not newer than the last transition is a no-op, matching the same
// clock-regression guard as IsNextSlot.
func (t *SlotTimer) Advance(nowMS int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if nowMS <= t.lastSlotMS {
		return
	}
	t.lastSlotMS = nowMS
}
