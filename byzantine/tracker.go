// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package byzantine implements the Byzantine tracker (spec.md §4.4 cross-
// cutting component): it records per-validator missed-checkpoint counts
// and double-sign observations and exposes a report surface. It never
// punishes; punishment is explicitly out of scope (spec.md §8 Non-goals).
package byzantine

import "sync"

// Report is a snapshot of one validator's tracked misbehavior signals.
type Report struct {
	ValidatorID       uint32
	MissedCheckpoints uint64
	DoubleSigns       uint64
}

// Tracker accumulates per-validator counters under a single lock; writes
// are infrequent relative to the signature-verification hot path, so a
// plain mutex is simpler than a reader-writer split here.
type Tracker struct {
	mu      sync.Mutex
	reports map[uint32]*Report
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{reports: make(map[uint32]*Report)}
}

func (t *Tracker) entry(validatorID uint32) *Report {
	r, ok := t.reports[validatorID]
	if !ok {
		r = &Report{ValidatorID: validatorID}
		t.reports[validatorID] = r
	}
	return r
}

// RecordMissedCheckpoint increments validatorID's missed-checkpoint count:
// it was expected to sign a checkpoint within its window and did not.
func (t *Tracker) RecordMissedCheckpoint(validatorID uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entry(validatorID).MissedCheckpoints++
}

// RecordDoubleSign increments validatorID's double-sign observation count,
// typically driven by checkpoint.EquivocationEvidence.
func (t *Tracker) RecordDoubleSign(validatorID uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entry(validatorID).DoubleSigns++
}

// Report returns a copy of validatorID's current counters.
func (t *Tracker) Report(validatorID uint32) Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r, ok := t.reports[validatorID]; ok {
		return *r
	}
	return Report{ValidatorID: validatorID}
}

// All returns a snapshot of every tracked validator's report.
func (t *Tracker) All() []Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Report, 0, len(t.reports))
	for _, r := range t.reports {
		out = append(out, *r)
	}
	return out
}
