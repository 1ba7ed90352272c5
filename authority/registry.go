// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package authority

import (
	"sync"

	"github.com/luxfi/ids"
)

// SocialAnchor pins a known-good historical point in the chain's life:
// "authority set ids at or before this one are trusted; nothing older may
// be replayed." It is the Go analogue of the original source's
// CheckpointAnchor / LongRangeProtection (spec.md §4.4.7).
type SocialAnchor struct {
	BlockNumber   uint64
	BlockHash     ids.ID
	AuthoritySetID uint64
}

// Registry is the Authority Set Registry of spec.md §4.1: it holds the
// active authority set, answers membership queries, and maintains the
// oldest-acceptable set_id watermark for long-range protection. All
// mutation happens under a single writer-preferring lock so no task ever
// observes a partially-updated set (spec.md §5).
type Registry struct {
	mu sync.RWMutex

	current Set
	// expiredBelow is the watermark: any set_id strictly less than this is
	// expired and must be rejected regardless of mathematical validity.
	expiredBelow uint64
	// anchors records social-consensus checkpoints in ascending order.
	anchors []SocialAnchor
}

// NewRegistry seeds the registry with a genesis authority set. setID must be
// the lowest valid id for this chain (typically 0 or 1); members must be
// non-empty.
func NewRegistry(setID uint64, members []Validator) (*Registry, error) {
	if len(members) == 0 {
		return nil, ErrEmptySet
	}
	return &Registry{
		current: Set{
			SetID:   setID,
			Members: append([]Validator(nil), members...),
			SetHash: ComputeSetHash(members),
		},
	}, nil
}

// Current returns a read-only snapshot of the active authority set.
func (r *Registry) Current() Set {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Update atomically replaces the active set. The previous set_id is marked
// expired for long-range protection. Fails with ErrInvalidRotation if the
// new set_id does not strictly exceed the current one (spec.md §4.1).
func (r *Registry) Update(setID uint64, members []Validator) error {
	if len(members) == 0 {
		return ErrEmptySet
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if setID <= r.current.SetID {
		return ErrInvalidRotation
	}

	oldSetID := r.current.SetID
	r.current = Set{
		SetID:   setID,
		Members: append([]Validator(nil), members...),
		SetHash: ComputeSetHash(members),
	}
	// The set we just replaced becomes the new watermark: nothing at or
	// below it may be used to sign going forward.
	if oldSetID+1 > r.expiredBelow {
		r.expiredBelow = oldSetID + 1
	}
	return nil
}

// IsExpired reports whether setID is strictly below the current watermark.
// Queries against an expired set_id must return Expired, never silently
// succeed (spec.md §4.1).
func (r *Registry) IsExpired(setID uint64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return setID < r.expiredBelow
}

// ExpiredWatermark returns the oldest set_id that is still acceptable.
func (r *Registry) ExpiredWatermark() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.expiredBelow
}

// AddSocialCheckpoint records a trusted historical checkpoint anchor. Any
// signature claiming an authority_set_id older than the most recent anchor
// is rejected regardless of mathematical validity (spec.md §4.4.7). The
// anchor's authority_set_id also raises the expiry watermark, since no
// rotation can walk backward past a socially agreed point.
func (r *Registry) AddSocialCheckpoint(anchor SocialAnchor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.anchors = append(r.anchors, anchor)
	if anchor.AuthoritySetID >= r.expiredBelow {
		// Anything strictly before the anchor's own set is now expired;
		// the anchor's own set_id remains valid.
		if anchor.AuthoritySetID > 0 {
			r.expiredBelow = anchor.AuthoritySetID
		}
	}
}

// LatestAnchor returns the most recently added social anchor, if any.
func (r *Registry) LatestAnchor() (SocialAnchor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.anchors) == 0 {
		return SocialAnchor{}, false
	}
	return r.anchors[len(r.anchors)-1], true
}
