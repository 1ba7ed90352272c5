// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package eclipse implements the eclipse detector (spec.md §4.4
// cross-cutting component): it counts unique sources of inbound
// checkpoint signatures per block and flags when this node sees fewer
// than a configured floor of unique sources for consecutive checkpoints.
package eclipse

import "sync"

// Detector tracks unique signature sources per block number and a running
// count of consecutive under-floor checkpoints.
type Detector struct {
	mu    sync.Mutex
	floor int

	sources map[uint32]map[string]struct{}
	// consecutiveUnderFloor counts how many checkpoints in a row fell
	// below floor; it resets to zero the moment one clears the floor.
	consecutiveUnderFloor int
}

// NewDetector returns a detector requiring at least floor unique sources
// per checkpoint before it stops counting toward a flag.
func NewDetector(floor int) *Detector {
	return &Detector{floor: floor, sources: make(map[uint32]map[string]struct{})}
}

// Observe records that source (typically a peer id) delivered a signature
// for blockNumber.
func (d *Detector) Observe(blockNumber uint32, source string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	set, ok := d.sources[blockNumber]
	if !ok {
		set = make(map[string]struct{})
		d.sources[blockNumber] = set
	}
	set[source] = struct{}{}
}

// Conclude finalizes observation for blockNumber (normally called once the
// block's certificate forms or it is abandoned), updates the consecutive
// under-floor counter, and reports whether this checkpoint itself was
// under the floor. It also frees the per-block source set.
func (d *Detector) Conclude(blockNumber uint32) (uniqueSources int, underFloor bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	uniqueSources = len(d.sources[blockNumber])
	delete(d.sources, blockNumber)

	underFloor = uniqueSources < d.floor
	if underFloor {
		d.consecutiveUnderFloor++
	} else {
		d.consecutiveUnderFloor = 0
	}
	return uniqueSources, underFloor
}

// IsFlagged reports whether the detector has seen consecutiveThreshold or
// more back-to-back under-floor checkpoints.
func (d *Detector) IsFlagged(consecutiveThreshold int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.consecutiveUnderFloor >= consecutiveThreshold
}
