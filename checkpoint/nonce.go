// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package checkpoint

import "sync"

type nonceKey struct {
	validatorID    uint32
	authoritySetID uint64
}

// NonceTable tracks the last accepted signature_nonce per (validator_id,
// authority_set_id), living outside the collector so it survives validator
// restarts within an epoch if persisted (spec.md §9 "a production
// implementation must persist this table"). It is the sole gate for nonce
// monotonicity and is held behind a plain exclusive lock: every access is a
// read-modify-write, so a reader-preferring lock would buy nothing
// (spec.md §5 "Shared-resource policy").
type NonceTable struct {
	mu   sync.Mutex
	last map[nonceKey]uint64
}

// NewNonceTable returns an empty nonce table.
func NewNonceTable() *NonceTable {
	return &NonceTable{last: make(map[nonceKey]uint64)}
}

// CheckAndAdvance accepts nonce iff it strictly exceeds the last accepted
// nonce for (validatorID, authoritySetID); on acceptance it becomes the new
// last-accepted value. Returns ErrNonceNotIncreasing otherwise.
func (t *NonceTable) CheckAndAdvance(validatorID uint32, authoritySetID uint64, nonce uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := nonceKey{validatorID, authoritySetID}
	if last, ok := t.last[key]; ok && nonce <= last {
		return ErrNonceNotIncreasing
	}
	t.last[key] = nonce
	return nil
}

// Next returns the next nonce to use for (validatorID, authoritySetID) and
// atomically reserves it, for this node's own signing path (spec.md §4.4
// "Read and atomically increment the per-validator_id signature_nonce
// counter").
func (t *NonceTable) Next(validatorID uint32, authoritySetID uint64) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := nonceKey{validatorID, authoritySetID}
	next := t.last[key] + 1
	t.last[key] = next
	return next
}

// ResetForEpoch clears every nonce counter. Called on authority-set
// rotation: all per-validator nonce counters reset (spec.md §4.4
// "Rotation hooks").
func (t *NonceTable) ResetForEpoch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = make(map[nonceKey]uint64)
}
