// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package committee

import (
	"sync"

	"github.com/etrid/asf/authority"
)

// Record is one entry of the PPFA history: at block_number, ppfa_index was
// authorized to belong to proposer (spec.md §4.2 "PPFA history").
type Record struct {
	BlockNumber uint64
	PPFAIndex   uint32
	Proposer    authority.PublicKey
}

// History is the write-once PPFA ledger consulted by is_proposer_authorized.
// Once a block_number is recorded it can never be overwritten, matching the
// original source's "authorizations are append-only" invariant.
type History struct {
	mu      sync.RWMutex
	records map[uint64]Record
}

// NewHistory returns an empty PPFA history.
func NewHistory() *History {
	return &History{records: make(map[uint64]Record)}
}

// Record appends a new authorization. It is an error to record the same
// block_number twice, even with identical contents.
func (h *History) Record(blockNumber uint64, ppfaIndex uint32, proposer authority.PublicKey) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.records[blockNumber]; exists {
		return ErrSlotAlreadyRecorded
	}
	h.records[blockNumber] = Record{
		BlockNumber: blockNumber,
		PPFAIndex:   ppfaIndex,
		Proposer:    proposer,
	}
	return nil
}

// At returns the record for blockNumber, if any.
func (h *History) At(blockNumber uint64) (Record, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.records[blockNumber]
	return r, ok
}

// IsProposerAuthorized answers the canonical query: was candidate the
// recorded proposer at (blockNumber, ppfaIndex)? An unrecorded block number
// is never authorized (spec.md §4.2 "is_proposer_authorized").
func (h *History) IsProposerAuthorized(blockNumber uint64, ppfaIndex uint32, candidate authority.PublicKey) bool {
	r, ok := h.At(blockNumber)
	if !ok {
		return false
	}
	return r.PPFAIndex == ppfaIndex && r.Proposer == candidate
}

// Len reports how many blocks have recorded authorizations.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}
