// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package committee

import (
	"sync"

	"github.com/etrid/asf/authority"
)

// RuntimeQuerier is the narrow seam the Committee Manager uses to learn
// about an explicitly-published next-epoch committee (spec.md §4.2 "When
// the runtime publishes an explicit committee, adopt it verbatim"). The
// Runtime Storage Surface (package runtime) satisfies this interface
// structurally; committee never imports runtime, avoiding an import cycle
// since runtime depends on committee's History and Committee types.
type RuntimeQuerier interface {
	// NextEpochCommittee returns an explicit validator list for the given
	// epoch, if the runtime has published one.
	NextEpochCommittee(epoch uint64) ([]authority.Validator, bool)
}

// Manager owns committee selection, PPFA rotation, and the PPFA history
// consulted by block production and import (spec.md §4.2).
type Manager struct {
	mu sync.RWMutex

	targetSize    int
	minReputation uint32
	minSize       int

	current Committee
	history *History

	runtime RuntimeQuerier
}

// NewManager builds a Manager seeded with an initial committee selected from
// set. targetSize and minReputation configure Select; minSize is the BFT
// floor Rotate enforces on every subsequent rotation (spec.md §4.2, §8
// "CommitteeTooSmall"); runtime may be nil if no explicit-committee
// publication path is wired.
func NewManager(set authority.Set, targetSize int, minReputation uint32, minSize int, runtime RuntimeQuerier) *Manager {
	members := Select(set, targetSize, minReputation)
	return &Manager{
		targetSize:    targetSize,
		minReputation: minReputation,
		minSize:       minSize,
		current:       Committee{Epoch: 0, Members: members},
		history:       NewHistory(),
		runtime:       runtime,
	}
}

// Current returns a snapshot of the active committee.
func (m *Manager) Current() Committee {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// History exposes the PPFA history for read-only queries from other
// components (e.g. block import verification).
func (m *Manager) History() *History { return m.history }

// Rotate advances to a new epoch. If the runtime has explicitly published a
// committee for this epoch, it is adopted verbatim; otherwise Rotate
// reselects from set using the configured selection policy. Rotate is
// idempotent within the same epoch: calling it again with the same epoch
// number is a no-op returning nil. It fails with ErrStaleEpoch if epoch is
// lower than the current one, ErrEmptyCandidatePool if selection (or an
// explicit publication) yields zero members, and ErrCommitteeTooSmall if it
// yields fewer than the configured BFT minimum (spec.md §4.2 "Rotation",
// §8 "CommitteeTooSmall").
func (m *Manager) Rotate(epoch uint64, set authority.Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if epoch == m.current.Epoch {
		return nil
	}
	if epoch < m.current.Epoch {
		return ErrStaleEpoch
	}

	var members []Member
	if m.runtime != nil {
		if explicit, ok := m.runtime.NextEpochCommittee(epoch); ok {
			members = make([]Member, len(explicit))
			for i, v := range explicit {
				members[i] = Member{Validator: v, Index: i}
			}
		}
	}
	if members == nil {
		members = Select(set, m.targetSize, m.minReputation)
	}
	if len(members) == 0 {
		return ErrEmptyCandidatePool
	}
	if len(members) < m.minSize {
		return ErrCommitteeTooSmall
	}

	m.current = Committee{Epoch: epoch, Members: members, PPFAIndex: 0}
	return nil
}

// Advance records the proposer for blockNumber at the current PPFA index and
// moves the index to the next committee seat (spec.md §4.2 "After each slot
// the engine calls advance(best_block_number)"). It is the caller's
// responsibility to invoke Advance exactly once per produced or imported
// block, in block-number order.
func (m *Manager) Advance(blockNumber uint64) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	proposer, ok := m.current.ProposerAt(m.current.PPFAIndex)
	if !ok {
		return Record{}, ErrEmptyCandidatePool
	}
	if err := m.history.Record(blockNumber, m.current.PPFAIndex, proposer.Validator.PublicKey); err != nil {
		return Record{}, err
	}
	record := Record{BlockNumber: blockNumber, PPFAIndex: m.current.PPFAIndex, Proposer: proposer.Validator.PublicKey}
	m.current.PPFAIndex = (m.current.PPFAIndex + 1) % uint32(m.current.Len())
	return record, nil
}

// IsProposerAuthorized consults the PPFA history to verify that candidate
// was the authorized proposer at (blockNumber, ppfaIndex) (spec.md §4.2
// "is_proposer_authorized").
func (m *Manager) IsProposerAuthorized(blockNumber uint64, ppfaIndex uint32, candidate authority.PublicKey) bool {
	return m.history.IsProposerAuthorized(blockNumber, ppfaIndex, candidate)
}
