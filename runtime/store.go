// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package runtime implements the Runtime Storage Surface (spec.md §4.5):
// authoritative validator and committee state, the query API the
// off-chain engine calls, governance-gated extrinsics, and the on-block
// PPFA digest hook. It persists state through github.com/luxfi/database,
// in the style of the teacher's chains/atomic storage layer.
package runtime

import (
	"sync"

	"github.com/luxfi/database"

	"github.com/etrid/asf/authority"
	"github.com/etrid/asf/codec"
	"github.com/etrid/asf/committee"
)

// ValidatorInfo is the off-chain engine's view of one validator
// (spec.md §4.5 "ValidatorInfo").
type ValidatorInfo struct {
	Pubkey     authority.PublicKey
	Stake      uint64
	PeerType   authority.PeerType
	Reputation uint32
}

// Store owns the authoritative validator/committee state and the PPFA
// history (spec.md §4.5 "State"). Reads vastly outnumber writes (every
// off-chain query vs. rare extrinsics and one on-block hook call per
// block), so the top-level state lives behind a reader-preferring lock;
// PPFA history delegates to committee.History, which already serializes
// its own writes.
type Store struct {
	mu sync.RWMutex

	db database.Database

	validators          map[authority.PublicKey]ValidatorInfo
	committee           []authority.PublicKey
	maxCommitteeSize    int
	currentEpoch        uint64
	epochDuration       uint64
	nextEpochValidators []authority.PublicKey
	minValidatorStake   uint64

	ppfaHistory *committee.History
}

// NewStore returns a Store seeded with a genesis committee.
func NewStore(db database.Database, genesisCommittee []ValidatorInfo, maxCommitteeSize int, epochDuration, minValidatorStake uint64) *Store {
	s := &Store{
		db:                db,
		validators:        make(map[authority.PublicKey]ValidatorInfo),
		maxCommitteeSize:  maxCommitteeSize,
		epochDuration:     epochDuration,
		minValidatorStake: minValidatorStake,
		ppfaHistory:       committee.NewHistory(),
	}
	for _, v := range genesisCommittee {
		s.validators[v.Pubkey] = v
		s.committee = append(s.committee, v.Pubkey)
	}
	return s
}

// --- Query API (spec.md §4.5 "Operations exposed to the off-chain engine") ---

// GetCommittee returns the active committee's validator info, in order.
func (s *Store) GetCommittee() []ValidatorInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ValidatorInfo, 0, len(s.committee))
	for _, pk := range s.committee {
		out = append(out, s.validators[pk])
	}
	return out
}

// GetValidator returns the validator registered under pubkey, if any.
func (s *Store) GetValidator(pubkey authority.PublicKey) (ValidatorInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.validators[pubkey]
	return v, ok
}

// IsInCommittee reports whether pubkey currently holds a committee seat.
func (s *Store) IsInCommittee(pubkey authority.PublicKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, pk := range s.committee {
		if pk == pubkey {
			return true
		}
	}
	return false
}

// CurrentEpoch returns the active epoch number.
func (s *Store) CurrentEpoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentEpoch
}

// NextEpochStart returns the block number at which the next epoch begins,
// given the current best block number.
func (s *Store) NextEpochStart(bestBlockNumber uint64) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.epochDuration == 0 {
		return bestBlockNumber
	}
	return ((bestBlockNumber / s.epochDuration) + 1) * s.epochDuration
}

// GetNextEpochValidators returns the explicitly-published next-epoch
// validator set, if any has been published.
func (s *Store) GetNextEpochValidators() []ValidatorInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ValidatorInfo, 0, len(s.nextEpochValidators))
	for _, pk := range s.nextEpochValidators {
		out = append(out, s.validators[pk])
	}
	return out
}

// IsProposerAuthorized delegates to the PPFA history (spec.md §4.2
// "is_proposer_authorized").
func (s *Store) IsProposerAuthorized(blockNumber uint64, ppfaIndex uint32, pubkey authority.PublicKey) bool {
	return s.ppfaHistory.IsProposerAuthorized(blockNumber, ppfaIndex, pubkey)
}

// EpochDuration returns the configured epoch length in blocks.
func (s *Store) EpochDuration() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epochDuration
}

// NextEpochCommittee implements committee.RuntimeQuerier: it returns the
// explicitly-published next-epoch committee for epoch, if any.
func (s *Store) NextEpochCommittee(epoch uint64) ([]authority.Validator, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if epoch != s.currentEpoch+1 || len(s.nextEpochValidators) == 0 {
		return nil, false
	}
	out := make([]authority.Validator, 0, len(s.nextEpochValidators))
	for _, pk := range s.nextEpochValidators {
		info := s.validators[pk]
		out = append(out, authority.Validator{PublicKey: pk, Stake: info.Stake})
	}
	return out, true
}

// PPFAHistory exposes the underlying history for components that need
// direct read access (e.g. import verification).
func (s *Store) PPFAHistory() *committee.History { return s.ppfaHistory }

// CurrentAuthoritySet implements produce.RuntimeCommittee: it returns the
// full registered validator pool as the candidate set the Committee
// Manager reselects from at an epoch boundary with no explicit
// publication (spec.md §4.2 "falls back to the configured selection
// policy").
func (s *Store) CurrentAuthoritySet() authority.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := make([]authority.Validator, 0, len(s.validators))
	for pk, v := range s.validators {
		members = append(members, authority.Validator{
			PublicKey:  pk,
			Stake:      v.Stake,
			PeerType:   v.PeerType,
			Reputation: v.Reputation,
		})
	}
	return authority.Set{SetID: s.currentEpoch, Members: members}
}

// OnBlockImported decodes digestPayload as a PPFA seal and records it in
// PPFA history. Decode failure is silent (spec.md §4.5 "On-block hook").
func (s *Store) OnBlockImported(blockNumber uint64, digestPayload []byte) {
	seal, ok := codec.DecodePPFASeal(digestPayload)
	if !ok {
		return
	}
	_ = s.ppfaHistory.Record(blockNumber, seal.PPFAIndex, seal.Proposer)
}
