// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"errors"

	"github.com/etrid/asf/authority"
)

var (
	// ErrCommitteeFull is returned by AddValidator when MaxCommitteeSize
	// has already been reached.
	ErrCommitteeFull = errors.New("runtime: committee is full")
	// ErrValidatorExists is returned by AddValidator when pubkey is
	// already registered.
	ErrValidatorExists = errors.New("runtime: validator already present")
	// ErrStakeTooLow is returned by AddValidator when stake is below
	// MinValidatorStake.
	ErrStakeTooLow = errors.New("runtime: stake below minimum")
)

// AddValidator is a governance-gated extrinsic: it adds pubkey to both the
// validator map and the committee when the committee is not full, pubkey
// is not already present, and stake meets the configured minimum
// (spec.md §4.5 "On-chain extrinsics"). Any failure leaves state
// untouched.
func (s *Store) AddValidator(pubkey authority.PublicKey, stake uint64, peerType authority.PeerType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stake < s.minValidatorStake {
		return ErrStakeTooLow
	}
	if _, exists := s.validators[pubkey]; exists {
		return ErrValidatorExists
	}
	if len(s.committee) >= s.maxCommitteeSize {
		return ErrCommitteeFull
	}

	s.validators[pubkey] = ValidatorInfo{Pubkey: pubkey, Stake: stake, PeerType: peerType, Reputation: 100}
	s.committee = append(s.committee, pubkey)
	s.persistLocked()
	return nil
}

// RemoveValidator removes pubkey from the map and committee. It is
// idempotent on absence (spec.md §4.5 "remove_validator").
func (s *Store) RemoveValidator(pubkey authority.PublicKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.validators, pubkey)
	for i, pk := range s.committee {
		if pk == pubkey {
			s.committee = append(s.committee[:i], s.committee[i+1:]...)
			break
		}
	}
	s.persistLocked()
}

// RotationEvent is emitted by RotateCommittee (spec.md §4.5
// "rotate_committee": "emits rotation event").
type RotationEvent struct {
	NewEpoch uint64
}

// RotateCommittee increments the current epoch and returns the resulting
// event. It never mutates committee membership: membership changes happen
// only through AddValidator/RemoveValidator or an explicitly published
// next-epoch set (spec.md §4.5: "does not mutate members").
func (s *Store) RotateCommittee() RotationEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentEpoch++
	s.nextEpochValidators = nil
	s.persistLocked()
	return RotationEvent{NewEpoch: s.currentEpoch}
}

// PublishNextEpochValidators records the explicit validator set that will
// take effect at the next rotation, consumed by NextEpochCommittee
// (spec.md §4.2 "explicit runtime-published committee").
func (s *Store) PublishNextEpochValidators(pubkeys []authority.PublicKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEpochValidators = append([]authority.PublicKey(nil), pubkeys...)
	s.persistLocked()
}
