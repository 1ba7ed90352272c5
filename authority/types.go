// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package authority implements the Authority Set Registry (spec.md §4.1):
// the active validator public-key set, its monotone set_id and deterministic
// set_hash, and the expired-set watermark used for long-range protection.
package authority

import "github.com/luxfi/ids"

// PeerType tags a validator's role in the network. It is a finite closed
// sum and is encoded as a single byte, matching the original pallet's
// StoredValidatorInfo.peer_type convention.
type PeerType uint8

const (
	Common PeerType = iota
	StakingCommon
	ValidityNode
	FlareNode
	DecentralizedDirector
)

// String implements fmt.Stringer.
func (t PeerType) String() string {
	switch t {
	case Common:
		return "Common"
	case StakingCommon:
		return "StakingCommon"
	case ValidityNode:
		return "ValidityNode"
	case FlareNode:
		return "FlareNode"
	case DecentralizedDirector:
		return "DecentralizedDirector"
	default:
		return "Unknown"
	}
}

// PublicKey is a 32-byte validator signing key (Ed25519 canonical).
type PublicKey [32]byte

// Validator is a single member of an authority set: its public key, stake,
// peer-type tag, and monotone reputation score (spec.md §3).
type Validator struct {
	PublicKey  PublicKey
	Stake      uint64
	PeerType   PeerType
	Reputation uint32 // 0-100
}

// ID returns the ids.ID view of the validator's public key, used wherever
// the consensus core needs a comparable/hashable identity.
func (v Validator) ID() ids.ID {
	return ids.ID(v.PublicKey)
}

// Set is an ordered, immutable snapshot of validators and the set's
// identity (spec.md §3 "Authority set").
type Set struct {
	SetID      uint64
	Members    []Validator
	SetHash    ids.ID
}

// IndexOf returns the dense validator_id (index into Members) for pubkey,
// or -1 if absent.
func (s Set) IndexOf(pubkey PublicKey) int {
	for i, v := range s.Members {
		if v.PublicKey == pubkey {
			return i
		}
	}
	return -1
}

// ValidatorAt returns the member at validator_id and whether it is in range.
func (s Set) ValidatorAt(validatorID uint32) (Validator, bool) {
	if int(validatorID) >= len(s.Members) {
		return Validator{}, false
	}
	return s.Members[validatorID], true
}

// Len is the number of members.
func (s Set) Len() int { return len(s.Members) }
