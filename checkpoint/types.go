// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package checkpoint implements the checkpoint-BFT finality engine
// (spec.md §4.4): checkpoint detection, canonical signature construction
// and verification, quorum collection with replay protection, certificate
// formation, and fork-protected finalization.
package checkpoint

import (
	"github.com/luxfi/ids"

	"github.com/etrid/asf/authority"
	"github.com/etrid/asf/codec"
)

// ChainID binds every signature to one chain; it never changes for the
// lifetime of a deployment.
type ChainID = ids.ID

// Type distinguishes a Guaranteed checkpoint (interval-driven) from an
// Opportunity checkpoint (VRF-driven), per spec.md §4.4 "checkpoint_type".
type Type struct {
	Tag       codec.CheckpointTypeTag
	VRFOutput [32]byte
	VRFProof  [64]byte
}

func (t Type) encode() codec.CheckpointType {
	return codec.CheckpointType{Tag: t.Tag, VRFOutput: t.VRFOutput, VRFProof: t.VRFProof}
}

// Guaranteed builds a Guaranteed checkpoint_type value.
func Guaranteed() Type { return Type{Tag: codec.CheckpointGuaranteed} }

// Opportunity builds an Opportunity checkpoint_type value carrying a VRF
// output and proof.
func Opportunity(vrfOutput [32]byte, vrfProof [64]byte) Type {
	return Type{Tag: codec.CheckpointOpportunity, VRFOutput: vrfOutput, VRFProof: vrfProof}
}

// Signature is a self-describing record bound to exactly one checkpoint
// block (spec.md §3 "Checkpoint signature"). The Timestamp field is
// excluded from the signing payload by construction.
type Signature struct {
	ChainID          ChainID
	BlockNumber      uint32
	BlockHash        ids.ID
	ValidatorID      uint32
	ValidatorPubkey  authority.PublicKey
	AuthoritySetID   uint64
	AuthoritySetHash ids.ID
	CheckpointType   Type
	SignatureNonce   uint64
	Signature        []byte
	TimestampMS      uint64
}

// SigningPayload reconstructs the exact bytes that were signed, per
// spec.md §6 "Signature payload format".
func (s Signature) SigningPayload(domainSeparator []byte) []byte {
	return codec.EncodeSigningPayload(codec.SigningPayloadInput{
		DomainSeparator:  domainSeparator,
		ChainID:          s.ChainID,
		BlockHash:        s.BlockHash,
		BlockNumber:      s.BlockNumber,
		ValidatorID:      s.ValidatorID,
		ValidatorPubkey:  s.ValidatorPubkey,
		AuthoritySetID:   s.AuthoritySetID,
		AuthoritySetHash: s.AuthoritySetHash,
		CheckpointType:   s.CheckpointType.encode(),
		SignatureNonce:   s.SignatureNonce,
	})
}

// Certificate is the quorum proof that a block is finalized: the block it
// certifies plus the signatures that met quorum (spec.md §4.4 "quorum
// certificate").
type Certificate struct {
	BlockNumber    uint32
	BlockHash      ids.ID
	AuthoritySetID uint64
	Signatures     []Signature
}

// FinalityLevel names the three observability tiers a checkpoint can be
// reported at. These are informational only: no operation's correctness
// depends on them (spec.md supplement; not part of the original protocol's
// acceptance rules).
type FinalityLevel int

const (
	// PreCommitment marks a detected checkpoint with at least one valid
	// signature, short of quorum.
	PreCommitment FinalityLevel = iota
	// Commitment marks a certificate that has formed but not yet passed
	// canonical-chain verification.
	Commitment
	// Finality marks a certificate that has been verified canonical and
	// recorded as finalized.
	Finality
)

func (l FinalityLevel) String() string {
	switch l {
	case PreCommitment:
		return "pre_commitment"
	case Commitment:
		return "commitment"
	case Finality:
		return "finality"
	default:
		return "unknown"
	}
}

// EquivocationEvidence records that a validator signed two different block
// hashes for the same (authority_set_id, block_number). No slashing is
// implemented; this is evidence-only (spec.md §4.4 "equivocation").
type EquivocationEvidence struct {
	ValidatorID    uint32
	AuthoritySetID uint64
	BlockNumber    uint32
	FirstHash      ids.ID
	SecondHash     ids.ID
}
