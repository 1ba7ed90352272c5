// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/binary"

	"github.com/etrid/asf/authority"
	"github.com/luxfi/ids"
)

// EngineID is the four-byte pre-runtime digest engine identifier carried by
// every produced block (spec.md §4.3, §6 "Digest seal format").
const EngineID = "PPFA"

// PPFASealWidth is the unencoded width of a PPFA seal in bytes: u32 + 32 +
// u64 + u64 (spec.md §6).
const PPFASealWidth = 4 + 32 + 8 + 8

// PPFASeal is the decoded pre-runtime digest payload identifying the
// authorized proposer for a produced block.
type PPFASeal struct {
	PPFAIndex   uint32
	Proposer    authority.PublicKey
	SlotNumber  uint64
	TimestampMS uint64
}

// EncodePPFASeal produces the compact binary encoding of the tuple
// (ppfa_index u32 LE, proposer [32]byte, slot_number u64 LE, timestamp_ms
// u64 LE), exactly PPFASealWidth bytes wide (spec.md §6).
func EncodePPFASeal(s PPFASeal) []byte {
	buf := make([]byte, PPFASealWidth)
	binary.LittleEndian.PutUint32(buf[0:4], s.PPFAIndex)
	copy(buf[4:36], s.Proposer[:])
	binary.LittleEndian.PutUint64(buf[36:44], s.SlotNumber)
	binary.LittleEndian.PutUint64(buf[44:52], s.TimestampMS)
	return buf
}

// DecodePPFASeal parses a PPFA seal encoded by EncodePPFASeal. It returns
// false if data is not exactly PPFASealWidth bytes.
func DecodePPFASeal(data []byte) (PPFASeal, bool) {
	if len(data) != PPFASealWidth {
		return PPFASeal{}, false
	}
	var s PPFASeal
	s.PPFAIndex = binary.LittleEndian.Uint32(data[0:4])
	copy(s.Proposer[:], data[4:36])
	s.SlotNumber = binary.LittleEndian.Uint64(data[36:44])
	s.TimestampMS = binary.LittleEndian.Uint64(data[44:52])
	return s, true
}

// CheckpointTypeTag distinguishes the two checkpoint kinds in the encoded
// signing payload (spec.md §4.4 "checkpoint_type").
type CheckpointTypeTag byte

const (
	// CheckpointGuaranteed marks a block at a height divisible by the
	// checkpoint interval.
	CheckpointGuaranteed CheckpointTypeTag = 0
	// CheckpointOpportunity marks a VRF-triggered checkpoint, carrying a
	// 32-byte VRF output and a 64-byte VRF proof.
	CheckpointOpportunity CheckpointTypeTag = 1
)

// CheckpointType is the decoded checkpoint_type field: Guaranteed carries no
// payload, Opportunity carries a VRF output and proof.
type CheckpointType struct {
	Tag       CheckpointTypeTag
	VRFOutput [32]byte
	VRFProof  [64]byte
}

// EncodeCheckpointType compact-encodes a CheckpointType: one tag byte,
// followed by the VRF output and proof only when Tag is Opportunity.
func EncodeCheckpointType(ct CheckpointType) []byte {
	if ct.Tag == CheckpointGuaranteed {
		return []byte{byte(CheckpointGuaranteed)}
	}
	buf := make([]byte, 1+32+64)
	buf[0] = byte(CheckpointOpportunity)
	copy(buf[1:33], ct.VRFOutput[:])
	copy(buf[33:97], ct.VRFProof[:])
	return buf
}

// DecodeCheckpointType parses a CheckpointType encoded by
// EncodeCheckpointType. It returns the decoded value, the number of bytes
// consumed from data, and false if data is truncated or the tag byte is
// unrecognized.
func DecodeCheckpointType(data []byte) (CheckpointType, int, bool) {
	if len(data) < 1 {
		return CheckpointType{}, 0, false
	}
	switch CheckpointTypeTag(data[0]) {
	case CheckpointGuaranteed:
		return CheckpointType{Tag: CheckpointGuaranteed}, 1, true
	case CheckpointOpportunity:
		if len(data) < 1+32+64 {
			return CheckpointType{}, 0, false
		}
		var ct CheckpointType
		ct.Tag = CheckpointOpportunity
		copy(ct.VRFOutput[:], data[1:33])
		copy(ct.VRFProof[:], data[33:97])
		return ct, 1 + 32 + 64, true
	default:
		return CheckpointType{}, 0, false
	}
}

// SigningPayloadInput gathers every field that participates in a checkpoint
// signature's signed bytes (spec.md §6 "Signature payload format"). The
// timestamp is deliberately absent: it is never signed.
type SigningPayloadInput struct {
	DomainSeparator  []byte
	ChainID          ids.ID
	BlockHash        ids.ID
	BlockNumber      uint32
	ValidatorID      uint32
	ValidatorPubkey  authority.PublicKey
	AuthoritySetID   uint64
	AuthoritySetHash ids.ID
	CheckpointType   CheckpointType
	SignatureNonce   uint64
}

// EncodeSigningPayload builds the exact flat byte sequence that is signed
// and verified for a checkpoint signature: domain separator, chain id,
// block hash, block number, validator id, validator pubkey, authority-set
// id, authority-set hash, compact-encoded checkpoint type, signature nonce
// — no framing, no length prefix (spec.md §6).
func EncodeSigningPayload(in SigningPayloadInput) []byte {
	encodedType := EncodeCheckpointType(in.CheckpointType)

	size := len(in.DomainSeparator) + 32 + 32 + 4 + 4 + 32 + 8 + 32 + len(encodedType) + 8
	buf := make([]byte, 0, size)

	buf = append(buf, in.DomainSeparator...)
	buf = append(buf, in.ChainID[:]...)
	buf = append(buf, in.BlockHash[:]...)

	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], in.BlockNumber)
	buf = append(buf, tmp4[:]...)

	binary.LittleEndian.PutUint32(tmp4[:], in.ValidatorID)
	buf = append(buf, tmp4[:]...)

	buf = append(buf, in.ValidatorPubkey[:]...)

	var tmp8 [8]byte
	binary.LittleEndian.PutUint64(tmp8[:], in.AuthoritySetID)
	buf = append(buf, tmp8[:]...)

	buf = append(buf, in.AuthoritySetHash[:]...)
	buf = append(buf, encodedType...)

	binary.LittleEndian.PutUint64(tmp8[:], in.SignatureNonce)
	buf = append(buf, tmp8[:]...)

	return buf
}
