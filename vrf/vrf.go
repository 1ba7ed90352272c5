// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vrf implements opportunity-checkpoint evaluation (spec.md §4.4
// "Opportunity checkpoint"). The VRF output is the Blake2-256 hash of a
// canonical Ed25519 signature over the evaluation input; the signature
// itself is the proof. Because Ed25519 signing is deterministic, the output
// is a pure function of (secret key, input) as a VRF requires, and any
// holder of the public key can verify the proof via sign.VerifyCanonical
// without learning the secret key (spec.md §4.4.2 "VRF evaluation").
package vrf

import (
	"crypto/ed25519"

	"golang.org/x/crypto/blake2b"

	"github.com/etrid/asf/sign"
)

// Input is the data the VRF is evaluated over: the parent block, the
// current epoch, and that epoch's public randomness seed (spec.md §4.4.2).
type Input struct {
	BlockNumber     uint64
	ParentHash      [32]byte
	Epoch           uint64
	EpochRandomness [32]byte
}

// Output is the evaluation result: a 32-byte pseudorandom output and its
// 64-byte proof (the underlying signature), carried verbatim in an
// Opportunity checkpoint signature (spec.md §6 "checkpoint_type").
type Output struct {
	Value [32]byte
	Proof [64]byte
}

func encode(in Input) []byte {
	buf := make([]byte, 0, 8+32+8+32)
	buf = appendUint64LE(buf, in.BlockNumber)
	buf = append(buf, in.ParentHash[:]...)
	buf = appendUint64LE(buf, in.Epoch)
	buf = append(buf, in.EpochRandomness[:]...)
	return buf
}

func appendUint64LE(buf []byte, v uint64) []byte {
	var tmp [8]byte
	for i := 0; i < 8; i++ {
		tmp[i] = byte(v >> (8 * i))
	}
	return append(buf, tmp[:]...)
}

// Evaluate computes the VRF output and proof for in using priv.
func Evaluate(priv ed25519.PrivateKey, in Input) Output {
	msg := encode(in)
	proof := sign.Sign(priv, msg)

	value := blake2b.Sum256(proof)

	var out Output
	out.Value = value
	copy(out.Proof[:], proof)
	return out
}

// Verify reports whether out is a valid VRF evaluation of in under pub:
// the proof must be a canonical signature over in, and the value must be
// its Blake2-256 hash.
func Verify(pub ed25519.PublicKey, in Input, out Output) bool {
	msg := encode(in)
	if !sign.VerifyCanonical(pub, msg, out.Proof[:]) {
		return false
	}
	return blake2b.Sum256(out.Proof[:]) == out.Value
}

// BelowThreshold reports whether out.Value, interpreted as a big-endian
// fraction of the output space, falls below probability p (0 <= p <= 1).
// This is the trigger test for an Opportunity checkpoint (spec.md §4.4.2).
func BelowThreshold(out Output, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}

	var numerator uint64
	for i := 0; i < 8; i++ {
		numerator = numerator<<8 | uint64(out.Value[i])
	}
	// Compare numerator/2^64 < p without floating-point overflow by scaling
	// p into the same 64-bit fixed-point space.
	threshold := uint64(p * float64(1<<63)) * 2
	return numerator < threshold
}
