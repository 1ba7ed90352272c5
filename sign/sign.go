// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sign implements canonical Ed25519 signing and verification for
// checkpoint signatures (spec.md §4.4, §6). "Canonical" here means the same
// strict check the original implementation's ed25519-dalek verify_strict
// performs: the signature's S scalar must already be in reduced form and its
// R component must be a valid, canonically-encoded curve point. A
// standards-conformant Verify alone accepts some malleable encodings that
// verify_strict rejects; filippo.io/edwards25519 lets us add that check.
package sign

import (
	"crypto/ed25519"
	"crypto/rand"

	"filippo.io/edwards25519"
)

// PublicKeySize and SignatureSize mirror crypto/ed25519's constants so
// callers need not import both packages.
const (
	PublicKeySize  = ed25519.PublicKeySize
	SignatureSize  = ed25519.SignatureSize
	PrivateKeySize = ed25519.PrivateKeySize
)

// GenerateKey produces a fresh Ed25519 keypair.
func GenerateKey() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	return ed25519.GenerateKey(rand.Reader)
}

// Sign produces a signature over payload using priv. The signature is
// deterministic (RFC 8032) and always in canonical form; no extra checks
// are required on the signing side.
func Sign(priv ed25519.PrivateKey, payload []byte) []byte {
	return ed25519.Sign(priv, payload)
}

// VerifyCanonical reports whether sig is a canonical Ed25519 signature over
// payload under pub. It rejects:
//   - signatures of the wrong length,
//   - an S scalar that is not already reduced mod the group order,
//   - an R component that is not a valid, canonically-encoded point,
//
// before falling back to the standard verification equation.
func VerifyCanonical(pub ed25519.PublicKey, payload, sig []byte) bool {
	if len(sig) != SignatureSize || len(pub) != PublicKeySize {
		return false
	}

	var s edwards25519.Scalar
	if _, err := s.SetCanonicalBytes(sig[32:64]); err != nil {
		return false
	}

	var r edwards25519.Point
	if _, err := r.SetBytes(sig[0:32]); err != nil {
		return false
	}

	return ed25519.Verify(pub, payload, sig)
}
