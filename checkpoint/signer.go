// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package checkpoint

import (
	"crypto/ed25519"

	"github.com/luxfi/ids"

	"github.com/etrid/asf/authority"
	"github.com/etrid/asf/sign"
)

// DomainSeparator is the fixed, protocol-unique byte string prefixed to
// every signing payload (spec.md §4.4 step 4; value taken from the
// original source's SIGNATURE_DOMAIN constant, spec.md §9 supplement).
var DomainSeparator = []byte("ETRID-CHECKPOINT-V2")

// Signer builds and signs checkpoint signatures for one local validator.
type Signer struct {
	ChainID         ChainID
	ValidatorID     uint32
	ValidatorPubkey authority.PublicKey
	priv            ed25519.PrivateKey
	nonces          *NonceTable
}

// NewSigner constructs a Signer for a local validator identity.
func NewSigner(chainID ChainID, validatorID uint32, pub authority.PublicKey, priv ed25519.PrivateKey, nonces *NonceTable) *Signer {
	return &Signer{
		ChainID:         chainID,
		ValidatorID:     validatorID,
		ValidatorPubkey: pub,
		priv:            priv,
		nonces:          nonces,
	}
}

// Sign constructs the full signing payload for (blockNumber, blockHash,
// authoritySetID, authoritySetHash, checkpointType), reserves the next
// nonce for this validator under authoritySetID, and produces a canonical
// signature over it (spec.md §4.4 steps 2-4).
func (s *Signer) Sign(blockNumber uint32, blockHash ids.ID, authoritySetID uint64, authoritySetHash ids.ID, checkpointType Type, timestampMS uint64) Signature {
	nonce := s.nonces.Next(s.ValidatorID, authoritySetID)

	sig := Signature{
		ChainID:          s.ChainID,
		BlockNumber:      blockNumber,
		BlockHash:        blockHash,
		ValidatorID:      s.ValidatorID,
		ValidatorPubkey:  s.ValidatorPubkey,
		AuthoritySetID:   authoritySetID,
		AuthoritySetHash: authoritySetHash,
		CheckpointType:   checkpointType,
		SignatureNonce:   nonce,
		TimestampMS:      timestampMS,
	}
	payload := sig.SigningPayload(DomainSeparator)
	sig.Signature = sign.Sign(s.priv, payload)
	return sig
}
