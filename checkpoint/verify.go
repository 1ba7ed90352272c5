// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package checkpoint

import (
	"github.com/etrid/asf/authority"
	"github.com/etrid/asf/sign"
)

// Verify runs the comprehensive eight-point acceptance check of spec.md
// §4.4.3 against the current authority set and nonce table. It mutates
// nonces on success (rule 7 is a check-and-advance, not a pure read).
func Verify(sig Signature, chainID ChainID, set authority.Set, registry *authority.Registry, nonces *NonceTable) error {
	// 1. chain_id equals the node's configured chain id.
	if sig.ChainID != chainID {
		return ErrWrongChainID
	}
	// 2. authority_set_id is not expired.
	if registry.IsExpired(sig.AuthoritySetID) {
		return ErrExpiredAuthoritySet
	}
	// 3. authority_set_id equals the current active set id.
	if sig.AuthoritySetID != set.SetID {
		return ErrExpiredAuthoritySet
	}
	// 4. authority_set_hash equals the hash computed from the current set.
	if sig.AuthoritySetHash != set.SetHash {
		return ErrUnknownAuthoritySetHash
	}
	// 5 & 6. validator_id in bounds and validator_pubkey matches.
	validator, ok := set.ValidatorAt(sig.ValidatorID)
	if !ok || validator.PublicKey != sig.ValidatorPubkey {
		return ErrUnknownValidator
	}
	// 8. the cryptographic signature verifies canonically.
	payload := sig.SigningPayload(DomainSeparator)
	if !sign.VerifyCanonical(validator.PublicKey[:], payload, sig.Signature) {
		return ErrInvalidSignature
	}
	// 7. signature_nonce strictly exceeds the last accepted nonce.
	if err := nonces.CheckAndAdvance(sig.ValidatorID, sig.AuthoritySetID, sig.SignatureNonce); err != nil {
		return err
	}
	return nil
}
