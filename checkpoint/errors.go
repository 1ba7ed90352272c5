// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package checkpoint

import "errors"

var (
	// ErrConflictingBlockHash is returned when a signature for a
	// block_number names a different block_hash than the one already
	// collected for that block number, whichever validator signed it
	// (spec.md §4.4, test 3).
	ErrConflictingBlockHash = errors.New("checkpoint: conflicting block hash for block number")
	// ErrDuplicateSignature is returned when the same validator has already
	// had a signature accepted for that block number.
	ErrDuplicateSignature = errors.New("checkpoint: duplicate signature")
	// ErrNonceNotIncreasing is returned when signature_nonce does not
	// strictly exceed the last accepted nonce for this validator and
	// authority set (spec.md §4.4 invariant "nonce monotonicity").
	ErrNonceNotIncreasing = errors.New("checkpoint: signature_nonce must strictly exceed last accepted nonce")
	// ErrExpiredAuthoritySet is returned when authority_set_id is below the
	// registry's expiry watermark (spec.md §4.4.7 long-range protection).
	ErrExpiredAuthoritySet = errors.New("checkpoint: authority_set_id is expired")
	// ErrUnknownAuthoritySetHash is returned when authority_set_hash does
	// not match the registry's record for authority_set_id.
	ErrUnknownAuthoritySetHash = errors.New("checkpoint: authority_set_hash does not match registered set")
	// ErrUnknownValidator is returned when validator_id/validator_pubkey do
	// not correspond to a member of the active authority set.
	ErrUnknownValidator = errors.New("checkpoint: validator is not a member of the active authority set")
	// ErrInvalidSignature is returned when the cryptographic signature does
	// not verify canonically over the reconstructed signing payload.
	ErrInvalidSignature = errors.New("checkpoint: signature does not verify canonically")
	// ErrWrongChainID is returned when chain_id does not match this
	// deployment's chain id.
	ErrWrongChainID = errors.New("checkpoint: chain_id mismatch")
	// ErrNotCanonical is returned by finalization when the certified block
	// cannot be reached by walking parent hashes back from the best block.
	ErrNotCanonical = errors.New("checkpoint: block is not on the canonical chain")
)
