// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package produce

import (
	"errors"

	"github.com/etrid/asf/authority"
	"github.com/etrid/asf/codec"
)

var (
	// ErrMissingSeal is returned when a non-genesis block carries no PPFA
	// digest item (spec.md §4.3 step 2 "A missing seal is accepted only at
	// genesis").
	ErrMissingSeal = errors.New("produce: non-genesis block has no PPFA seal")
	// ErrMalformedSeal is returned when a PPFA digest item cannot be
	// decoded into the fixed tuple.
	ErrMalformedSeal = errors.New("produce: PPFA seal payload is malformed")
	// ErrProposerUnauthorized is returned when the PPFA history disagrees
	// with the seal's claimed proposer (spec.md §4.3 step 3).
	ErrProposerUnauthorized = errors.New("produce: PPFA seal proposer is not authorized")
)

// Authorizer is the narrow seam onto the Committee Manager's PPFA history
// query, used for import-time authorization checks (spec.md §4.2
// "is_proposer_authorized").
type Authorizer interface {
	IsProposerAuthorized(blockNumber uint64, ppfaIndex uint32, candidate authority.PublicKey) bool
}

// ForkChoice is always "longest chain" in this protocol; the type exists
// so the import result is self-documenting rather than a bare bool.
type ForkChoice int

const (
	LongestChain ForkChoice = iota
)

// VerificationResult is what block import verification produces for a
// successfully-accepted block.
type VerificationResult struct {
	Seal       codec.PPFASeal
	ForkChoice ForkChoice
}

// engineIDBytes is codec.EngineID ("PPFA") as a fixed-size array for
// comparison against Header.Digest entries.
var engineIDBytes = [4]byte{'P', 'P', 'F', 'A'}

// VerifyImport runs the three ordered block-import checks of spec.md §4.3
// "Block import verification": structural well-formedness (the caller is
// expected to have already checked header shape before calling this — this
// function covers the consensus-specific checks), PPFA seal extraction,
// and authorization. It has no access to the block body.
func VerifyImport(h Header, authz Authorizer) (VerificationResult, error) {
	payload, ok := h.FindDigest(engineIDBytes)
	if !ok {
		if h.Number == 0 {
			return VerificationResult{ForkChoice: LongestChain}, nil
		}
		return VerificationResult{}, ErrMissingSeal
	}

	seal, ok := codec.DecodePPFASeal(payload)
	if !ok {
		return VerificationResult{}, ErrMalformedSeal
	}

	if !authz.IsProposerAuthorized(uint64(h.Number), seal.PPFAIndex, seal.Proposer) {
		return VerificationResult{}, ErrProposerUnauthorized
	}

	return VerificationResult{Seal: seal, ForkChoice: LongestChain}, nil
}
