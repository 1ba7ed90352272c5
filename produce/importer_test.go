// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package produce

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/etrid/asf/authority"
	"github.com/etrid/asf/codec"
)

type fakeAuthorizer struct {
	authorizedProposer authority.PublicKey
	authorizedIndex    uint32
}

func (f fakeAuthorizer) IsProposerAuthorized(blockNumber uint64, ppfaIndex uint32, candidate authority.PublicKey) bool {
	return ppfaIndex == f.authorizedIndex && candidate == f.authorizedProposer
}

func TestVerifyImportAcceptsGenesisWithoutSeal(t *testing.T) {
	h := Header{Number: 0}
	result, err := VerifyImport(h, fakeAuthorizer{})
	require.NoError(t, err)
	require.Equal(t, LongestChain, result.ForkChoice)
}

func TestVerifyImportRejectsMissingSealAboveGenesis(t *testing.T) {
	h := Header{Number: 1}
	_, err := VerifyImport(h, fakeAuthorizer{})
	require.ErrorIs(t, err, ErrMissingSeal)
}

func TestVerifyImportAcceptsAuthorizedSeal(t *testing.T) {
	proposer := authority.PublicKey{9}
	seal := codec.PPFASeal{PPFAIndex: 2, Proposer: proposer, SlotNumber: 100, TimestampMS: 1}
	h := Header{Number: 100, Digest: []DigestItem{{EngineID: engineIDBytes, Payload: codec.EncodePPFASeal(seal)}}}

	result, err := VerifyImport(h, fakeAuthorizer{authorizedProposer: proposer, authorizedIndex: 2})
	require.NoError(t, err)
	require.Equal(t, seal, result.Seal)
}

func TestVerifyImportRejectsUnauthorizedProposer(t *testing.T) {
	seal := codec.PPFASeal{PPFAIndex: 5, Proposer: authority.PublicKey{7}, SlotNumber: 100}
	h := Header{Number: 100, Digest: []DigestItem{{EngineID: engineIDBytes, Payload: codec.EncodePPFASeal(seal)}}}

	_, err := VerifyImport(h, fakeAuthorizer{authorizedProposer: authority.PublicKey{12}, authorizedIndex: 5})
	require.ErrorIs(t, err, ErrProposerUnauthorized)
}

func TestVerifyImportRejectsMalformedSeal(t *testing.T) {
	h := Header{Number: 1, Digest: []DigestItem{{EngineID: engineIDBytes, Payload: []byte{1, 2, 3}}}}
	_, err := VerifyImport(h, fakeAuthorizer{})
	require.ErrorIs(t, err, ErrMalformedSeal)
}
