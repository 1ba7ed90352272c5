// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/etrid/asf/authority"
)

func TestWireSignatureRoundTripsGuaranteed(t *testing.T) {
	sig := WireSignature{
		ChainID:          ids.ID{1},
		BlockNumber:      32,
		BlockHash:        ids.ID{2},
		ValidatorID:      3,
		ValidatorPubkey:  authority.PublicKey{4},
		AuthoritySetID:   1,
		AuthoritySetHash: ids.ID{5},
		CheckpointType:   CheckpointType{Tag: CheckpointGuaranteed},
		SignatureNonce:   9,
		Signature:        []byte{0xAA, 0xBB, 0xCC},
		TimestampMS:      1690000000000,
	}

	encoded := EncodeSignature(sig)
	decoded, ok := DecodeSignature(encoded)
	require.True(t, ok)
	require.Equal(t, sig, decoded)
}

func TestWireSignatureRoundTripsOpportunity(t *testing.T) {
	sig := WireSignature{
		BlockNumber:    64,
		CheckpointType: CheckpointType{Tag: CheckpointOpportunity, VRFOutput: [32]byte{7}, VRFProof: [64]byte{8}},
		Signature:      make([]byte, 64),
	}

	encoded := EncodeSignature(sig)
	decoded, ok := DecodeSignature(encoded)
	require.True(t, ok)
	require.Equal(t, sig, decoded)
}

func TestDecodeSignatureRejectsTruncatedInput(t *testing.T) {
	_, ok := DecodeSignature([]byte{1, 2, 3})
	require.False(t, ok)
}

func TestWireCertificateRoundTrips(t *testing.T) {
	cert := WireCertificate{
		BlockNumber:    128,
		BlockHash:      ids.ID{9},
		AuthoritySetID: 2,
		Signatures: []WireSignature{
			{BlockNumber: 128, ValidatorID: 1, Signature: []byte{1}},
			{BlockNumber: 128, ValidatorID: 2, Signature: []byte{2}},
		},
	}

	encoded := EncodeCertificate(cert)
	decoded, ok := DecodeCertificate(encoded)
	require.True(t, ok)
	require.Equal(t, cert, decoded)
}

func TestDecodeCertificateRejectsTruncatedInput(t *testing.T) {
	_, ok := DecodeCertificate([]byte{1, 2})
	require.False(t, ok)
}
