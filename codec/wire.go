// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/binary"

	"github.com/etrid/asf/authority"
	"github.com/luxfi/ids"
)

// WireSignature is the compact wire representation of a checkpoint
// signature, spec.md §6 "P2P message envelopes" / "CheckpointSignature{data}".
// It mirrors checkpoint.Signature field for field; checkpoint and gossip
// convert to/from it at their package boundary so codec stays free of a
// dependency on checkpoint.
type WireSignature struct {
	ChainID          ids.ID
	BlockNumber      uint32
	BlockHash        ids.ID
	ValidatorID      uint32
	ValidatorPubkey  authority.PublicKey
	AuthoritySetID   uint64
	AuthoritySetHash ids.ID
	CheckpointType   CheckpointType
	SignatureNonce   uint64
	Signature        []byte
	TimestampMS      uint64
}

// EncodeSignature compact-encodes a WireSignature: fixed-width
// little-endian fields back to back, the checkpoint type's own compact
// encoding inline, and the raw signature bytes length-prefixed since
// Ed25519 signature length is fixed in practice but not by this package's
// contract (spec.md §6, no framing beyond this one length prefix).
func EncodeSignature(s WireSignature) []byte {
	encodedType := EncodeCheckpointType(s.CheckpointType)

	size := 32 + 4 + 32 + 4 + 32 + 8 + 32 + len(encodedType) + 8 + 4 + len(s.Signature) + 8
	buf := make([]byte, 0, size)

	buf = append(buf, s.ChainID[:]...)

	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], s.BlockNumber)
	buf = append(buf, tmp4[:]...)

	buf = append(buf, s.BlockHash[:]...)

	binary.LittleEndian.PutUint32(tmp4[:], s.ValidatorID)
	buf = append(buf, tmp4[:]...)

	buf = append(buf, s.ValidatorPubkey[:]...)

	var tmp8 [8]byte
	binary.LittleEndian.PutUint64(tmp8[:], s.AuthoritySetID)
	buf = append(buf, tmp8[:]...)

	buf = append(buf, s.AuthoritySetHash[:]...)
	buf = append(buf, encodedType...)

	binary.LittleEndian.PutUint64(tmp8[:], s.SignatureNonce)
	buf = append(buf, tmp8[:]...)

	binary.LittleEndian.PutUint32(tmp4[:], uint32(len(s.Signature)))
	buf = append(buf, tmp4[:]...)
	buf = append(buf, s.Signature...)

	binary.LittleEndian.PutUint64(tmp8[:], s.TimestampMS)
	buf = append(buf, tmp8[:]...)

	return buf
}

// DecodeSignature parses a WireSignature encoded by EncodeSignature. It
// returns false on any truncated or malformed input rather than panicking.
func DecodeSignature(data []byte) (WireSignature, bool) {
	var s WireSignature

	if len(data) < 32 {
		return WireSignature{}, false
	}
	copy(s.ChainID[:], data[:32])
	data = data[32:]

	if len(data) < 4 {
		return WireSignature{}, false
	}
	s.BlockNumber = binary.LittleEndian.Uint32(data[:4])
	data = data[4:]

	if len(data) < 32 {
		return WireSignature{}, false
	}
	copy(s.BlockHash[:], data[:32])
	data = data[32:]

	if len(data) < 4 {
		return WireSignature{}, false
	}
	s.ValidatorID = binary.LittleEndian.Uint32(data[:4])
	data = data[4:]

	if len(data) < 32 {
		return WireSignature{}, false
	}
	copy(s.ValidatorPubkey[:], data[:32])
	data = data[32:]

	if len(data) < 8 {
		return WireSignature{}, false
	}
	s.AuthoritySetID = binary.LittleEndian.Uint64(data[:8])
	data = data[8:]

	if len(data) < 32 {
		return WireSignature{}, false
	}
	copy(s.AuthoritySetHash[:], data[:32])
	data = data[32:]

	ct, n, ok := DecodeCheckpointType(data)
	if !ok {
		return WireSignature{}, false
	}
	s.CheckpointType = ct
	data = data[n:]

	if len(data) < 8 {
		return WireSignature{}, false
	}
	s.SignatureNonce = binary.LittleEndian.Uint64(data[:8])
	data = data[8:]

	if len(data) < 4 {
		return WireSignature{}, false
	}
	sigLen := binary.LittleEndian.Uint32(data[:4])
	data = data[4:]
	if uint64(len(data)) < uint64(sigLen)+8 {
		return WireSignature{}, false
	}
	s.Signature = append([]byte(nil), data[:sigLen]...)
	data = data[sigLen:]

	s.TimestampMS = binary.LittleEndian.Uint64(data[:8])
	return s, true
}

// WireCertificate is the compact wire representation of a checkpoint
// certificate, spec.md §6 "CheckpointCertificate{data}".
type WireCertificate struct {
	BlockNumber    uint32
	BlockHash      ids.ID
	AuthoritySetID uint64
	Signatures     []WireSignature
}

// EncodeCertificate compact-encodes a WireCertificate: fixed header fields
// followed by a count and each signature length-prefixed.
func EncodeCertificate(c WireCertificate) []byte {
	encodedSigs := make([][]byte, len(c.Signatures))
	total := 4 + 32 + 8 + 4
	for i, sig := range c.Signatures {
		encodedSigs[i] = EncodeSignature(sig)
		total += 4 + len(encodedSigs[i])
	}

	buf := make([]byte, 0, total)

	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], c.BlockNumber)
	buf = append(buf, tmp4[:]...)

	buf = append(buf, c.BlockHash[:]...)

	var tmp8 [8]byte
	binary.LittleEndian.PutUint64(tmp8[:], c.AuthoritySetID)
	buf = append(buf, tmp8[:]...)

	binary.LittleEndian.PutUint32(tmp4[:], uint32(len(encodedSigs)))
	buf = append(buf, tmp4[:]...)

	for _, enc := range encodedSigs {
		binary.LittleEndian.PutUint32(tmp4[:], uint32(len(enc)))
		buf = append(buf, tmp4[:]...)
		buf = append(buf, enc...)
	}

	return buf
}

// DecodeCertificate parses a WireCertificate encoded by EncodeCertificate.
func DecodeCertificate(data []byte) (WireCertificate, bool) {
	var c WireCertificate

	if len(data) < 4 {
		return WireCertificate{}, false
	}
	c.BlockNumber = binary.LittleEndian.Uint32(data[:4])
	data = data[4:]

	if len(data) < 32 {
		return WireCertificate{}, false
	}
	copy(c.BlockHash[:], data[:32])
	data = data[32:]

	if len(data) < 8 {
		return WireCertificate{}, false
	}
	c.AuthoritySetID = binary.LittleEndian.Uint64(data[:8])
	data = data[8:]

	if len(data) < 4 {
		return WireCertificate{}, false
	}
	count := binary.LittleEndian.Uint32(data[:4])
	data = data[4:]

	c.Signatures = make([]WireSignature, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(data) < 4 {
			return WireCertificate{}, false
		}
		sigLen := binary.LittleEndian.Uint32(data[:4])
		data = data[4:]
		if uint64(len(data)) < uint64(sigLen) {
			return WireCertificate{}, false
		}
		sig, ok := DecodeSignature(data[:sigLen])
		if !ok {
			return WireCertificate{}, false
		}
		c.Signatures = append(c.Signatures, sig)
		data = data[sigLen:]
	}

	return c, true
}
