// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"crypto/sha256"
	"encoding/binary"

	"github.com/luxfi/ids"

	"github.com/etrid/asf/codec"
	"github.com/etrid/asf/produce"
)

// AssembleBlock implements produce.Assembler. Block-body construction is
// opaque to consensus (spec.md §3 "Block"; §8 Non-goals: "block-body
// execution"); this only has to produce a unique, hash-linked header
// carrying the PPFA seal digest that downstream import verification and
// gossip expect to find.
func (s *Store) AssembleBlock(ctx context.Context, parentHash ids.ID, seal codec.PPFASeal) (produce.Header, error) {
	select {
	case <-ctx.Done():
		return produce.Header{}, ctx.Err()
	default:
	}

	parent, ok := s.HeaderByHash(parentHash)
	number := uint32(0)
	if ok {
		number = parent.Number + 1
	}

	return produce.Header{
		Number:     number,
		ParentHash: parentHash,
		Hash:       headerHash(parentHash, seal),
		Digest: []produce.DigestItem{
			{EngineID: [4]byte{'P', 'P', 'F', 'A'}, Payload: codec.EncodePPFASeal(seal)},
		},
	}, nil
}

func headerHash(parentHash ids.ID, seal codec.PPFASeal) ids.ID {
	h := sha256.New()
	h.Write(parentHash[:])
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seal.SlotNumber)
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], seal.TimestampMS)
	h.Write(buf[:])
	h.Write(seal.Proposer[:])
	var out ids.ID
	copy(out[:], h.Sum(nil))
	return out
}
