// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package produce

import "github.com/luxfi/ids"

// DigestItem is one opaque item in a block's digest. Only items with
// EngineID equal to codec.EngineID ("PPFA") are meaningful to consensus;
// everything else is passed through untouched (spec.md §3 "Block").
type DigestItem struct {
	EngineID [4]byte
	Payload  []byte
}

// Header is the subset of a block's envelope the consensus core cares
// about: parent hash, number, and digest items. The block body is opaque
// to this package (spec.md §3 "Block").
type Header struct {
	Number     uint32
	ParentHash ids.ID
	Hash       ids.ID
	Digest     []DigestItem
}

// FindDigest returns the payload of the first digest item whose engine id
// matches engineID, if any.
func (h Header) FindDigest(engineID [4]byte) ([]byte, bool) {
	for _, item := range h.Digest {
		if item.EngineID == engineID {
			return item.Payload, true
		}
	}
	return nil, false
}
