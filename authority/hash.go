// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package authority

import (
	"github.com/luxfi/ids"
	"golang.org/x/crypto/blake2b"
)

// ComputeSetHash binds a signature to the exact composition of an authority
// set: H(pubkey_0 || pubkey_1 || ... || pubkey_n-1). Any permutation or
// substitution of members yields a different hash (spec.md §4.1).
func ComputeSetHash(members []Validator) ids.ID {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors on a bad key, and we pass none.
		panic(err)
	}
	for _, m := range members {
		_, _ = h.Write(m.PublicKey[:])
	}
	var out ids.ID
	copy(out[:], h.Sum(nil))
	return out
}
