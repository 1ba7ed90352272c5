// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package checkpoint

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	asflog "github.com/etrid/asf/log"
)

// fakeChain is a linear chain of blocks 0..N, each hash derived from its
// number, for exercising canonical-chain verification and walk-back.
type fakeChain struct {
	hashes  []ids.ID
	parents map[ids.ID]ids.ID
}

func newFakeChain(n int) *fakeChain {
	fc := &fakeChain{parents: make(map[ids.ID]ids.ID)}
	for i := 0; i <= n; i++ {
		var h ids.ID
		h[0] = byte(i)
		h[1] = byte(i >> 8)
		fc.hashes = append(fc.hashes, h)
		if i > 0 {
			fc.parents[h] = fc.hashes[i-1]
		}
	}
	return fc
}

func (fc *fakeChain) BestBlock() (uint32, ids.ID) {
	return uint32(len(fc.hashes) - 1), fc.hashes[len(fc.hashes)-1]
}

func (fc *fakeChain) ParentOf(hash ids.ID) (ids.ID, bool) {
	p, ok := fc.parents[hash]
	return p, ok
}

type fakeHook struct {
	finalized []uint32
}

func (h *fakeHook) Finalize(blockNumber uint32, blockHash ids.ID) {
	h.finalized = append(h.finalized, blockNumber)
}

func TestVerifyCanonicalChainAcceptsAncestor(t *testing.T) {
	chain := newFakeChain(10)
	require.True(t, VerifyCanonicalChain(4, chain.hashes[4], chain))
	require.False(t, VerifyCanonicalChain(4, ids.ID{0xff}, chain))
}

func TestVerifyCanonicalChainRejectsFutureBlock(t *testing.T) {
	chain := newFakeChain(3)
	require.False(t, VerifyCanonicalChain(10, ids.ID{10}, chain))
}

func TestSubmitCertificateFinalizesCanonicalBlock(t *testing.T) {
	chain := newFakeChain(10)
	hook := &fakeHook{}
	f := NewFinalizer(chain, hook, 100, asflog.NewNoOp())

	ok := f.SubmitCertificate(&Certificate{BlockNumber: 5, BlockHash: chain.hashes[5]})
	require.True(t, ok)
	require.Equal(t, uint32(5), f.LastFinalized())
	require.Equal(t, []uint32{5}, hook.finalized)
}

func TestSubmitCertificateRetainsOrphanedBlock(t *testing.T) {
	chain := newFakeChain(10)
	hook := &fakeHook{}
	f := NewFinalizer(chain, hook, 100, asflog.NewNoOp())

	ok := f.SubmitCertificate(&Certificate{BlockNumber: 5, BlockHash: ids.ID{0xaa}})
	require.False(t, ok)
	require.Empty(t, hook.finalized)
	require.Len(t, f.retained, 1)
}

func TestReconsiderRetainedFinalizesAfterReorg(t *testing.T) {
	chain := newFakeChain(10)
	hook := &fakeHook{}
	f := NewFinalizer(chain, hook, 100, asflog.NewNoOp())

	orphanHash := ids.ID{0xaa}
	f.SubmitCertificate(&Certificate{BlockNumber: 5, BlockHash: orphanHash})
	require.Len(t, hook.finalized, 0)

	// Simulate a re-org landing block 5's canonical hash on what was
	// retained as orphaned.
	chain.parents[orphanHash] = chain.hashes[4]
	chain.parents[chain.hashes[6]] = orphanHash
	chain.hashes[5] = orphanHash

	finalized := f.ReconsiderRetained()
	require.Equal(t, 1, finalized)
	require.Equal(t, []uint32{5}, hook.finalized)
}

func TestMaybeFinalizeImplicitEngagesPastLag(t *testing.T) {
	chain := newFakeChain(150)
	hook := &fakeHook{}
	f := NewFinalizer(chain, hook, 100, asflog.NewNoOp())

	engaged := f.MaybeFinalizeImplicit()
	require.True(t, engaged)
	require.Equal(t, uint32(50), f.LastFinalized())
}

func TestMaybeFinalizeImplicitNoOpBelowLag(t *testing.T) {
	chain := newFakeChain(50)
	hook := &fakeHook{}
	f := NewFinalizer(chain, hook, 100, asflog.NewNoOp())

	require.False(t, f.MaybeFinalizeImplicit())
	require.Empty(t, hook.finalized)
}
