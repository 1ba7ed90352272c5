// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/etrid/asf/codec"
	"github.com/etrid/asf/produce"
)

func TestStoreBestBlockStartsAtGenesis(t *testing.T) {
	genesis := ids.ID{1}
	s := NewStore(genesis, nil)

	number, hash := s.BestBlock()
	require.Equal(t, uint32(0), number)
	require.Equal(t, genesis, hash)
}

func TestStoreImportAdvancesTipOnLongerChain(t *testing.T) {
	genesis := ids.ID{1}
	s := NewStore(genesis, nil)

	child := produce.Header{Number: 1, ParentHash: genesis, Hash: ids.ID{2}}
	require.NoError(t, s.Import(child, "peer", produce.LongestChain))

	number, hash := s.BestBlock()
	require.Equal(t, uint32(1), number)
	require.Equal(t, child.Hash, hash)
}

func TestStoreImportDoesNotRegressTipOnShorterFork(t *testing.T) {
	genesis := ids.ID{1}
	s := NewStore(genesis, nil)

	tip := produce.Header{Number: 5, ParentHash: genesis, Hash: ids.ID{5}}
	require.NoError(t, s.Import(tip, "own", produce.LongestChain))

	fork := produce.Header{Number: 1, ParentHash: genesis, Hash: ids.ID{9}}
	require.NoError(t, s.Import(fork, "peer", produce.LongestChain))

	number, hash := s.BestBlock()
	require.Equal(t, uint32(5), number)
	require.Equal(t, tip.Hash, hash)

	// the fork is still stored and queryable, it just didn't move the tip.
	parent, ok := s.ParentOf(fork.Hash)
	require.True(t, ok)
	require.Equal(t, genesis, parent)
}

func TestStoreParentOfUnknownHash(t *testing.T) {
	s := NewStore(ids.ID{1}, nil)
	_, ok := s.ParentOf(ids.ID{0xff})
	require.False(t, ok)
}

func TestStoreAssembleBlockLinksToParentAndIncrementsNumber(t *testing.T) {
	genesis := ids.ID{1}
	s := NewStore(genesis, nil)

	seal := codec.PPFASeal{PPFAIndex: 0, SlotNumber: 1, TimestampMS: 1000}
	header, err := s.AssembleBlock(context.Background(), genesis, seal)
	require.NoError(t, err)
	require.Equal(t, uint32(1), header.Number)
	require.Equal(t, genesis, header.ParentHash)

	payload, ok := header.FindDigest([4]byte{'P', 'P', 'F', 'A'})
	require.True(t, ok)
	decoded, ok := codec.DecodePPFASeal(payload)
	require.True(t, ok)
	require.Equal(t, seal, decoded)
}

func TestStoreAssembleBlockRespectsCancelledContext(t *testing.T) {
	s := NewStore(ids.ID{1}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.AssembleBlock(ctx, ids.ID{1}, codec.PPFASeal{})
	require.Error(t, err)
}

func TestStoreFinalizeDoesNotPanicWithoutLogger(t *testing.T) {
	s := NewStore(ids.ID{1}, nil)
	require.NotPanics(t, func() { s.Finalize(0, ids.ID{1}) })
}
