// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package produce

import (
	"context"
	"testing"
	"time"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/etrid/asf/authority"
	"github.com/etrid/asf/codec"
	"github.com/etrid/asf/committee"
)

type fakeAssembler struct {
	calls int
}

func (f *fakeAssembler) AssembleBlock(ctx context.Context, parentHash ids.ID, seal codec.PPFASeal) (Header, error) {
	f.calls++
	return Header{Number: uint32(seal.SlotNumber), ParentHash: parentHash}, nil
}

type fakeImporter struct {
	imported []Header
}

func (f *fakeImporter) Import(h Header, origin string, fc ForkChoice) error {
	f.imported = append(f.imported, h)
	return nil
}

func testAuthoritySet(n int) authority.Set {
	members := make([]authority.Validator, n)
	for i := range members {
		var pk authority.PublicKey
		pk[0] = byte(i + 1)
		members[i] = authority.Validator{PublicKey: pk, Stake: uint64(1000 - i), Reputation: 80}
	}
	return authority.Set{SetID: 1, Members: members, SetHash: authority.ComputeSetHash(members)}
}

func TestProducerAuthorsWhenProposer(t *testing.T) {
	set := testAuthoritySet(3)
	mgr := committee.NewManager(set, 3, 0, nil)
	require.NoError(t, mgr.Rotate(1, set))

	self := mgr.Current().Members[0].Validator.PublicKey
	asm := &fakeAssembler{}
	imp := &fakeImporter{}

	p := &Producer{
		Timer:       NewSlotTimer(6 * time.Second),
		Committee:   mgr,
		Assembler:   asm,
		Importer:    imp,
		Pubkey:      self,
		EpochBlocks: 2400,
	}

	p.Tick(time.UnixMilli(6000), 0, ids.ID{})
	require.Equal(t, 1, asm.calls)
	require.Len(t, imp.imported, 1)
}

func TestProducerSkipsAuthoringWhenNotProposer(t *testing.T) {
	set := testAuthoritySet(3)
	mgr := committee.NewManager(set, 3, 0, nil)
	require.NoError(t, mgr.Rotate(1, set))

	asm := &fakeAssembler{}
	imp := &fakeImporter{}

	p := &Producer{
		Timer:       NewSlotTimer(6 * time.Second),
		Committee:   mgr,
		Assembler:   asm,
		Importer:    imp,
		Pubkey:      authority.PublicKey{0xff}, // not in the committee
		EpochBlocks: 2400,
	}

	p.Tick(time.UnixMilli(6000), 0, ids.ID{})
	require.Equal(t, 0, asm.calls)
	require.Empty(t, imp.imported)
}

func TestProducerDoesNothingBeforeNextSlot(t *testing.T) {
	set := testAuthoritySet(3)
	mgr := committee.NewManager(set, 3, 0, nil)
	require.NoError(t, mgr.Rotate(1, set))

	asm := &fakeAssembler{}
	p := &Producer{
		Timer:       NewSlotTimer(6 * time.Second),
		Committee:   mgr,
		Assembler:   asm,
		Importer:    &fakeImporter{},
		Pubkey:      mgr.Current().Members[0].Validator.PublicKey,
		EpochBlocks: 2400,
	}

	p.Tick(time.UnixMilli(1000), 0, ids.ID{}) // below 6s base duration
	require.Equal(t, 0, asm.calls)
}
