// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package committee

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/etrid/asf/authority"
)

func testSet(n int) authority.Set {
	members := make([]authority.Validator, n)
	for i := range members {
		var pk authority.PublicKey
		pk[0] = byte(i)
		pk[1] = byte(i >> 8)
		members[i] = authority.Validator{
			PublicKey:  pk,
			Stake:      uint64(100 * (n - i)),
			Reputation: 80,
		}
	}
	return authority.Set{SetID: 1, Members: members, SetHash: authority.ComputeSetHash(members)}
}

func TestSelectOrdersByStakeDescending(t *testing.T) {
	set := testSet(5)
	members := Select(set, 3, 0)
	require.Len(t, members, 3)
	require.Equal(t, set.Members[0].PublicKey, members[0].Validator.PublicKey)
	require.Equal(t, set.Members[1].PublicKey, members[1].Validator.PublicKey)
	require.Equal(t, set.Members[2].PublicKey, members[2].Validator.PublicKey)
}

func TestSelectFiltersByReputationFloor(t *testing.T) {
	set := testSet(4)
	set.Members[0].Reputation = 10 // below floor, excluded despite highest stake
	members := Select(set, 10, 50)
	require.Len(t, members, 3)
	for _, m := range members {
		require.NotEqual(t, set.Members[0].PublicKey, m.Validator.PublicKey)
	}
}

func TestSelectTieBreaksByPubkeyLexicographically(t *testing.T) {
	set := testSet(3)
	for i := range set.Members {
		set.Members[i].Stake = 500 // force a tie on stake
	}
	members := Select(set, 3, 0)
	require.True(t, lessPubkey(members[0].Validator.PublicKey, members[1].Validator.PublicKey))
	require.True(t, lessPubkey(members[1].Validator.PublicKey, members[2].Validator.PublicKey))
}

func TestSelectCapsAtAvailable(t *testing.T) {
	set := testSet(2)
	members := Select(set, 21, 0)
	require.Len(t, members, 2)
}

func TestRotateIsIdempotentWithinEpoch(t *testing.T) {
	set := testSet(4)
	m := NewManager(set, 4, 0, 4, nil)
	require.NoError(t, m.Rotate(1, set))
	before := m.Current()
	require.NoError(t, m.Rotate(1, set))
	require.Equal(t, before, m.Current())
}

func TestRotateRejectsStaleEpoch(t *testing.T) {
	set := testSet(4)
	m := NewManager(set, 4, 0, 4, nil)
	require.NoError(t, m.Rotate(5, set))
	require.ErrorIs(t, m.Rotate(3, set), ErrStaleEpoch)
}

func TestRotateFailsOnEmptyCandidatePool(t *testing.T) {
	set := testSet(3)
	for i := range set.Members {
		set.Members[i].Reputation = 0
	}
	m := NewManager(set, 3, 100, 3, nil)
	require.ErrorIs(t, m.Rotate(1, set), ErrEmptyCandidatePool)
}

type explicitRuntime struct {
	epoch   uint64
	members []authority.Validator
}

func (e explicitRuntime) NextEpochCommittee(epoch uint64) ([]authority.Validator, bool) {
	if epoch != e.epoch {
		return nil, false
	}
	return e.members, true
}

func TestRotateAdoptsExplicitRuntimeCommittee(t *testing.T) {
	set := testSet(5)
	explicit := []authority.Validator{set.Members[4], set.Members[0]}
	m := NewManager(set, 3, 0, 2, explicitRuntime{epoch: 2, members: explicit})

	require.NoError(t, m.Rotate(2, set))
	cur := m.Current()
	require.Len(t, cur.Members, 2)
	require.Equal(t, explicit[0].PublicKey, cur.Members[0].Validator.PublicKey)
	require.Equal(t, explicit[1].PublicKey, cur.Members[1].Validator.PublicKey)
}

func TestRotateRejectsReselectedCommitteeBelowBFTMinimum(t *testing.T) {
	set := testSet(2)
	m := NewManager(set, 21, 0, 4, nil)
	require.ErrorIs(t, m.Rotate(1, set), ErrCommitteeTooSmall)
}

func TestRotateRejectsExplicitCommitteeBelowBFTMinimum(t *testing.T) {
	set := testSet(5)
	explicit := []authority.Validator{set.Members[4], set.Members[0]}
	m := NewManager(set, 3, 0, 4, explicitRuntime{epoch: 2, members: explicit})

	require.ErrorIs(t, m.Rotate(2, set), ErrCommitteeTooSmall)
}

func TestAdvanceRecordsAndRotatesPPFAIndex(t *testing.T) {
	set := testSet(3)
	m := NewManager(set, 3, 0, 3, nil)
	require.NoError(t, m.Rotate(1, set))

	r0, err := m.Advance(100)
	require.NoError(t, err)
	require.Equal(t, uint32(0), r0.PPFAIndex)

	r1, err := m.Advance(101)
	require.NoError(t, err)
	require.Equal(t, uint32(1), r1.PPFAIndex)
	require.NotEqual(t, r0.Proposer, r1.Proposer)

	require.True(t, m.IsProposerAuthorized(100, 0, r0.Proposer))
	require.False(t, m.IsProposerAuthorized(100, 1, r0.Proposer))
	require.False(t, m.IsProposerAuthorized(999, 0, r0.Proposer))
}

func TestAdvanceRejectsDuplicateBlockNumber(t *testing.T) {
	set := testSet(3)
	m := NewManager(set, 3, 0, 3, nil)
	require.NoError(t, m.Rotate(1, set))

	_, err := m.Advance(50)
	require.NoError(t, err)
	_, err = m.Advance(50)
	require.ErrorIs(t, err, ErrSlotAlreadyRecorded)
}
