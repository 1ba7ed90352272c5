// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/etrid/asf/authority"
	"github.com/etrid/asf/codec"
)

func pk(b byte) authority.PublicKey {
	var out authority.PublicKey
	out[0] = b
	return out
}

func genesis(n int) []ValidatorInfo {
	out := make([]ValidatorInfo, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, ValidatorInfo{Pubkey: pk(byte(i + 1)), Stake: 1000, PeerType: authority.Common})
	}
	return out
}

func TestGetCommitteeReturnsGenesisInOrder(t *testing.T) {
	s := NewStore(nil, genesis(3), 21, 32, 100)
	got := s.GetCommittee()
	require.Len(t, got, 3)
	require.Equal(t, pk(1), got[0].Pubkey)
	require.Equal(t, pk(3), got[2].Pubkey)
}

func TestIsInCommitteeReflectsMembership(t *testing.T) {
	s := NewStore(nil, genesis(2), 21, 32, 100)
	require.True(t, s.IsInCommittee(pk(1)))
	require.False(t, s.IsInCommittee(pk(9)))
}

func TestAddValidatorRejectsBelowMinStake(t *testing.T) {
	s := NewStore(nil, nil, 21, 32, 500)
	err := s.AddValidator(pk(1), 100, authority.Common)
	require.ErrorIs(t, err, ErrStakeTooLow)
}

func TestAddValidatorRejectsDuplicate(t *testing.T) {
	s := NewStore(nil, genesis(1), 21, 32, 100)
	err := s.AddValidator(pk(1), 1000, authority.Common)
	require.ErrorIs(t, err, ErrValidatorExists)
}

func TestAddValidatorRejectsWhenCommitteeFull(t *testing.T) {
	s := NewStore(nil, genesis(2), 2, 32, 100)
	err := s.AddValidator(pk(9), 1000, authority.Common)
	require.ErrorIs(t, err, ErrCommitteeFull)
}

func TestAddValidatorSucceedsAndIsQueryable(t *testing.T) {
	s := NewStore(nil, genesis(1), 21, 32, 100)
	require.NoError(t, s.AddValidator(pk(5), 2000, authority.ValidityNode))
	v, ok := s.GetValidator(pk(5))
	require.True(t, ok)
	require.Equal(t, uint64(2000), v.Stake)
	require.True(t, s.IsInCommittee(pk(5)))
}

func TestRemoveValidatorIsIdempotentOnAbsence(t *testing.T) {
	s := NewStore(nil, genesis(2), 21, 32, 100)
	s.RemoveValidator(pk(99))
	require.Len(t, s.GetCommittee(), 2)
}

func TestRemoveValidatorDropsFromMapAndCommittee(t *testing.T) {
	s := NewStore(nil, genesis(2), 21, 32, 100)
	s.RemoveValidator(pk(1))
	require.False(t, s.IsInCommittee(pk(1)))
	_, ok := s.GetValidator(pk(1))
	require.False(t, ok)
}

func TestRotateCommitteeIncrementsEpochWithoutMutatingMembers(t *testing.T) {
	s := NewStore(nil, genesis(3), 21, 32, 100)
	before := s.GetCommittee()
	evt := s.RotateCommittee()
	require.Equal(t, uint64(1), evt.NewEpoch)
	require.Equal(t, uint64(1), s.CurrentEpoch())
	require.Equal(t, before, s.GetCommittee())
}

func TestNextEpochCommitteeRequiresPublishedSetForImmediateNextEpoch(t *testing.T) {
	s := NewStore(nil, genesis(2), 21, 32, 100)
	_, ok := s.NextEpochCommittee(1)
	require.False(t, ok)

	s.PublishNextEpochValidators([]authority.PublicKey{pk(1), pk(2)})
	members, ok := s.NextEpochCommittee(1)
	require.True(t, ok)
	require.Len(t, members, 2)
}

func TestNextEpochStartRoundsUpToNextBoundary(t *testing.T) {
	s := NewStore(nil, nil, 21, 32, 100)
	require.Equal(t, uint64(32), s.NextEpochStart(0))
	require.Equal(t, uint64(64), s.NextEpochStart(32))
	require.Equal(t, uint64(64), s.NextEpochStart(50))
}

func TestOnBlockImportedRecordsDecodableSeal(t *testing.T) {
	s := NewStore(nil, nil, 21, 32, 100)
	seal := codec.PPFASeal{PPFAIndex: 2, Proposer: pk(7), SlotNumber: 10, TimestampMS: 123}
	s.OnBlockImported(10, codec.EncodePPFASeal(seal))

	require.True(t, s.IsProposerAuthorized(10, 2, pk(7)))
}

func TestOnBlockImportedSilentlyIgnoresMalformedPayload(t *testing.T) {
	s := NewStore(nil, nil, 21, 32, 100)
	require.NotPanics(t, func() {
		s.OnBlockImported(10, []byte("too short"))
	})
	require.False(t, s.IsProposerAuthorized(10, 0, pk(1)))
}
