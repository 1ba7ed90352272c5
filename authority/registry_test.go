// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package authority

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testMembers(n int) []Validator {
	vs := make([]Validator, n)
	for i := range vs {
		var pk PublicKey
		pk[0] = byte(i)
		pk[1] = byte(i >> 8)
		vs[i] = Validator{PublicKey: pk, Stake: uint64(1000 + i), Reputation: 80}
	}
	return vs
}

func TestNewRegistryRejectsEmptySet(t *testing.T) {
	_, err := NewRegistry(1, nil)
	require.ErrorIs(t, err, ErrEmptySet)
}

func TestSetHashIsPureFunctionOfMembers(t *testing.T) {
	members := testMembers(5)
	r, err := NewRegistry(1, members)
	require.NoError(t, err)

	h1 := r.Current().SetHash
	h2 := ComputeSetHash(members)
	require.Equal(t, h2, h1)

	// Permuting members changes the hash.
	permuted := append([]Validator(nil), members...)
	permuted[0], permuted[1] = permuted[1], permuted[0]
	require.NotEqual(t, h1, ComputeSetHash(permuted))
}

func TestUpdateRejectsNonMonotoneSetID(t *testing.T) {
	r, err := NewRegistry(5, testMembers(4))
	require.NoError(t, err)

	require.ErrorIs(t, r.Update(5, testMembers(4)), ErrInvalidRotation)
	require.ErrorIs(t, r.Update(3, testMembers(4)), ErrInvalidRotation)
	require.NoError(t, r.Update(6, testMembers(4)))
}

func TestUpdateExpiresOldSet(t *testing.T) {
	r, err := NewRegistry(1, testMembers(4))
	require.NoError(t, err)
	require.False(t, r.IsExpired(1))

	require.NoError(t, r.Update(2, testMembers(4)))
	require.True(t, r.IsExpired(1))
	require.False(t, r.IsExpired(2))
}

func TestSocialAnchorExpiresOlderSets(t *testing.T) {
	r, err := NewRegistry(1, testMembers(4))
	require.NoError(t, err)
	require.NoError(t, r.Update(5, testMembers(4)))
	require.False(t, r.IsExpired(3))

	r.AddSocialCheckpoint(SocialAnchor{BlockNumber: 1000, AuthoritySetID: 4})
	require.True(t, r.IsExpired(3))
	require.False(t, r.IsExpired(4))
}

func TestIndexOfAndValidatorAt(t *testing.T) {
	members := testMembers(3)
	s := Set{SetID: 1, Members: members, SetHash: ComputeSetHash(members)}

	require.Equal(t, 1, s.IndexOf(members[1].PublicKey))
	require.Equal(t, -1, s.IndexOf(PublicKey{0xff}))

	v, ok := s.ValidatorAt(2)
	require.True(t, ok)
	require.Equal(t, members[2], v)

	_, ok = s.ValidatorAt(3)
	require.False(t, ok)
}
