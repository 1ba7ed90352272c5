// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMainnetIsValid(t *testing.T) {
	require.NoError(t, Mainnet().Validate())
}

func TestTestnetIsValid(t *testing.T) {
	require.NoError(t, Testnet().Validate())
}

func TestLocalIsValid(t *testing.T) {
	require.NoError(t, Local().Validate())
}

func TestValidateCatchesBadQuorum(t *testing.T) {
	p := Mainnet()
	p.QuorumThreshold = 10 // below 2/3 of 21
	require.ErrorIs(t, p.Validate(), ErrQuorumTooLow)
}

func TestValidateCatchesCommitteeTooSmall(t *testing.T) {
	p := Mainnet()
	p.MaxCommitteeSize = 2
	p.MinCommitteeSize = 4
	require.ErrorIs(t, p.Validate(), ErrCommitteeSizeTooSmall)
}

func TestValidateCatchesZeroSlotDuration(t *testing.T) {
	p := Mainnet()
	p.SlotDurationMS = 0
	require.ErrorIs(t, p.Validate(), ErrSlotDurationTooLow)
}

func TestSlotDuration(t *testing.T) {
	p := Mainnet()
	require.Equal(t, uint64(6000), uint64(p.SlotDuration().Milliseconds()))
}
