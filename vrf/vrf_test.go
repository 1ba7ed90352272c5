// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package vrf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/etrid/asf/sign"
)

func TestEvaluateIsDeterministicAndVerifiable(t *testing.T) {
	pub, priv, err := sign.GenerateKey()
	require.NoError(t, err)

	in := Input{BlockNumber: 100, Epoch: 3, EpochRandomness: [32]byte{7}}

	out1 := Evaluate(priv, in)
	out2 := Evaluate(priv, in)
	require.Equal(t, out1, out2)

	require.True(t, Verify(pub, in, out1))
}

func TestVerifyRejectsWrongInput(t *testing.T) {
	pub, priv, err := sign.GenerateKey()
	require.NoError(t, err)

	in := Input{BlockNumber: 100}
	out := Evaluate(priv, in)

	other := Input{BlockNumber: 101}
	require.False(t, Verify(pub, other, out))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	pub1, priv1, err := sign.GenerateKey()
	require.NoError(t, err)
	pub2, _, err := sign.GenerateKey()
	require.NoError(t, err)
	require.NotEqual(t, pub1, pub2)

	in := Input{BlockNumber: 1}
	out := Evaluate(priv1, in)
	require.False(t, Verify(pub2, in, out))
}

func TestBelowThresholdBounds(t *testing.T) {
	out := Output{Value: [32]byte{0x00}}
	require.True(t, BelowThreshold(out, 0.5))

	maxOut := Output{}
	for i := range maxOut.Value {
		maxOut.Value[i] = 0xff
	}
	require.False(t, BelowThreshold(maxOut, 0.5))
	require.False(t, BelowThreshold(maxOut, 0))
	require.True(t, BelowThreshold(maxOut, 1))
}
