// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiterAllowsUpToCapPerWindow(t *testing.T) {
	l := NewLimiter(3, time.Minute)
	now := time.Now()

	require.True(t, l.Allow("peerA", now))
	require.True(t, l.Allow("peerA", now))
	require.True(t, l.Allow("peerA", now))
	require.False(t, l.Allow("peerA", now))
}

func TestLimiterTracksPeersIndependently(t *testing.T) {
	l := NewLimiter(1, time.Minute)
	now := time.Now()

	require.True(t, l.Allow("peerA", now))
	require.True(t, l.Allow("peerB", now))
	require.False(t, l.Allow("peerA", now))
}

func TestLimiterResetsAfterWindowElapses(t *testing.T) {
	l := NewLimiter(1, time.Second)
	now := time.Now()

	require.True(t, l.Allow("peerA", now))
	require.False(t, l.Allow("peerA", now))
	require.True(t, l.Allow("peerA", now.Add(2*time.Second)))
}
