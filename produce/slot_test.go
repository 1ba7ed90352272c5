// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package produce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSlotTimerIsNextSlotRequiresElapsedDuration(t *testing.T) {
	timer := NewSlotTimer(6 * time.Second)
	require.True(t, timer.IsNextSlot(6000))
	require.False(t, timer.IsNextSlot(5999))
}

func TestSlotTimerAdvanceUpdatesBaseline(t *testing.T) {
	timer := NewSlotTimer(6 * time.Second)
	timer.Advance(6000)
	require.False(t, timer.IsNextSlot(6000))
	require.True(t, timer.IsNextSlot(12000))
}

func TestSlotTimerIgnoresClockRegression(t *testing.T) {
	timer := NewSlotTimer(6 * time.Second)
	timer.Advance(10000)
	timer.Advance(5000) // regression, should be a no-op
	require.False(t, timer.IsNextSlot(10500))
}

func TestSlotTimerDurationScalesWithHealth(t *testing.T) {
	timer := NewSlotTimer(6 * time.Second)

	timer.SetHealth(100)
	require.Equal(t, 6*time.Second, timer.CurrentDuration())

	timer.SetHealth(0)
	require.Equal(t, 18*time.Second, timer.CurrentDuration())

	timer.SetHealth(55) // midpoint between poor(30) and good(80)
	mid := timer.CurrentDuration()
	require.Greater(t, mid, 6*time.Second)
	require.Less(t, mid, 18*time.Second)
}
