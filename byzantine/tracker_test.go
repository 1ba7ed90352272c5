// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package byzantine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrackerAccumulatesPerValidator(t *testing.T) {
	tr := NewTracker()
	tr.RecordMissedCheckpoint(3)
	tr.RecordMissedCheckpoint(3)
	tr.RecordDoubleSign(3)
	tr.RecordMissedCheckpoint(9)

	r3 := tr.Report(3)
	require.Equal(t, uint64(2), r3.MissedCheckpoints)
	require.Equal(t, uint64(1), r3.DoubleSigns)

	r9 := tr.Report(9)
	require.Equal(t, uint64(1), r9.MissedCheckpoints)

	require.Len(t, tr.All(), 2)
}

func TestTrackerReportDefaultsToZero(t *testing.T) {
	tr := NewTracker()
	r := tr.Report(42)
	require.Equal(t, uint32(42), r.ValidatorID)
	require.Zero(t, r.MissedCheckpoints)
}
