// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMonitorScoreDefaultsToPerfectWithNoData(t *testing.T) {
	m := NewMonitor(10)
	require.Equal(t, Score(100), m.Score())
}

func TestMonitorScoreReflectsRecentOutcomes(t *testing.T) {
	m := NewMonitor(4)
	m.Record(true)
	m.Record(true)
	m.Record(false)
	m.Record(false)
	require.Equal(t, Score(50), m.Score())
}

func TestMonitorScoreDropsOldestOutsideWindow(t *testing.T) {
	m := NewMonitor(2)
	m.Record(false)
	m.Record(false)
	m.Record(true)
	m.Record(true)
	require.Equal(t, Score(100), m.Score())
}

type fakeChecker struct{ err error }

func (f fakeChecker) HealthCheck(context.Context) (interface{}, error) { return nil, f.err }

func TestAggregatorRunAllAllHealthy(t *testing.T) {
	a := NewAggregator()
	a.Register("registry", fakeChecker{})
	a.Register("collector", fakeChecker{})

	report := a.RunAll(context.Background())
	require.True(t, report.Healthy)
	require.Len(t, report.Checks, 2)
}

func TestAggregatorRunAllMarksUnhealthyOnFailure(t *testing.T) {
	a := NewAggregator()
	a.Register("registry", fakeChecker{})
	a.Register("collector", fakeChecker{err: errors.New("boom")})

	report := a.RunAll(context.Background())
	require.False(t, report.Healthy)
}
