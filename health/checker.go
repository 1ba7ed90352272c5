// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package health

import (
	"context"
	"time"
)

// Checker is the interface for health checking (same shape as the
// teacher's api/health.Checker, adapted to ASF's components).
type Checker interface {
	HealthCheck(context.Context) (interface{}, error)
}

// Check is an individual named health check's result.
type Check struct {
	Name     string        `json:"name"`
	Healthy  bool          `json:"healthy"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report aggregates every registered check.
type Report struct {
	Healthy  bool          `json:"healthy"`
	Checks   []Check       `json:"checks,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Aggregator runs a set of named Checkers and combines their results,
// giving the off-chain engine a single readiness surface for whichever
// components register a Checker.
type Aggregator struct {
	checks map[string]Checker
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{checks: make(map[string]Checker)}
}

// Register adds a named checker. Re-registering a name replaces it.
func (a *Aggregator) Register(name string, checker Checker) {
	a.checks[name] = checker
}

// RunAll executes every registered checker and returns the combined
// report. A checker erroring marks both itself and the overall report
// unhealthy; checkers still run even after an earlier one fails.
func (a *Aggregator) RunAll(ctx context.Context) Report {
	start := time.Now()
	report := Report{Healthy: true}

	for name, checker := range a.checks {
		checkStart := time.Now()
		_, err := checker.HealthCheck(ctx)
		check := Check{Name: name, Healthy: err == nil, Duration: time.Since(checkStart)}
		if err != nil {
			check.Error = err.Error()
			report.Healthy = false
		}
		report.Checks = append(report.Checks, check)
	}

	report.Duration = time.Since(start)
	return report
}
