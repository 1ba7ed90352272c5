// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package log provides the ASF service's structured logging, a thin wrapper
// over github.com/luxfi/log (itself backed by go.uber.org/zap) so every
// component logs block numbers, hashes, validator ids, and error kinds in a
// consistent shape, per spec.md §7.
package log

import (
	"github.com/luxfi/log"
)

// WithComponent tags every subsequent line from root with a "component"
// field, e.g. log.WithComponent(root, "checkpoint"), so operators can
// filter logs by subsystem.
func WithComponent(root log.Logger, component string) log.Logger {
	return root.With("component", component)
}

// NewNoOp returns a logger that discards everything; used in unit tests that
// don't want log noise.
func NewNoOp() log.Logger {
	return NewNoOpLogger()
}
