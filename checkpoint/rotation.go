// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package checkpoint

import "github.com/etrid/asf/authority"

// Engine bundles the mutable state an authority-set rotation must touch
// together, so the four-step rotation sequence of spec.md §4.4.6 is a
// single call instead of scattered, order-sensitive updates.
type Engine struct {
	Registry  *authority.Registry
	Nonces    *NonceTable
	Collector *Collector
}

// Rotate performs the authority rotation sequence: update the registry,
// reset nonce counters, and drop pending signature maps bound to the old
// set hash (spec.md §4.4.6).
func (e *Engine) Rotate(setID uint64, members []authority.Validator) error {
	if err := e.Registry.Update(setID, members); err != nil {
		return err
	}
	e.Nonces.ResetForEpoch()
	e.Collector.DropAll()
	return nil
}
