// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package authority

import "errors"

var (
	// ErrInvalidRotation is returned when update() is called with a set_id
	// that does not strictly exceed the current one (spec.md §4.1).
	ErrInvalidRotation = errors.New("authority: new set_id must strictly exceed current set_id")
	// ErrEmptySet is returned when a set with no members is proposed.
	ErrEmptySet = errors.New("authority: authority set must be non-empty")
	// ErrExpired is returned by queries against a watermark-expired set_id.
	ErrExpired = errors.New("authority: set_id is expired")
)
