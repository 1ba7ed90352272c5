// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package committee

import "errors"

var (
	// ErrEmptyCandidatePool is returned by Rotate when the authority set has
	// no members meeting the reputation floor (spec.md §4.2 "Rotation").
	ErrEmptyCandidatePool = errors.New("committee: no eligible candidates for rotation")
	// ErrStaleEpoch is returned when Rotate is called with an epoch number
	// lower than the current one (the same epoch is a no-op).
	ErrStaleEpoch = errors.New("committee: epoch number is not newer than current epoch")
	// ErrUnknownSlot names a PPFA history miss (no record for that block
	// number). History's lookups report a miss as false and do not return
	// it.
	ErrUnknownSlot = errors.New("committee: no ppfa record for that block number")
	// ErrSlotAlreadyRecorded is returned when Advance is asked to record a
	// block number that already has a PPFA entry (history is write-once).
	ErrSlotAlreadyRecorded = errors.New("committee: ppfa history entry already recorded for block number")
	// ErrCommitteeTooSmall is returned by Rotate when the selected or
	// explicitly-published committee has fewer members than the configured
	// BFT minimum (spec.md §4.2 / §8 "Selection with fewer than four
	// eligible candidates fails").
	ErrCommitteeTooSmall = errors.New("committee: rotated committee is below the minimum BFT size")
)
