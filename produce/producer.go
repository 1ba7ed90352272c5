// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package produce

import (
	"context"
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/etrid/asf/authority"
	"github.com/etrid/asf/codec"
	"github.com/etrid/asf/committee"
)

// Assembler asks the runtime to assemble a block for the given parent
// within a bounded time budget. Block body construction is opaque to
// consensus (spec.md §3 "Block"); this is the seam across that boundary.
type Assembler interface {
	AssembleBlock(ctx context.Context, parentHash ids.ID, seal codec.PPFASeal) (Header, error)
}

// Importer submits a produced or received block to the import pipeline.
type Importer interface {
	Import(h Header, origin string, fc ForkChoice) error
}

// RuntimeCommittee is queried at epoch boundaries for an explicit next
// committee (spec.md §4.3 step 5); it is the same authority.Set source the
// Committee Manager's Rotate falls back to when none is published.
type RuntimeCommittee interface {
	CurrentAuthoritySet() authority.Set
}

// Producer runs the slot clock and authoring loop of spec.md §4.3.
type Producer struct {
	Timer            *SlotTimer
	Committee        *committee.Manager
	Assembler        Assembler
	Importer         Importer
	Runtime          RuntimeCommittee
	Pubkey           authority.PublicKey
	EpochBlocks      uint64
	AuthoringTimeout time.Duration
	Log              log.Logger

	state State
}

// State returns the producer's current state, mainly for observability.
func (p *Producer) State() State { return p.state }

// Tick runs one iteration of the authoring loop at wall-clock time now,
// given the current best block number and hash. It implements spec.md
// §4.3 "Authoring loop" steps 1-5; authoring/import errors are logged and
// swallowed, never propagated, per "Failure semantics".
func (p *Producer) Tick(now time.Time, bestNumber uint32, bestHash ids.ID) {
	nowMS := now.UnixMilli()
	if !p.Timer.IsNextSlot(nowMS) {
		return
	}

	p.setState(AwaitingSlot)
	cur := p.Committee.Current()
	nextNumber := bestNumber + 1
	proposer, ok := cur.ProposerAt(cur.PPFAIndex)

	if ok && proposer.Validator.PublicKey == p.Pubkey {
		p.author(now, nowMS, nextNumber, bestHash, cur.PPFAIndex)
	}

	if _, err := p.Committee.Advance(uint64(nextNumber)); err != nil {
		p.logf("committee advance failed", "error", err)
	}
	p.Timer.Advance(nowMS)
	p.setState(Idle)

	if p.EpochBlocks > 0 && uint64(nextNumber)%p.EpochBlocks == 0 {
		p.rotateEpoch(uint64(nextNumber) / p.EpochBlocks)
	}
}

// setState moves the producer to next, logging (but not blocking on) any
// edge CanTransition rejects as illegal (spec.md §4.3 "State machine").
func (p *Producer) setState(next State) {
	if !CanTransition(p.state, next) {
		p.logf("illegal producer state transition", "from", p.state, "to", next)
	}
	p.state = next
}

func (p *Producer) author(now time.Time, nowMS int64, nextNumber uint32, parentHash ids.ID, ppfaIndex uint32) {
	p.setState(Authoring)

	seal := codec.PPFASeal{
		PPFAIndex:   ppfaIndex,
		Proposer:    p.Pubkey,
		SlotNumber:  uint64(nextNumber),
		TimestampMS: uint64(nowMS),
	}

	timeout := p.AuthoringTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	header, err := p.Assembler.AssembleBlock(ctx, parentHash, seal)
	if err != nil {
		p.logf("authoring failed, dropping slot", "error", err)
		return
	}

	p.setState(Importing)
	if err := p.Importer.Import(header, "own", LongestChain); err != nil {
		p.logf("import of own block failed", "block_number", nextNumber, "error", err)
	}
}

func (p *Producer) rotateEpoch(epoch uint64) {
	p.setState(EpochBoundary)
	if p.Runtime != nil {
		set := p.Runtime.CurrentAuthoritySet()
		if err := p.Committee.Rotate(epoch, set); err != nil {
			p.logf("epoch rotation failed", "epoch", epoch, "error", err)
		}
	}
	p.setState(Idle)
}

func (p *Producer) logf(msg string, kv ...interface{}) {
	if p.Log != nil {
		p.Log.Warn(msg, kv...)
	}
}
