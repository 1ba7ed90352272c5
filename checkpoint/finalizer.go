// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package checkpoint

import (
	"sync"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
)

// ChainReader is the narrow view of chain state the finalizer needs: the
// current best block, and parent-hash linkage to walk backward from it
// (spec.md §4.4.5 "Fork-protected finalization").
type ChainReader interface {
	BestBlock() (number uint32, hash ids.ID)
	ParentOf(hash ids.ID) (parent ids.ID, ok bool)
}

// VerifyCanonicalChain walks back from the chain's current best block by
// parent-hash linkage until the height matches blockNumber, then compares
// the walked hash to blockHash. It returns false (not an error) when the
// block is not yet reachable or has been orphaned by fork choice —
// spec.md §4.4.5 treats that as "do not finalize, retain the certificate,"
// not a failure.
func VerifyCanonicalChain(blockNumber uint32, blockHash ids.ID, reader ChainReader) bool {
	bestNumber, cur := reader.BestBlock()
	if blockNumber > bestNumber {
		return false
	}

	steps := bestNumber - blockNumber
	for i := uint32(0); i < steps; i++ {
		parent, ok := reader.ParentOf(cur)
		if !ok {
			return false
		}
		cur = parent
	}
	return cur == blockHash
}

// FinalityHook is called once a certificate is confirmed canonical and
// should be submitted to the runtime's finalize-block entry point
// (spec.md §4.4.5 "submitted to the runtime's finalize-block hook"; the
// interface seam itself is a supplement over the original source, which
// called this inline — spec.md §9 supplement).
type FinalityHook interface {
	Finalize(blockNumber uint32, blockHash ids.ID)
}

// Finalizer turns canonical certificates into finalization calls and runs
// the implicit-finality liveness fallback (spec.md §4.4.8).
type Finalizer struct {
	mu sync.Mutex

	reader ChainReader
	hook   FinalityHook
	lag    uint32
	log    log.Logger

	lastFinalized uint32
	retained      map[uint32]*Certificate
}

// NewFinalizer returns a Finalizer that falls back to implicit finality
// lag blocks behind the best block.
func NewFinalizer(reader ChainReader, hook FinalityHook, lag uint32, logger log.Logger) *Finalizer {
	return &Finalizer{
		reader:   reader,
		hook:     hook,
		lag:      lag,
		log:      logger,
		retained: make(map[uint32]*Certificate),
	}
}

// LastFinalized returns the highest block number finalized so far.
func (f *Finalizer) LastFinalized() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastFinalized
}

// SubmitCertificate attempts to finalize cert's block. If the block is not
// canonical, the certificate is retained for possible later reuse (the
// chain may re-org back onto it) and SubmitCertificate returns false.
func (f *Finalizer) SubmitCertificate(cert *Certificate) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !VerifyCanonicalChain(cert.BlockNumber, cert.BlockHash, f.reader) {
		f.retained[cert.BlockNumber] = cert
		if f.log != nil {
			f.log.Info("certificate orphaned by fork choice, retained",
				"block_number", cert.BlockNumber,
			)
		}
		return false
	}

	f.finalizeLocked(cert.BlockNumber, cert.BlockHash)
	delete(f.retained, cert.BlockNumber)
	return true
}

// ReconsiderRetained re-checks every retained certificate against the
// current chain view, finalizing any that have become canonical after a
// re-org (spec.md §4.4.5 "if the chain re-orgs onto that block, the
// certificate becomes usable").
func (f *Finalizer) ReconsiderRetained() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	finalized := 0
	for blockNumber, cert := range f.retained {
		if VerifyCanonicalChain(cert.BlockNumber, cert.BlockHash, f.reader) {
			f.finalizeLocked(cert.BlockNumber, cert.BlockHash)
			delete(f.retained, blockNumber)
			finalized++
		}
	}
	return finalized
}

// MaybeFinalizeImplicit finalizes best-lag directly if no checkpoint
// certificate has reached that depth, guaranteeing liveness without
// weakening safety: any such block already carries `lag` confirmations
// (spec.md §4.4.8).
func (f *Finalizer) MaybeFinalizeImplicit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	bestNumber, bestHash := f.reader.BestBlock()
	if bestNumber < f.lag {
		return false
	}
	target := bestNumber - f.lag
	if target <= f.lastFinalized {
		return false
	}

	cur := bestHash
	for i := uint32(0); i < f.lag; i++ {
		parent, ok := f.reader.ParentOf(cur)
		if !ok {
			return false
		}
		cur = parent
	}

	f.finalizeLocked(target, cur)
	if f.log != nil {
		f.log.Warn("implicit finality fallback engaged", "block_number", target)
	}
	return true
}

func (f *Finalizer) finalizeLocked(blockNumber uint32, blockHash ids.ID) {
	if f.hook != nil {
		f.hook.Finalize(blockNumber, blockHash)
	}
	if blockNumber > f.lastFinalized {
		f.lastFinalized = blockNumber
	}
}
