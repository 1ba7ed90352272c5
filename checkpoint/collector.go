// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package checkpoint

import (
	"sync"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
)

type blockEntry struct {
	blockHash  ids.ID
	signatures map[uint32]Signature
}

// Collector keys signatures by block_number and forms a Certificate once a
// block accumulates quorumThreshold distinct-validator signatures
// (spec.md §4.4.4). It lives behind a single writer-preferring lock: every
// call mutates shared state, so a reader-writer split would buy nothing
// (spec.md §5 "Shared-resource policy").
type Collector struct {
	mu              sync.Mutex
	entries         map[uint32]*blockEntry
	quorumThreshold int
	log             log.Logger

	onEquivocation func(EquivocationEvidence)
	onExpiry       func(blockNumber uint32, signedValidatorIDs []uint32)
}

// NewCollector returns an empty collector requiring quorumThreshold
// signatures to form a certificate.
func NewCollector(quorumThreshold int, logger log.Logger) *Collector {
	return &Collector{
		entries:         make(map[uint32]*blockEntry),
		quorumThreshold: quorumThreshold,
		log:             logger,
	}
}

// OnEquivocation registers a callback invoked whenever AddSignature detects
// conflicting block hashes from the same validator (spec.md §4.4 test 3).
// No slashing logic runs here; this is purely an evidence hook.
func (c *Collector) OnEquivocation(fn func(EquivocationEvidence)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEquivocation = fn
}

// AddSignature records sig (already verified by Verify) and returns a
// formed Certificate once quorum is reached. It implements the four-branch
// decision of spec.md §4.4.4: new entry, conflicting hash, duplicate, or
// accept-and-maybe-certify.
func (c *Collector) AddSignature(sig Signature) (*Certificate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[sig.BlockNumber]
	if !exists {
		entry = &blockEntry{blockHash: sig.BlockHash, signatures: make(map[uint32]Signature)}
		c.entries[sig.BlockNumber] = entry
	} else if entry.blockHash != sig.BlockHash {
		if prior, had := entry.signatures[sig.ValidatorID]; had {
			evidence := EquivocationEvidence{
				ValidatorID:    sig.ValidatorID,
				AuthoritySetID: sig.AuthoritySetID,
				BlockNumber:    sig.BlockNumber,
				FirstHash:      prior.BlockHash,
				SecondHash:     sig.BlockHash,
			}
			if c.onEquivocation != nil {
				c.onEquivocation(evidence)
			}
		}
		if c.log != nil {
			c.log.Warn("conflicting checkpoint block hash",
				"block_number", sig.BlockNumber,
				"validator_id", sig.ValidatorID,
			)
		}
		return nil, ErrConflictingBlockHash
	}

	if _, already := entry.signatures[sig.ValidatorID]; already {
		return nil, ErrDuplicateSignature
	}

	entry.signatures[sig.ValidatorID] = sig

	if len(entry.signatures) < c.quorumThreshold {
		return nil, nil
	}

	cert := &Certificate{
		BlockNumber:    sig.BlockNumber,
		BlockHash:      entry.blockHash,
		AuthoritySetID: sig.AuthoritySetID,
		Signatures:     make([]Signature, 0, len(entry.signatures)),
	}
	for _, s := range entry.signatures {
		cert.Signatures = append(cert.Signatures, s)
	}
	return cert, nil
}

// OnExpiry registers a callback invoked from CleanupOlderThan for every
// pending entry it discards before quorum was reached: the validators that
// never signed that checkpoint are the complement of signedValidatorIDs
// against the caller's own committee view (the collector itself has no
// committee membership; it only knows who actually signed).
func (c *Collector) OnExpiry(fn func(blockNumber uint32, signedValidatorIDs []uint32)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onExpiry = fn
}

// DropAll clears every pending signature map. Called on authority
// rotation: pending maps are bound to the old set hash and must not survive
// it (spec.md §4.4.6 step 3).
func (c *Collector) DropAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint32]*blockEntry)
}

// CleanupOlderThan discards entries for block numbers strictly below
// floor, bounding memory growth as the chain advances (spec.md supplement,
// grounded on the original source's cleanup_old_signatures routine).
func (c *Collector) CleanupOlderThan(floor uint32) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for blockNumber, entry := range c.entries {
		if blockNumber < floor {
			if c.onExpiry != nil && len(entry.signatures) < c.quorumThreshold {
				signers := make([]uint32, 0, len(entry.signatures))
				for validatorID := range entry.signatures {
					signers = append(signers, validatorID)
				}
				c.onExpiry(blockNumber, signers)
			}
			delete(c.entries, blockNumber)
			removed++
		}
	}
	return removed
}

// Len reports how many block numbers currently have pending signatures.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
