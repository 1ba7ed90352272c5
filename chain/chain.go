// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chain is the node-local header store: it tracks imported block
// headers by hash and parent linkage and satisfies the narrow ChainReader
// and FinalityHook seams checkpoint and produce need (spec.md §4.4.5,
// §4.3). It does not execute block bodies (spec.md §8 Non-goals:
// "block-body execution"); it only tracks the header graph consensus
// reasons over.
package chain

import (
	"sync"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/etrid/asf/produce"
)

// Store holds imported block headers and the current longest-chain tip
// (spec.md §6 "Fork choice": longest chain by block number).
type Store struct {
	mu sync.RWMutex

	headers  map[ids.ID]produce.Header
	bestNum  uint32
	bestHash ids.ID

	log log.Logger
}

// NewStore returns a Store seeded with a genesis header at number 0.
func NewStore(genesisHash ids.ID, logger log.Logger) *Store {
	genesis := produce.Header{Number: 0, Hash: genesisHash}
	return &Store{
		headers:  map[ids.ID]produce.Header{genesisHash: genesis},
		bestHash: genesisHash,
		log:      logger,
	}
}

// BestBlock implements checkpoint.ChainReader.
func (s *Store) BestBlock() (uint32, ids.ID) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bestNum, s.bestHash
}

// ParentOf implements checkpoint.ChainReader.
func (s *Store) ParentOf(hash ids.ID) (ids.ID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.headers[hash]
	if !ok {
		return ids.ID{}, false
	}
	return h.ParentHash, true
}

// HeaderByHash returns the stored header for hash, if known.
func (s *Store) HeaderByHash(hash ids.ID) (produce.Header, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.headers[hash]
	return h, ok
}

// Import implements produce.Importer: it records h and advances the tip to
// h whenever h's number exceeds the current best number, whichever branch h
// is on. A block at or below the best number is stored but does not move
// the tip (spec.md §6 "Fork choice").
func (s *Store) Import(h produce.Header, origin string, _ produce.ForkChoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.headers[h.Hash] = h
	if h.Number > s.bestNum {
		s.bestNum = h.Number
		s.bestHash = h.Hash
	}
	if s.log != nil {
		s.log.Debug("block imported", "number", h.Number, "origin", origin)
	}
	return nil
}

// Finalize implements checkpoint.FinalityHook. Finalization in this
// surface is an observability/pruning signal only (spec.md §9 "Finality
// observability (supplement)"); there is no separate execution state to
// commit since block-body execution is out of scope (spec.md §8
// Non-goals).
func (s *Store) Finalize(blockNumber uint32, blockHash ids.ID) {
	if s.log != nil {
		s.log.Info("block finalized", "number", blockNumber, "hash", blockHash)
	}
}
