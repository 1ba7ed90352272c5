// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/etrid/asf/authority"
	"github.com/etrid/asf/runtime"
	"github.com/etrid/asf/sign"
)

// genesisValidator is the on-disk JSON shape of one genesis entry.
type genesisValidator struct {
	Pubkey     string `json:"pubkey"`
	Stake      uint64 `json:"stake"`
	PeerType   uint8  `json:"peer_type"`
	Reputation uint32 `json:"reputation"`
}

// loadGenesis reads a genesis validator list from path. An empty path
// yields a single-validator dev genesis seeded with selfPub so a node can
// come up standalone without an external genesis file.
func loadGenesis(path string, selfPub authority.PublicKey) ([]runtime.ValidatorInfo, error) {
	if path == "" {
		return []runtime.ValidatorInfo{{
			Pubkey:     selfPub,
			Stake:      64_000_000_000,
			PeerType:   authority.Common,
			Reputation: 100,
		}}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis file: %w", err)
	}
	var entries []genesisValidator
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode genesis file: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("genesis file %q lists no validators", path)
	}

	out := make([]runtime.ValidatorInfo, 0, len(entries))
	for _, e := range entries {
		raw, err := hex.DecodeString(e.Pubkey)
		if err != nil || len(raw) != len(authority.PublicKey{}) {
			return nil, fmt.Errorf("genesis entry %q: invalid pubkey", e.Pubkey)
		}
		var pk authority.PublicKey
		copy(pk[:], raw)
		out = append(out, runtime.ValidatorInfo{
			Pubkey:     pk,
			Stake:      e.Stake,
			PeerType:   authority.PeerType(e.PeerType),
			Reputation: e.Reputation,
		})
	}
	return out, nil
}

// loadOrCreateKey reads an Ed25519 private key from path, hex-encoded, or
// generates and persists a fresh one if the file does not exist yet
// (spec.md makes no demand on key provisioning; this is node bootstrap
// convenience, grounded on the teacher cmd tools' "generate if absent"
// style).
func loadOrCreateKey(path string) (ed25519.PublicKey, ed25519.PrivateKey, error) {
	if raw, err := os.ReadFile(path); err == nil {
		decoded, err := hex.DecodeString(string(raw))
		if err != nil || len(decoded) != ed25519.PrivateKeySize {
			return nil, nil, fmt.Errorf("key file %q is corrupt", path)
		}
		priv := ed25519.PrivateKey(decoded)
		return priv.Public().(ed25519.PublicKey), priv, nil
	}

	pub, priv, err := sign.GenerateKey()
	if err != nil {
		return nil, nil, fmt.Errorf("generate validator key: %w", err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(priv)), 0o600); err != nil {
		return nil, nil, fmt.Errorf("persist validator key: %w", err)
	}
	return pub, priv, nil
}
