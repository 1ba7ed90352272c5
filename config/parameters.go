// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config holds the tunable parameters of the ASF consensus core:
// slot timing, committee sizing, checkpoint cadence, and quorum thresholds.
package config

import "time"

// Parameters is the full set of tunables read by every ASF component. It is
// the Go-native analogue of spec.md §6's configuration table.
type Parameters struct {
	// SlotDurationMS is the base block interval in milliseconds.
	SlotDurationMS uint64
	// MaxCommitteeSize bounds the active PPFA committee.
	MaxCommitteeSize int
	// MinCommitteeSize is the BFT floor below which rotation fails.
	MinCommitteeSize int
	// EpochDurationBlocks is the length of one epoch.
	EpochDurationBlocks uint64
	// GuaranteedCheckpointInterval is K: every K-th block is a checkpoint.
	GuaranteedCheckpointInterval uint64
	// QuorumThreshold is the number of signatures needed for a certificate.
	QuorumThreshold int
	// TotalValidators is the authority-set size quorum is computed against.
	TotalValidators int
	// MinValidatorStake is the stake floor for validator admission.
	MinValidatorStake uint64
	// MinReputation filters committee selection candidates (0-100).
	MinReputation uint32
	// ImplicitFinalityLagBlocks forces finality this many blocks behind best.
	ImplicitFinalityLagBlocks uint64
	// SignatureRetentionBlocks is the GC window for pending signatures.
	SignatureRetentionBlocks uint64
	// OpportunityCheckpointProbability is the VRF threshold (0,1] below
	// which an evaluated block becomes an opportunity checkpoint.
	OpportunityCheckpointProbability float64
	// AuthoringTimeout bounds how long block assembly may take.
	AuthoringTimeout time.Duration
	// EnableBLSCommitment gates the optional BLS aggregate-commitment
	// field in the PPFA seal (see SPEC_FULL.md Open Question 4). Always
	// false in this build: no aggregate-commitment encoder is wired yet,
	// see DESIGN.md.
	EnableBLSCommitment bool
	// EclipseSourceFloor is the minimum count of unique inbound signature
	// sources a checkpoint must see before the eclipse detector stops
	// counting it toward a flag (spec.md §4.4.9 "Eclipse detector").
	EclipseSourceFloor int
	// EclipseConsecutiveThreshold is how many back-to-back under-floor
	// checkpoints trip the eclipse flag.
	EclipseConsecutiveThreshold int
	// RateLimitPerPeerWindow is how many inbound signatures a single peer
	// may submit per RateLimitWindow before excess is dropped
	// (spec.md §4.4.9 "Rate limiter").
	RateLimitPerPeerWindow int
	// RateLimitWindow is the rate limiter's sliding window.
	RateLimitWindow time.Duration
}

// Mainnet returns the production ASF parameter set (21-validator relay
// chain, 6s slots, checkpoint every 32 blocks, 15/21 quorum).
func Mainnet() Parameters {
	return Parameters{
		SlotDurationMS:                   6000,
		MaxCommitteeSize:                 21,
		MinCommitteeSize:                 4,
		EpochDurationBlocks:              2400,
		GuaranteedCheckpointInterval:     32,
		QuorumThreshold:                  15,
		TotalValidators:                  21,
		MinValidatorStake:                64_000_000_000,
		MinReputation:                    50,
		ImplicitFinalityLagBlocks:        100,
		SignatureRetentionBlocks:         100,
		OpportunityCheckpointProbability: 0.05,
		AuthoringTimeout:                 5 * time.Second,
		EnableBLSCommitment:              false,
		EclipseSourceFloor:               4,
		EclipseConsecutiveThreshold:      3,
		RateLimitPerPeerWindow:           8,
		RateLimitWindow:                  10 * time.Second,
	}
}

// Testnet relaxes quorum and committee size for small deployments while
// keeping mainnet timing.
func Testnet() Parameters {
	p := Mainnet()
	p.MaxCommitteeSize = 7
	p.MinCommitteeSize = 4
	p.QuorumThreshold = 5
	p.TotalValidators = 7
	p.EpochDurationBlocks = 200
	return p
}

// Local is a fast-iteration single-box preset.
func Local() Parameters {
	p := Mainnet()
	p.SlotDurationMS = 1000
	p.MaxCommitteeSize = 4
	p.MinCommitteeSize = 4
	p.QuorumThreshold = 3
	p.TotalValidators = 4
	p.EpochDurationBlocks = 50
	p.GuaranteedCheckpointInterval = 8
	p.AuthoringTimeout = time.Second
	return p
}

// SlotDuration returns SlotDurationMS as a time.Duration.
func (p Parameters) SlotDuration() time.Duration {
	return time.Duration(p.SlotDurationMS) * time.Millisecond
}
