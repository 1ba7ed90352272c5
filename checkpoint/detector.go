// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package checkpoint

import (
	"crypto/ed25519"

	"github.com/etrid/asf/codec"
	"github.com/etrid/asf/vrf"
)

// Detection is the outcome of evaluating a block for checkpoint status.
type Detection struct {
	IsCheckpoint bool
	Type         Type
}

// Detect decides whether blockNumber is a checkpoint candidate: Guaranteed
// when it falls on the checkpoint interval, otherwise Opportunity when the
// VRF evaluation over (blockNumber, parentHash, epoch, epochRandomness)
// falls below probability (spec.md §4.4 "Guaranteed checkpoint" /
// "Opportunity checkpoint"). A failed VRF check below the Guaranteed case
// yields IsCheckpoint=false; opportunity checkpoints whose VRF does not
// clear the threshold are silently dropped, never retried for the same
// block (spec.md §9 Open Questions, decided in DESIGN.md).
func Detect(
	priv ed25519.PrivateKey,
	blockNumber uint64,
	parentHash [32]byte,
	epoch uint64,
	epochRandomness [32]byte,
	checkpointInterval uint64,
	opportunityProbability float64,
) Detection {
	if blockNumber > 0 && checkpointInterval > 0 && blockNumber%checkpointInterval == 0 {
		return Detection{IsCheckpoint: true, Type: Guaranteed()}
	}

	in := vrf.Input{
		BlockNumber:     blockNumber,
		ParentHash:      parentHash,
		Epoch:           epoch,
		EpochRandomness: epochRandomness,
	}
	out := vrf.Evaluate(priv, in)
	if !vrf.BelowThreshold(out, opportunityProbability) {
		return Detection{IsCheckpoint: false}
	}
	return Detection{IsCheckpoint: true, Type: Opportunity(out.Value, out.Proof)}
}

// VerifyOpportunity re-derives an Opportunity checkpoint_type's VRF proof
// against pub and the same evaluation input, and confirms it still clears
// probability. Used by signature verification on the receiving side.
func VerifyOpportunity(
	pub ed25519.PublicKey,
	blockNumber uint64,
	parentHash [32]byte,
	epoch uint64,
	epochRandomness [32]byte,
	t Type,
	probability float64,
) bool {
	if t.Tag != codec.CheckpointOpportunity {
		return false
	}
	in := vrf.Input{
		BlockNumber:     blockNumber,
		ParentHash:      parentHash,
		Epoch:           epoch,
		EpochRandomness: epochRandomness,
	}
	out := vrf.Output{Value: t.VRFOutput, Proof: t.VRFProof}
	if !vrf.Verify(pub, in, out) {
		return false
	}
	return vrf.BelowThreshold(out, probability)
}
