// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gossip implements the two checkpoint wire envelopes and the
// P2P-to-collector routing glue (spec.md §5 "Concurrency model" data flow:
// "signs if so, broadcasts the signature"). It defines its own minimal
// Sender seam rather than depending on an external P2P client's exact
// method set (see DESIGN.md for why).
package gossip

import (
	"context"

	"github.com/luxfi/ids"
)

// MessageKind tags which checkpoint envelope a wire message carries.
type MessageKind byte

const (
	KindSignature   MessageKind = 0
	KindCertificate MessageKind = 1
)

// Envelope is the outermost wire wrapper: one byte kind tag followed by a
// compactly-encoded payload specific to that kind (spec.md §6 "P2P message
// envelopes"), no length framing beyond what the payload codec itself
// needs.
type Envelope struct {
	Kind    MessageKind
	Payload []byte
}

// encode prepends the one-byte kind tag to payload.
func (e Envelope) encode() []byte {
	buf := make([]byte, 0, 1+len(e.Payload))
	buf = append(buf, byte(e.Kind))
	buf = append(buf, e.Payload...)
	return buf
}

// decodeEnvelope splits raw into its kind tag and payload.
func decodeEnvelope(raw []byte) (Envelope, bool) {
	if len(raw) < 1 {
		return Envelope{}, false
	}
	return Envelope{Kind: MessageKind(raw[0]), Payload: raw[1:]}, true
}

// Sender is the narrow outbound seam this package needs from the node's
// networking layer: broadcast an application-level payload to a set of
// peers (spec.md §5; grounded on the teacher's networking/sender.Sender
// and engine/enginetest Sender's SendAppGossip shape, using only the
// verified github.com/luxfi/ids types).
type Sender interface {
	SendAppGossip(ctx context.Context, recipients []ids.NodeID, payload []byte) error
}
