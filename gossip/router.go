// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package gossip

import (
	"fmt"

	"github.com/luxfi/log"

	"github.com/etrid/asf/checkpoint"
	"github.com/etrid/asf/codec"
)

// SignatureHandler accepts a verified-on-arrival checkpoint signature and
// feeds it to the local collector.
type SignatureHandler interface {
	Handle(sig checkpoint.Signature, fromPeer string) error
}

// CertificateHandler accepts a received certificate for fork-protected
// finalization.
type CertificateHandler interface {
	Handle(cert checkpoint.Certificate, fromPeer string) error
}

// Router decodes inbound envelopes and dispatches to the appropriate
// handler. Decode/handler errors are local: the offending message is
// dropped and logged, never surfaced to block import (spec.md §5
// "Propagation policy": "Signature-verification errors are local").
type Router struct {
	signatures   SignatureHandler
	certificates CertificateHandler
	log          log.Logger
}

// NewRouter returns a router dispatching to the given handlers.
func NewRouter(signatures SignatureHandler, certificates CertificateHandler, logger log.Logger) *Router {
	return &Router{signatures: signatures, certificates: certificates, log: logger}
}

// Deliver decodes raw as an Envelope and routes it, returning the first
// error encountered. Callers that only care about "was this dropped" can
// ignore the error after logging; Deliver never panics on malformed input.
func (r *Router) Deliver(raw []byte, fromPeer string) error {
	env, ok := decodeEnvelope(raw)
	if !ok {
		err := fmt.Errorf("gossip: envelope too short (%d bytes)", len(raw))
		r.warn("malformed gossip envelope", fromPeer, err)
		return err
	}

	switch env.Kind {
	case KindSignature:
		wire, ok := codec.DecodeSignature(env.Payload)
		if !ok {
			err := fmt.Errorf("gossip: malformed signature payload")
			r.warn("malformed signature payload", fromPeer, err)
			return err
		}
		if err := r.signatures.Handle(signatureFromWire(wire), fromPeer); err != nil {
			r.warn("signature rejected", fromPeer, err)
			return err
		}
		return nil
	case KindCertificate:
		wire, ok := codec.DecodeCertificate(env.Payload)
		if !ok {
			err := fmt.Errorf("gossip: malformed certificate payload")
			r.warn("malformed certificate payload", fromPeer, err)
			return err
		}
		if err := r.certificates.Handle(certificateFromWire(wire), fromPeer); err != nil {
			r.warn("certificate rejected", fromPeer, err)
			return err
		}
		return nil
	default:
		err := fmt.Errorf("gossip: unknown message kind %d", env.Kind)
		r.warn("unknown gossip kind", fromPeer, err)
		return err
	}
}

func (r *Router) warn(msg, fromPeer string, err error) {
	if r.log != nil {
		r.log.Warn(msg, "peer", fromPeer, "error", err)
	}
}

// EncodeSignature compact-encodes a signature and wraps it in its wire
// envelope (spec.md §6 "CheckpointSignature{data}").
func EncodeSignature(sig checkpoint.Signature) ([]byte, error) {
	payload := codec.EncodeSignature(signatureToWire(sig))
	return Envelope{Kind: KindSignature, Payload: payload}.encode(), nil
}

// EncodeCertificate compact-encodes a certificate and wraps it in its wire
// envelope (spec.md §6 "CheckpointCertificate{data}").
func EncodeCertificate(cert checkpoint.Certificate) ([]byte, error) {
	payload := codec.EncodeCertificate(certificateToWire(cert))
	return Envelope{Kind: KindCertificate, Payload: payload}.encode(), nil
}

func signatureToWire(sig checkpoint.Signature) codec.WireSignature {
	return codec.WireSignature{
		ChainID:          sig.ChainID,
		BlockNumber:      sig.BlockNumber,
		BlockHash:        sig.BlockHash,
		ValidatorID:      sig.ValidatorID,
		ValidatorPubkey:  sig.ValidatorPubkey,
		AuthoritySetID:   sig.AuthoritySetID,
		AuthoritySetHash: sig.AuthoritySetHash,
		CheckpointType: codec.CheckpointType{
			Tag:       sig.CheckpointType.Tag,
			VRFOutput: sig.CheckpointType.VRFOutput,
			VRFProof:  sig.CheckpointType.VRFProof,
		},
		SignatureNonce: sig.SignatureNonce,
		Signature:      sig.Signature,
		TimestampMS:    sig.TimestampMS,
	}
}

func signatureFromWire(w codec.WireSignature) checkpoint.Signature {
	return checkpoint.Signature{
		ChainID:          w.ChainID,
		BlockNumber:      w.BlockNumber,
		BlockHash:        w.BlockHash,
		ValidatorID:      w.ValidatorID,
		ValidatorPubkey:  w.ValidatorPubkey,
		AuthoritySetID:   w.AuthoritySetID,
		AuthoritySetHash: w.AuthoritySetHash,
		CheckpointType: checkpoint.Type{
			Tag:       w.CheckpointType.Tag,
			VRFOutput: w.CheckpointType.VRFOutput,
			VRFProof:  w.CheckpointType.VRFProof,
		},
		SignatureNonce: w.SignatureNonce,
		Signature:      w.Signature,
		TimestampMS:    w.TimestampMS,
	}
}

func certificateToWire(cert checkpoint.Certificate) codec.WireCertificate {
	sigs := make([]codec.WireSignature, len(cert.Signatures))
	for i, sig := range cert.Signatures {
		sigs[i] = signatureToWire(sig)
	}
	return codec.WireCertificate{
		BlockNumber:    cert.BlockNumber,
		BlockHash:      cert.BlockHash,
		AuthoritySetID: cert.AuthoritySetID,
		Signatures:     sigs,
	}
}

func certificateFromWire(w codec.WireCertificate) checkpoint.Certificate {
	sigs := make([]checkpoint.Signature, len(w.Signatures))
	for i, sig := range w.Signatures {
		sigs[i] = signatureFromWire(sig)
	}
	return checkpoint.Certificate{
		BlockNumber:    w.BlockNumber,
		BlockHash:      w.BlockHash,
		AuthoritySetID: w.AuthoritySetID,
		Signatures:     sigs,
	}
}
