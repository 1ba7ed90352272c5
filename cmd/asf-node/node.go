// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Command asf-node wires the ASF consensus core into a standalone process:
// the Authority Set Registry, Committee Manager, Block Production Engine,
// Checkpoint Finality Engine, and the cross-cutting Byzantine/eclipse/
// rate-limit/health components, supervised as the independent concurrent
// tasks described in spec.md §5.
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/luxfi/database"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/etrid/asf/authority"
	"github.com/etrid/asf/byzantine"
	"github.com/etrid/asf/chain"
	"github.com/etrid/asf/checkpoint"
	"github.com/etrid/asf/codec"
	"github.com/etrid/asf/committee"
	"github.com/etrid/asf/config"
	"github.com/etrid/asf/eclipse"
	"github.com/etrid/asf/gossip"
	"github.com/etrid/asf/health"
	"github.com/etrid/asf/internal/wrappers"
	"github.com/etrid/asf/metrics"
	"github.com/etrid/asf/produce"
	"github.com/etrid/asf/ratelimit"
	"github.com/etrid/asf/runtime"
)

var ppfaEngineID = [4]byte{'P', 'P', 'F', 'A'}

var (
	// errRateLimited is returned when a peer has exceeded its inbound
	// signature quota for the current window (spec.md §5 "Propagation
	// policy").
	errRateLimited = errors.New("asf-node: peer rate limit exceeded")
	// errInvalidVRFProof is returned when an opportunity checkpoint's VRF
	// proof does not re-verify against the recomputed evaluation input.
	errInvalidVRFProof = errors.New("asf-node: opportunity checkpoint VRF proof invalid")
)

// Settings bundles the node's bootstrap inputs: the selected consensus
// parameters and chain id, plus where to find keys, genesis, and peers.
type Settings struct {
	Params     config.Parameters
	ChainID    checkpoint.ChainID
	KeyPath    string
	GenesisPath string
	ListenAddr string
	Peers      []string
	DBPath     string
}

// Node bundles every ASF component for one running validator process.
type Node struct {
	cfg     config.Parameters
	chainID checkpoint.ChainID
	log     log.Logger

	priv ed25519.PrivateKey
	pub  authority.PublicKey

	registry   *authority.Registry
	runtime    *runtime.Store
	committee  *committee.Manager
	chainStore *chain.Store

	nonces    *checkpoint.NonceTable
	signer    *checkpoint.Signer
	collector *checkpoint.Collector
	finalizer *checkpoint.Finalizer
	engine    *checkpoint.Engine

	tracker  *byzantine.Tracker
	eclipseD *eclipse.Detector
	limiter  *ratelimit.Limiter

	slotHealth *health.Monitor
	readiness  *health.Aggregator

	router *gossip.Router
	sender gossip.Sender

	producer *produce.Producer

	m *metrics.ASF

	imported chan produce.Header
	outbound chan []byte
	inbound  chan inboundMsg

	lastRotatedAt uint32
}

// NewNode builds and wires every component from settings, but starts
// nothing: Run launches the supervised tasks.
func NewNode(settings Settings) (*Node, error) {
	logger := log.NewLogger("asf-node")

	pub, priv, err := loadOrCreateKey(settings.KeyPath)
	if err != nil {
		return nil, err
	}
	var pk authority.PublicKey
	copy(pk[:], pub)

	genesisValidators, err := loadGenesis(settings.GenesisPath, pk)
	if err != nil {
		return nil, err
	}

	var db database.Database = memdb.New()
	runtimeStore := runtime.NewStore(db, genesisValidators, settings.Params.MaxCommitteeSize, settings.Params.EpochDurationBlocks, settings.Params.MinValidatorStake)
	if err := runtimeStore.LoadFromDB(); err != nil {
		return nil, fmt.Errorf("restore runtime state: %w", err)
	}

	authorityMembers := make([]authority.Validator, 0, len(genesisValidators))
	validatorIDs := make(map[authority.PublicKey]uint32, len(genesisValidators))
	validatorID := uint32(0)
	for i, v := range genesisValidators {
		if v.Pubkey == pk {
			validatorID = uint32(i)
		}
		validatorIDs[v.Pubkey] = uint32(i)
		authorityMembers = append(authorityMembers, authority.Validator{
			PublicKey:  v.Pubkey,
			Stake:      v.Stake,
			PeerType:   v.PeerType,
			Reputation: v.Reputation,
		})
	}
	registry, err := authority.NewRegistry(0, authorityMembers)
	if err != nil {
		return nil, fmt.Errorf("build authority registry: %w", err)
	}

	committeeMgr := committee.NewManager(registry.Current(), settings.Params.MaxCommitteeSize, settings.Params.MinReputation, settings.Params.MinCommitteeSize, runtimeStore)

	var genesisHash ids.ID
	copy(genesisHash[:], sha256Sum(settings.ChainID[:]))
	chainStore := chain.NewStore(genesisHash, logger)

	nonces := checkpoint.NewNonceTable()
	signer := checkpoint.NewSigner(settings.ChainID, validatorID, pk, priv, nonces)
	collector := checkpoint.NewCollector(settings.Params.QuorumThreshold, logger)
	finalizer := checkpoint.NewFinalizer(chainStore, chainStore, uint32(settings.Params.ImplicitFinalityLagBlocks), logger)
	engine := &checkpoint.Engine{Registry: registry, Nonces: nonces, Collector: collector}

	tracker := byzantine.NewTracker()
	collector.OnEquivocation(func(ev checkpoint.EquivocationEvidence) {
		tracker.RecordDoubleSign(ev.ValidatorID)
	})
	collector.OnExpiry(func(blockNumber uint32, signedValidatorIDs []uint32) {
		signed := make(map[uint32]struct{}, len(signedValidatorIDs))
		for _, id := range signedValidatorIDs {
			signed[id] = struct{}{}
		}
		for _, member := range committeeMgr.Current().Members {
			id, ok := validatorIDs[member.Validator.PublicKey]
			if !ok {
				continue
			}
			if _, did := signed[id]; !did {
				tracker.RecordMissedCheckpoint(id)
			}
		}
	})

	m := metrics.NewASF(prometheus.DefaultRegisterer)

	node := &Node{
		cfg:        settings.Params,
		chainID:    settings.ChainID,
		log:        logger,
		priv:       priv,
		pub:        pk,
		registry:   registry,
		runtime:    runtimeStore,
		committee:  committeeMgr,
		chainStore: chainStore,
		nonces:     nonces,
		signer:     signer,
		collector:  collector,
		finalizer:  finalizer,
		engine:     engine,
		tracker:    tracker,
		eclipseD:   eclipse.NewDetector(settings.Params.EclipseSourceFloor),
		limiter:    ratelimit.NewLimiter(settings.Params.RateLimitPerPeerWindow, settings.Params.RateLimitWindow),
		slotHealth: health.NewMonitor(256),
		readiness:  health.NewAggregator(),
		sender:     newHTTPSender(settings.Peers, logger),
		m:          m,
		imported:   make(chan produce.Header, 64),
		outbound:   make(chan []byte, 64),
		inbound:    make(chan inboundMsg, 256),
	}

	node.router = gossip.NewRouter(&signatureHandler{node: node}, &certificateHandler{node: node}, logger)

	node.producer = &produce.Producer{
		Timer:            produce.NewSlotTimer(settings.Params.SlotDuration()),
		Committee:        committeeMgr,
		Assembler:        chainStore,
		Importer:         &nodeImporter{node: node},
		Runtime:          runtimeStore,
		Pubkey:           pk,
		EpochBlocks:      settings.Params.EpochDurationBlocks,
		AuthoringTimeout: settings.Params.AuthoringTimeout,
		Log:              logger,
	}

	node.readiness.Register("authority", checkerFunc(func(context.Context) (interface{}, error) {
		return registry.Current().SetID, nil
	}))
	node.readiness.Register("chain", checkerFunc(func(context.Context) (interface{}, error) {
		number, _ := chainStore.BestBlock()
		return number, nil
	}))

	return node, nil
}

// checkerFunc adapts a plain function to health.Checker.
type checkerFunc func(context.Context) (interface{}, error)

func (f checkerFunc) HealthCheck(ctx context.Context) (interface{}, error) { return f(ctx) }

// Run launches the six supervised tasks of spec.md §5 and blocks until ctx
// is cancelled or one of them returns a fatal error. The errgroup reports
// only the first task error; that error is returned through
// internal/wrappers.Errs.
func (n *Node) Run(ctx context.Context, listenAddr string) error {
	g, ctx := errgroup.WithContext(ctx)
	var errs wrappers.Errs

	g.Go(func() error { return n.runProductionLoop(ctx) })
	g.Go(func() error { return n.runCheckpointDetection(ctx) })
	g.Go(func() error { return n.runBroadcastWorker(ctx) })
	g.Go(func() error { return n.runInboundRouter(ctx) })
	g.Go(func() error { return n.runFinalityMonitor(ctx) })
	g.Go(func() error { return n.runValidatorCoordinator(ctx) })
	g.Go(func() error { return serveHTTP(ctx, listenAddr, n.inbound, n.readiness, n.log) })

	err := g.Wait()
	errs.Add(err)
	return errs.Err()
}

// runProductionLoop is the block-production task (spec.md §4.3).
func (n *Node) runProductionLoop(ctx context.Context) error {
	ticker := time.NewTicker(n.cfg.SlotDuration() / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			n.producer.Timer.SetHealth(n.slotHealth.Score())
			bestNumber, bestHash := n.chainStore.BestBlock()
			n.producer.Tick(now, bestNumber, bestHash)
			n.m.SlotDurationMS.Set(float64(n.producer.Timer.CurrentDuration().Milliseconds()))
		}
	}
}

// runCheckpointDetection consumes imported blocks and runs checkpoint
// detection/signing (spec.md §4.4).
func (n *Node) runCheckpointDetection(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case h := <-n.imported:
			n.detectAndSign(h)
		}
	}
}

func (n *Node) detectAndSign(h produce.Header) {
	if h.Number == 0 {
		// Genesis is never a checkpoint candidate (spec.md §4.4.1:
		// block_number > 0 is part of the guaranteed-checkpoint test).
		return
	}

	epoch := n.committee.Current().Epoch
	randomness := epochRandomness(n.chainID, epoch)

	det := checkpoint.Detect(n.priv, uint64(h.Number), [32]byte(h.ParentHash), epoch, randomness,
		n.cfg.GuaranteedCheckpointInterval, n.cfg.OpportunityCheckpointProbability)
	if !det.IsCheckpoint {
		return
	}
	n.m.CheckpointsDetected.Inc()

	set := n.registry.Current()
	sig := n.signer.Sign(h.Number, h.Hash, set.SetID, set.SetHash, det.Type, uint64(time.Now().UnixMilli()))

	cert, err := n.collector.AddSignature(sig)
	if err != nil {
		n.log.Warn("local checkpoint signature rejected by own collector", "block_number", h.Number, "error", err)
		return
	}
	n.m.SignaturesCollected.Inc()
	if cert != nil {
		n.onCertificateFormed(cert)
	}

	payload, err := gossip.EncodeSignature(sig)
	if err != nil {
		return
	}
	select {
	case n.outbound <- payload:
	default:
		n.log.Warn("outbound gossip queue full, dropping signature broadcast", "block_number", h.Number)
	}
}

// runBroadcastWorker drains outbound gossip payloads (spec.md §5).
func (n *Node) runBroadcastWorker(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case payload := <-n.outbound:
			sendCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			_ = n.sender.SendAppGossip(sendCtx, nil, payload)
			cancel()
		}
	}
}

// runInboundRouter routes delivered P2P envelopes to the collector/
// finalizer (spec.md §5 data flow).
func (n *Node) runInboundRouter(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-n.inbound:
			_ = n.router.Deliver(msg.raw, msg.peer)
		}
	}
}

// runFinalityMonitor runs the implicit-finality liveness fallback and
// signature-map garbage collection (spec.md §4.4.8).
func (n *Node) runFinalityMonitor(ctx context.Context) error {
	ticker := time.NewTicker(n.cfg.SlotDuration())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n.finalizer.MaybeFinalizeImplicit() {
				n.m.ImplicitFinalizations.Inc()
			}
			n.finalizer.ReconsiderRetained()

			best, _ := n.chainStore.BestBlock()
			if uint64(best) > n.cfg.SignatureRetentionBlocks {
				n.collector.CleanupOlderThan(best - uint32(n.cfg.SignatureRetentionBlocks))
			}
		}
	}
}

// runValidatorCoordinator advances the runtime's own epoch counter in step
// with the chain once an epoch boundary is crossed (spec.md §4.5
// "rotate_committee"), then carries that same epoch boundary into the
// Authority Set Registry: set_id advances, the expiry watermark rises, the
// nonce table resets, and pending collector signatures are dropped
// (spec.md §4.4.6 "Authority rotation"). Without this the registry used by
// signing and verification would stay pinned at genesis forever while the
// runtime's own epoch counter moved on.
func (n *Node) runValidatorCoordinator(ctx context.Context) error {
	ticker := time.NewTicker(n.cfg.SlotDuration())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n.cfg.EpochDurationBlocks == 0 {
				continue
			}
			best, _ := n.chainStore.BestBlock()
			if best == 0 || best%uint32(n.cfg.EpochDurationBlocks) != 0 || best == n.lastRotatedAt {
				continue
			}
			event := n.runtime.RotateCommittee()
			n.m.CommitteeRotations.Inc()
			n.lastRotatedAt = best

			validators := n.runtime.GetCommittee()
			members := make([]authority.Validator, 0, len(validators))
			for _, v := range validators {
				members = append(members, authority.Validator{
					PublicKey:  v.Pubkey,
					Stake:      v.Stake,
					PeerType:   v.PeerType,
					Reputation: v.Reputation,
				})
			}
			if err := n.engine.Rotate(event.NewEpoch, members); err != nil {
				n.log.Warn("authority set rotation failed", "epoch", event.NewEpoch, "error", err)
			}
		}
	}
}

func (n *Node) onCertificateFormed(cert *checkpoint.Certificate) {
	n.m.CertificatesFormed.Inc()
	n.slotHealth.Record(true)
	finalized := n.finalizer.SubmitCertificate(cert)
	if !finalized {
		n.log.Info("certificate formed but not yet canonical, retained", "block_number", cert.BlockNumber)
	}

	if sources, underFloor := n.eclipseD.Conclude(cert.BlockNumber); underFloor {
		if n.eclipseD.IsFlagged(n.cfg.EclipseConsecutiveThreshold) {
			n.log.Warn("eclipse detector flagged: sustained low-diversity checkpoint sourcing",
				"block_number", cert.BlockNumber, "unique_sources", sources)
		}
	}

	payload, err := gossip.EncodeCertificate(*cert)
	if err != nil {
		return
	}
	select {
	case n.outbound <- payload:
	default:
		n.log.Warn("outbound gossip queue full, dropping certificate broadcast", "block_number", cert.BlockNumber)
	}
}

// nodeImporter wraps chain.Store.Import with the runtime's on-block PPFA
// digest hook and feeds the checkpoint-detection task (spec.md §4.5
// "On-block hook"; §5 data flow).
type nodeImporter struct {
	node *Node
}

func (im *nodeImporter) Import(h produce.Header, origin string, fc produce.ForkChoice) error {
	if err := im.node.chainStore.Import(h, origin, fc); err != nil {
		im.node.slotHealth.Record(false)
		return err
	}
	if payload, ok := h.FindDigest(ppfaEngineID); ok {
		im.node.runtime.OnBlockImported(uint64(h.Number), payload)
	}
	select {
	case im.node.imported <- h:
	default:
		im.node.log.Warn("imported-block queue full, dropping checkpoint-detection event", "block_number", h.Number)
	}
	return nil
}

// signatureHandler feeds inbound checkpoint signatures into verification,
// the eclipse detector, the rate limiter, and the collector
// (spec.md §5 data flow; §4.4.9 cross-cutting components).
type signatureHandler struct {
	node *Node
}

func (h *signatureHandler) Handle(sig checkpoint.Signature, fromPeer string) error {
	if !h.node.limiter.Allow(fromPeer, time.Now()) {
		return errRateLimited
	}
	h.node.eclipseD.Observe(sig.BlockNumber, fromPeer)

	set := h.node.registry.Current()
	if err := checkpoint.Verify(sig, h.node.chainID, set, h.node.registry, h.node.nonces); err != nil {
		h.node.m.SignaturesRejected.WithLabelValues(err.Error()).Inc()
		return err
	}

	if sig.CheckpointType.Tag == codec.CheckpointOpportunity {
		if parentHash, ok := h.node.chainStore.ParentOf(sig.BlockHash); ok {
			epoch := h.node.committee.Current().Epoch
			randomness := epochRandomness(h.node.chainID, epoch)
			if !checkpoint.VerifyOpportunity(sig.ValidatorPubkey[:], uint64(sig.BlockNumber), [32]byte(parentHash), epoch, randomness, sig.CheckpointType, h.node.cfg.OpportunityCheckpointProbability) {
				return errInvalidVRFProof
			}
		}
	}

	h.node.m.SignaturesCollected.Inc()
	cert, err := h.node.collector.AddSignature(sig)
	if err != nil {
		if err == checkpoint.ErrConflictingBlockHash {
			h.node.m.ByzantineReports.Inc()
		}
		return err
	}
	if cert != nil {
		h.node.onCertificateFormed(cert)
	}
	return nil
}

// certificateHandler accepts inbound certificates for fork-protected
// finalization (spec.md §4.4.5).
type certificateHandler struct {
	node *Node
}

func (h *certificateHandler) Handle(cert checkpoint.Certificate, fromPeer string) error {
	h.node.onCertificateFormed(&cert)
	return nil
}

func epochRandomness(chainID checkpoint.ChainID, epoch uint64) [32]byte {
	h := sha256.New()
	h.Write(chainID[:])
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], epoch)
	h.Write(buf[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func sha256Sum(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}
