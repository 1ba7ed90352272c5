// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/etrid/asf/api"
	"github.com/etrid/asf/health"
)

// httpSender is the minimal gossip.Sender this node uses to broadcast
// checkpoint signatures and certificates. Peer-to-peer transport internals
// are explicitly out of scope (spec.md §8 Non-goals); this exists only so
// gossip.Sender has a real implementation to exercise end to end, and
// broadcasts to every configured peer rather than addressing individual
// recipients.
type httpSender struct {
	client *http.Client
	peers  []string
	log    log.Logger
}

func newHTTPSender(peers []string, logger log.Logger) *httpSender {
	return &httpSender{
		client: &http.Client{Timeout: 5 * time.Second},
		peers:  peers,
		log:    logger,
	}
}

// SendAppGossip implements gossip.Sender. recipients is unused: this
// transport has no per-peer addressing scheme, so it floods every
// configured peer and lets the remote router drop what it cannot use.
func (s *httpSender) SendAppGossip(ctx context.Context, _ []ids.NodeID, payload []byte) error {
	for _, peer := range s.peers {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, peer+"/gossip", bytes.NewReader(payload))
		if err != nil {
			continue
		}
		resp, err := s.client.Do(req)
		if err != nil {
			if s.log != nil {
				s.log.Warn("gossip send failed", "peer", peer, "error", err)
			}
			continue
		}
		resp.Body.Close()
	}
	return nil
}

// inboundMsg is one envelope delivered to this node's HTTP gossip endpoint.
type inboundMsg struct {
	raw  []byte
	peer string
}

// serveHTTP runs the node's gossip-ingestion, health, and metrics endpoints
// until ctx is cancelled.
func serveHTTP(ctx context.Context, addr string, inbound chan<- inboundMsg, aggregator *health.Aggregator, logger log.Logger) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/gossip", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, err)
			return
		}
		select {
		case inbound <- inboundMsg{raw: body, peer: r.RemoteAddr}:
			w.WriteHeader(http.StatusAccepted)
		default:
			// Inbound queue is full: drop rather than block the HTTP
			// handler (spec.md §5 "Propagation policy").
			if logger != nil {
				logger.Warn("inbound gossip queue full, dropping message", "peer", r.RemoteAddr)
			}
			w.WriteHeader(http.StatusTooManyRequests)
		}
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		report := aggregator.RunAll(r.Context())
		status := http.StatusOK
		if !report.Healthy {
			status = http.StatusServiceUnavailable
		}
		_ = api.WriteJSON(w, status, report)
	})

	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
