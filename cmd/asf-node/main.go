// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/etrid/asf/checkpoint"
	"github.com/etrid/asf/config"
)

func main() {
	network := flag.String("network", "local", "Network preset: mainnet, testnet, or local")
	dataDir := flag.String("data-dir", "./data", "Directory for the validator key")
	genesisPath := flag.String("genesis", "", "Path to a genesis validator list JSON file (dev single-validator genesis if unset)")
	listenAddr := flag.String("listen", ":8745", "HTTP address for gossip ingestion, health, and metrics")
	peers := flag.String("peers", "", "Comma-separated list of peer base URLs to gossip to")
	flag.Parse()

	params, err := presetFor(*network)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := params.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid parameters for network %q: %v\n", *network, err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create data dir: %v\n", err)
		os.Exit(1)
	}

	var chainIDBytes [32]byte
	copy(chainIDBytes[:], sha256Sum([]byte("asf-"+*network)))

	settings := Settings{
		Params:      params,
		ChainID:     checkpoint.ChainID(chainIDBytes),
		KeyPath:     *dataDir + "/validator.key",
		GenesisPath: *genesisPath,
		ListenAddr:  *listenAddr,
		Peers:       splitNonEmpty(*peers),
	}

	node, err := NewNode(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "construct node: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := node.Run(ctx, *listenAddr); err != nil {
		fmt.Fprintf(os.Stderr, "node exited with error: %v\n", err)
		os.Exit(1)
	}
}

func presetFor(network string) (config.Parameters, error) {
	switch network {
	case "mainnet":
		return config.Mainnet(), nil
	case "testnet":
		return config.Testnet(), nil
	case "local":
		return config.Local(), nil
	default:
		return config.Parameters{}, fmt.Errorf("unknown network preset %q", network)
	}
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
