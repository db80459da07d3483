// Command mptoracle fetches eth_getProof responses from a live
// Ethereum JSON-RPC endpoint for one or more configured accounts (and,
// where configured, a storage slot per account) and verifies them
// against the block's state root before printing the recovered
// values. Nothing it prints is taken on the RPC endpoint's word: every
// account and slot is checked against its Merkle proof first.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"sparsempt/execution"
	emtp "sparsempt/execution/mpt"
	"sparsempt/internal/config"
	"sparsempt/internal/log"
	"sparsempt/storage/badger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to oracle config file")
	block := flag.String("block", "latest", "block tag, number (0x...) or hash to read at")
	cachePath := flag.String("cache", "", "optional path to a badger-backed proof-node cache; persists verified nodes for reuse across runs")

	if v := os.Getenv("CONFIG_PATH"); v != "" {
		flag.Set("config", v)
	}
	if v := os.Getenv("BLOCK"); v != "" {
		flag.Set("block", v)
	}

	flag.Parse()

	logger := log.New(log.NewTerminalHandler()).With("component", "mptoracle")

	loader := config.NewLoader(logger)
	cfg, err := loader.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger.Info("using network", "name", cfg.Network)
	logger.Info("using rpc endpoint")
	logger.Info("targets", "count", len(cfg.Targets))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client, err := execution.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		logger.Error("failed to connect", "err", err)
		os.Exit(1)
	}
	reader := execution.NewStorageReader(client)
	defer reader.Close()

	var cache *execution.NodeCache
	if *cachePath != "" {
		db, err := badger.New(*cachePath)
		if err != nil {
			logger.Error("failed to open proof-node cache", "path", *cachePath, "err", err)
			os.Exit(1)
		}
		cache = execution.NewNodeCache(db)
		defer cache.Close()
		reader.WithNodeCache(cache)
		logger.Info("caching verified proof nodes", "path", *cachePath)
	}

	header, err := client.GetBlockHeader(ctx, *block)
	if err != nil {
		logger.Error("failed to resolve block", "block", *block, "err", err)
		os.Exit(1)
	}
	logger.Info("resolved block", "number", header.Number, "hash", header.Hash.Hex())

	var failed atomic.Bool
	g, gctx := errgroup.WithContext(ctx)
	for _, target := range cfg.Targets {
		target := target
		g.Go(func() error {
			if target.HasSlot {
				val, err := reader.ReadSlot(gctx, target.Addr, target.Slot, header.Hash, header.StateRoot)
				if err != nil {
					logger.Error("storage read failed", "account", target.Addr, "slot", target.Slot, "err", err)
					failed.Store(true)
					return nil
				}
				logger.Info("verified storage value", "account", target.Addr, "slot", target.Slot, "value", fmt.Sprintf("%x", val))
				return nil
			}

			if err := verifyAccountOnly(gctx, client, target.Addr, header, cache); err != nil {
				logger.Error("account read failed", "account", target.Addr, "err", err)
				failed.Store(true)
			}
			return nil
		})
	}
	_ = g.Wait()

	if failed.Load() {
		os.Exit(1)
	}
}

// verifyAccountOnly fetches and verifies a bare account proof (no
// storage slot configured for this target). If cache is non-nil, the
// verified proof's nodes are persisted into it for reuse.
func verifyAccountOnly(ctx context.Context, client *execution.Client, addr common.Address, header *execution.Header, cache *execution.NodeCache) error {
	proof, err := client.GetProof(ctx, addr, nil, header.Hash)
	if err != nil {
		return fmt.Errorf("failed to get proof: %w", err)
	}
	acc, err := emtp.VerifyAccountProof(header.StateRoot, addr, proof.AccountProof)
	if err != nil {
		return fmt.Errorf("failed to verify account: %w", err)
	}
	if acc == nil {
		return fmt.Errorf("account does not exist at block %s", header.Hash)
	}
	if cache != nil {
		_ = cache.Store(proof.AccountProof)
	}
	fmt.Printf("account %s: nonce=%d balance=%s storageRoot=%s\n", addr, acc.Nonce, acc.Balance, acc.StorageRoot)
	return nil
}
