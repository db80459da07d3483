package execution

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	emtp "sparsempt/execution/mpt"
	"sparsempt/mpt"
)

// StorageReader reads and verifies Ethereum smart contract storage
// values: every value it returns has been checked against its
// accompanying Merkle proof, never taken on the RPC endpoint's word.
type StorageReader struct {
	c     *Client
	cache *NodeCache
}

// NewStorageReader creates a new StorageReader using the specified
// client.
func NewStorageReader(client *Client) *StorageReader {
	return &StorageReader{c: client}
}

// WithNodeCache attaches cache to the reader: every proof node that
// passes verification is persisted into it, for reuse by a later run
// against accounts sharing ancestor nodes. Returns r for chaining.
func (r *StorageReader) WithNodeCache(cache *NodeCache) *StorageReader {
	r.cache = cache
	return r
}

// Close shuts down the client connection.
func (r *StorageReader) Close() error {
	return r.c.Close()
}

// ReadSlot retrieves and verifies the value stored at the specified
// storage slot for the specified Ethereum account at the specified
// block. stateRoot must be the state root of the block identified by
// blockHash; the caller is expected to have already resolved it (e.g.
// via Client.GetBlockHeader), since eth_getProof's response does not
// itself carry it.
func (r *StorageReader) ReadSlot(ctx context.Context, account common.Address, slot, blockHash, stateRoot common.Hash) ([]byte, error) {
	proof, err := r.c.GetProof(ctx, account, []common.Hash{slot}, blockHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get proof: %w", err)
	}

	acc, err := emtp.VerifyAccountProof(stateRoot, account, proof.AccountProof)
	if err != nil {
		return nil, fmt.Errorf("failed to verify account: %w", err)
	}
	if acc == nil {
		return nil, fmt.Errorf("account %s does not exist at block %s", account, blockHash)
	}
	r.cacheProof(proof.AccountProof)

	if len(proof.StorageProof) == 0 {
		return nil, fmt.Errorf("missing storage proof for slot")
	}

	slotKey := common.Hash(mpt.Keccak256(proof.StorageProof[0].Key[:]))
	val, err := emtp.VerifyStorageProof(acc.StorageRoot, slotKey, proof.StorageProof[0].Proof)
	if err != nil {
		return nil, fmt.Errorf("failed to verify storage: %w", err)
	}
	r.cacheProof(proof.StorageProof[0].Proof)
	return val, nil
}

// cacheProof persists proof into the reader's node cache, if one is
// attached. A cache write failure is non-fatal: the proof has already
// verified, so the read itself still succeeds even if it can't be
// remembered for next time.
func (r *StorageReader) cacheProof(proof [][]byte) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Store(proof)
}

// SlotRequest names a single (account, slot) pair to read at a shared
// block.
type SlotRequest struct {
	Account common.Address
	Slot    common.Hash
}

// SlotResult is the outcome of reading one SlotRequest.
type SlotResult struct {
	Request SlotRequest
	Value   []byte
	Err     error
}

// ReadSlots reads and verifies multiple storage slots, potentially
// spanning different accounts, concurrently against the same block.
// Every request gets its own RPC round trip and its own verification,
// so a single bad proof only fails its own entry.
func (r *StorageReader) ReadSlots(ctx context.Context, blockHash, stateRoot common.Hash, requests []SlotRequest) []SlotResult {
	results := make([]SlotResult, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			val, err := r.ReadSlot(gctx, req.Account, req.Slot, blockHash, stateRoot)
			results[i] = SlotResult{Request: req, Value: val, Err: err}
			return nil
		})
	}
	// g.Wait's error is always nil here: each goroutine records its
	// own failure in its SlotResult instead of aborting its siblings,
	// so one bad proof doesn't discard the rest.
	_ = g.Wait()

	return results
}
