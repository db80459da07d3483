// Package execution provides a thin Ethereum JSON-RPC client and a
// verifying reader built on top of it: the reader treats whatever the
// RPC endpoint returns as untrusted and re-derives account/storage
// values from the accompanying Merkle proofs via mpt/verify.
package execution

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
)

// StorageProofEntry is one entry of an eth_getProof response's
// storageProof array: a key, its claimed value, and the proof nodes
// attesting to it.
type StorageProofEntry struct {
	Key   common.Hash `json:"key"`
	Value []byte      `json:"value"`
	Proof [][]byte    `json:"proof"`
}

// Proof is the parsed result of an eth_getProof call.
type Proof struct {
	Address      common.Address       `json:"address"`
	Balance      *big.Int             `json:"balance"`
	Nonce        *big.Int             `json:"nonce"`
	CodeHash     common.Hash          `json:"codeHash"`
	StorageRoot  common.Hash          `json:"storageRoot"`
	AccountProof [][]byte             `json:"accountProof"`
	StorageProof []*StorageProofEntry `json:"storageProof"`
}

// Client is a minimal wrapper around the Ethereum JSON-RPC API,
// exposing only the calls the oracle collaborator needs.
type Client struct {
	c *rpc.Client
}

// NewClient connects to an Ethereum RPC provider at the specified URL.
func NewClient(ctx context.Context, url string) (*Client, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	return &Client{c: c}, nil
}

// Close shuts down the RPC client connection.
func (ec *Client) Close() error {
	ec.c.Close()
	return nil
}

// Header is the subset of a block header the oracle needs: enough to
// resolve a block reference to the state root that eth_getProof's
// response must be checked against.
type Header struct {
	Hash      common.Hash `json:"hash"`
	Number    *big.Int    `json:"number"`
	StateRoot common.Hash `json:"stateRoot"`
}

// GetBlockHeader resolves a block tag ("latest", "0x<hex number>", or
// a block hash) to its header.
func (ec *Client) GetBlockHeader(ctx context.Context, block string) (*Header, error) {
	type rpcHeader struct {
		Hash      string `json:"hash"`
		Number    string `json:"number"`
		StateRoot string `json:"stateRoot"`
	}

	var resp rpcHeader
	err := ec.c.CallContext(ctx, &resp, "eth_getBlockByHash", block, false)
	if err != nil || resp.Hash == "" {
		// block may have been given as a tag or a number rather than a
		// hash; eth_getBlockByNumber accepts both.
		err = ec.c.CallContext(ctx, &resp, "eth_getBlockByNumber", block, false)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch block header: %w", err)
	}
	if resp.Hash == "" {
		return nil, fmt.Errorf("block %q not found", block)
	}

	number := new(big.Int)
	number.SetString(strings.TrimPrefix(resp.Number, "0x"), 16)

	return &Header{
		Hash:      common.HexToHash(resp.Hash),
		Number:    number,
		StateRoot: common.HexToHash(resp.StateRoot),
	}, nil
}

// GetProof returns a Merkle proof for the given account and storage
// slots at the given block hash.
func (ec *Client) GetProof(ctx context.Context, account common.Address, slots []common.Hash, blockHash common.Hash) (*Proof, error) {
	type rpcStorageProofEntry struct {
		Key   string   `json:"key"`
		Value string   `json:"value"`
		Proof []string `json:"proof"`
	}
	type rpcProof struct {
		Address      string                  `json:"address"`
		Balance      string                  `json:"balance"`
		Code         string                  `json:"codeHash"`
		Nonce        string                  `json:"nonce"`
		StorageHash  string                  `json:"storageHash"`
		AccountProof []string                `json:"accountProof"`
		StorageProof []*rpcStorageProofEntry `json:"storageProof"`
	}

	slotHex := make([]string, len(slots))
	for i, s := range slots {
		slotHex[i] = s.Hex()
	}

	var resp rpcProof
	err := ec.c.CallContext(ctx, &resp, "eth_getProof", account.Hex(), slotHex, blockHash.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch proof: %w", err)
	}

	storageRoot := common.HexToHash(resp.StorageHash)
	address := common.HexToAddress(resp.Address)
	codeHash := common.HexToHash(resp.Code)

	balance := new(big.Int)
	balance.SetString(strings.TrimPrefix(resp.Balance, "0x"), 16)

	nonce := new(big.Int)
	nonce.SetString(strings.TrimPrefix(resp.Nonce, "0x"), 16)

	accountProof, err := toProofNodes(resp.AccountProof)
	if err != nil {
		return nil, err
	}

	storageProof := make([]*StorageProofEntry, len(resp.StorageProof))
	for i, entry := range resp.StorageProof {
		key := common.HexToHash(entry.Key)
		val, err := hex.DecodeString(strings.TrimPrefix(entry.Value, "0x"))
		if err != nil {
			return nil, fmt.Errorf("failed to decode value: %w", err)
		}
		proof, err := toProofNodes(entry.Proof)
		if err != nil {
			return nil, err
		}
		storageProof[i] = &StorageProofEntry{
			Key:   key,
			Value: val,
			Proof: proof,
		}
	}

	return &Proof{
		Address:      address,
		Balance:      balance,
		Nonce:        nonce,
		CodeHash:     codeHash,
		StorageRoot:  storageRoot,
		AccountProof: accountProof,
		StorageProof: storageProof,
	}, nil
}

// toProofNodes decodes a slice of hex-encoded RLP proof nodes.
func toProofNodes(nodes []string) ([][]byte, error) {
	proofNodes := make([][]byte, len(nodes))
	for idx, node := range nodes {
		bytez, err := hex.DecodeString(strings.TrimPrefix(node, "0x"))
		if err != nil {
			return nil, fmt.Errorf("failed to decode node at index %d: %w", idx, err)
		}
		proofNodes[idx] = bytez
	}
	return proofNodes, nil
}
