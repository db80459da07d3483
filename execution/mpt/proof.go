package mpt

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"

	"sparsempt/mpt"
	"sparsempt/mpt/verify"
)

// Account represents an Ethereum account as stored in the state
// trie's leaves.
type Account struct {
	Nonce       uint64      `json:"nonce"`
	Balance     *big.Int    `json:"balance"`
	StorageRoot common.Hash `json:"storageRoot"`
	CodeHash    common.Hash `json:"codeHash"`
}

// VerifyAccountProof verifies a Merkle proof for an Ethereum account
// against a given state root.
//
// Only inclusion proofs verify: a proof showing that the account is
// absent from the trie returns an error, like any other proof that
// does not verify. If the proven leaf value is empty, nil is returned
// with no error.
func VerifyAccountProof(stateRoot common.Hash, address common.Address, proofNodes [][]byte) (*Account, error) {
	key := mpt.Keccak256(address[:])
	data, ok := verify.Extract(mpt.Digest(stateRoot), key.Bytes(), proofNodes)
	if !ok {
		return nil, fmt.Errorf("account proof for %s does not verify against state root %s", address, stateRoot)
	}
	if len(data) == 0 {
		// Empty leaf value: no account data to decode.
		return nil, nil
	}

	var account Account
	if err := rlp.DecodeBytes(data, &account); err != nil {
		return nil, fmt.Errorf("failed to decode account: %w", err)
	}
	return &account, nil
}

// VerifyStorageProof verifies a Merkle proof for a given slot key
// against a given storage root. If the storage root is the empty-trie
// root, nil is returned without walking the proof. In a non-empty
// storage trie only inclusion proofs verify: a proof showing that the
// slot is absent returns an error.
//
// Note that it is assumed that the slot key is a Keccak256 hash of
// the byte key.
func VerifyStorageProof(storageRoot common.Hash, slotKey common.Hash, proofNodes [][]byte) ([]byte, error) {
	if storageRoot == types.EmptyRootHash {
		// No storage for any key.
		return nil, nil
	}

	data, ok := verify.Extract(mpt.Digest(storageRoot), slotKey[:], proofNodes)
	if !ok {
		return nil, fmt.Errorf("storage proof for slot %s does not verify against storage root %s", slotKey, storageRoot)
	}
	if len(data) == 0 {
		// No value for the given slot key.
		return nil, nil
	}

	var val []byte
	if err := rlp.DecodeBytes(data, &val); err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}
	return val, nil
}
