// Package mpt holds the digest type and the sentinel errors shared by
// the core of an Ethereum-compatible Merkle Patricia Trie. The node
// model, the wire encoding, the compact path encoding, the trie engine
// and the proof verifier live in its subpackages trienode, wire, path,
// engine and verify.
package mpt

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// DigestLength is the byte length of a Digest.
const DigestLength = 32

// Digest is the Keccak256 hash of a node's serialized body. It is treated
// as opaque bytes; equality is bytewise.
type Digest [DigestLength]byte

// Keccak256 hashes data with the Ethereum parameterization of Keccak256
// (not NIST SHA3-256 / FIPS 202 padding).
func Keccak256(data []byte) Digest {
	var d Digest
	copy(d[:], crypto.Keccak256(data))
	return d
}

// Bytes returns the digest as a byte slice.
func (d Digest) Bytes() []byte {
	return d[:]
}

// IsZero reports whether the digest is the all-zero value.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// BytesToDigest copies b into a Digest. If b is shorter than 32 bytes the
// remaining bytes are zero; if longer, the excess is dropped.
func BytesToDigest(b []byte) Digest {
	var d Digest
	copy(d[:], b)
	return d
}

// String renders the digest as a 0x-prefixed hex string, matching
// go-ethereum's common.Hash.
func (d Digest) String() string {
	return "0x" + hex.EncodeToString(d[:])
}

// MarshalText implements encoding.TextMarshaler so a Digest serializes
// to hex rather than a JSON array of 32 numbers — used by the zkvm
// package's ProofInput / VerificationResult records, which are
// exchanged as JSON.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, the inverse of
// MarshalText.
func (d *Digest) UnmarshalText(text []byte) error {
	s := string(text)
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("mpt: invalid digest hex: %w", err)
	}
	if len(decoded) != DigestLength {
		return fmt.Errorf("mpt: digest has %d bytes, want %d", len(decoded), DigestLength)
	}
	copy(d[:], decoded)
	return nil
}
