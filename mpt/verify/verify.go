// Package verify implements the stateless Merkle Patricia Trie proof
// verifier: given a root, a key and an ordered sequence of node
// bodies, it recomputes digests along the path and recovers the
// terminal value without ever consulting an external store.
package verify

import (
	"bytes"

	"sparsempt/mpt"
	"sparsempt/mpt/path"
	"sparsempt/mpt/trienode"
)

// Entry is a single (key, value, proof) tuple to verify against a
// shared root, used by ProofBatch.
type Entry struct {
	Key   []byte
	Value []byte
	Proof [][]byte
}

// Proof checks that proof is a valid root-to-key path attesting that
// key maps to value under root. It never panics or returns an error:
// any malformed input resolves to false.
func Proof(root mpt.Digest, key, value []byte, proof [][]byte) bool {
	got, ok := Extract(root, key, proof)
	return ok && bytes.Equal(got, value)
}

// Extract walks proof from root along key's nibble path and returns
// the terminal value (a leaf's value, or a branch's embedded value
// when the path exhausts exactly at that branch), without requiring
// the caller to already know it. This is what Proof is built on top
// of; it exists directly because an Ethereum RPC client fetching
// eth_getProof wants the proven value itself, not just a yes/no check
// against a guess. The same malformed-input-resolves-to-failure
// policy applies: ok is false for any decode or structural problem.
func Extract(root mpt.Digest, key []byte, proof [][]byte) (value []byte, ok bool) {
	if len(proof) == 0 {
		return nil, false
	}

	nibbles := path.ToNibbles(key)
	idx := 0
	expected := trienode.DigestRef(root)

	for i, body := range proof {
		if !refMatchesBody(expected, body) {
			return nil, false
		}

		decoded, err := trienode.Decode(body)
		if err != nil {
			return nil, false
		}

		switch decoded.Kind {
		case trienode.KindLeaf:
			if i != len(proof)-1 {
				return nil, false
			}
			if !bytes.Equal(decoded.Leaf.Path, nibbles[idx:]) {
				return nil, false
			}
			return decoded.Leaf.Value, true

		case trienode.KindExtension:
			ep := decoded.Extension.Path
			if idx+len(ep) > len(nibbles) {
				return nil, false
			}
			if !bytes.Equal(ep, nibbles[idx:idx+len(ep)]) {
				return nil, false
			}
			idx += len(ep)
			expected = decoded.Extension.Child

		case trienode.KindBranch:
			if idx == len(nibbles) {
				if !decoded.Branch.HasValue() {
					return nil, false
				}
				return decoded.Branch.Value, true
			}
			n := nibbles[idx]
			child := decoded.Branch.Children[n]
			if child.IsEmpty() {
				return nil, false
			}
			idx++
			expected = child

		default:
			return nil, false
		}
	}

	return nil, false
}

// ProofBatch verifies each entry against the shared root, returning
// the per-entry results alongside whether all of them passed.
func ProofBatch(root mpt.Digest, entries []Entry) (allVerified bool, results []bool) {
	results = make([]bool, len(entries))
	allVerified = true
	for i, e := range entries {
		ok := Proof(root, e.Key, e.Value, e.Proof)
		results[i] = ok
		allVerified = allVerified && ok
	}
	return allVerified, results
}

// refMatchesBody reports whether body is the node referenced by
// expected: for a digest reference, body must hash to it; for an
// embedded reference, body must equal it byte-for-byte.
func refMatchesBody(expected trienode.Ref, body []byte) bool {
	if expected.IsDigest() {
		return mpt.Keccak256(body) == expected.Digest()
	}
	return bytes.Equal(expected, body)
}
