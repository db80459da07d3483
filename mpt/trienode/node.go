// Package trienode defines the serialized forms of the three populated
// trie node variants (leaf, extension, branch) and the encode/decode
// pair that turns them into and out of the wire encoding.
package trienode

import "sparsempt/mpt"

const (
	// shortNodeLength is the wire item count of a leaf or extension node.
	shortNodeLength = 2

	// fullNodeLength is the wire item count of a branch node.
	fullNodeLength = 17

	// branchWidth is the number of indexed child slots in a branch.
	branchWidth = fullNodeLength - 1
)

// Ref is a child reference as it appears in a branch slot or an
// extension's child field. Per Ethereum's embedded-node rule a
// reference is one of three things:
//   - nil/empty: no child.
//   - exactly 32 bytes: a digest, resolved through a store.
//   - anything else: the still-encoded body of a node too small to be
//     worth hashing, carried inline.
//
// The engine (mpt/engine) only ever produces the 32-byte digest
// form; the embedded form is only ever seen when decoding proof nodes
// that originated outside this trie (see mpt/verify).
type Ref []byte

// IsEmpty reports whether the slot holds no child.
func (r Ref) IsEmpty() bool { return len(r) == 0 }

// IsDigest reports whether r is a 32-byte digest reference.
func (r Ref) IsDigest() bool { return len(r) == mpt.DigestLength }

// IsEmbedded reports whether r is an inlined node body rather than a
// digest reference.
func (r Ref) IsEmbedded() bool { return len(r) > 0 && len(r) != mpt.DigestLength }

// Digest reinterprets r as a digest. Callers must check IsDigest first.
func (r Ref) Digest() mpt.Digest { return mpt.BytesToDigest(r) }

// DigestRef builds a Ref from a digest, the form produced by insertion.
func DigestRef(d mpt.Digest) Ref { return Ref(d.Bytes()) }

// Leaf is a terminal node: Path is the remaining nibbles from this
// node's position to the key's end.
type Leaf struct {
	Path  []byte
	Value []byte
}

// Extension skips a shared nibble prefix of at least one nibble to a
// single child.
type Extension struct {
	Path  []byte
	Child Ref
}

// Branch has sixteen slots indexed by the next nibble, plus an
// optional value for keys that end exactly at this position.
type Branch struct {
	Children [branchWidth]Ref
	Value    []byte
}

// HasValue reports whether the branch carries an embedded value.
func (b Branch) HasValue() bool { return len(b.Value) > 0 }

// Kind discriminates a Decoded node's populated field.
type Kind int

const (
	KindLeaf Kind = iota
	KindExtension
	KindBranch
)

// Decoded is the result of decoding a node body: a closed tagged union
// over Leaf, Extension and Branch, dispatched on Kind.
type Decoded struct {
	Kind      Kind
	Leaf      Leaf
	Extension Extension
	Branch    Branch
}
