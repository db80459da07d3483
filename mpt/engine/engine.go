package engine

import (
	"bytes"
	"fmt"

	"sparsempt/mpt"
	"sparsempt/mpt/path"
	"sparsempt/mpt/trienode"
	"sparsempt/storage"
)

// Engine is an in-memory Merkle Patricia trie builder. It holds its
// node store as exclusive state owned by a single caller: per the
// core's concurrency model there is no internal locking, and
// insertions must be applied serially.
type Engine struct {
	store *store
	root  *mpt.Digest
}

// New returns an empty Engine backed by an in-memory node store.
func New() *Engine {
	return &Engine{store: newStore(nil)}
}

// NewWithStore returns an empty Engine backed by kv, letting a caller
// supply a persistent store (e.g. storage/badger) for the node bodies
// produced during a build. This is ambient infrastructure: the
// Engine's own contract stays synchronous and in-memory-shaped
// regardless of the backing implementation.
func NewWithStore(kv storage.KeyValStore) *Engine {
	return &Engine{store: newStore(kv)}
}

// Root returns the digest of the current top-most node, or false if
// the trie is empty.
func (e *Engine) Root() (mpt.Digest, bool) {
	if e.root == nil {
		return mpt.Digest{}, false
	}
	return *e.root, true
}

// Insert maps key to value, returning the new root digest. Re-inserting
// an existing key replaces its value; the prior root's body remains in
// the store, unreferenced.
func (e *Engine) Insert(key, value []byte) (mpt.Digest, error) {
	nibbles := path.ToNibbles(key)
	newRoot, err := e.insertAt(e.root, nibbles, value)
	if err != nil {
		return mpt.Digest{}, err
	}
	e.root = &newRoot
	return newRoot, nil
}

// Get returns the value stored under key, or false if absent. Any
// internal decode or structural error resolves to absence, per the
// core's error-propagation policy.
func (e *Engine) Get(key []byte) ([]byte, bool) {
	value, ok, err := e.walk(e.root, path.ToNibbles(key), nil)
	if err != nil {
		return nil, false
	}
	return value, ok
}

// GetProof returns the ordered sequence of node bodies on the path
// from the root to key, or false if the path diverges (a missing
// child, a path mismatch, or a malformed node) before reaching a
// terminal outcome.
func (e *Engine) GetProof(key []byte) ([][]byte, bool) {
	var proof [][]byte
	_, ok, err := e.walk(e.root, path.ToNibbles(key), &proof)
	if err != nil || !ok {
		return nil, false
	}
	return proof, true
}

// insertAt inserts (remaining, value) into the subtree rooted at h (or
// an empty subtree if h is nil), returning the digest of the resulting
// subtree. This implements the case analysis: leaf split, extension
// split, branch descent.
func (e *Engine) insertAt(h *mpt.Digest, remaining, value []byte) (mpt.Digest, error) {
	if h == nil {
		return e.createLeaf(remaining, value)
	}

	body, ok, err := e.store.get(*h)
	if err != nil {
		return mpt.Digest{}, err
	}
	if !ok {
		return mpt.Digest{}, fmt.Errorf("engine: node %x: %w", h.Bytes(), mpt.ErrMissingNode)
	}

	decoded, err := trienode.Decode(body)
	if err != nil {
		return mpt.Digest{}, err
	}

	switch decoded.Kind {
	case trienode.KindLeaf:
		return e.insertIntoLeaf(decoded.Leaf, remaining, value)
	case trienode.KindExtension:
		return e.insertIntoExtension(decoded.Extension, remaining, value)
	case trienode.KindBranch:
		return e.insertIntoBranch(decoded.Branch, remaining, value)
	default:
		return mpt.Digest{}, fmt.Errorf("engine: unknown node kind: %w", mpt.ErrStructural)
	}
}

func (e *Engine) insertIntoLeaf(l trienode.Leaf, remaining, value []byte) (mpt.Digest, error) {
	if bytes.Equal(l.Path, remaining) {
		return e.createLeaf(remaining, value)
	}

	k := path.CommonPrefixLen(l.Path, remaining)
	var b trienode.Branch

	if k == len(l.Path) {
		b.Value = l.Value
	} else {
		i := l.Path[k]
		d, err := e.createLeaf(l.Path[k+1:], l.Value)
		if err != nil {
			return mpt.Digest{}, err
		}
		b.Children[i] = trienode.DigestRef(d)
	}

	if k == len(remaining) {
		b.Value = value
	} else {
		j := remaining[k]
		d, err := e.createLeaf(remaining[k+1:], value)
		if err != nil {
			return mpt.Digest{}, err
		}
		b.Children[j] = trienode.DigestRef(d)
	}

	return e.wrapBranch(b, remaining[:k])
}

func (e *Engine) insertIntoExtension(ext trienode.Extension, remaining, value []byte) (mpt.Digest, error) {
	k := path.CommonPrefixLen(ext.Path, remaining)

	if k == len(ext.Path) {
		if !ext.Child.IsDigest() {
			return mpt.Digest{}, fmt.Errorf("engine: extension child is not a digest: %w", mpt.ErrStructural)
		}
		child := ext.Child.Digest()
		newChild, err := e.insertAt(&child, remaining[k:], value)
		if err != nil {
			return mpt.Digest{}, err
		}
		return e.createExtension(ext.Path, newChild)
	}

	var b trienode.Branch
	o := ext.Path[k]
	if k+1 == len(ext.Path) {
		b.Children[o] = ext.Child
	} else {
		if !ext.Child.IsDigest() {
			return mpt.Digest{}, fmt.Errorf("engine: extension child is not a digest: %w", mpt.ErrStructural)
		}
		d, err := e.createExtension(ext.Path[k+1:], ext.Child.Digest())
		if err != nil {
			return mpt.Digest{}, err
		}
		b.Children[o] = trienode.DigestRef(d)
	}

	if k == len(remaining) {
		b.Value = value
	} else {
		n := remaining[k]
		d, err := e.createLeaf(remaining[k+1:], value)
		if err != nil {
			return mpt.Digest{}, err
		}
		b.Children[n] = trienode.DigestRef(d)
	}

	return e.wrapBranch(b, remaining[:k])
}

func (e *Engine) insertIntoBranch(b trienode.Branch, remaining, value []byte) (mpt.Digest, error) {
	if len(remaining) == 0 {
		b.Value = value
		return e.createBranch(b)
	}

	n := remaining[0]
	var child *mpt.Digest
	if b.Children[n].IsDigest() {
		d := b.Children[n].Digest()
		child = &d
	} else if !b.Children[n].IsEmpty() {
		return mpt.Digest{}, fmt.Errorf("engine: branch child is not a digest: %w", mpt.ErrStructural)
	}

	newChild, err := e.insertAt(child, remaining[1:], value)
	if err != nil {
		return mpt.Digest{}, err
	}
	b.Children[n] = trienode.DigestRef(newChild)
	return e.createBranch(b)
}

// wrapBranch stores b and, if the shared prefix consumed to reach it
// was non-empty, wraps it behind an extension over that prefix.
func (e *Engine) wrapBranch(b trienode.Branch, prefix []byte) (mpt.Digest, error) {
	bd, err := e.createBranch(b)
	if err != nil {
		return mpt.Digest{}, err
	}
	if len(prefix) == 0 {
		return bd, nil
	}
	return e.createExtension(prefix, bd)
}

func (e *Engine) createLeaf(p, v []byte) (mpt.Digest, error) {
	return e.store.putBody(trienode.EncodeLeaf(trienode.Leaf{Path: p, Value: v}))
}

func (e *Engine) createExtension(p []byte, child mpt.Digest) (mpt.Digest, error) {
	return e.store.putBody(trienode.EncodeExtension(trienode.Extension{Path: p, Child: trienode.DigestRef(child)}))
}

func (e *Engine) createBranch(b trienode.Branch) (mpt.Digest, error) {
	return e.store.putBody(trienode.EncodeBranch(b))
}

// walk descends from h along remaining, following the same discipline
// as insertion's lookup path. When proof is non-nil, each visited
// node's body is appended to it.
func (e *Engine) walk(h *mpt.Digest, remaining []byte, proof *[][]byte) ([]byte, bool, error) {
	if h == nil {
		return nil, false, nil
	}

	body, ok, err := e.store.get(*h)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, fmt.Errorf("engine: node %x: %w", h.Bytes(), mpt.ErrMissingNode)
	}
	if proof != nil {
		*proof = append(*proof, body)
	}

	decoded, err := trienode.Decode(body)
	if err != nil {
		return nil, false, err
	}

	switch decoded.Kind {
	case trienode.KindLeaf:
		if bytes.Equal(decoded.Leaf.Path, remaining) {
			return decoded.Leaf.Value, true, nil
		}
		return nil, false, nil

	case trienode.KindExtension:
		ep := decoded.Extension.Path
		if !bytes.HasPrefix(remaining, ep) {
			return nil, false, nil
		}
		if !decoded.Extension.Child.IsDigest() {
			return nil, false, fmt.Errorf("engine: extension child is not a digest: %w", mpt.ErrStructural)
		}
		child := decoded.Extension.Child.Digest()
		return e.walk(&child, remaining[len(ep):], proof)

	case trienode.KindBranch:
		if len(remaining) == 0 {
			if decoded.Branch.HasValue() {
				return decoded.Branch.Value, true, nil
			}
			return nil, false, nil
		}
		ref := decoded.Branch.Children[remaining[0]]
		if ref.IsEmpty() {
			return nil, false, nil
		}
		if !ref.IsDigest() {
			return nil, false, fmt.Errorf("engine: branch child is not a digest: %w", mpt.ErrStructural)
		}
		child := ref.Digest()
		return e.walk(&child, remaining[1:], proof)

	default:
		return nil, false, fmt.Errorf("engine: unknown node kind: %w", mpt.ErrStructural)
	}
}
