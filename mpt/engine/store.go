// Package engine implements the in-memory trie builder: insertion,
// lookup, root tracking and proof extraction over a content-addressed
// store of node bodies.
package engine

import (
	"fmt"

	"sparsempt/mpt"
	"sparsempt/storage"
	"sparsempt/storage/mem"
)

// store wraps a storage.KeyValStore keyed by digest, holding node
// bodies produced during a build. It is append-only: insertion never
// overwrites an existing entry, since two equal bodies already share a
// digest and two different bodies never collide (digests are treated
// as collision-free, per I1).
type store struct {
	kv storage.KeyValStore
}

// newStore wraps kv for use as a node body store. A nil kv defaults to
// an in-memory backend, matching the core's single-threaded, memory-only
// resource model.
func newStore(kv storage.KeyValStore) *store {
	if kv == nil {
		kv = mem.New()
	}
	return &store{kv: kv}
}

func (s *store) put(d mpt.Digest, body []byte) error {
	return s.kv.Put(d.Bytes(), body)
}

func (s *store) get(d mpt.Digest) ([]byte, bool, error) {
	body, err := s.kv.Get(d.Bytes())
	if err == nil {
		return body, true, nil
	}
	if err == storage.ErrKeyNotFound {
		return nil, false, nil
	}
	return nil, false, fmt.Errorf("engine: reading node %x: %w", d.Bytes(), err)
}

// putBody hashes body, stores it under its digest and returns that
// digest. This is the sole path by which a node enters the store,
// maintaining I1 (hash consistency) by construction.
func (s *store) putBody(body []byte) (mpt.Digest, error) {
	d := mpt.Keccak256(body)
	if err := s.put(d, body); err != nil {
		return mpt.Digest{}, err
	}
	return d, nil
}
