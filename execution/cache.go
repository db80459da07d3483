package execution

import (
	"sparsempt/mpt"
	"sparsempt/storage"
)

// NodeCache persists verified trie node bodies keyed by their Keccak256
// digest. A later run can ask Has whether a node body with a given
// digest was already stored; the cache has no method that returns a
// stored body, and the reader still fetches and verifies every proof
// in full. Store is only ever called with node bodies that have
// already passed mpt/verify.
type NodeCache struct {
	kv storage.KeyValStore
}

// NewNodeCache wraps kv as a node-body cache.
func NewNodeCache(kv storage.KeyValStore) *NodeCache {
	return &NodeCache{kv: kv}
}

// Store persists every body in proof under its own digest. Re-storing
// an already-cached body is a no-op in effect, since it is put back
// under the same key with identical content.
func (c *NodeCache) Store(proof [][]byte) error {
	for _, body := range proof {
		d := mpt.Keccak256(body)
		if err := c.kv.Put(d.Bytes(), body); err != nil {
			return err
		}
	}
	return nil
}

// Has reports whether a node body with the given digest has already
// been cached.
func (c *NodeCache) Has(d mpt.Digest) (bool, error) {
	return c.kv.Has(d.Bytes())
}

// Close releases the underlying store.
func (c *NodeCache) Close() error {
	return c.kv.Close()
}
