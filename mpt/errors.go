package mpt

import "errors"

// Error kinds for decoding, walking or verifying a trie.
// Engine.Get/Engine.GetProof resolve errors into an absence result, and
// verify.Proof and verify.Extract resolve them into false; Engine.Insert
// returns them wrapped. They are exported so that internal packages can
// wrap them with fmt.Errorf("...: %w", ...) and tests can assert on the
// kind with errors.Is. ErrPathMismatch, ErrMissingChild and
// ErrHashMismatch are not returned by any function in this module: the
// engine and verifier turn those cases directly into absence or false.
var (
	// ErrDecode is returned for a malformed wire or compact-path
	// encoding: a bad header, a length field implying more data than is
	// available, or a byte-string decode attempted on a list.
	ErrDecode = errors.New("mpt: decode error")

	// ErrStructural is returned when a decoded node body has neither 2
	// nor 17 items, or a slot that must hold a 32-byte digest holds
	// something else that isn't a valid embedded node either.
	ErrStructural = errors.New("mpt: structural error")

	// ErrPathMismatch names the case where an extension's path does not
	// prefix the remaining nibbles, or a leaf's path does not equal
	// them.
	ErrPathMismatch = errors.New("mpt: path mismatch")

	// ErrMissingChild names the case where a branch slot along the
	// queried path is empty.
	ErrMissingChild = errors.New("mpt: missing child")

	// ErrMissingNode is returned by the engine when a referenced digest
	// is not present in its store.
	ErrMissingNode = errors.New("mpt: missing node")

	// ErrHashMismatch names the case where a proof node's computed
	// digest does not match the reference recorded by its parent.
	ErrHashMismatch = errors.New("mpt: hash mismatch")
)
