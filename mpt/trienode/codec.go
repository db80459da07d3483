package trienode

import (
	"fmt"

	"sparsempt/mpt"
	"sparsempt/mpt/path"
	"sparsempt/mpt/wire"
)

// EncodeLeaf serializes l into its canonical node body.
func EncodeLeaf(l Leaf) []byte {
	p := wire.EncodeBytes(path.Encode(l.Path, true))
	v := wire.EncodeBytes(l.Value)
	return wire.EncodeList(p, v)
}

// EncodeExtension serializes e into its canonical node body.
func EncodeExtension(e Extension) []byte {
	p := wire.EncodeBytes(path.Encode(e.Path, false))
	return wire.EncodeList(p, refItem(e.Child))
}

// EncodeBranch serializes b into its canonical node body.
func EncodeBranch(b Branch) []byte {
	items := make([][]byte, 0, fullNodeLength)
	for _, c := range b.Children {
		items = append(items, refItem(c))
	}
	items = append(items, wire.EncodeBytes(b.Value))
	return wire.EncodeList(items...)
}

// refItem renders a child reference as the wire item that belongs in
// its parent's list: an empty byte string for no child, an encoded
// byte string for a digest, or the embedded body verbatim when it is
// already a list shorter than a digest.
func refItem(r Ref) []byte {
	switch {
	case r.IsEmpty():
		return wire.EncodeBytes(nil)
	case r.IsDigest():
		return wire.EncodeBytes(r.Digest().Bytes())
	default:
		return []byte(r)
	}
}

// Decode parses a node body into its typed form.
func Decode(body []byte) (Decoded, error) {
	items, err := wire.DecodeList(body)
	if err != nil {
		return Decoded{}, err
	}

	switch len(items) {
	case shortNodeLength:
		return decodeShort(items)
	case fullNodeLength:
		return decodeFull(items)
	default:
		return Decoded{}, fmt.Errorf("trienode: node has %d items: %w", len(items), mpt.ErrStructural)
	}
}

func decodeShort(items [][]byte) (Decoded, error) {
	encodedPath, err := wire.DecodeBytes(items[0])
	if err != nil {
		return Decoded{}, fmt.Errorf("trienode: decoding path: %w", err)
	}
	nibbles, isLeaf := path.Decode(encodedPath)

	if isLeaf {
		value, err := wire.DecodeBytes(items[1])
		if err != nil {
			return Decoded{}, fmt.Errorf("trienode: decoding leaf value: %w", err)
		}
		return Decoded{Kind: KindLeaf, Leaf: Leaf{Path: nibbles, Value: value}}, nil
	}

	child, err := decodeRef(items[1])
	if err != nil {
		return Decoded{}, err
	}
	if child.IsEmpty() {
		return Decoded{}, fmt.Errorf("trienode: extension with no child: %w", mpt.ErrStructural)
	}
	return Decoded{Kind: KindExtension, Extension: Extension{Path: nibbles, Child: child}}, nil
}

func decodeFull(items [][]byte) (Decoded, error) {
	var b Branch
	for i := 0; i < branchWidth; i++ {
		ref, err := decodeRef(items[i])
		if err != nil {
			return Decoded{}, err
		}
		b.Children[i] = ref
	}

	value, err := wire.DecodeBytes(items[fullNodeLength-1])
	if err != nil {
		return Decoded{}, fmt.Errorf("trienode: decoding branch value: %w", err)
	}
	b.Value = value

	return Decoded{Kind: KindBranch, Branch: b}, nil
}

// decodeRef applies the embedded-node rule: a list-prefixed item is an
// embedded body carried verbatim; a byte-string item decodes to either
// nothing (absent child), a 32-byte digest, or, for any other length,
// a structural error.
func decodeRef(item []byte) (Ref, error) {
	if len(item) == 0 {
		return nil, fmt.Errorf("trienode: empty ref item: %w", mpt.ErrDecode)
	}
	if item[0] >= 0xc0 {
		return Ref(item), nil
	}

	content, err := wire.DecodeBytes(item)
	if err != nil {
		return nil, err
	}
	switch len(content) {
	case 0:
		return nil, nil
	case mpt.DigestLength:
		return Ref(content), nil
	default:
		return nil, fmt.Errorf("trienode: ref has %d bytes, want 0 or 32: %w", len(content), mpt.ErrStructural)
	}
}
