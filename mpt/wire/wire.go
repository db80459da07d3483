// Package wire implements the canonical length-prefixed encoding used to
// serialize trie node bodies. The scheme is Ethereum's RLP: it must be
// byte-exact so that digests computed over it agree with any conforming
// Ethereum implementation.
package wire

// Item is anything that can be written as a single RLP item: a byte
// string or a list of items.
type Item interface {
	write(*buffer)
	encodedLen() int
}

// buffer is a specialized writer that accumulates RLP output into a
// pre-allocated slice.
type buffer []byte

func (b *buffer) writeByte(c byte) {
	*b = append(*b, c)
}

func (b *buffer) write(data []byte) {
	*b = append(*b, data...)
}

// String is an RLP byte-string item.
type String struct {
	Bytes []byte
}

func (s String) write(buf *buffer) {
	n := len(s.Bytes)
	if n == 1 && s.Bytes[0] < 0x80 {
		buf.write(s.Bytes)
		return
	}
	encodeLength(n, 0x80, buf)
	buf.write(s.Bytes)
}

func (s String) encodedLen() int {
	n := len(s.Bytes)
	if n == 1 && s.Bytes[0] < 0x80 {
		return 1
	}
	return n + lengthPrefixLen(n)
}

// List is an RLP list item composed of already-built items.
type List struct {
	Items []Item
}

func (l List) write(buf *buffer) {
	payload := 0
	for _, item := range l.Items {
		payload += item.encodedLen()
	}
	encodeLength(payload, 0xc0, buf)
	for _, item := range l.Items {
		item.write(buf)
	}
}

func (l List) encodedLen() int {
	sum := 0
	for _, item := range l.Items {
		sum += item.encodedLen()
	}
	return sum + lengthPrefixLen(sum)
}

// Encode serializes item into its canonical RLP byte representation.
func Encode(item Item) []byte {
	buf := make(buffer, 0, item.encodedLen())
	item.write(&buf)
	return buf
}

// EncodeBytes is a convenience wrapper for encoding a single byte string.
func EncodeBytes(data []byte) []byte {
	return Encode(String{Bytes: data})
}

// EncodeList is a convenience wrapper for encoding a list of already-
// encoded items, mirroring the "list of raw byte slices" shape used when
// assembling node bodies.
func EncodeList(items ...[]byte) []byte {
	wrapped := make([]Item, len(items))
	for i, encoded := range items {
		wrapped[i] = raw{encoded}
	}
	return Encode(List{Items: wrapped})
}

// raw wraps an already-RLP-encoded byte slice so it can be embedded
// unchanged as a list item (used by EncodeList, where callers pass the
// result of EncodeBytes/EncodeList rather than raw content).
type raw struct {
	encoded []byte
}

func (r raw) write(buf *buffer) { buf.write(r.encoded) }
func (r raw) encodedLen() int   { return len(r.encoded) }

// encodeLength writes the length header for a string (offset 0x80) or
// list (offset 0xc0) payload of the given size.
func encodeLength(length int, offset byte, buf *buffer) {
	if length < 56 {
		buf.writeByte(offset + byte(length))
		return
	}
	lenBytes := minimalBigEndian(length)
	buf.writeByte(offset + 55 + byte(len(lenBytes)))
	buf.write(lenBytes)
}

func lengthPrefixLen(length int) int {
	if length < 56 {
		return 1
	}
	return len(minimalBigEndian(length)) + 1
}

// minimalBigEndian returns n's minimal-width big-endian encoding with no
// leading zero byte. n=0 yields a single zero byte, matching the wire
// encoding's length field (a length of 0 never reaches this path in
// practice since 0 < 56, but the helper stays total).
func minimalBigEndian(n int) []byte {
	if n == 0 {
		return []byte{0}
	}
	var tmp [8]byte
	i := len(tmp)
	for n > 0 {
		i--
		tmp[i] = byte(n)
		n >>= 8
	}
	return append([]byte(nil), tmp[i:]...)
}
