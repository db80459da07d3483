package wire

import (
	"fmt"

	"sparsempt/mpt"
)

// DecodeList splits an RLP-encoded list into its constituent items,
// still in their encoded form. If data does not begin with a list
// prefix, it is treated as a single item and returned as a one-element
// slice, provided its length header does not claim more bytes than
// data holds.
func DecodeList(data []byte) ([][]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("wire: empty input: %w", mpt.ErrDecode)
	}

	prefix := data[0]
	if prefix < 0xc0 {
		if _, err := itemExtent(data, 0, len(data)); err != nil {
			return nil, err
		}
		return [][]byte{data}, nil
	}

	payloadStart, payloadLen, err := listHeader(data, prefix)
	if err != nil {
		return nil, err
	}
	if len(data) < payloadStart+payloadLen {
		return nil, fmt.Errorf("wire: list payload truncated: %w", mpt.ErrDecode)
	}

	var items [][]byte
	pos := payloadStart
	end := payloadStart + payloadLen
	for pos < end {
		itemLen, err := itemExtent(data, pos, end)
		if err != nil {
			return nil, err
		}
		items = append(items, data[pos:pos+itemLen])
		pos += itemLen
	}
	return items, nil
}

// DecodeBytes decodes a single RLP byte-string item. It returns
// ErrDecode if data encodes a list instead.
func DecodeBytes(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("wire: empty input: %w", mpt.ErrDecode)
	}

	prefix := data[0]
	switch {
	case prefix < 0x80:
		return data[:1], nil
	case prefix <= 0xb7:
		n := int(prefix - 0x80)
		if len(data) < 1+n {
			return nil, fmt.Errorf("wire: short string truncated: %w", mpt.ErrDecode)
		}
		return data[1 : 1+n], nil
	case prefix <= 0xbf:
		lenOfLen := int(prefix - 0xb7)
		if len(data) < 1+lenOfLen {
			return nil, fmt.Errorf("wire: long string length header truncated: %w", mpt.ErrDecode)
		}
		n := bytesToLength(data[1 : 1+lenOfLen])
		if len(data) < 1+lenOfLen+n {
			return nil, fmt.Errorf("wire: long string truncated: %w", mpt.ErrDecode)
		}
		return data[1+lenOfLen : 1+lenOfLen+n], nil
	default:
		return nil, fmt.Errorf("wire: expected byte string, found list: %w", mpt.ErrDecode)
	}
}

// listHeader parses a list's length header, returning the offset of the
// payload and its length.
func listHeader(data []byte, prefix byte) (start, length int, err error) {
	if prefix <= 0xf7 {
		return 1, int(prefix - 0xc0), nil
	}
	lenOfLen := int(prefix - 0xf7)
	if len(data) < 1+lenOfLen {
		return 0, 0, fmt.Errorf("wire: long list length header truncated: %w", mpt.ErrDecode)
	}
	return 1 + lenOfLen, bytesToLength(data[1 : 1+lenOfLen]), nil
}

// itemExtent returns the total byte length (header + payload) of the
// RLP item starting at pos, bounded by end.
func itemExtent(data []byte, pos, end int) (int, error) {
	prefix := data[pos]
	switch {
	case prefix < 0x80:
		return checkBound(1, pos, end)
	case prefix <= 0xb7:
		return checkBound(1+int(prefix-0x80), pos, end)
	case prefix <= 0xbf:
		lenOfLen := int(prefix - 0xb7)
		if pos+1+lenOfLen > end {
			return 0, fmt.Errorf("wire: long string length header exceeds payload: %w", mpt.ErrDecode)
		}
		n := bytesToLength(data[pos+1 : pos+1+lenOfLen])
		return checkBound(1+lenOfLen+n, pos, end)
	case prefix <= 0xf7:
		return checkBound(1+int(prefix-0xc0), pos, end)
	default:
		lenOfLen := int(prefix - 0xf7)
		if pos+1+lenOfLen > end {
			return 0, fmt.Errorf("wire: long list length header exceeds payload: %w", mpt.ErrDecode)
		}
		n := bytesToLength(data[pos+1 : pos+1+lenOfLen])
		return checkBound(1+lenOfLen+n, pos, end)
	}
}

func checkBound(itemLen, pos, end int) (int, error) {
	if pos+itemLen > end {
		return 0, fmt.Errorf("wire: item exceeds enclosing list: %w", mpt.ErrDecode)
	}
	return itemLen, nil
}

// bytesToLength is the inverse of minimalBigEndian.
func bytesToLength(b []byte) int {
	n := 0
	for _, c := range b {
		n = (n << 8) | int(c)
	}
	return n
}
