package mpt

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

func TestKeccak256MatchesGoEthereum(t *testing.T) {
	// Pins Digest to go-ethereum's own Keccak256, the Ethereum
	// parameterization (not NIST SHA3-256's FIPS 202 padding) §9 warns
	// against swapping in by mistake.
	for _, data := range [][]byte{nil, []byte("dog"), []byte("hello")} {
		got := Keccak256(data)
		want := crypto.Keccak256(data)
		if got.String() != BytesToDigest(want).String() {
			t.Fatalf("Keccak256(%q) = %s, want %x", data, got, want)
		}
	}
}

func TestKeccak256Deterministic(t *testing.T) {
	a := Keccak256([]byte("dog"))
	b := Keccak256([]byte("dog"))
	if a != b {
		t.Fatalf("Keccak256 not deterministic: %s != %s", a, b)
	}
	if Keccak256([]byte("dog")) == Keccak256([]byte("cat")) {
		t.Fatalf("different inputs hashed to the same digest")
	}
}

func TestDigestTextRoundTrip(t *testing.T) {
	d := Keccak256([]byte("dog"))
	text, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}

	var got Digest
	if err := got.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if got != d {
		t.Fatalf("round trip mismatch: got %s, want %s", got, d)
	}
}

func TestDigestJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		Root Digest `json:"root"`
	}
	d := Keccak256([]byte("hello"))
	encoded, err := json.Marshal(wrapper{Root: d})
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}

	var decoded wrapper
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if decoded.Root != d {
		t.Fatalf("decoded root = %s, want %s", decoded.Root, d)
	}
}

func TestBytesToDigestTruncatesAndZeroPads(t *testing.T) {
	short := BytesToDigest([]byte{0x01, 0x02})
	if short.Bytes()[0] != 0x01 || short.Bytes()[1] != 0x02 || short.Bytes()[2] != 0x00 {
		t.Fatalf("short input not zero-padded: %x", short.Bytes())
	}

	long := make([]byte, 40)
	for i := range long {
		long[i] = byte(i)
	}
	d := BytesToDigest(long)
	if len(d.Bytes()) != DigestLength {
		t.Fatalf("len = %d, want %d", len(d.Bytes()), DigestLength)
	}
}
