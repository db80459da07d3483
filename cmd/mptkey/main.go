// Command mptkey prints a key's nibble path and both compact path
// encodings (as it would appear in a leaf, and as it would appear in
// an extension), for debugging trie structure by hand.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"sparsempt/mpt/path"
)

func main() {
	keyFlag := flag.String("key", "", "key to encode, given as a UTF-8 string")
	hexFlag := flag.String("hex", "", "key to encode, given as hex (overrides -key)")
	flag.Parse()

	var key []byte
	if *hexFlag != "" {
		decoded, err := hex.DecodeString(*hexFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid hex key: %v\n", err)
			os.Exit(2)
		}
		key = decoded
	} else if *keyFlag != "" {
		key = []byte(*keyFlag)
	} else {
		fmt.Fprintln(os.Stderr, "usage: mptkey -key <string> | -hex <hexstring>")
		os.Exit(2)
	}

	nibbles := path.ToNibbles(key)

	fmt.Printf("key:      %x\n", key)
	fmt.Printf("nibbles:  %x (%d nibbles)\n", nibbles, len(nibbles))
	fmt.Printf("as leaf:      %x\n", path.Encode(nibbles, true))
	fmt.Printf("as extension: %x\n", path.Encode(nibbles, false))
}
