// Command mptdemo builds a small trie, extracts a proof for one of its
// keys and verifies it, printing each stage. It exists to give a
// newcomer something runnable that exercises the whole core path:
// insert, root, get_proof, verify.
package main

import (
	"flag"
	"fmt"
	"os"

	"sparsempt/internal/log"
	"sparsempt/mpt/engine"
	"sparsempt/mpt/verify"
)

func main() {
	keyFlag := flag.String("key", "dog", "key to prove membership for")
	flag.Parse()

	logger := log.New(log.NewTerminalHandler()).With("component", "mptdemo")

	kvs := map[string]string{
		"do":    "verb",
		"dog":   "puppy",
		"doge":  "coin",
		"horse": "stallion",
	}

	e := engine.New()
	for k, v := range kvs {
		if _, err := e.Insert([]byte(k), []byte(v)); err != nil {
			logger.Error("insert failed", "key", k, "err", err)
			os.Exit(1)
		}
	}

	root, ok := e.Root()
	if !ok {
		logger.Error("trie is empty after insertion")
		os.Exit(1)
	}
	logger.Info("built trie", "root", fmt.Sprintf("%x", root.Bytes()), "entries", len(kvs))

	value, found := kvs[*keyFlag]
	if !found {
		logger.Error("key not in demo data set", "key", *keyFlag)
		os.Exit(2)
	}

	proof, ok := e.GetProof([]byte(*keyFlag))
	if !ok {
		logger.Error("no proof for key", "key", *keyFlag)
		os.Exit(1)
	}
	logger.Info("extracted proof", "key", *keyFlag, "nodes", len(proof))

	verified := verify.Proof(root, []byte(*keyFlag), []byte(value), proof)
	logger.Info("verified proof", "key", *keyFlag, "value", value, "verified", verified)

	if !verified {
		os.Exit(1)
	}
}
