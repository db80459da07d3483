// Command mptzk drives the zkvm package over JSON, standing in for the
// host/guest I/O boundary a real zkVM SDK would provide (read one
// input record, commit one output record). It reads a ProofInput (or,
// with -batch, a BatchProofInput) as JSON on stdin and writes the
// matching verification result as JSON on stdout.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"sparsempt/zkvm"
)

func main() {
	batchFlag := flag.Bool("batch", false, "read a BatchProofInput instead of a single ProofInput")
	flag.Parse()

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mptzk: failed to read stdin: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)

	if *batchFlag {
		var input zkvm.BatchProofInput
		if err := json.Unmarshal(data, &input); err != nil {
			fmt.Fprintf(os.Stderr, "mptzk: failed to parse batch input: %v\n", err)
			os.Exit(1)
		}
		if err := enc.Encode(zkvm.RunBatch(input)); err != nil {
			fmt.Fprintf(os.Stderr, "mptzk: failed to write result: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var input zkvm.ProofInput
	if err := json.Unmarshal(data, &input); err != nil {
		fmt.Fprintf(os.Stderr, "mptzk: failed to parse input: %v\n", err)
		os.Exit(1)
	}
	if err := enc.Encode(zkvm.Run(input)); err != nil {
		fmt.Fprintf(os.Stderr, "mptzk: failed to write result: %v\n", err)
		os.Exit(1)
	}
}
