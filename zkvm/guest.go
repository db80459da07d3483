package zkvm

import "sparsempt/mpt/verify"

// Run checks a single ProofInput against mpt/verify and produces the
// matching VerificationResult. It never panics: an invalid proof
// yields Verified: false, not an error, mirroring the guest program's
// contract of always committing a result record.
func Run(input ProofInput) VerificationResult {
	verified := verify.Proof(input.Root, input.Key, input.Value, input.Proof)
	return VerificationResult{
		Verified: verified,
		Key:      input.Key,
		Value:    input.Value,
		Root:     input.Root,
	}
}

// RunBatch checks every ProofInput in a BatchProofInput against the
// shared root.
func RunBatch(input BatchProofInput) BatchVerificationResult {
	entries := make([]verify.Entry, len(input.Proofs))
	for i, p := range input.Proofs {
		entries[i] = verify.Entry{Key: p.Key, Value: p.Value, Proof: p.Proof}
	}

	allVerified, results := verify.ProofBatch(input.Root, entries)
	return BatchVerificationResult{
		AllVerified: allVerified,
		Results:     results,
		Root:        input.Root,
		Count:       len(input.Proofs),
	}
}
