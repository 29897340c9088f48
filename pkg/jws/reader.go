// Copyright 2025 Certen Protocol

package jws

// VerifierResolver looks up the Verifier responsible for one
// signature, given its decoded header. ok is false when no verifier
// is available for that signature's algorithm/identity; protected
// reports whether header came from the integrity-protected segment.
type VerifierResolver func(sig Signature, header Header, protected bool) (verifier Verifier, ok bool)

// VerifiedSignature is the per-signature outcome of VerifyAll.
type VerifiedSignature struct {
	Header    Header
	Protected bool
	Verified  bool
	Err       error
}

// VerifyAll decodes and checks every signature in the envelope against
// a resolver-supplied Verifier. A signature whose header cannot be
// decoded, or for which no verifier resolves, is reported with
// Verified=false and a non-nil Err rather than aborting the pass — the
// caller (pkg/reader) applies its own signature-requirement policy
// over the results.
func (e *Envelope) VerifyAll(resolve VerifierResolver) []VerifiedSignature {
	out := make([]VerifiedSignature, 0, len(e.Signatures))
	for _, sig := range e.Signatures {
		header, protected, err := sig.DecodeHeader()
		if err != nil {
			out = append(out, VerifiedSignature{Verified: false, Err: err})
			continue
		}

		verifier, ok := resolve(sig, header, protected)
		if !ok {
			out = append(out, VerifiedSignature{Header: header, Protected: protected, Verified: false, Err: ErrAlgorithmMismatch})
			continue
		}

		signingInput, err := e.SigningInput(sig, header, protected)
		if err != nil {
			out = append(out, VerifiedSignature{Header: header, Protected: protected, Verified: false, Err: err})
			continue
		}
		if err := verifier.Verify(signingInput, sig.SignatureB64, header); err != nil {
			out = append(out, VerifiedSignature{Header: header, Protected: protected, Verified: false, Err: err})
			continue
		}
		out = append(out, VerifiedSignature{Header: header, Protected: protected, Verified: true})
	}
	return out
}
