// Copyright 2025 Certen Protocol

package reader

import (
	"log"
	"os"
	"time"

	"github.com/certen-io/proofpack/pkg/attestation"
	"github.com/certen-io/proofpack/pkg/jws"
)

// SignatureRequirement controls how many of an envelope's signatures
// must verify for the document as a whole to be accepted.
type SignatureRequirement int

const (
	// SignatureRequireAtLeastOne accepts the document if any one
	// signature verifies.
	SignatureRequireAtLeastOne SignatureRequirement = iota
	// SignatureRequireAll rejects the document if any signature fails
	// to verify.
	SignatureRequireAll
	// SignatureRequireSkip performs no signature enforcement; useful
	// for inspecting an envelope's payload without trusting it.
	SignatureRequireSkip
)

// VerifierResolver picks the jws.Verifier responsible for one
// signature. It is called only after the document's attestation has
// verified; attester is the address/identity that attestation named,
// or "" when it named none.
type VerifierResolver func(sig jws.Signature, header jws.Header, protected bool, attester string) (jws.Verifier, bool)

// VerifierList builds a VerifierResolver that matches purely by
// algorithm, ignoring attester identity. This is the migration path
// for callers that provision a fixed verifier set up front instead of
// resolving one dynamically per attestation.
func VerifierList(verifiers ...jws.Verifier) VerifierResolver {
	return func(sig jws.Signature, header jws.Header, protected bool, attester string) (jws.Verifier, bool) {
		if !protected {
			return nil, false
		}
		for _, v := range verifiers {
			if v.Algorithm() == header.Alg {
				return v, true
			}
		}
		return nil, false
	}
}

// VerificationContext configures one call to Reader.Verify.
type VerificationContext struct {
	// HasValidNonce reports whether nonce is acceptable: true if it
	// has not been seen before (and records it as seen), false if it
	// is a replay. Required: Verify rejects the document with
	// ErrInvalidNonce when it is nil.
	HasValidNonce func(nonce string) (bool, error)
	// MaxAge is the maximum tolerated gap between the document's
	// timestamp and now. Zero disables the age check.
	MaxAge time.Duration
	// AttestationFactory resolves a Verifier for the document's
	// attestation tag. Every document Reader.Verify accepts must carry
	// exactly one attestation tag that verifies against this factory —
	// required, not optional.
	AttestationFactory *attestation.Factory
	// Resolver picks the jws.Verifier for each signature.
	Resolver VerifierResolver
	// SignatureRequirement is the acceptance policy over signatures.
	SignatureRequirement SignatureRequirement
	// StrictSignatureShape, when true, rejects a signature that
	// carries neither a protected nor an unprotected header outright
	// instead of silently excluding it from the signature count.
	StrictSignatureShape bool
	// Logger receives one line per rejected document. Defaults to a
	// logger writing to os.Stderr if nil.
	Logger *log.Logger
}

// DefaultVerificationContext returns a VerificationContext with a
// 24-hour max age, AtLeastOne signature policy, and a stderr logger;
// HasValidNonce, AttestationFactory, and Resolver are left for the
// caller to fill in.
func DefaultVerificationContext() VerificationContext {
	return VerificationContext{
		MaxAge:                24 * time.Hour,
		SignatureRequirement:  SignatureRequireAtLeastOne,
		Logger:                log.New(os.Stderr, "[proofpack-reader] ", log.LstdFlags),
	}
}

func (vc VerificationContext) logger() *log.Logger {
	if vc.Logger != nil {
		return vc.Logger
	}
	return log.New(os.Stderr, "[proofpack-reader] ", log.LstdFlags)
}
