// Copyright 2025 Certen Protocol

package jws

import "errors"

var (
	// ErrArgumentNull is returned when a required argument is nil.
	ErrArgumentNull = errors.New("jws: argument must not be nil")
	// ErrInvalidOperation is returned when a builder is asked to do
	// something it cannot, e.g. Build with zero signers.
	ErrInvalidOperation = errors.New("jws: invalid operation")
	// ErrInvalidEnvelope is returned by Parse for malformed JSON or a
	// structurally incomplete envelope.
	ErrInvalidEnvelope = errors.New("jws: invalid envelope")
	// ErrInvalidHeader is returned when neither protected nor header is
	// present on a signature, or a present header fails to decode.
	ErrInvalidHeader = errors.New("jws: invalid header")
	// ErrAlgorithmMismatch is returned when a signature's alg claim
	// does not match the verifier asked to check it; VerifyAll also
	// reports it for a signature for which no verifier resolves.
	ErrAlgorithmMismatch = errors.New("jws: algorithm mismatch")
	// ErrInvalidSignature is returned when cryptographic verification
	// of a signature fails.
	ErrInvalidSignature = errors.New("jws: invalid signature")
)
