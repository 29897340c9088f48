// Copyright 2025 Certen Protocol

package reader

import "errors"

var (
	// ErrNoPayload is returned when the envelope cannot be decoded into
	// an exchange document at all.
	ErrNoPayload = errors.New("reader: envelope payload is not a valid exchange document")
	// ErrInvalidNonce is returned when HasValidNonce is missing, fails,
	// or rejects the document's nonce (for example as a replay).
	ErrInvalidNonce = errors.New("reader: invalid or replayed nonce")
	// ErrStale is returned when the document's timestamp is older than
	// the configured maximum age.
	ErrStale = errors.New("reader: document is older than the maximum allowed age")
	// ErrNoMerkleTree is returned when the payload carries no Merkle
	// tree to verify.
	ErrNoMerkleTree = errors.New("reader: payload has no merkle tree")
	// ErrInvalidRoot is returned when the Merkle tree's root does not
	// match its leaves.
	ErrInvalidRoot = errors.New("reader: merkle root does not match leaves")
	// ErrInvalidAttestation is returned when the bound attestation
	// fails verification or names an unregistered service.
	ErrInvalidAttestation = errors.New("reader: attestation failed verification")
	// ErrNoVerifiedSignatures is returned by the AtLeastOne policy when
	// no signature verified.
	ErrNoVerifiedSignatures = errors.New("reader: no signature could be verified")
	// ErrUnverifiedSignatures is returned by the All policy when at
	// least one signature failed verification.
	ErrUnverifiedSignatures = errors.New("reader: not every signature verified")
)
