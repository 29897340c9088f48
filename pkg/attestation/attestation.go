// Copyright 2025 Certen Protocol
//
// Attestation — the pluggable capability an AttestedExchange's
// attestation tag is checked against. A Verifier owns exactly one
// service id's wire shape; the Factory resolves the right one by
// that id.

package attestation

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrUnknownService is returned by Factory.MustResolve for an id no
// Verifier was registered under.
var ErrUnknownService = errors.New("attestation: unknown service id")

// Result is the outcome of checking one attestation record.
type Result struct {
	Verified      bool
	ServiceID     string
	Network       string
	AttestationID string
	Attester      string
	Recipient     string
	SchemaID      string
}

// Verifier checks one attestation service's record shape against
// whatever ground truth it trusts (a chain RPC, an in-memory fixture,
// and so on).
type Verifier interface {
	// ServiceID is the attestation tag this Verifier understands,
	// e.g. "eas".
	ServiceID() string
	// Verify checks raw — the json.RawMessage stored under the
	// matching attestation tag — against merkleRoot, the hex-encoded
	// root of the document's Merkle tree, and reports whether the
	// attestation both is live and actually commits to that root.
	// Checking revocation/schema/attester/recipient without binding to
	// merkleRoot is not enough: the whole point of attestation is that
	// the attester vouches for this specific document, not merely that
	// some attestation exists. A non-nil error means verification
	// could not be completed (a malformed record, an RPC failure); it
	// is distinct from a completed check that reports Verified=false.
	Verify(ctx context.Context, raw json.RawMessage, merkleRoot string) (Result, error)
}
