// Copyright 2025 Certen Protocol
//
// EAS — the Ethereum Attestation Service verifier. It decodes the
// "eas" attestation tag and asks an EASClient whether the referenced
// attestation is live: not revoked, not expired, and bound to the
// schema/attester/recipient the record claims.

package eas

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/certen-io/proofpack/pkg/attestation"
)

// ServiceID is the attestation tag this package understands.
const ServiceID = "eas"

// record is the "eas" tag's wire shape — kept local rather than
// imported from pkg/exchange so this package never has to depend on
// the document model it is validating records for.
type record struct {
	Network        string `json:"network"`
	AttestationUID string `json:"attestationUid"`
	From           string `json:"from"`
	To             string `json:"to"`
	Schema         struct {
		SchemaUID string `json:"schemaUid"`
		Name      string `json:"name"`
	} `json:"schema"`
}

// Client looks up an attestation's on-chain liveness. Production
// callers use EthereumClient; tests use a fixture implementation.
type Client interface {
	// IsLive reports whether attestationUID is registered under
	// schemaUID on network, issued by attester to recipient, neither
	// revoked nor expired, and commits to merkleRoot (the hex-encoded
	// root of the document being verified).
	IsLive(ctx context.Context, network, schemaUID, attestationUID, attester, recipient, merkleRoot string) (bool, error)
}

// Verifier implements attestation.Verifier for the "eas" service.
type Verifier struct {
	client Client
}

// NewVerifier wraps client.
func NewVerifier(client Client) (*Verifier, error) {
	if client == nil {
		return nil, fmt.Errorf("eas: client must not be nil")
	}
	return &Verifier{client: client}, nil
}

func (v *Verifier) ServiceID() string { return ServiceID }

func (v *Verifier) Verify(ctx context.Context, raw json.RawMessage, merkleRoot string) (attestation.Result, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return attestation.Result{}, fmt.Errorf("eas: decode attestation record: %w", err)
	}
	if rec.AttestationUID == "" || rec.Schema.SchemaUID == "" {
		return attestation.Result{}, fmt.Errorf("eas: attestation record missing uid or schema")
	}
	if merkleRoot == "" {
		return attestation.Result{}, fmt.Errorf("eas: no merkle root to bind attestation to")
	}

	result := attestation.Result{
		ServiceID:     ServiceID,
		Network:       rec.Network,
		AttestationID: rec.AttestationUID,
		Attester:      rec.From,
		Recipient:     rec.To,
		SchemaID:      rec.Schema.SchemaUID,
	}

	live, err := v.client.IsLive(ctx, rec.Network, rec.Schema.SchemaUID, rec.AttestationUID, rec.From, rec.To, merkleRoot)
	if err != nil {
		return attestation.Result{}, fmt.Errorf("eas: check attestation liveness: %w", err)
	}
	result.Verified = live
	return result, nil
}

func normalizeHex(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "0x"))
}

var _ attestation.Verifier = (*Verifier)(nil)
