// Copyright 2025 Certen Protocol
//
// Exchange documents — the layered payload model: a timestamped,
// replay-guarded wrapper around a Merkle Exchange Document, optionally
// bound to an external attestation.

package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/certen-io/proofpack/pkg/merkle"
)

var (
	// ErrArgumentNull is returned when a required argument is nil.
	ErrArgumentNull = errors.New("exchange: argument must not be nil")
	// ErrInvalidArgument is returned for malformed builder input.
	ErrInvalidArgument = errors.New("exchange: invalid argument")
)

// Well-known IssuedTo identity kinds.
const (
	IdentityKindEmail    = "email"
	IdentityKindPhone    = "phone"
	IdentityKindEthereum = "ethereum"
)

// IdentitySet maps identifier kind to identifier value. Keys and
// values must both be non-empty after trimming; the kind space is
// open beyond the well-known kinds above.
type IdentitySet map[string]string

// Set assigns value to kind after validating both are non-empty.
func (s IdentitySet) Set(kind, value string) error {
	kind = strings.TrimSpace(kind)
	value = strings.TrimSpace(value)
	if kind == "" || value == "" {
		return fmt.Errorf("%w: issuedTo kind and value must be non-empty", ErrInvalidArgument)
	}
	s[kind] = value
	return nil
}

// TimestampedExchange is the base payload shape: a Merkle tree bound
// to a production timestamp and a replay-prevention nonce.
type TimestampedExchange struct {
	MerkleTree *merkle.Tree `json:"merkleTree"`
	Timestamp  time.Time    `json:"timestamp"`
	Nonce      string       `json:"nonce,omitempty"`
	IssuedTo   IdentitySet  `json:"issuedTo,omitempty"`
}

// EASSchema describes the schema an EAS attestation was issued under.
type EASSchema struct {
	SchemaUID string `json:"schemaUid"`
	Name      string `json:"name"`
}

// EASAttestation is the "eas" service's attestation record shape.
type EASAttestation struct {
	Network        string    `json:"network"`
	AttestationUID string    `json:"attestationUid"`
	From           string    `json:"from"`
	To             string    `json:"to"`
	Schema         EASSchema `json:"schema"`
}

// AttestedExchange is a TimestampedExchange bound to an external
// attestation, keyed by service id. Unknown sibling services
// round-trip as opaque json.RawMessage so a forwards-compatible
// consumer never has to understand a tag it wasn't built for.
type AttestedExchange struct {
	TimestampedExchange
	Attestation map[string]json.RawMessage `json:"attestation"`
}

// EAS decodes the "eas" attestation tag, if present.
func (a *AttestedExchange) EAS() (EASAttestation, bool, error) {
	raw, ok := a.Attestation["eas"]
	if !ok {
		return EASAttestation{}, false, nil
	}
	var eas EASAttestation
	if err := json.Unmarshal(raw, &eas); err != nil {
		return EASAttestation{}, true, fmt.Errorf("exchange: decode eas attestation: %w", err)
	}
	return eas, true, nil
}

// MarshalJSON flattens TimestampedExchange's fields alongside
// Attestation. encoding/json already promotes the embedded struct's
// fields; this override only exists to omit a nil Attestation map
// rather than emit `"attestation":null`.
func (a AttestedExchange) MarshalJSON() ([]byte, error) {
	type alias struct {
		MerkleTree *merkle.Tree               `json:"merkleTree"`
		Timestamp  time.Time                  `json:"timestamp"`
		Nonce      string                     `json:"nonce,omitempty"`
		IssuedTo   IdentitySet                `json:"issuedTo,omitempty"`
		Attestation map[string]json.RawMessage `json:"attestation,omitempty"`
	}
	return json.Marshal(alias{
		MerkleTree:  a.MerkleTree,
		Timestamp:   a.Timestamp,
		Nonce:       a.Nonce,
		IssuedTo:    a.IssuedTo,
		Attestation: a.Attestation,
	})
}

// AttestationLocator is the builder-side input used to materialize an
// attestation record.
type AttestationLocator struct {
	ServiceID        string
	Network          string
	SchemaID         string
	AttestationID    string
	AttesterAddress  string
	RecipientAddress string
}

// Accepted service identifiers for AttestationLocator.ServiceID.
const (
	ServiceEAS                   = "eas"
	ServiceFakeAttestation       = "fake-attestation-service"
)

func isSupportedService(serviceID string) bool {
	lower := strings.ToLower(serviceID)
	return lower == ServiceEAS || lower == ServiceFakeAttestation
}
