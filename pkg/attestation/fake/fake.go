// Copyright 2025 Certen Protocol
//
// Fake attestation verifier — an in-memory service for tests and demo
// environments that never talk to a real attestation network. Every
// attestation id is either registered as valid or absent; there is no
// revocation model beyond "not registered".

package fake

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/certen-io/proofpack/pkg/attestation"
)

// ServiceID is the attestation tag this package understands.
const ServiceID = "fake-attestation-service"

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

// Verifier is attestation.Verifier backed by an in-process set of
// registered attestation ids, each bound to the single Merkle root it
// was issued against.
type Verifier struct {
	mu    sync.RWMutex
	valid map[string]string // attestationUID -> bound merkle root
}

// NewVerifier returns an empty Verifier; call RegisterValid to seed
// it with the attestation ids a test wants to treat as live.
func NewVerifier() *Verifier {
	return &Verifier{valid: make(map[string]string)}
}

// RegisterValid marks attestationUID as a live attestation bound to
// merkleRoot; Verify only reports Verified=true when both the uid is
// registered and the root it is asked to check against matches.
func (v *Verifier) RegisterValid(attestationUID, merkleRoot string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.valid[attestationUID] = merkleRoot
}

// Revoke removes attestationUID from the live set, if present.
func (v *Verifier) Revoke(attestationUID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.valid, attestationUID)
}

func (v *Verifier) ServiceID() string { return ServiceID }

func (v *Verifier) Verify(ctx context.Context, raw json.RawMessage, merkleRoot string) (attestation.Result, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return attestation.Result{}, fmt.Errorf("fake: decode attestation record: %w", err)
	}
	if rec.AttestationUID == "" {
		return attestation.Result{}, fmt.Errorf("fake: attestation record missing uid")
	}

	v.mu.RLock()
	boundRoot, ok := v.valid[rec.AttestationUID]
	v.mu.RUnlock()

	return attestation.Result{
		Verified:      ok && merkleRoot != "" && boundRoot == merkleRoot,
		ServiceID:     ServiceID,
		Network:       rec.Network,
		AttestationID: rec.AttestationUID,
		Attester:      rec.From,
		Recipient:     rec.To,
		SchemaID:      rec.Schema.SchemaUID,
	}, nil
}

var _ attestation.Verifier = (*Verifier)(nil)
