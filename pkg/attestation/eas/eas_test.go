// Copyright 2025 Certen Protocol

package eas

import (
	"context"
	"encoding/json"
	"testing"
)

type fixtureClient struct {
	live bool
	err  error
	// wantRoot, when non-empty, makes IsLive report false unless the
	// caller-supplied merkleRoot matches it exactly — simulating an
	// on-chain record bound to one specific document.
	wantRoot string
}

func (f fixtureClient) IsLive(ctx context.Context, network, schemaUID, attestationUID, attester, recipient, merkleRoot string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.wantRoot != "" && merkleRoot != f.wantRoot {
		return false, nil
	}
	return f.live, nil
}

func sampleRecord() []byte {
	raw, _ := json.Marshal(record{
		Network:        "base-sepolia",
		AttestationUID: "0xabc",
		From:           "0xattester",
		To:             "0xrecipient",
		Schema: struct {
			SchemaUID string `json:"schemaUid"`
			Name      string `json:"name"`
		}{SchemaUID: "0xschema", Name: "PrivateData"},
	})
	return raw
}

func TestVerifyReportsLiveAttestation(t *testing.T) {
	v, err := NewVerifier(fixtureClient{live: true})
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	result, err := v.Verify(context.Background(), sampleRecord(), "0xroot")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !result.Verified {
		t.Fatal("expected verified result")
	}
	if result.AttestationID != "0xabc" || result.SchemaID != "0xschema" {
		t.Fatalf("result fields not populated: %+v", result)
	}
}

func TestVerifyReportsRevokedAttestation(t *testing.T) {
	v, _ := NewVerifier(fixtureClient{live: false})
	result, err := v.Verify(context.Background(), sampleRecord(), "0xroot")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Verified {
		t.Fatal("expected unverified result")
	}
}

func TestVerifyRejectsAttestationBoundToDifferentRoot(t *testing.T) {
	v, _ := NewVerifier(fixtureClient{live: true, wantRoot: "0xtherightroot"})

	// The attestation is live, unrevoked, and schema/attester/recipient
	// all match — but it was issued against a different document, so
	// checking it against this one's root must fail.
	result, err := v.Verify(context.Background(), sampleRecord(), "0xsomeotherroot")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Verified {
		t.Fatal("expected attestation bound to a different root to not verify")
	}
}

func TestVerifyRejectsMalformedRecord(t *testing.T) {
	v, _ := NewVerifier(fixtureClient{live: true})
	_, err := v.Verify(context.Background(), []byte(`{"network":"base-sepolia"}`), "0xroot")
	if err == nil {
		t.Fatal("expected error for record missing uid/schema")
	}
}

func TestNewVerifierRejectsNilClient(t *testing.T) {
	if _, err := NewVerifier(nil); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestServiceID(t *testing.T) {
	v, _ := NewVerifier(fixtureClient{})
	if v.ServiceID() != "eas" {
		t.Fatalf("got %s", v.ServiceID())
	}
}
