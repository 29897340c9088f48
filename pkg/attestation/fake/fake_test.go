// Copyright 2025 Certen Protocol

package fake

import (
	"context"
	"encoding/json"
	"testing"
)

func recordJSON(uid string) []byte {
	raw, _ := json.Marshal(record{AttestationUID: uid, Network: "test", From: "0x1", To: "0x2"})
	return raw
}

func TestRegisterValidMakesAttestationVerify(t *testing.T) {
	v := NewVerifier()
	v.RegisterValid("att-1", "0xroot")

	result, err := v.Verify(context.Background(), recordJSON("att-1"), "0xroot")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !result.Verified {
		t.Fatal("expected registered attestation to verify")
	}
}

func TestUnregisteredAttestationFails(t *testing.T) {
	v := NewVerifier()
	result, err := v.Verify(context.Background(), recordJSON("unknown"), "0xroot")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Verified {
		t.Fatal("expected unregistered attestation to not verify")
	}
}

func TestRegisterValidBoundToDifferentRootFails(t *testing.T) {
	v := NewVerifier()
	v.RegisterValid("att-1", "0xtherightroot")

	// Same attestation UID, attached to a document with a different
	// root: this is exactly the cross-document replay the root
	// binding exists to stop.
	result, err := v.Verify(context.Background(), recordJSON("att-1"), "0xsomeotherroot")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Verified {
		t.Fatal("expected attestation bound to a different root to not verify")
	}
}

func TestRevokeRemovesValidity(t *testing.T) {
	v := NewVerifier()
	v.RegisterValid("att-1", "0xroot")
	v.Revoke("att-1")

	result, err := v.Verify(context.Background(), recordJSON("att-1"), "0xroot")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Verified {
		t.Fatal("expected revoked attestation to not verify")
	}
}

func TestVerifyRejectsMissingUID(t *testing.T) {
	v := NewVerifier()
	_, err := v.Verify(context.Background(), []byte(`{}`), "0xroot")
	if err == nil {
		t.Fatal("expected error for missing uid")
	}
}
