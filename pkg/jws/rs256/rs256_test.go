// Copyright 2025 Certen Protocol

package rs256

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/certen-io/proofpack/pkg/jws"
)

type payload struct {
	Msg string `json:"msg"`
}

func genKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	key := genKey(t)
	signer, err := NewSigner(key, "key-1")
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	verifier, err := NewVerifier(&key.PublicKey)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	env, err := jws.NewEnvelopeBuilder(payload{Msg: "hi"}, signer).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	results := env.VerifyAll(func(sig jws.Signature, header jws.Header, protected bool) (jws.Verifier, bool) {
		if !protected || header.Alg != Algorithm {
			return nil, false
		}
		return verifier, true
	})
	if len(results) != 1 || !results[0].Verified {
		t.Fatalf("expected verified signature, got %+v", results)
	}
	if results[0].Header.Kid != "key-1" {
		t.Fatalf("kid did not round-trip: %+v", results[0].Header)
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	key := genKey(t)
	other := genKey(t)
	signer, _ := NewSigner(key, "")
	verifier, _ := NewVerifier(&other.PublicKey)

	env, err := jws.NewEnvelopeBuilder(payload{Msg: "hi"}, signer).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	results := env.VerifyAll(func(sig jws.Signature, header jws.Header, protected bool) (jws.Verifier, bool) {
		return verifier, true
	})
	if results[0].Verified {
		t.Fatal("expected verification with wrong key to fail")
	}
}

func TestNewSignerRejectsNilKey(t *testing.T) {
	if _, err := NewSigner(nil, ""); err == nil {
		t.Fatal("expected error for nil key")
	}
}

func TestNewVerifierRejectsNilKey(t *testing.T) {
	if _, err := NewVerifier(nil); err == nil {
		t.Fatal("expected error for nil key")
	}
}
