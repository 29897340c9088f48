// Copyright 2025 Certen Protocol

package es256k

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/certen-io/proofpack/pkg/jws"
)

type payload struct {
	Msg string `json:"msg"`
}

func genKey(t *testing.T) *Signer {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	signer, err := NewSigner(key)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	return signer
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	signer := genKey(t)
	verifier, err := NewVerifier(signer.Address())
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
}

func TestResolveAddressFromUnprotectedHeader(t *testing.T) {
	signer := genKey(t)
	env, err := jws.NewEnvelopeBuilder(payload{Msg: "hi"}, signer).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	addr, ok := ResolveAddress(env.Signatures[0])
	if !ok {
		t.Fatal("expected address in unprotected header")
	}
	if !addr.Equal(signer.Address()) {
		t.Fatalf("got %s want %s", addr, signer.Address())
	}
}

func TestVerifyRejectsWrongAddress(t *testing.T) {
	signer := genKey(t)
	other := genKey(t)
	verifier, _ := NewVerifier(other.Address())

	env, err := jws.NewEnvelopeBuilder(payload{Msg: "hi"}, signer).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	results := env.VerifyAll(func(sig jws.Signature, header jws.Header, protected bool) (jws.Verifier, bool) {
		return verifier, true
	})
	if results[0].Verified {
		t.Fatal("expected verification against wrong address to fail")
	}
}

func TestAddressEqualIgnoresCaseAndPrefix(t *testing.T) {
	a := Address("0xAbCdEf0000000000000000000000000000000000")
	b := Address("abcdef0000000000000000000000000000000000")
	if !a.Equal(b) {
		t.Fatalf("expected %s to equal %s", a, b)
	}
}

func TestNewSignerRejectsNilKey(t *testing.T) {
	if _, err := NewSigner(nil); err == nil {
		t.Fatal("expected error for nil key")
	}
}
