// Copyright 2025 Certen Protocol

package attestation

import (
	"context"
	"encoding/json"
	"testing"
)

type stubVerifier struct {
	id     string
	result Result
	err    error
}

func (s stubVerifier) ServiceID() string { return s.id }

func (s stubVerifier) Verify(ctx context.Context, raw json.RawMessage, merkleRoot string) (Result, error) {
	return s.result, s.err
}

func TestFactoryResolveIsCaseInsensitive(t *testing.T) {
	f := NewFactory()
	f.Register(stubVerifier{id: "EAS"})

	if _, ok := f.Resolve("eas"); !ok {
		t.Fatal("expected case-insensitive resolution to succeed")
	}
	if _, ok := f.Resolve("Eas"); !ok {
		t.Fatal("expected case-insensitive resolution to succeed")
	}
}

func TestFactoryResolveUnknown(t *testing.T) {
	f := NewFactory()
	if _, ok := f.Resolve("nope"); ok {
		t.Fatal("expected unknown service to not resolve")
	}
}

func TestFactoryMustResolveWrapsError(t *testing.T) {
	f := NewFactory()
	_, err := f.MustResolve("nope")
	if err == nil {
		t.Fatal("expected error for unknown service")
	}
}

func TestFactoryRegisterReplacesPrevious(t *testing.T) {
	f := NewFactory()
	f.Register(stubVerifier{id: "eas", result: Result{Verified: false}})
	f.Register(stubVerifier{id: "eas", result: Result{Verified: true}})

	v, ok := f.Resolve("eas")
	if !ok {
		t.Fatal("expected eas to resolve")
	}
	res, err := v.Verify(context.Background(), nil, "0xroot")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !res.Verified {
		t.Fatal("expected the second registration to win")
	}
}
