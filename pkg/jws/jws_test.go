// Copyright 2025 Certen Protocol

package jws

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/certen-io/proofpack/pkg/canon"
	"github.com/certen-io/proofpack/pkg/ppcodec"
)

// fakeSigner/fakeVerifier exercise the envelope plumbing without
// pulling in a real algorithm package; Sign just reverses the signing
// input, Verify checks it can be un-reversed.
type fakeSigner struct {
	alg         string
	unprotected map[string]json.RawMessage
}

func (s fakeSigner) Algorithm() string { return s.alg }

func (s fakeSigner) Sign(header Header, payloadB64 string) (string, string, map[string]json.RawMessage, error) {
	header.Alg = s.alg
	hb, err := json.Marshal(header)
	if err != nil {
		return "", "", nil, err
	}
	protectedB64 := b64(hb)
	signingInput := protectedB64 + "." + payloadB64
	return protectedB64, reverse(signingInput), s.unprotected, nil
}

type fakeVerifier struct{ alg string }

func (v fakeVerifier) Algorithm() string { return v.alg }

func (v fakeVerifier) Verify(signingInput, signatureB64 string, header Header) error {
	if header.Alg != v.alg {
		return ErrAlgorithmMismatch
	}
	if reverse(signingInput) != signatureB64 {
		return ErrInvalidSignature
	}
	return nil
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

func b64(raw []byte) string {
	return ppcodec.EncodeBytes(raw)
}

type samplePayload struct {
	Msg string `json:"msg"`
}

func TestBuildProducesOneSignaturePerSigner(t *testing.T) {
	env, err := NewEnvelopeBuilder(samplePayload{Msg: "hi"}, fakeSigner{alg: "fake1"}, fakeSigner{alg: "fake2"}).
		WithContentType("application/json").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(env.Signatures) != 2 {
		t.Fatalf("want 2 signatures, got %d", len(env.Signatures))
	}
	if env.Signatures[0].Protected == env.Signatures[1].Protected {
		t.Fatalf("different signers should carry different alg in protected header")
	}
}

func TestBuildRejectsNoSigners(t *testing.T) {
	_, err := NewEnvelopeBuilder(samplePayload{Msg: "hi"}).Build()
	if err == nil {
		t.Fatal("expected error with zero signers")
	}
}

func TestBuildRejectsNilPayload(t *testing.T) {
	_, err := NewEnvelopeBuilder(nil, fakeSigner{alg: "fake1"}).Build()
	if err == nil {
		t.Fatal("expected error with nil payload")
	}
}

func TestParseRoundTripAndDecodePayload(t *testing.T) {
	built, err := NewEnvelopeBuilder(samplePayload{Msg: "hi"}, fakeSigner{alg: "fake1"}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	raw, err := json.Marshal(built)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	parsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var got samplePayload
	if err := parsed.DecodePayload(&got); err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if got.Msg != "hi" {
		t.Fatalf("got %+v", got)
	}
}

func TestParseRejectsMissingSignatures(t *testing.T) {
	_, err := Parse([]byte(`{"payload":"abc","signatures":[]}`))
	if err == nil {
		t.Fatal("expected error for empty signatures")
	}
}

func TestParseRejectsMissingPayload(t *testing.T) {
	_, err := Parse([]byte(`{"signatures":[{"signature":"x"}]}`))
	if err == nil {
		t.Fatal("expected error for missing payload")
	}
}

func TestVerifyAllAcceptsValidSignature(t *testing.T) {
	env, err := NewEnvelopeBuilder(samplePayload{Msg: "hi"}, fakeSigner{alg: "fake1"}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	results := env.VerifyAll(func(sig Signature, header Header, protected bool) (Verifier, bool) {
		if !protected {
			return nil, false
		}
		return fakeVerifier{alg: header.Alg}, true
	})
	if len(results) != 1 || !results[0].Verified {
		t.Fatalf("expected signature to verify, got %+v", results)
	}
}

func TestVerifyAllRejectsTamperedSignature(t *testing.T) {
	env, err := NewEnvelopeBuilder(samplePayload{Msg: "hi"}, fakeSigner{alg: "fake1"}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	env.Signatures[0].SignatureB64 = strings.ToUpper(env.Signatures[0].SignatureB64) + "x"
	results := env.VerifyAll(func(sig Signature, header Header, protected bool) (Verifier, bool) {
		return fakeVerifier{alg: header.Alg}, true
	})
	if results[0].Verified {
		t.Fatal("tampered signature should not verify")
	}
}

func TestVerifyAllReportsUnresolvedVerifier(t *testing.T) {
	env, err := NewEnvelopeBuilder(samplePayload{Msg: "hi"}, fakeSigner{alg: "fake1"}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	results := env.VerifyAll(func(sig Signature, header Header, protected bool) (Verifier, bool) {
		return nil, false
	})
	if results[0].Verified || results[0].Err == nil {
		t.Fatalf("expected unresolved verifier to be reported, got %+v", results[0])
	}
}

func TestSignatureDecodeHeaderRejectsEmptySignature(t *testing.T) {
	_, _, err := (Signature{}).DecodeHeader()
	if err == nil {
		t.Fatal("expected error decoding header of bare signature")
	}
}

func TestVerifyAllSynthesizesProtectedFromHeaderOnlySignature(t *testing.T) {
	env, err := NewEnvelopeBuilder(samplePayload{Msg: "hi"}, fakeSigner{alg: "fake1"}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Simulate a producer that only ever carried its header
	// unprotected: re-derive the signature over the canonical
	// re-serialization of that same header, then move it from
	// Protected to Header.
	header := Header{Alg: "fake1"}
	canonicalHeader, err := canon.Marshal(header)
	if err != nil {
		t.Fatalf("canon.Marshal: %v", err)
	}
	signingInput := b64(canonicalHeader) + "." + env.PayloadB64

	var headerMap map[string]json.RawMessage
	if err := json.Unmarshal(canonicalHeader, &headerMap); err != nil {
		t.Fatalf("unmarshal header map: %v", err)
	}

	env.Signatures[0] = Signature{
		SignatureB64: reverse(signingInput),
		Header:       headerMap,
	}

	results := env.VerifyAll(func(sig Signature, header Header, protected bool) (Verifier, bool) {
		if protected {
			return nil, false
		}
		return fakeVerifier{alg: header.Alg}, true
	})
	if len(results) != 1 || !results[0].Verified {
		t.Fatalf("expected header-only signature to verify via synthesized protected segment, got %+v", results)
	}
}

func TestHeaderPreservesPrivateClaims(t *testing.T) {
	h := Header{Alg: "fake1", Extra: map[string]json.RawMessage{"x-custom": json.RawMessage(`"v"`)}}
	raw, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var round Header
	if err := json.Unmarshal(raw, &round); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(round.Extra["x-custom"]) != `"v"` {
		t.Fatalf("private claim did not round-trip: %+v", round.Extra)
	}
}
