// Copyright 2025 Certen Protocol
//
// Envelope is the JWS General Serialization: one shared, detached
// payload segment and one or more independent signatures over it.

package jws

import (
	"encoding/json"
	"fmt"

	"github.com/certen-io/proofpack/pkg/canon"
	"github.com/certen-io/proofpack/pkg/ppcodec"
)

// Signature is one entry in Envelope.Signatures. Protected is the
// base64url-encoded, integrity-protected header; Header carries
// supplementary claims that are NOT covered by the signature (e.g. an
// ES256K signer publishing its recovered address for convenience).
type Signature struct {
	SignatureB64 string                      `json:"signature"`
	Protected    string                      `json:"protected,omitempty"`
	Header       map[string]json.RawMessage  `json:"header,omitempty"`
}

// Envelope is a parsed or built JWS in General Serialization.
type Envelope struct {
	PayloadB64 string      `json:"payload"`
	Signatures []Signature `json:"signatures"`
}

// Parse decodes an Envelope from JSON and checks its basic shape.
func Parse(raw []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEnvelope, err)
	}
	if e.PayloadB64 == "" {
		return nil, fmt.Errorf("%w: missing payload", ErrInvalidEnvelope)
	}
	if len(e.Signatures) == 0 {
		return nil, fmt.Errorf("%w: no signatures", ErrInvalidEnvelope)
	}
	return &e, nil
}

// DecodePayload base64url-decodes the payload and JSON-unmarshals it
// into v.
func (e *Envelope) DecodePayload(v interface{}) error {
	raw, err := ppcodec.DecodeToBytes(e.PayloadB64)
	if err != nil {
		return fmt.Errorf("%w: payload: %s", ErrInvalidEnvelope, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: payload: %s", ErrInvalidEnvelope, err)
	}
	return nil
}

// DecodeHeader decodes the effective header for sig: the protected header if
// present, else the unprotected header map. The returned bool reports
// whether the header came from the integrity-protected segment —
// callers that require a signature's algorithm identity to be trusted
// must reject protected=false results rather than act on them.
func (sig Signature) DecodeHeader() (header Header, protected bool, err error) {
	if sig.Protected != "" {
		raw, err := ppcodec.DecodeToBytes(sig.Protected)
		if err != nil {
			return Header{}, false, fmt.Errorf("%w: protected: %s", ErrInvalidHeader, err)
		}
		if err := json.Unmarshal(raw, &header); err != nil {
			return Header{}, false, fmt.Errorf("%w: protected: %s", ErrInvalidHeader, err)
		}
		return header, true, nil
	}
	if len(sig.Header) > 0 {
		raw, err := json.Marshal(sig.Header)
		if err != nil {
			return Header{}, false, fmt.Errorf("%w: %s", ErrInvalidHeader, err)
		}
		if err := json.Unmarshal(raw, &header); err != nil {
			return Header{}, false, fmt.Errorf("%w: %s", ErrInvalidHeader, err)
		}
		return header, false, nil
	}
	return Header{}, false, fmt.Errorf("%w: neither protected nor header is present", ErrInvalidHeader)
}

// SigningInput is the exact byte sequence a Signer signs and a
// Verifier checks: ASCII "<protected-b64>.<payload-b64>". When sig
// carries a protected segment, it is used verbatim. When sig carries
// only an unprotected header (protected is false, as returned by
// DecodeHeader), the protected segment is synthesized by canonically
// re-serializing header and base64url-encoding the result — a
// conformant producer folded that same header into the signing input
// before signing, so the consumer must reconstruct it the same way
// rather than treat a header-only signature as permanently
// unverifiable.
func (e *Envelope) SigningInput(sig Signature, header Header, protected bool) (string, error) {
	if protected {
		return sig.Protected + "." + e.PayloadB64, nil
	}
	raw, err := canon.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("%w: synthesize protected header: %s", ErrInvalidHeader, err)
	}
	return ppcodec.EncodeBytes(raw) + "." + e.PayloadB64, nil
}
