// Copyright 2025 Certen Protocol

package jws

import (
	"fmt"

	"github.com/certen-io/proofpack/pkg/canon"
	"github.com/certen-io/proofpack/pkg/ppcodec"
)

// EnvelopeBuilder assembles a signed Envelope around one canonical
// payload, one signature per signer.
type EnvelopeBuilder struct {
	payload interface{}
	signers []Signer
	typ     string
	cty     string
}

// NewEnvelopeBuilder starts a builder for payload, signed by signers in
// order. typ defaults to "JWT"; cty is unset until WithContentType is
// called.
func NewEnvelopeBuilder(payload interface{}, signers ...Signer) *EnvelopeBuilder {
	return &EnvelopeBuilder{payload: payload, signers: signers, typ: "JWT"}
}

// WithType overrides the protected header's typ claim.
func (b *EnvelopeBuilder) WithType(typ string) *EnvelopeBuilder {
	b.typ = typ
	return b
}

// WithContentType sets the protected header's cty claim.
func (b *EnvelopeBuilder) WithContentType(cty string) *EnvelopeBuilder {
	b.cty = cty
	return b
}

// Build canonically serializes the payload once and asks every signer
// to sign it, assembling the result into an Envelope.
func (b *EnvelopeBuilder) Build() (*Envelope, error) {
	if b.payload == nil {
		return nil, fmt.Errorf("%w: payload", ErrArgumentNull)
	}
	if len(b.signers) == 0 {
		return nil, fmt.Errorf("%w: at least one signer is required", ErrInvalidOperation)
	}

	payloadJSON, err := canon.Marshal(b.payload)
	if err != nil {
		return nil, fmt.Errorf("jws: canonicalize payload: %w", err)
	}
	payloadB64 := ppcodec.EncodeBytes(payloadJSON)

	sigs := make([]Signature, 0, len(b.signers))
	for _, signer := range b.signers {
		header := Header{Alg: signer.Algorithm(), Typ: b.typ, Cty: b.cty}
		protectedB64, signatureB64, unprotected, err := signer.Sign(header, payloadB64)
		if err != nil {
			return nil, fmt.Errorf("jws: sign with %s: %w", signer.Algorithm(), err)
		}
		sigs = append(sigs, Signature{
			SignatureB64: signatureB64,
			Protected:    protectedB64,
			Header:       unprotected,
		})
	}

	return &Envelope{PayloadB64: payloadB64, Signatures: sigs}, nil
}
