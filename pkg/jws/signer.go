// Copyright 2025 Certen Protocol

package jws

import "encoding/json"

// Signer produces one Signature over a caller-assigned base header and
// an already base64url-encoded payload. Implementations live in
// per-algorithm subpackages (rs256, es256k, bls12381); Sign is free to
// add claims to header before encoding it into Protected, and may
// return supplementary, non-integrity-protected claims via
// unprotected — an ES256K signer uses this to publish the address it
// recovered from its own key.
type Signer interface {
	Algorithm() string
	Sign(header Header, payloadB64 string) (protectedB64, signatureB64 string, unprotected map[string]json.RawMessage, err error)
}

// Verifier checks one Signature's SignatureB64 against signingInput,
// a ".":-joined protected/payload pair produced by Envelope.SigningInput.
// header is the signature's decoded header: the protected one, or the
// unprotected one when no protected segment is present.
type Verifier interface {
	Algorithm() string
	Verify(signingInput string, signatureB64 string, header Header) error
}
