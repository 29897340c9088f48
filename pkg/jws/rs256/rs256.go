// Copyright 2025 Certen Protocol
//
// RS256 — RSASSA-PKCS1-v1_5 over SHA-256, the stdlib-grade baseline
// signer/verifier for the JWS envelope.

package rs256

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/certen-io/proofpack/pkg/jws"
	"github.com/certen-io/proofpack/pkg/ppcodec"
)

// Algorithm is the JWS alg claim this package signs and verifies.
const Algorithm = "RS256"

// ErrKeyRequired is returned when a nil key is supplied to a
// constructor.
var ErrKeyRequired = errors.New("rs256: key must not be nil")

// Signer signs with an RSA private key.
type Signer struct {
	kid        string
	privateKey *rsa.PrivateKey
}

// NewSigner wraps privateKey. kid, if non-empty, is stamped into every
// protected header this signer produces.
func NewSigner(privateKey *rsa.PrivateKey, kid string) (*Signer, error) {
	if privateKey == nil {
		return nil, ErrKeyRequired
	}
	return &Signer{kid: kid, privateKey: privateKey}, nil
}

func (s *Signer) Algorithm() string { return Algorithm }

func (s *Signer) Sign(header jws.Header, payloadB64 string) (protectedB64, signatureB64 string, unprotected map[string]json.RawMessage, err error) {
	header.Alg = Algorithm
	if s.kid != "" {
		header.Kid = s.kid
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", "", nil, fmt.Errorf("rs256: marshal header: %w", err)
	}
	protectedB64 = ppcodec.EncodeBytes(headerJSON)

	signingInput := protectedB64 + "." + payloadB64
	digest := sha256.Sum256([]byte(signingInput))
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.privateKey, crypto.SHA256, digest[:])
	if err != nil {
		return "", "", nil, fmt.Errorf("rs256: sign: %w", err)
	}
	return protectedB64, ppcodec.EncodeBytes(sig), nil, nil
}

// Verifier checks signatures with an RSA public key.
type Verifier struct {
	publicKey *rsa.PublicKey
}

// NewVerifier wraps publicKey.
func NewVerifier(publicKey *rsa.PublicKey) (*Verifier, error) {
	if publicKey == nil {
		return nil, ErrKeyRequired
	}
	return &Verifier{publicKey: publicKey}, nil
}

func (v *Verifier) Algorithm() string { return Algorithm }

func (v *Verifier) Verify(signingInput, signatureB64 string, header jws.Header) error {
	if header.Alg != Algorithm {
		return fmt.Errorf("%w: %s", errAlgorithmMismatch, header.Alg)
	}
	sig, err := ppcodec.DecodeToBytes(signatureB64)
	if err != nil {
		return fmt.Errorf("rs256: decode signature: %w", err)
	}
	digest := sha256.Sum256([]byte(signingInput))
	if err := rsa.VerifyPKCS1v15(v.publicKey, crypto.SHA256, digest[:], sig); err != nil {
		return fmt.Errorf("rs256: verify: %w", err)
	}
	return nil
}

var errAlgorithmMismatch = errors.New("rs256: algorithm mismatch")

var (
	_ jws.Signer   = (*Signer)(nil)
	_ jws.Verifier = (*Verifier)(nil)
)
