// Copyright 2025 Certen Protocol
//
// BLS12-381 — an enrichment signing algorithm beyond the two the wire
// format requires, for deployments that want pairing-based aggregable
// signatures. sk = scalar in Fr, pk = sk*G2, sig = sk*H(message); a
// valid signature satisfies e(sig, G2) == e(H(message), pk).

package bls12381

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sync"

	curve "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/certen-io/proofpack/pkg/jws"
	"github.com/certen-io/proofpack/pkg/ppcodec"
)

// Algorithm is the JWS alg claim this package signs and verifies.
const Algorithm = "BLS12381"

// domainTag separates ProofPack envelope signatures from any other
// BLS12-381 signing done with the same keys.
const domainTag = "PROOFPACK_ENVELOPE_V1"

var (
	ErrKeyRequired = errors.New("bls12381: key must not be nil")

	initOnce sync.Once
	g2Gen    curve.G2Affine
)

func initGenerators() {
	initOnce.Do(func() {
		_, _, _, g2 := curve.Generators()
		g2Gen = g2
	})
}

// PrivateKey is a BLS12-381 secret scalar.
type PrivateKey struct {
	scalar fr.Element
}

// GenerateKey draws a fresh random secret scalar.
func GenerateKey() (*PrivateKey, error) {
	initGenerators()
	var sk fr.Element
	if _, err := sk.SetRandom(); err != nil {
		return nil, fmt.Errorf("bls12381: generate key: %w", err)
	}
	return &PrivateKey{scalar: sk}, nil
}

// PublicKey derives the G2 public key for sk.
func (sk *PrivateKey) PublicKey() *PublicKey {
	initGenerators()
	scalar := toBigInt(sk.scalar)
	var pk curve.G2Affine
	pk.ScalarMultiplication(&g2Gen, &scalar)
	return &PublicKey{point: pk}
}

func toBigInt(e fr.Element) big.Int {
	var b big.Int
	e.BigInt(&b)
	return b
}

// PublicKey is a BLS12-381 G2 point, serialized compressed.
type PublicKey struct {
	point curve.G2Affine
}

// Bytes returns the compressed G2 point encoding.
func (pk *PublicKey) Bytes() []byte {
	b := pk.point.Bytes()
	return b[:]
}

// PublicKeyFromBytes deserializes a public key.
func PublicKeyFromBytes(data []byte) (*PublicKey, error) {
	var pk curve.G2Affine
	if _, err := pk.SetBytes(data); err != nil {
		return nil, fmt.Errorf("bls12381: decode public key: %w", err)
	}
	return &PublicKey{point: pk}, nil
}

func hashToG1(message []byte) curve.G1Affine {
	// HashToG1 only fails for a domain separation tag longer than 255
	// bytes; this constant tag is well under that.
	point, _ := curve.HashToG1(message, []byte("BLS_SIG_BLS12381G1_XMD:SHA-256_SSWU_RO_"))
	return point
}

func envelopeMessage(signingInput string) []byte {
	h := sha256.New()
	h.Write([]byte(domainTag))
	h.Write([]byte(signingInput))
	return h.Sum(nil)
}

// Signer signs with a BLS12-381 private key, identified by kid (the
// caller's chosen name for the hex-encoded public key).
type Signer struct {
	kid        string
	privateKey *PrivateKey
}

// NewSigner wraps privateKey. kid is stamped into the protected header
// so a verifier can look up the matching public key.
func NewSigner(privateKey *PrivateKey, kid string) (*Signer, error) {
	if privateKey == nil {
		return nil, ErrKeyRequired
	}
	return &Signer{kid: kid, privateKey: privateKey}, nil
}

func (s *Signer) Algorithm() string { return Algorithm }

func (s *Signer) Sign(header jws.Header, payloadB64 string) (protectedB64, signatureB64 string, unprotected map[string]json.RawMessage, err error) {
	initGenerators()
	header.Alg = Algorithm
	if s.kid != "" {
		header.Kid = s.kid
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", "", nil, fmt.Errorf("bls12381: marshal header: %w", err)
	}
	protectedB64 = ppcodec.EncodeBytes(headerJSON)

	signingInput := protectedB64 + "." + payloadB64
	msg := envelopeMessage(signingInput)
	h := hashToG1(msg)

	var sig curve.G1Affine
	skBig := toBigInt(s.privateKey.scalar)
	sig.ScalarMultiplication(&h, &skBig)
	sigBytes := sig.Bytes()

	return protectedB64, ppcodec.EncodeBytes(sigBytes[:]), nil, nil
}

// Verifier checks BLS12-381 signatures against a known public key.
type Verifier struct {
	publicKey *PublicKey
}

// NewVerifier wraps publicKey.
func NewVerifier(publicKey *PublicKey) (*Verifier, error) {
	if publicKey == nil {
		return nil, ErrKeyRequired
	}
	return &Verifier{publicKey: publicKey}, nil
}

func (v *Verifier) Algorithm() string { return Algorithm }

func (v *Verifier) Verify(signingInput, signatureB64 string, header jws.Header) error {
	initGenerators()
	if header.Alg != Algorithm {
		return fmt.Errorf("bls12381: algorithm mismatch: %s", header.Alg)
	}
	sigBytes, err := ppcodec.DecodeToBytes(signatureB64)
	if err != nil {
		return fmt.Errorf("bls12381: decode signature: %w", err)
	}
	var sig curve.G1Affine
	if _, err := sig.SetBytes(sigBytes); err != nil {
		return fmt.Errorf("bls12381: decode signature point: %w", err)
	}

	msg := envelopeMessage(signingInput)
	h := hashToG1(msg)

	var negPk curve.G2Affine
	negPk.Neg(&v.publicKey.point)

	ok, err := curve.PairingCheck(
		[]curve.G1Affine{sig, h},
		[]curve.G2Affine{g2Gen, negPk},
	)
	if err != nil || !ok {
		return fmt.Errorf("bls12381: signature verification failed")
	}
	return nil
}

var (
	_ jws.Signer   = (*Signer)(nil)
	_ jws.Verifier = (*Verifier)(nil)
)
