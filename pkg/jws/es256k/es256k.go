// Copyright 2025 Certen Protocol
//
// ES256K — secp256k1/SHA-256 signatures, Ethereum-address identity.
// The signer does not carry a kid; verification resolves a signer by
// the address it recovers from the signature itself, so the protected
// header never has to name a key in advance.

package es256k

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/certen-io/proofpack/pkg/jws"
	"github.com/certen-io/proofpack/pkg/ppcodec"
)

// Algorithm is the JWS alg claim this package signs and verifies.
const Algorithm = "ES256K"

var (
	// ErrKeyRequired is returned when a nil key is supplied.
	ErrKeyRequired = errors.New("es256k: key must not be nil")
	// ErrInvalidSignatureLength is returned when a signature is neither
	// the compact 64-byte r||s nor the legacy 65-byte r||s||v form.
	ErrInvalidSignatureLength = errors.New("es256k: signature must be 64 or 65 bytes")
	// ErrAddressMismatch is returned when the address recovered from a
	// signature does not match the address the verifier was bound to.
	ErrAddressMismatch = errors.New("es256k: recovered address does not match signer")
	errAlgorithmMismatch = errors.New("es256k: algorithm mismatch")
)

// Address is a 20-byte Ethereum address, compared case-insensitively.
type Address string

// Equal compares two addresses ignoring case and an optional 0x prefix.
func (a Address) Equal(other Address) bool {
	return strings.EqualFold(normalizeAddress(string(a)), normalizeAddress(string(other)))
}

func normalizeAddress(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "0x"))
}

// Signer signs with a secp256k1 private key and publishes its
// Ethereum address as an unprotected header claim.
type Signer struct {
	privateKey *ecdsa.PrivateKey
	address    Address
}

// NewSigner wraps privateKey and derives its Ethereum address.
func NewSigner(privateKey *ecdsa.PrivateKey) (*Signer, error) {
	if privateKey == nil {
		return nil, ErrKeyRequired
	}
	addr := crypto.PubkeyToAddress(privateKey.PublicKey)
	return &Signer{privateKey: privateKey, address: Address(addr.Hex())}, nil
}

// Address returns the signer's Ethereum address.
func (s *Signer) Address() Address { return s.address }

func (s *Signer) Algorithm() string { return Algorithm }

func (s *Signer) Sign(header jws.Header, payloadB64 string) (protectedB64, signatureB64 string, unprotected map[string]json.RawMessage, err error) {
	header.Alg = Algorithm
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", "", nil, fmt.Errorf("es256k: marshal header: %w", err)
	}
	protectedB64 = ppcodec.EncodeBytes(headerJSON)

	signingInput := protectedB64 + "." + payloadB64
	digest := sha256.Sum256([]byte(signingInput))
	sig, err := crypto.Sign(digest[:], s.privateKey)
	if err != nil {
		return "", "", nil, fmt.Errorf("es256k: sign: %w", err)
	}
	// crypto.Sign returns the 65-byte r||s||v form; the compact 64-byte
	// r||s form is preferred on the wire, v is recoverable by trying
	// both parities during verification.
	compact := sig[:64]

	addrJSON, err := json.Marshal(string(s.address))
	if err != nil {
		return "", "", nil, fmt.Errorf("es256k: marshal address: %w", err)
	}
	unprotected = map[string]json.RawMessage{"address": addrJSON}

	return protectedB64, ppcodec.EncodeBytes(compact), unprotected, nil
}

// Verifier checks ES256K signatures recovered against a bound address.
type Verifier struct {
	address Address
}

// NewVerifier binds a Verifier to the Ethereum address expected to
// have produced the signature.
func NewVerifier(address Address) (*Verifier, error) {
	if address == "" {
		return nil, ErrKeyRequired
	}
	return &Verifier{address: address}, nil
}

func (v *Verifier) Algorithm() string { return Algorithm }

func (v *Verifier) Verify(signingInput, signatureB64 string, header jws.Header) error {
	if header.Alg != Algorithm {
		return fmt.Errorf("%w: %s", errAlgorithmMismatch, header.Alg)
	}
	sig, err := ppcodec.DecodeToBytes(signatureB64)
	if err != nil {
		return fmt.Errorf("es256k: decode signature: %w", err)
	}
	digest := sha256.Sum256([]byte(signingInput))

	addr, err := recoverAddress(digest[:], sig, v.address)
	if err != nil {
		return err
	}
	if !addr.Equal(v.address) {
		return fmt.Errorf("%w: got %s want %s", ErrAddressMismatch, addr, v.address)
	}
	return nil
}

// recoverAddress drops the v byte of a legacy 65-byte signature, then
// tries both possible recovery ids for the 64-byte r||s form. It
// returns the recovered address that equals want if either id yields
// it, otherwise the first address recovered.
func recoverAddress(digest, sig []byte, want Address) (Address, error) {
	if len(sig) == 65 {
		sig = sig[:64]
	}
	switch len(sig) {
	case 64:
		var first Address
		for _, v := range []byte{0, 1} {
			full := append(append([]byte{}, sig...), v)
			pub, err := crypto.SigToPub(digest, full)
			if err != nil {
				continue
			}
			addr := Address(crypto.PubkeyToAddress(*pub).Hex())
			if addr.Equal(want) {
				return addr, nil
			}
			if first == "" {
				first = addr
			}
		}
		if first != "" {
			return first, nil
		}
		return "", fmt.Errorf("es256k: recover: %w", ErrInvalidSignatureLength)

	default:
		return "", ErrInvalidSignatureLength
	}
}

// ResolveAddress extracts the signer-published address from a
// signature's unprotected header, for callers (pkg/reader) that need
// to construct a Verifier on the fly from the address a signature
// itself claims.
func ResolveAddress(sig jws.Signature) (Address, bool) {
	raw, ok := sig.Header["address"]
	if !ok {
		return "", false
	}
	var addr string
	if err := json.Unmarshal(raw, &addr); err != nil {
		return "", false
	}
	return Address(addr), true
}

var (
	_ jws.Signer   = (*Signer)(nil)
	_ jws.Verifier = (*Verifier)(nil)
)
