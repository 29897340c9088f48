// Copyright 2025 Certen Protocol

package exchange

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/certen-io/proofpack/pkg/jws"
	"github.com/certen-io/proofpack/pkg/merkle"
)

// Content-type hints, advisory only.
const (
	ContentTypeTimestamped = "application/timestamped-merkle-exchange+json"
	ContentTypeAttested    = "application/attested-merkle-exchange+json"
)

func newNonce() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// TimestampedMerkleExchangeBuilder is a fluent With*-option assembler
// for TimestampedExchange payloads and their signed envelopes.
type TimestampedMerkleExchangeBuilder struct {
	tree     *merkle.Tree
	nonce    string
	issuedTo IdentitySet
}

// NewTimestampedMerkleExchangeBuilder starts a builder from an already
// built Merkle tree.
func NewTimestampedMerkleExchangeBuilder(tree *merkle.Tree) (*TimestampedMerkleExchangeBuilder, error) {
	if tree == nil {
		return nil, fmt.Errorf("%w: tree", ErrArgumentNull)
	}
	return &TimestampedMerkleExchangeBuilder{tree: tree, issuedTo: IdentitySet{}}, nil
}

// WithNonce pins a specific nonce instead of generating one at build
// time. Passing "" clears any previously pinned nonce.
func (b *TimestampedMerkleExchangeBuilder) WithNonce(nonce string) *TimestampedMerkleExchangeBuilder {
	b.nonce = nonce
	return b
}

// WithIssuedTo sets a single identity kind/value pair.
func (b *TimestampedMerkleExchangeBuilder) WithIssuedTo(kind, value string) (*TimestampedMerkleExchangeBuilder, error) {
	if err := b.issuedTo.Set(kind, value); err != nil {
		return nil, err
	}
	return b, nil
}

// WithIssuedToMap copies every entry of m into the builder's identity
// set.
func (b *TimestampedMerkleExchangeBuilder) WithIssuedToMap(m map[string]string) (*TimestampedMerkleExchangeBuilder, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: issuedTo map", ErrArgumentNull)
	}
	for k, v := range m {
		if err := b.issuedTo.Set(k, v); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// WithIssuedToEmail, WithIssuedToPhone, and WithIssuedToEthereum are
// shortcuts for the well-known identity kinds.
func (b *TimestampedMerkleExchangeBuilder) WithIssuedToEmail(email string) (*TimestampedMerkleExchangeBuilder, error) {
	return b.WithIssuedTo(IdentityKindEmail, email)
}

func (b *TimestampedMerkleExchangeBuilder) WithIssuedToPhone(phone string) (*TimestampedMerkleExchangeBuilder, error) {
	return b.WithIssuedTo(IdentityKindPhone, phone)
}

func (b *TimestampedMerkleExchangeBuilder) WithIssuedToEthereum(address string) (*TimestampedMerkleExchangeBuilder, error) {
	return b.WithIssuedTo(IdentityKindEthereum, address)
}

// BuildPayload materializes the TimestampedExchange: timestamp is
// always now(UTC); the nonce is the pinned one, or a freshly generated
// one if none was pinned.
func (b *TimestampedMerkleExchangeBuilder) BuildPayload() TimestampedExchange {
	nonce := b.nonce
	if nonce == "" {
		nonce = newNonce()
	}
	var issuedTo IdentitySet
	if len(b.issuedTo) > 0 {
		issuedTo = b.issuedTo
	}
	return TimestampedExchange{
		MerkleTree: b.tree,
		Timestamp:  time.Now().UTC(),
		Nonce:      nonce,
		IssuedTo:   issuedTo,
	}
}

// BuildSigned builds the payload and wraps it in a signed JWS
// envelope, one signature per signer.
func (b *TimestampedMerkleExchangeBuilder) BuildSigned(signers ...jws.Signer) (*jws.Envelope, error) {
	payload := b.BuildPayload()
	return jws.NewEnvelopeBuilder(payload, signers...).
		WithType("JWT").
		WithContentType(ContentTypeTimestamped).
		Build()
}

// AttestedMerkleExchangeBuilder extends TimestampedMerkleExchangeBuilder
// with a required attestation locator.
type AttestedMerkleExchangeBuilder struct {
	inner    *TimestampedMerkleExchangeBuilder
	locator  *AttestationLocator
}

// NewAttestedMerkleExchangeBuilder starts a builder from an already
// built Merkle tree.
func NewAttestedMerkleExchangeBuilder(tree *merkle.Tree) (*AttestedMerkleExchangeBuilder, error) {
	inner, err := NewTimestampedMerkleExchangeBuilder(tree)
	if err != nil {
		return nil, err
	}
	return &AttestedMerkleExchangeBuilder{inner: inner}, nil
}

func (b *AttestedMerkleExchangeBuilder) WithNonce(nonce string) *AttestedMerkleExchangeBuilder {
	b.inner.WithNonce(nonce)
	return b
}

func (b *AttestedMerkleExchangeBuilder) WithIssuedTo(kind, value string) (*AttestedMerkleExchangeBuilder, error) {
	if _, err := b.inner.WithIssuedTo(kind, value); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *AttestedMerkleExchangeBuilder) WithIssuedToMap(m map[string]string) (*AttestedMerkleExchangeBuilder, error) {
	if _, err := b.inner.WithIssuedToMap(m); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *AttestedMerkleExchangeBuilder) WithIssuedToEmail(email string) (*AttestedMerkleExchangeBuilder, error) {
	return b.WithIssuedTo(IdentityKindEmail, email)
}

func (b *AttestedMerkleExchangeBuilder) WithIssuedToPhone(phone string) (*AttestedMerkleExchangeBuilder, error) {
	return b.WithIssuedTo(IdentityKindPhone, phone)
}

func (b *AttestedMerkleExchangeBuilder) WithIssuedToEthereum(address string) (*AttestedMerkleExchangeBuilder, error) {
	return b.WithIssuedTo(IdentityKindEthereum, address)
}

// WithAttestation sets the attestation locator. Required before
// BuildPayload; serviceId must be "eas" or "fake-attestation-service"
// (case-insensitive).
func (b *AttestedMerkleExchangeBuilder) WithAttestation(locator AttestationLocator) (*AttestedMerkleExchangeBuilder, error) {
	if !isSupportedService(locator.ServiceID) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedService, locator.ServiceID)
	}
	loc := locator
	b.locator = &loc
	return b, nil
}

// ErrUnsupportedService is returned by WithAttestation for an unknown
// serviceId.
var ErrUnsupportedService = fmt.Errorf("exchange: unsupported attestation service")

// ErrAttestationRequired is returned by BuildPayload/BuildSigned when
// WithAttestation was never called.
var ErrAttestationRequired = fmt.Errorf("exchange: attestation locator is required")

// BuildPayload materializes the AttestedExchange. WithAttestation must
// have been called first.
func (b *AttestedMerkleExchangeBuilder) BuildPayload() (AttestedExchange, error) {
	if b.locator == nil {
		return AttestedExchange{}, ErrAttestationRequired
	}
	attestation, err := materializeAttestation(*b.locator)
	if err != nil {
		return AttestedExchange{}, err
	}
	return AttestedExchange{
		TimestampedExchange: b.inner.BuildPayload(),
		Attestation:         attestation,
	}, nil
}

// BuildSigned builds the payload and wraps it in a signed JWS
// envelope, one signature per signer.
func (b *AttestedMerkleExchangeBuilder) BuildSigned(signers ...jws.Signer) (*jws.Envelope, error) {
	payload, err := b.BuildPayload()
	if err != nil {
		return nil, err
	}
	return jws.NewEnvelopeBuilder(payload, signers...).
		WithType("JWT").
		WithContentType(ContentTypeAttested).
		Build()
}
