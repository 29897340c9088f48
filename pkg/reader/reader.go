// Copyright 2025 Certen Protocol
//
// Reader implements the ordered verification pipeline every
// AttestedExchange envelope must pass: parse, replay check, age
// check, tree presence, root recompute, attestation, signer
// resolution from the attester's identity, and signature policy —
// attestation is mandatory and always checked before any signature is
// resolved, never after. A payload carrying no attestation tag fails
// at step 6 rather than falling through to signature checks.

package reader

import (
	"context"
	"fmt"
	"time"

	"github.com/certen-io/proofpack/pkg/attestation"
	"github.com/certen-io/proofpack/pkg/exchange"
	"github.com/certen-io/proofpack/pkg/jws"
)

// Result is the outcome of one Reader.Verify call.
type Result struct {
	Valid               bool
	Payload             exchange.AttestedExchange
	HasAttestation      bool
	Attestation         attestation.Result
	VerifiedSignatures  int
	TotalSignatures     int
	Err                 error
}

// Reader runs the verification pipeline over a signed envelope.
type Reader struct{}

// NewReader returns a Reader. It carries no state of its own; all
// per-call configuration lives in VerificationContext.
func NewReader() *Reader {
	return &Reader{}
}

// Verify runs the full pipeline against raw, a JWS General
// Serialization envelope.
func (r *Reader) Verify(ctx context.Context, raw []byte, vctx VerificationContext) (*Result, error) {
	logger := vctx.logger()

	// Step 1: parse.
	env, err := jws.Parse(raw)
	if err != nil {
		logger.Printf("reject: parse envelope: %v", err)
		return &Result{Err: fmt.Errorf("%w: %s", ErrNoPayload, err)}, nil
	}

	var payload exchange.AttestedExchange
	if err := env.DecodePayload(&payload); err != nil {
		logger.Printf("reject: decode payload: %v", err)
		return &Result{Err: fmt.Errorf("%w: %s", ErrNoPayload, err)}, nil
	}
	hasAttestation := len(payload.Attestation) > 0

	// Step 2: nonce replay check.
	if vctx.HasValidNonce == nil {
		logger.Printf("reject: no nonce checker configured")
		return &Result{Payload: payload, Err: fmt.Errorf("%w: no nonce checker configured", ErrInvalidNonce)}, nil
	}
	ok, err := vctx.HasValidNonce(payload.Nonce)
	if err != nil {
		logger.Printf("reject: nonce check: %v", err)
		return &Result{Payload: payload, Err: fmt.Errorf("%w: %s", ErrInvalidNonce, err)}, nil
	}
	if !ok {
		logger.Printf("reject: replayed nonce %q", payload.Nonce)
		return &Result{Payload: payload, Err: ErrInvalidNonce}, nil
	}

	// Step 3: age check.
	if vctx.MaxAge > 0 {
		age := time.Since(payload.Timestamp)
		if age > vctx.MaxAge {
			logger.Printf("reject: document age %s exceeds max %s", age, vctx.MaxAge)
			return &Result{Payload: payload, Err: ErrStale}, nil
		}
	}

	// Step 4: tree presence.
	if payload.MerkleTree == nil {
		logger.Printf("reject: no merkle tree")
		return &Result{Payload: payload, Err: ErrNoMerkleTree}, nil
	}

	// Step 5: root recompute.
	if !payload.MerkleTree.VerifyRoot() {
		logger.Printf("reject: merkle root mismatch")
		return &Result{Payload: payload, Err: ErrInvalidRoot}, nil
	}

	// Step 6: attestation, mandatory and always checked before any
	// signer is resolved — a payload with no attestation tag fails
	// here rather than falling through to signature checks.
	attResult, err := r.verifyAttestation(ctx, payload, vctx)
	if err != nil {
		logger.Printf("reject: attestation: %v", err)
		return &Result{Payload: payload, HasAttestation: hasAttestation, Err: err}, nil
	}
	if !attResult.Verified {
		logger.Printf("reject: attestation not verified")
		return &Result{Payload: payload, HasAttestation: hasAttestation, Attestation: attResult, Err: ErrInvalidAttestation}, nil
	}

	// Step 7 & 8: signer resolution from attester identity, then
	// signature policy.
	verified, total, err := r.verifySignatures(env, attResult.Attester, vctx)
	result := &Result{
		Payload:            payload,
		HasAttestation:     hasAttestation,
		Attestation:        attResult,
		VerifiedSignatures: verified,
		TotalSignatures:    total,
	}
	if err != nil {
		logger.Printf("reject: signatures: %v", err)
		result.Err = err
		return result, nil
	}

	// Step 9: result.
	result.Valid = true
	return result, nil
}

func (r *Reader) verifyAttestation(ctx context.Context, payload exchange.AttestedExchange, vctx VerificationContext) (attestation.Result, error) {
	if vctx.AttestationFactory == nil {
		return attestation.Result{}, fmt.Errorf("%w: no attestation factory configured", ErrInvalidAttestation)
	}
	if len(payload.Attestation) != 1 {
		return attestation.Result{}, fmt.Errorf("%w: expected exactly one attestation tag, got %d", ErrInvalidAttestation, len(payload.Attestation))
	}
	for serviceID, raw := range payload.Attestation {
		verifier, err := vctx.AttestationFactory.MustResolve(serviceID)
		if err != nil {
			return attestation.Result{}, fmt.Errorf("%w: %s", ErrInvalidAttestation, err)
		}
		result, err := verifier.Verify(ctx, raw, payload.MerkleTree.Root)
		if err != nil {
			return attestation.Result{}, fmt.Errorf("%w: %s", ErrInvalidAttestation, err)
		}
		return result, nil
	}
	return attestation.Result{}, fmt.Errorf("%w: unreachable", ErrInvalidAttestation)
}

func (r *Reader) verifySignatures(env *jws.Envelope, attester string, vctx VerificationContext) (verified, total int, err error) {
	if vctx.SignatureRequirement == SignatureRequireSkip {
		return 0, len(env.Signatures), nil
	}

	results := env.VerifyAll(func(sig jws.Signature, header jws.Header, protected bool) (jws.Verifier, bool) {
		if vctx.Resolver == nil {
			return nil, false
		}
		return vctx.Resolver(sig, header, protected, attester)
	})

	considered := 0
	for i, res := range results {
		if sig := env.Signatures[i]; sig.Protected == "" && len(sig.Header) == 0 {
			// Signature carried neither protected nor header: by
			// default it is invisible to the policy; StrictSignatureShape
			// makes it an outright rejection instead.
			if vctx.StrictSignatureShape {
				return 0, len(results), fmt.Errorf("%w: signature carries no header", jws.ErrInvalidEnvelope)
			}
			continue
		}
		considered++
		if res.Verified {
			verified++
		}
	}

	switch vctx.SignatureRequirement {
	case SignatureRequireAll:
		if considered == 0 || verified != considered {
			return verified, len(results), ErrUnverifiedSignatures
		}
	default: // SignatureRequireAtLeastOne
		if verified == 0 {
			return verified, len(results), ErrNoVerifiedSignatures
		}
	}
	return verified, len(results), nil
}
