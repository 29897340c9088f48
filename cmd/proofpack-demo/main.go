// Copyright 2025 Certen Protocol
//
// proofpack-demo builds a signed exchange envelope and immediately
// verifies it, printing both the envelope and the verification
// result. It exists to show pkg/exchange, pkg/jws/es256k, and
// pkg/reader wired together; it carries no logic of its own.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/certen-io/proofpack/pkg/attestation"
	"github.com/certen-io/proofpack/pkg/attestation/fake"
	"github.com/certen-io/proofpack/pkg/exchange"
	"github.com/certen-io/proofpack/pkg/jws"
	"github.com/certen-io/proofpack/pkg/jws/es256k"
	"github.com/certen-io/proofpack/pkg/merkle"
	"github.com/certen-io/proofpack/pkg/ppconfig"
	"github.com/certen-io/proofpack/pkg/reader"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to a YAML VerificationContext config (optional)")
		name       = flag.String("name", "Alice Example", "Value of the \"name\" leaf in the demo document")
		showHelp   = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *showHelp {
		flag.Usage()
		return
	}

	if err := run(*configPath, *name); err != nil {
		log.Fatalf("proofpack-demo: %v", err)
	}
}

func run(configPath, name string) error {
	signerKey, err := crypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("generate signing key: %w", err)
	}
	signer, err := es256k.NewSigner(signerKey)
	if err != nil {
		return fmt.Errorf("build signer: %w", err)
	}
	attesterAddress := string(signer.Address())

	tree, err := buildDocumentTree(name)
	if err != nil {
		return fmt.Errorf("build merkle tree: %w", err)
	}

	attestationVerifier := fake.NewVerifier()
	const attestationUID = "demo-attestation-1"
	attestationVerifier.RegisterValid(attestationUID, tree.Root)

	envelope, err := buildSignedDocument(tree, signer, attestationUID, attesterAddress)
	if err != nil {
		return fmt.Errorf("build envelope: %w", err)
	}

	raw, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	fmt.Println(string(raw))

	vctx := reader.DefaultVerificationContext()
	vctx.HasValidNonce = func(string) (bool, error) { return true, nil }
	factory := attestation.NewFactory()
	factory.Register(attestationVerifier)
	vctx.AttestationFactory = factory
	vctx.Resolver = func(sig jws.Signature, header jws.Header, protected bool, attester string) (jws.Verifier, bool) {
		if !protected || header.Alg != es256k.Algorithm || attester == "" {
			return nil, false
		}
		v, err := es256k.NewVerifier(es256k.Address(attester))
		if err != nil {
			return nil, false
		}
		return v, true
	}

	if configPath != "" {
		vctx, err = ppconfig.LoadInto(configPath, vctx)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	result, err := reader.NewReader().Verify(context.Background(), raw, vctx)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	fmt.Fprintf(os.Stdout, "\nvalid=%v attestation=%v signatures=%d/%d err=%v\n",
		result.Valid, result.HasAttestation, result.VerifiedSignatures, result.TotalSignatures, result.Err)
	return nil
}

func buildDocumentTree(name string) (*merkle.Tree, error) {
	treeBuilder := merkle.NewBuilder("application/attested-merkle-exchange+json")
	if err := treeBuilder.AddJSONLeaf("name", name, "text/plain"); err != nil {
		return nil, err
	}
	if err := treeBuilder.AddJSONLeaf("issuedBy", "proofpack-demo", "text/plain"); err != nil {
		return nil, err
	}
	return treeBuilder.RecomputeSHA256Root()
}

func buildSignedDocument(tree *merkle.Tree, signer *es256k.Signer, attestationUID, attesterAddress string) (*jws.Envelope, error) {
	docBuilder, err := exchange.NewAttestedMerkleExchangeBuilder(tree)
	if err != nil {
		return nil, err
	}
	docBuilder, err = docBuilder.WithAttestation(exchange.AttestationLocator{
		ServiceID:        exchange.ServiceFakeAttestation,
		Network:          "demo",
		SchemaID:         "demo-schema",
		AttestationID:    attestationUID,
		AttesterAddress:  attesterAddress,
		RecipientAddress: attesterAddress,
	})
	if err != nil {
		return nil, err
	}

	return docBuilder.BuildSigned(signer)
}
