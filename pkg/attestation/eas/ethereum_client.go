// Copyright 2025 Certen Protocol
//
// EthereumClient is the production eas.Client: it reads the EAS
// contract's getAttestation(bytes32) view function over an
// ethclient.Client and checks revocation/expiry/identity match
// itself, rather than trusting the chain to do it.

package eas

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// getAttestationABI is the minimal ABI fragment for EAS's
// getAttestation(bytes32) view, which returns the Attestation struct
// (uid, schema, time, expirationTime, revocationTime, refUID,
// recipient, attester, revocable, data).
const getAttestationABI = `[{
	"inputs":[{"internalType":"bytes32","name":"uid","type":"bytes32"}],
	"name":"getAttestation",
	"outputs":[{"components":[
		{"internalType":"bytes32","name":"uid","type":"bytes32"},
		{"internalType":"bytes32","name":"schema","type":"bytes32"},
		{"internalType":"uint64","name":"time","type":"uint64"},
		{"internalType":"uint64","name":"expirationTime","type":"uint64"},
		{"internalType":"uint64","name":"revocationTime","type":"uint64"},
		{"internalType":"bytes32","name":"refUID","type":"bytes32"},
		{"internalType":"address","name":"recipient","type":"address"},
		{"internalType":"address","name":"attester","type":"address"},
		{"internalType":"bool","name":"revocable","type":"bool"},
		{"internalType":"bytes","name":"data","type":"bytes"}
	],"internalType":"struct Attestation","name":"","type":"tuple"}],
	"stateMutability":"view",
	"type":"function"
}]`

type onChainAttestation struct {
	UID            [32]byte
	Schema         [32]byte
	Time           uint64
	ExpirationTime uint64
	RevocationTime uint64
	RefUID         [32]byte
	Recipient      common.Address
	Attester       common.Address
	Revocable      bool
	Data           []byte
}

// EthereumClient resolves EAS attestations by calling a deployed EAS
// contract's getAttestation view per network.
type EthereumClient struct {
	parsed abi.ABI
	// dialers maps a network name to an already-connected client;
	// callers construct one EthereumClient with every network they
	// serve wired in up front, rather than dialing lazily per request.
	dialers map[string]*ethclient.Client
	// contracts maps a network name to the EAS contract address
	// deployed there.
	contracts map[string]common.Address
}

// NewEthereumClient builds a client from pre-dialed per-network RPC
// endpoints and the EAS contract address deployed on each.
func NewEthereumClient(dialers map[string]*ethclient.Client, contracts map[string]common.Address) (*EthereumClient, error) {
	parsed, err := abi.JSON(strings.NewReader(getAttestationABI))
	if err != nil {
		return nil, fmt.Errorf("eas: parse abi: %w", err)
	}
	return &EthereumClient{parsed: parsed, dialers: dialers, contracts: contracts}, nil
}

func (c *EthereumClient) IsLive(ctx context.Context, network, schemaUID, attestationUID, attester, recipient, merkleRoot string) (bool, error) {
	client, ok := c.dialers[network]
	if !ok {
		return false, fmt.Errorf("eas: no RPC endpoint configured for network %q", network)
	}
	contract, ok := c.contracts[network]
	if !ok {
		return false, fmt.Errorf("eas: no EAS contract configured for network %q", network)
	}

	uidBytes, err := decodeUID(attestationUID)
	if err != nil {
		return false, err
	}

	calldata, err := c.parsed.Pack("getAttestation", uidBytes)
	if err != nil {
		return false, fmt.Errorf("eas: pack call: %w", err)
	}

	result, err := client.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: calldata}, nil)
	if err != nil {
		return false, fmt.Errorf("eas: call getAttestation: %w", err)
	}

	var att onChainAttestation
	if err := c.parsed.UnpackIntoInterface(&att, "getAttestation", result); err != nil {
		return false, fmt.Errorf("eas: unpack attestation: %w", err)
	}

	if att.RevocationTime != 0 {
		return false, nil
	}
	if att.ExpirationTime != 0 && int64(att.ExpirationTime) < time.Now().Unix() {
		return false, nil
	}
	if !strings.EqualFold(normalizeHex(att.Schema2Hex()), normalizeHex(schemaUID)) {
		return false, nil
	}
	if !addressesEqual(att.Attester, attester) {
		return false, nil
	}
	if !addressesEqual(att.Recipient, recipient) {
		return false, nil
	}

	rootBytes, err := decodeRoot(merkleRoot)
	if err != nil {
		return false, err
	}
	if !bytes.Equal(att.Data, rootBytes) {
		return false, nil
	}
	return true, nil
}

// decodeRoot hex-decodes a Merkle Exchange Document root, accepting
// an optional "0x" prefix, so it can be compared against the raw
// bytes EAS stores in an attestation's data field.
func decodeRoot(root string) ([]byte, error) {
	trimmed := strings.TrimPrefix(root, "0x")
	b := common.FromHex("0x" + trimmed)
	if len(b) == 0 && trimmed != "" {
		return nil, fmt.Errorf("eas: merkle root is not valid hex")
	}
	return b, nil
}

func (a onChainAttestation) Schema2Hex() string {
	return fmt.Sprintf("%x", a.Schema)
}

func addressesEqual(onChain common.Address, claimed string) bool {
	return strings.EqualFold(onChain.Hex(), claimed)
}

func decodeUID(uid string) ([32]byte, error) {
	var out [32]byte
	trimmed := strings.TrimPrefix(uid, "0x")
	if len(trimmed) != 64 {
		return out, fmt.Errorf("eas: attestation uid must be 32 bytes hex, got %d chars", len(trimmed))
	}
	b := common.FromHex(uid)
	if len(b) != 32 {
		return out, fmt.Errorf("eas: attestation uid must decode to 32 bytes")
	}
	copy(out[:], b)
	return out, nil
}
