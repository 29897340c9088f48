// Copyright 2025 Certen Protocol

package exchange

import (
	"encoding/json"
	"fmt"
	"strings"
)

// materializeAttestation turns a builder-side AttestationLocator into
// the wire-shaped attestation tag. For EAS, schema.name is always
// synthesized as "PrivateData".
func materializeAttestation(locator AttestationLocator) (map[string]json.RawMessage, error) {
	switch strings.ToLower(locator.ServiceID) {
	case ServiceEAS:
		eas := EASAttestation{
			Network:        locator.Network,
			AttestationUID: locator.AttestationID,
			From:           locator.AttesterAddress,
			To:             locator.RecipientAddress,
			Schema: EASSchema{
				SchemaUID: locator.SchemaID,
				Name:      "PrivateData",
			},
		}
		raw, err := json.Marshal(eas)
		if err != nil {
			return nil, fmt.Errorf("exchange: marshal eas attestation: %w", err)
		}
		return map[string]json.RawMessage{ServiceEAS: raw}, nil

	case ServiceFakeAttestation:
		fake := EASAttestation{
			Network:        locator.Network,
			AttestationUID: locator.AttestationID,
			From:           locator.AttesterAddress,
			To:             locator.RecipientAddress,
			Schema: EASSchema{
				SchemaUID: locator.SchemaID,
				Name:      "PrivateData",
			},
		}
		raw, err := json.Marshal(fake)
		if err != nil {
			return nil, fmt.Errorf("exchange: marshal fake attestation: %w", err)
		}
		return map[string]json.RawMessage{ServiceFakeAttestation: raw}, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedService, locator.ServiceID)
	}
}
