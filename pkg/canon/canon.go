// Copyright 2025 Certen Protocol
//
// Canonical JSON — the one serialization form ProofPack ever signs or
// hashes: compact, camelCase (from struct tags, never reflected), and
// null-omitting. The envelope payload and Merkle leaf values are
// serialized through Marshal; signers encode their protected headers
// with encoding/json via jws.Header's own MarshalJSON, which yields the
// same compact bytes Marshal would.

package canon

import (
	"bytes"
	"encoding/json"
)

// MerkleJSONer is implemented by types that own their canonical JSON
// representation. Marshal delegates to it instead of reflecting into
// the struct, so an embedded Merkle tree is never re-serialized by the
// outer encoder.
type MerkleJSONer interface {
	MarshalMerkleJSON() ([]byte, error)
}

// Marshal serializes v using the canonical options: compact, no
// inserted whitespace, null-valued fields omitted via the struct's own
// `omitempty` tags. If v implements MerkleJSONer the delegate's bytes
// are used verbatim.
func Marshal(v interface{}) ([]byte, error) {
	if m, ok := v.(MerkleJSONer); ok {
		raw, err := m.MarshalMerkleJSON()
		if err != nil {
			return nil, err
		}
		return compact(raw)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return compact(raw)
}

// compact strips any incidental whitespace encoding/json may have
// introduced (it normally doesn't for Marshal, but this keeps the
// guarantee explicit and cheap rather than implicit).
func compact(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalString is a convenience wrapper returning the canonical form
// as a string.
func MarshalString(v interface{}) (string, error) {
	b, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
