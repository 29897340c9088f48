// Copyright 2025 Certen Protocol
//
// Header is a JWS header: the set of standard claims plus arbitrary
// application-private claims that round-trip untouched.

package jws

import (
	"encoding/json"
	"sort"
)

// Header is a JWS protected (or unprotected) header. Extra carries any
// claim not named explicitly below; it is merged into and split back
// out of the JSON object by MarshalJSON/UnmarshalJSON so private
// claims survive a parse/build round trip unchanged.
type Header struct {
	Alg     string          `json:"alg"`
	Typ     string          `json:"typ,omitempty"`
	Cty     string          `json:"cty,omitempty"`
	Kid     string          `json:"kid,omitempty"`
	Jku     string          `json:"jku,omitempty"`
	Jwk     json.RawMessage `json:"jwk,omitempty"`
	X5u     string          `json:"x5u,omitempty"`
	X5c     []string        `json:"x5c,omitempty"`
	X5t     string          `json:"x5t,omitempty"`
	X5tS256 string          `json:"x5t#S256,omitempty"`
	Crit    []string        `json:"crit,omitempty"`
	Extra   map[string]json.RawMessage `json:"-"`
}

// knownHeaderKeys lists every field name handled explicitly, so
// MarshalJSON/UnmarshalJSON know which keys belong in Extra.
var knownHeaderKeys = map[string]bool{
	"alg": true, "typ": true, "cty": true, "kid": true, "jku": true,
	"jwk": true, "x5u": true, "x5c": true, "x5t": true, "x5t#S256": true,
	"crit": true,
}

// MarshalJSON emits the canonical header object, known claims only
// when non-empty. Without private claims the known claims appear in
// declaration order; with private claims present, every key (known and
// private) is emitted in sorted key order for determinism.
func (h Header) MarshalJSON() ([]byte, error) {
	type known struct {
		Alg     string          `json:"alg"`
		Typ     string          `json:"typ,omitempty"`
		Cty     string          `json:"cty,omitempty"`
		Kid     string          `json:"kid,omitempty"`
		Jku     string          `json:"jku,omitempty"`
		Jwk     json.RawMessage `json:"jwk,omitempty"`
		X5u     string          `json:"x5u,omitempty"`
		X5c     []string        `json:"x5c,omitempty"`
		X5t     string          `json:"x5t,omitempty"`
		X5tS256 string          `json:"x5t#S256,omitempty"`
		Crit    []string        `json:"crit,omitempty"`
	}
	kb, err := json.Marshal(known{h.Alg, h.Typ, h.Cty, h.Kid, h.Jku, h.Jwk, h.X5u, h.X5c, h.X5t, h.X5tS256, h.Crit})
	if err != nil {
		return nil, err
	}
	if len(h.Extra) == 0 {
		return kb, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(kb, &merged); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(h.Extra))
	for k := range h.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		merged[k] = h.Extra[k]
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes known claims into their fields and stashes
// everything else in Extra.
func (h *Header) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	type known struct {
		Alg     string          `json:"alg"`
		Typ     string          `json:"typ,omitempty"`
		Cty     string          `json:"cty,omitempty"`
		Kid     string          `json:"kid,omitempty"`
		Jku     string          `json:"jku,omitempty"`
		Jwk     json.RawMessage `json:"jwk,omitempty"`
		X5u     string          `json:"x5u,omitempty"`
		X5c     []string        `json:"x5c,omitempty"`
		X5t     string          `json:"x5t,omitempty"`
		X5tS256 string          `json:"x5t#S256,omitempty"`
		Crit    []string        `json:"crit,omitempty"`
	}
	var k known
	if err := json.Unmarshal(data, &k); err != nil {
		return err
	}
	h.Alg, h.Typ, h.Cty, h.Kid, h.Jku, h.Jwk = k.Alg, k.Typ, k.Cty, k.Kid, k.Jku, k.Jwk
	h.X5u, h.X5c, h.X5t, h.X5tS256, h.Crit = k.X5u, k.X5c, k.X5t, k.X5tS256, k.Crit

	extra := make(map[string]json.RawMessage)
	for key, v := range raw {
		if !knownHeaderKeys[key] {
			extra[key] = v
		}
	}
	if len(extra) > 0 {
		h.Extra = extra
	}
	return nil
}
