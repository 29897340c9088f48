// Copyright 2025 Certen Protocol
//
// Merkle Exchange Document — a salted, bounded (~<20 leaves) hash set,
// not a binary inclusion-proof tree. A header leaf declares the
// algorithm and the ordered field names; each following leaf carries
// one named field's value, independently disclosable or redactable.
// Redacting a leaf (removing `data` and `salt`) never changes its
// `hash`, so the `root` survives redaction untouched.
//
// Parse, canonical-serialize, and a pure, mutation-free VerifyRoot are
// the whole of the collaborator contract this package implements.

package merkle

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/certen-io/proofpack/pkg/canon"
	"github.com/certen-io/proofpack/pkg/ppcodec"
)

// Version is the only Merkle Exchange Document version this package
// produces or accepts.
const Version = "merkle-exchange-3.0"

// HashAlgorithmSHA256 identifies the leaf/root hashing scheme. Only SHA-256
// is implemented; the field exists so a future version can add one
// without breaking the wire shape.
const HashAlgorithmSHA256 = "sha256"

// HeaderContentType is the content-type hint stamped on the header leaf.
const HeaderContentType = "application/merkle-exchange-header-3.0+json; charset=utf-8; encoding=hex"

var (
	// ErrInvalidMerkleTree is returned by Parse for malformed input.
	ErrInvalidMerkleTree = errors.New("merkle: invalid merkle exchange document")
	// ErrEmptyTree is returned when building from zero leaves.
	ErrEmptyTree = errors.New("merkle: cannot build tree from zero leaves")
	// ErrUnknownLeaf is returned when redacting a name that isn't in
	// the tree.
	ErrUnknownLeaf = errors.New("merkle: unknown leaf name")
	// ErrDuplicateLeaf is returned when adding a leaf name twice.
	ErrDuplicateLeaf = errors.New("merkle: duplicate leaf name")
)

// Leaf is one entry in a Merkle Exchange Document. Disclosed leaves
// carry Data and Salt (both hex); redacted leaves carry neither, but
// Hash survives either way.
type Leaf struct {
	Data        string `json:"data,omitempty"`
	Salt        string `json:"salt,omitempty"`
	Hash        string `json:"hash"`
	ContentType string `json:"contentType,omitempty"`
}

// Disclosed reports whether both Data and Salt are present.
func (l Leaf) Disclosed() bool {
	return l.Data != "" && l.Salt != ""
}

// header is the decoded form of leaf zero's Data.
type header struct {
	Alg      string   `json:"alg"`
	Leaves   []string `json:"leaves"`
	Exchange string   `json:"exchange"`
}

// Tree is a parsed or built Merkle Exchange Document. Once built or
// parsed it is never mutated in place; Redact returns a new value.
type Tree struct {
	Version       string `json:"version"`
	HashAlgorithm string `json:"hashAlgorithm"`
	Leaves        []Leaf `json:"leaves"`
	Root          string `json:"root"`
}

// Parse decodes a Merkle Exchange Document from JSON.
func Parse(raw []byte) (*Tree, error) {
	var t Tree
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMerkleTree, err)
	}
	if t.Version == "" || len(t.Leaves) == 0 {
		return nil, fmt.Errorf("%w: missing version or leaves", ErrInvalidMerkleTree)
	}
	if !t.Leaves[0].Disclosed() {
		return nil, fmt.Errorf("%w: header leaf must be disclosed", ErrInvalidMerkleTree)
	}
	if _, err := t.decodeHeader(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMerkleTree, err)
	}
	return &t, nil
}

func (t *Tree) decodeHeader() (header, error) {
	var h header
	data, err := ppcodec.DecodeHex(t.Leaves[0].Data)
	if err != nil {
		return h, err
	}
	if err := json.Unmarshal(data, &h); err != nil {
		return h, err
	}
	return h, nil
}

// LeafNames returns the ordered field names declared by the header
// leaf, not counting the header leaf itself.
func (t *Tree) LeafNames() ([]string, error) {
	h, err := t.decodeHeader()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMerkleTree, err)
	}
	return h.Leaves, nil
}

// Get returns the data leaf for a given field name, or false if the
// name is unknown. The name at index 0 of the header's field list
// corresponds to Tree.Leaves[1], since Leaves[0] is always the header.
func (t *Tree) Get(name string) (Leaf, bool) {
	names, err := t.LeafNames()
	if err != nil {
		return Leaf{}, false
	}
	for i, n := range names {
		if n == name {
			idx := i + 1
			if idx < len(t.Leaves) {
				return t.Leaves[idx], true
			}
		}
	}
	return Leaf{}, false
}

// VerifyRoot recomputes the root from whatever leaf state is currently
// present and reports whether it matches Tree.Root. It is a pure
// function: disclosed leaves have their hash recomputed from data,
// salt, and content type; redacted leaves contribute their stored hash
// unchanged. VerifyRoot never mutates t.
func (t *Tree) VerifyRoot() bool {
	if len(t.Leaves) == 0 {
		return false
	}
	hashes := make([][]byte, len(t.Leaves))
	for i, leaf := range t.Leaves {
		want, err := ppcodec.DecodeHex(leaf.Hash)
		if err != nil || len(want) != sha256.Size {
			return false
		}
		if leaf.Disclosed() {
			data, err := ppcodec.DecodeHex(leaf.Data)
			if err != nil {
				return false
			}
			salt, err := ppcodec.DecodeHex(leaf.Salt)
			if err != nil {
				return false
			}
			got := leafHash(data, salt, leaf.ContentType)
			if !bytesEqual(got, want) {
				return false
			}
		}
		hashes[i] = want
	}
	root, err := ppcodec.DecodeHex(t.Root)
	if err != nil {
		return false
	}
	return bytesEqual(combineHashes(hashes), root)
}

// Redact returns a new Tree with Data and Salt stripped from every
// named leaf. Hash (and therefore Root) is unaffected — redaction
// never invalidates the root, only the envelope signatures that
// covered the fully-disclosed payload.
func (t *Tree) Redact(names ...string) (*Tree, error) {
	declared, err := t.LeafNames()
	if err != nil {
		return nil, err
	}
	toRedact := make(map[string]bool, len(names))
	for _, n := range names {
		found := false
		for _, d := range declared {
			if d == n {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLeaf, n)
		}
		toRedact[n] = true
	}

	out := &Tree{
		Version:       t.Version,
		HashAlgorithm: t.HashAlgorithm,
		Root:          t.Root,
		Leaves:        make([]Leaf, len(t.Leaves)),
	}
	copy(out.Leaves, t.Leaves)
	for i, name := range declared {
		idx := i + 1
		if toRedact[name] {
			out.Leaves[idx] = Leaf{Hash: t.Leaves[idx].Hash, ContentType: t.Leaves[idx].ContentType}
		}
	}
	return out, nil
}

// treeAlias exists solely to let MarshalJSON and MarshalMerkleJSON
// share one encoding path without recursing into themselves.
type treeAlias Tree

// MarshalJSON makes Tree self-serializing wherever it is embedded, so
// a struct embedding *Tree never needs special-case handling to avoid
// the outer encoder reflecting into it independently of this package.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal((*treeAlias)(t))
}

// MarshalMerkleJSON implements canon.MerkleJSONer for the top-level
// signing/hashing path; it shares MarshalJSON's encoding.
func (t *Tree) MarshalMerkleJSON() ([]byte, error) {
	return json.Marshal((*treeAlias)(t))
}

func leafHash(data, salt []byte, contentType string) []byte {
	h := sha256.New()
	h.Write(data)
	h.Write(salt)
	h.Write([]byte(contentType))
	return h.Sum(nil)
}

// combineHashes reduces ordered leaf hashes into a single root by
// hashing their concatenation. Order matters: this is not a
// commutative combination.
func combineHashes(hashes [][]byte) []byte {
	h := sha256.New()
	for _, hh := range hashes {
		h.Write(hh)
	}
	return h.Sum(nil)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func randomSalt() ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("merkle: generate salt: %w", err)
	}
	return salt, nil
}

// ensure canon.MerkleJSONer is satisfied.
var _ canon.MerkleJSONer = (*Tree)(nil)
