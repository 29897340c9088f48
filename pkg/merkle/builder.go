// Copyright 2025 Certen Protocol

package merkle

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/certen-io/proofpack/pkg/canon"
	"github.com/certen-io/proofpack/pkg/ppcodec"
)

// Builder assembles a Merkle Exchange Document one named field at a
// time. It is used exactly once per tree: call AddJSONLeaf for each
// field, then RecomputeSHA256Root to materialize the Tree.
type Builder struct {
	mu           sync.Mutex
	exchangeType string
	names        []string
	leaves       []Leaf
}

// NewBuilder creates a builder for an exchange document of the given
// type (e.g. "application/attested-merkle-exchange+json"), embedded in
// the header leaf for the consumer's information.
func NewBuilder(exchangeType string) *Builder {
	return &Builder{exchangeType: exchangeType}
}

// AddJSONLeaf canonically serializes value, salts it, and appends it
// as a new named leaf. name must be unique within the builder.
func (b *Builder) AddJSONLeaf(name string, value interface{}, contentType string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, n := range b.names {
		if n == name {
			return fmt.Errorf("%w: %s", ErrDuplicateLeaf, name)
		}
	}

	data, err := canon.Marshal(value)
	if err != nil {
		return fmt.Errorf("merkle: marshal leaf %s: %w", name, err)
	}
	salt, err := randomSalt()
	if err != nil {
		return err
	}
	hash := leafHash(data, salt, contentType)

	b.names = append(b.names, name)
	b.leaves = append(b.leaves, Leaf{
		Data:        ppcodec.EncodeHex(data),
		Salt:        ppcodec.EncodeHex(salt),
		Hash:        ppcodec.EncodeHex(hash),
		ContentType: contentType,
	})
	return nil
}

// RecomputeSHA256Root builds the header leaf, combines all leaf
// hashes into the root, and returns the finished, immutable Tree.
func (b *Builder) RecomputeSHA256Root() (*Tree, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.leaves) == 0 {
		return nil, ErrEmptyTree
	}

	h := header{Alg: HashAlgorithmSHA256, Leaves: append([]string(nil), b.names...), Exchange: b.exchangeType}
	headerJSON, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("merkle: marshal header: %w", err)
	}
	salt, err := randomSalt()
	if err != nil {
		return nil, err
	}
	headerHash := leafHash(headerJSON, salt, HeaderContentType)

	leaves := make([]Leaf, 0, len(b.leaves)+1)
	leaves = append(leaves, Leaf{
		Data:        ppcodec.EncodeHex(headerJSON),
		Salt:        ppcodec.EncodeHex(salt),
		Hash:        ppcodec.EncodeHex(headerHash),
		ContentType: HeaderContentType,
	})
	leaves = append(leaves, b.leaves...)

	hashes := make([][]byte, len(leaves))
	for i, l := range leaves {
		hb, err := ppcodec.DecodeHex(l.Hash)
		if err != nil {
			return nil, fmt.Errorf("merkle: decode leaf hash: %w", err)
		}
		hashes[i] = hb
	}
	root := combineHashes(hashes)

	return &Tree{
		Version:       Version,
		HashAlgorithm: HashAlgorithmSHA256,
		Leaves:        leaves,
		Root:          ppcodec.EncodeHex(root),
	}, nil
}
