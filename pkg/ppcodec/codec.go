// Copyright 2025 Certen Protocol
//
// Base64Url codec used at every signing and hashing boundary in
// ProofPack. RFC 4648 §5, unpadded.

package ppcodec

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrInvalidEncoding is returned when decoding input that is not valid
// unpadded base64url or hex.
var ErrInvalidEncoding = errors.New("proofpack: invalid encoding")

var encoding = base64.RawURLEncoding

// EncodeBytes encodes raw bytes as unpadded base64url.
func EncodeBytes(b []byte) string {
	return encoding.EncodeToString(b)
}

// DecodeToBytes decodes unpadded base64url into raw bytes. Padding, if
// present, is tolerated.
func DecodeToBytes(s string) ([]byte, error) {
	b, err := encoding.DecodeString(stripPadding(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEncoding, err)
	}
	return b, nil
}

// EncodeUTF8 encodes a UTF-8 string as unpadded base64url.
func EncodeUTF8(s string) string {
	return EncodeBytes([]byte(s))
}

// DecodeToUTF8 decodes unpadded base64url into a UTF-8 string.
func DecodeToUTF8(s string) (string, error) {
	b, err := DecodeToBytes(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func stripPadding(s string) string {
	for len(s) > 0 && s[len(s)-1] == '=' {
		s = s[:len(s)-1]
	}
	return s
}

// EncodeHex encodes bytes as lowercase hex, the format the Merkle
// Exchange Document uses for leaf data, salt, and hash fields.
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// DecodeHex decodes a lowercase (or mixed-case) hex string into bytes.
func DecodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEncoding, err)
	}
	return b, nil
}
