package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
)

// Normalizer transforms input strings into a canonical form before the blind
// index is computed. The same normalizer must be applied on both ingest and
// search; mixing normalizers breaks lookups.
type Normalizer func(string) string

// NormalizeTrim trims leading and trailing whitespace, preserving case.
// This is the default for national identity numbers.
var NormalizeTrim Normalizer = strings.TrimSpace

// NormalizeDigits keeps ASCII digits only, dropping separators and spaces.
// Useful when clients submit formatted identity numbers ("1-2345-67890-12-3").
var NormalizeDigits Normalizer = func(s string) string {
	var digits strings.Builder
	digits.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}

// NormalizeNone is an identity normalizer for exact, case-sensitive matching.
var NormalizeNone Normalizer = func(s string) string {
	return s
}

// BlindIndexer derives deterministic, non-reversible index tokens from
// plaintext field values using HMAC-SHA256 keyed with an operator secret.
//
// Determinism (same secret + same input = same token) is what makes
// exact-match lookup work. The keyed construction is what makes the stored
// token useless to an attacker without the secret: national-ID-like fields
// carry too little entropy to survive an offline dictionary attack against a
// plain hash.
type BlindIndexer struct {
	secret    []byte
	normalize Normalizer
}

// NewBlindIndexer creates a BlindIndexer keyed with secret.
//
// An empty secret is a configuration error (ErrMissingSecret) and must abort
// startup. A nil normalizer defaults to NormalizeTrim.
func NewBlindIndexer(secret []byte, normalize Normalizer) (*BlindIndexer, error) {
	if len(secret) == 0 {
		return nil, cryptoDomain.ErrMissingSecret
	}
	if normalize == nil {
		normalize = NormalizeTrim
	}
	return &BlindIndexer{secret: secret, normalize: normalize}, nil
}

// Derive computes the blind index token for a field value as a 64-character
// hex string. Token uniqueness is a property of the field's value space, not
// of the digest; residual collision risk at 256 bits is negligible but not
// formally eliminated.
func (b *BlindIndexer) Derive(value string) string {
	mac := hmac.New(sha256.New, b.secret)
	mac.Write([]byte(b.normalize(value)))
	return hex.EncodeToString(mac.Sum(nil))
}
