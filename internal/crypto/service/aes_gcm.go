package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM with a detached
// authentication tag.
//
// The detached-tag layout matches the envelope wire format: ciphertext, nonce,
// and tag travel as separate fields, and the tag is reattached internally
// before verification. A unique 12-byte nonce is randomly generated per
// encryption; with GCM, nonce reuse under the same key is a correctness
// violation, which is why nonces are never derived or counter-based here.
//
// The cipher instance is stateless and safe for concurrent use from multiple
// goroutines.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
//
// The key must be exactly 32 bytes (256 bits) and should be generated using
// crypto/rand. Returns ErrInvalidKeySize for any other length.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM and returns the ciphertext,
// the freshly generated nonce, and the detached 16-byte authentication tag.
func (a *AESGCMCipher) Encrypt(plaintext []byte) (ciphertext, nonce, tag []byte, err error) {
	nonce = make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := a.aead.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - cryptoDomain.TagSize
	return sealed[:split:split], nonce, sealed[split:], nil
}

// Decrypt verifies the tag and decrypts ciphertext using the provided nonce.
//
// The tag is verified before any plaintext is returned; on verification
// failure the result is ErrAuthenticationFailed with no partial output.
// Wrong-length nonce or tag is ErrMalformedInput.
func (a *AESGCMCipher) Decrypt(ciphertext, nonce, tag []byte) ([]byte, error) {
	if len(nonce) != a.aead.NonceSize() || len(tag) != cryptoDomain.TagSize {
		return nil, cryptoDomain.ErrMalformedInput
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := a.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, cryptoDomain.ErrAuthenticationFailed
	}
	return plaintext, nil
}
