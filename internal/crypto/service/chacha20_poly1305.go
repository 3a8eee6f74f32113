package service

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
)

// ChaCha20Poly1305Cipher implements the AEAD interface using ChaCha20-Poly1305
// with a detached authentication tag.
//
// ChaCha20-Poly1305 combines the ChaCha20 stream cipher with the Poly1305 MAC.
// It is constant-time in software and particularly efficient on platforms
// without AES hardware acceleration.
type ChaCha20Poly1305Cipher struct {
	aead cipher.AEAD
}

// NewChaCha20Poly1305 creates a new ChaCha20-Poly1305 cipher instance.
//
// The key must be exactly 32 bytes (256 bits). Returns ErrInvalidKeySize for
// any other length.
func NewChaCha20Poly1305(key []byte) (*ChaCha20Poly1305Cipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &ChaCha20Poly1305Cipher{aead: aead}, nil
}

// Encrypt encrypts plaintext using ChaCha20-Poly1305 and returns the
// ciphertext, the freshly generated nonce, and the detached Poly1305 tag.
func (c *ChaCha20Poly1305Cipher) Encrypt(plaintext []byte) (ciphertext, nonce, tag []byte, err error) {
	nonce = make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - cryptoDomain.TagSize
	return sealed[:split:split], nonce, sealed[split:], nil
}

// Decrypt verifies the Poly1305 tag and decrypts ciphertext with the provided
// nonce. No plaintext is returned on verification failure.
func (c *ChaCha20Poly1305Cipher) Decrypt(ciphertext, nonce, tag []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() || len(tag) != cryptoDomain.TagSize {
		return nil, cryptoDomain.ErrMalformedInput
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, cryptoDomain.ErrAuthenticationFailed
	}
	return plaintext, nil
}
