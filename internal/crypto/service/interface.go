// Package service provides the cryptographic services for the verification
// pipeline: AEAD ciphers for column encryption, RSA-OAEP key wrapping, the
// hybrid envelope built on both, and the keyed blind index.
package service

import (
	"context"
	"crypto/rsa"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
)

// AEAD defines the interface for authenticated encryption with a detached tag.
//
// Implementations generate a fresh random nonce per Encrypt call and must
// verify the tag before releasing any plaintext from Decrypt.
type AEAD interface {
	// Encrypt encrypts plaintext and returns ciphertext, nonce, and detached tag.
	Encrypt(plaintext []byte) (ciphertext, nonce, tag []byte, err error)

	// Decrypt verifies the tag and decrypts ciphertext with the provided nonce.
	// Returns ErrAuthenticationFailed if verification fails, ErrMalformedInput
	// if nonce or tag have the wrong length.
	Decrypt(ciphertext, nonce, tag []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// Envelope defines the hybrid seal/open round trip: bulk payload under a fresh
// symmetric key, symmetric key wrapped under the recipient's RSA public key.
type Envelope interface {
	Seal(payload []byte, recipient *rsa.PublicKey) (*cryptoDomain.EncryptedEnvelope, error)
	Open(envelope *cryptoDomain.EncryptedEnvelope, recipient *rsa.PrivateKey) ([]byte, error)
}

// KMSKeeper is the subset of gocloud.dev/secrets.Keeper the key loader needs.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
