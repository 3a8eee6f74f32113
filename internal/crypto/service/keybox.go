package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
)

// KeyBox wraps and unwraps small payloads (symmetric keys) under RSA-OAEP-SHA256.
//
// The payload wrapped here is always a symmetric key, never the bulk payload;
// that split is what makes the hybrid scheme efficient. The instance is
// stateless and safe for concurrent use.
type KeyBox struct{}

// NewKeyBox creates a new KeyBox.
func NewKeyBox() *KeyBox {
	return &KeyBox{}
}

// GenerateKeyPair generates an RSA key pair of the given modulus size.
// The size must be at least MinRSAKeyBits so a 32-byte symmetric key fits
// under OAEP-SHA256 padding with room to spare.
func (k *KeyBox) GenerateKeyPair(bits int) (*rsa.PrivateKey, error) {
	if bits < cryptoDomain.MinRSAKeyBits {
		return nil, fmt.Errorf("RSA key size must be at least %d bits, got %d", cryptoDomain.MinRSAKeyBits, bits)
	}

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}
	return key, nil
}

// Wrap encrypts a small payload under the recipient's public key with
// RSA-OAEP-SHA256.
func (k *KeyBox) Wrap(payload []byte, publicKey *rsa.PublicKey) ([]byte, error) {
	if publicKey == nil {
		return nil, cryptoDomain.ErrMissingSecret
	}
	if bits := publicKey.N.BitLen(); bits < cryptoDomain.MinRSAKeyBits {
		return nil, fmt.Errorf("RSA key size must be at least %d bits, got %d", cryptoDomain.MinRSAKeyBits, bits)
	}

	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, publicKey, payload, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap payload: %w", err)
	}
	return wrapped, nil
}

// Unwrap decrypts a wrapped payload with the private key.
//
// Every failure mode (wrong key, corrupted bytes, padding mismatch) collapses
// into the single generic ErrUnwrapFailed. Distinguishing them would hand an
// attacker a padding oracle.
func (k *KeyBox) Unwrap(wrapped []byte, privateKey *rsa.PrivateKey) ([]byte, error) {
	if privateKey == nil {
		return nil, cryptoDomain.ErrMissingSecret
	}

	payload, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, privateKey, wrapped, nil)
	if err != nil {
		return nil, cryptoDomain.ErrUnwrapFailed
	}
	return payload, nil
}
