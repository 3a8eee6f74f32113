package domain

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/idshield/verification/internal/errors"
)

// Keyring holds the three process-wide secrets the service operates with:
// the RSA private key envelopes are opened with, the storage key protected
// columns are encrypted under, and the secret keying the blind index.
//
// A Keyring is constructed once at startup and read-only afterwards, so it is
// safe for concurrent use without locking. Rotation means restarting the
// process with new material; no in-place mutation is supported.
type Keyring struct {
	privateKey  *rsa.PrivateKey
	storageKey  []byte
	indexSecret []byte
}

// NewKeyring validates and assembles a keyring.
//
// The private key must be at least MinRSAKeyBits bits, the storage key exactly
// KeySize bytes, and the index secret non-empty (32 bytes or more recommended).
// Returns ErrMissingSecret or ErrInvalidKeySize on bad material; both are fatal
// configuration errors.
func NewKeyring(privateKey *rsa.PrivateKey, storageKey, indexSecret []byte) (*Keyring, error) {
	if privateKey == nil {
		return nil, errors.Wrap(ErrMissingSecret, "private key is required")
	}
	if bits := privateKey.N.BitLen(); bits < MinRSAKeyBits {
		return nil, errors.Wrap(
			errors.ErrInvalidInput,
			fmt.Sprintf("RSA key must be at least %d bits, got %d", MinRSAKeyBits, bits),
		)
	}
	if len(storageKey) == 0 {
		return nil, errors.Wrap(ErrMissingSecret, "storage key is required")
	}
	if len(storageKey) != KeySize {
		return nil, ErrInvalidKeySize
	}
	if len(indexSecret) == 0 {
		return nil, errors.Wrap(ErrMissingSecret, "index secret is required")
	}

	return &Keyring{
		privateKey:  privateKey,
		storageKey:  storageKey,
		indexSecret: indexSecret,
	}, nil
}

// PrivateKey returns the RSA private key used to open envelopes.
func (k *Keyring) PrivateKey() *rsa.PrivateKey {
	return k.privateKey
}

// StorageKey returns the symmetric key protected columns are encrypted under.
func (k *Keyring) StorageKey() []byte {
	return k.storageKey
}

// IndexSecret returns the secret keying the blind index.
func (k *Keyring) IndexSecret() []byte {
	return k.indexSecret
}

// PublicKeyPEM returns the PEM-encoded (PKIX) public half of the private key.
// This is the value the public-key endpoint distributes to clients.
func (k *Keyring) PublicKeyPEM() (string, error) {
	der, err := x509.MarshalPKIXPublicKey(&k.privateKey.PublicKey)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}
	block := &pem.Block{Type: "PUBLIC KEY", Bytes: der}
	return string(pem.EncodeToMemory(block)), nil
}

// Close zeroes the symmetric key material. The RSA key is left to the garbage
// collector; call this during shutdown after the servers have stopped.
func (k *Keyring) Close() {
	Zero(k.storageKey)
	Zero(k.indexSecret)
}

// ParsePrivateKeyPEM parses an RSA private key from PEM-encoded bytes.
// Accepts PKCS#8 ("PRIVATE KEY") and PKCS#1 ("RSA PRIVATE KEY") blocks.
func ParsePrivateKeyPEM(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}

	switch block.Type {
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS8 private key: %w", err)
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("key is not an RSA private key, got %T", key)
		}
		return rsaKey, nil
	case "RSA PRIVATE KEY":
		rsaKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS1 private key: %w", err)
		}
		return rsaKey, nil
	}

	return nil, fmt.Errorf("unsupported PEM block type: %s", block.Type)
}

// ParsePublicKeyPEM parses an RSA public key from PEM-encoded bytes.
// Accepts PKIX ("PUBLIC KEY") and PKCS#1 ("RSA PUBLIC KEY") blocks.
func ParsePublicKeyPEM(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}

	switch block.Type {
	case "PUBLIC KEY":
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKIX public key: %w", err)
		}
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("key is not an RSA public key, got %T", key)
		}
		return rsaKey, nil
	case "RSA PUBLIC KEY":
		rsaKey, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS1 public key: %w", err)
		}
		return rsaKey, nil
	}

	return nil, fmt.Errorf("unsupported PEM block type: %s", block.Type)
}

// EncodePrivateKeyPEM encodes an RSA private key as a PKCS#8 PEM block.
func EncodePrivateKeyPEM(key *rsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	block := &pem.Block{Type: "PRIVATE KEY", Bytes: der}
	return pem.EncodeToMemory(block), nil
}

// EncodePublicKeyPEM encodes an RSA public key as a PKIX PEM block.
func EncodePublicKeyPEM(key *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	block := &pem.Block{Type: "PUBLIC KEY", Bytes: der}
	return pem.EncodeToMemory(block), nil
}
