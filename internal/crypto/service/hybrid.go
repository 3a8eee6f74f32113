package service

import (
	"crypto/rsa"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
	apperrors "github.com/idshield/verification/internal/errors"
)

// EnvelopeService implements the Envelope interface: AEAD for the bulk payload,
// RSA-OAEP for the per-envelope symmetric key.
//
// Every Seal call uses an independently generated symmetric key and nonce, so
// two seals of identical payload to the same public key produce different
// ciphertext and different wrapped-key bytes. The transient symmetric key is
// zeroed as soon as it has been wrapped (Seal) or used for decryption (Open).
type EnvelopeService struct {
	aeadManager AEADManager
	keyBox      *KeyBox
	algorithm   cryptoDomain.Algorithm
}

// NewEnvelopeService creates an EnvelopeService using the given AEAD algorithm
// for payload encryption. Returns ErrUnsupportedAlgorithm for unknown algorithms.
func NewEnvelopeService(aeadManager AEADManager, keyBox *KeyBox, algorithm cryptoDomain.Algorithm) (*EnvelopeService, error) {
	switch algorithm {
	case cryptoDomain.AESGCM, cryptoDomain.ChaCha20:
	default:
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}

	return &EnvelopeService{
		aeadManager: aeadManager,
		keyBox:      keyBox,
		algorithm:   algorithm,
	}, nil
}

// Seal encrypts payload for the recipient.
//
// A fresh symmetric key is generated, the payload encrypted under it with a
// fresh nonce, and the key wrapped under the recipient's public key. The
// plaintext key is zeroed before returning; no other copy is retained.
func (e *EnvelopeService) Seal(
	payload []byte,
	recipient *rsa.PublicKey,
) (*cryptoDomain.EncryptedEnvelope, error) {
	key, err := GenerateKey()
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	cipher, err := e.aeadManager.CreateCipher(key, e.algorithm)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, tag, err := cipher.Encrypt(payload)
	if err != nil {
		return nil, err
	}

	wrappedKey, err := e.keyBox.Wrap(key, recipient)
	if err != nil {
		return nil, err
	}

	return &cryptoDomain.EncryptedEnvelope{
		Ciphertext: ciphertext,
		WrappedKey: wrappedKey,
		Nonce:      nonce,
		AuthTag:    tag,
	}, nil
}

// Open decrypts an envelope with the recipient's private key.
//
// The symmetric key is unwrapped first; on failure ErrUnwrapFailed propagates
// without any AEAD work. Only then is the payload decrypted, where a tag
// mismatch propagates as ErrAuthenticationFailed. The recovered symmetric key
// is zeroed before returning.
func (e *EnvelopeService) Open(
	envelope *cryptoDomain.EncryptedEnvelope,
	recipient *rsa.PrivateKey,
) ([]byte, error) {
	if envelope == nil {
		return nil, cryptoDomain.ErrMalformedInput
	}
	if err := envelope.Validate(); err != nil {
		return nil, err
	}

	key, err := e.keyBox.Unwrap(envelope.WrappedKey, recipient)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	// A wrapped payload of the wrong length is treated like any other unwrap
	// failure to keep the error surface uniform.
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrUnwrapFailed
	}

	cipher, err := e.aeadManager.CreateCipher(key, e.algorithm)
	if err != nil {
		return nil, err
	}

	payload, err := cipher.Decrypt(envelope.Ciphertext, envelope.Nonce, envelope.AuthTag)
	if err != nil {
		return nil, apperrors.Wrap(err, "envelope payload")
	}

	return payload, nil
}
