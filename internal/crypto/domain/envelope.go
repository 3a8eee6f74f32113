// Package domain defines the core cryptographic types for the verification service:
// the hybrid-encryption envelope, the keyring holding process-wide key material,
// and the error taxonomy for cryptographic failures.
package domain

// EncryptedEnvelope is the hybrid-encryption envelope a client submits.
//
// The bulk payload is encrypted under a fresh symmetric key (Ciphertext, Nonce,
// AuthTag) and that key is wrapped under the service's RSA public key
// (WrappedKey). All four parts are raw bytes here; the HTTP layer handles the
// base64 wire encoding.
type EncryptedEnvelope struct {
	// Ciphertext is the AEAD ciphertext of the payload, tag detached.
	Ciphertext []byte
	// WrappedKey is the symmetric key encrypted under RSA-OAEP-SHA256.
	WrappedKey []byte
	// Nonce is the single-use random AEAD nonce.
	Nonce []byte
	// AuthTag is the AEAD authentication tag over the ciphertext.
	AuthTag []byte
}

// Validate checks the envelope's shape before any cryptographic work.
// Returns ErrMalformedInput if any part is missing or an invariant-length
// part has the wrong length.
func (e *EncryptedEnvelope) Validate() error {
	if len(e.Ciphertext) == 0 || len(e.WrappedKey) == 0 {
		return ErrMalformedInput
	}
	if len(e.Nonce) != NonceSize {
		return ErrMalformedInput
	}
	if len(e.AuthTag) != TagSize {
		return ErrMalformedInput
	}
	return nil
}
