package domain

import (
	"github.com/idshield/verification/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for cryptographic failures. All errors are mapped to
// appropriate HTTP status codes by the error handling layer.
var (
	// ErrMalformedInput indicates an envelope or ciphertext field is not validly
	// encoded (bad base64, wrong length, missing part). Caller error, no retry benefit.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrMalformedInput = errors.Wrap(errors.ErrInvalidInput, "malformed input")

	// ErrUnwrapFailed indicates the asymmetric unwrap of a symmetric key failed.
	//
	// Deliberately generic: wrong key, corrupted bytes, and padding failures all
	// surface identically so that error responses cannot be used as a padding
	// oracle against RSA-OAEP.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrUnwrapFailed = errors.Wrap(errors.ErrInvalidInput, "key unwrap failed")

	// ErrAuthenticationFailed indicates an AEAD tag did not verify.
	//
	// The ciphertext was tampered with or a wrong key was used. No plaintext is
	// released on failure and the specific cause is not disclosed.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrAuthenticationFailed = errors.Wrap(errors.ErrInvalidInput, "authentication failed")

	// ErrMissingSecret indicates required key material (index secret, storage key,
	// or private key) is absent or empty. Fatal at startup, not recoverable
	// per-request.
	ErrMissingSecret = errors.New("missing secret")

	// ErrDataIntegrity indicates stored ciphertext cannot be decrypted with the
	// current storage key. This implies stored-data corruption or a key mismatch,
	// not a malicious request, and must never be silently swallowed.
	//
	// HTTP Status: 500 Internal Server Error (distinct error code)
	ErrDataIntegrity = errors.Wrap(errors.ErrIntegrity, "stored ciphertext cannot be decrypted")

	// ErrInvalidKeySize indicates a symmetric key is not exactly KeySize bytes.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not
	// supported. Supported: AESGCM (AES-256-GCM), ChaCha20 (ChaCha20-Poly1305).
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")
)
