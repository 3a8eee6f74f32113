package domain

import (
	"github.com/idshield/verification/internal/errors"
)

var (
	// ErrRecordNotFound indicates no record matches the given index token.
	ErrRecordNotFound = errors.Wrap(errors.ErrNotFound, "record not found")

	// ErrRecordExists indicates a record with the same index token already exists.
	ErrRecordExists = errors.Wrap(errors.ErrConflict, "record already exists")

	// ErrMalformedPayload indicates the decrypted payload is not valid JSON or
	// fails field validation.
	ErrMalformedPayload = errors.Wrap(errors.ErrInvalidInput, "malformed payload")

	// ErrEmptyColumn indicates an encrypted column is missing ciphertext, nonce,
	// or tag, or carries them with the wrong size.
	ErrEmptyColumn = errors.Wrap(errors.ErrInvalidInput, "encrypted column is incomplete")
)
