// Package domain contains the core entities for verification record storage.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
)

// EncryptedColumn holds one encrypted database column: the ciphertext plus the
// nonce and authentication tag needed to decrypt and verify it. Each column is
// encrypted independently with its own fresh nonce, so no nonce is ever shared
// between two columns or two records.
type EncryptedColumn struct {
	Ciphertext []byte
	Nonce      []byte
	Tag        []byte
}

// Validate checks that the column carries all three parts with the expected
// nonce and tag sizes.
func (c *EncryptedColumn) Validate() error {
	if len(c.Ciphertext) == 0 {
		return ErrEmptyColumn
	}
	if len(c.Nonce) != cryptoDomain.NonceSize || len(c.Tag) != cryptoDomain.TagSize {
		return ErrEmptyColumn
	}
	return nil
}

// Record represents a stored verification record. Sensitive values live only in
// the encrypted columns; IndexToken is the deterministic blind index of the
// normalized national ID and is the only value usable for exact-match lookup.
type Record struct {
	ID                  uuid.UUID
	EncryptedNationalID EncryptedColumn
	EncryptedName       EncryptedColumn
	EncryptedPayload    EncryptedColumn
	IndexToken          string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
