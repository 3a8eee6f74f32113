// Package usecase implements verification record business logic.
//
// Coordinates envelope decryption, independent column encryption, blind-index
// derivation, and transactional persistence. Uses TxManager for transactional
// consistency.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
	"github.com/idshield/verification/internal/verification/domain"
)

// RecordRepository defines the interface for verification record persistence.
type RecordRepository interface {
	Create(ctx context.Context, record *domain.Record) error
	GetByIndexToken(ctx context.Context, indexToken string) (*domain.Record, error)

	// List retrieves records ordered by creation time descending with pagination.
	List(ctx context.Context, offset, limit int) ([]*domain.Record, error)
}

// SearchResult carries the decrypted payload of a matched record together with
// its storage metadata.
type SearchResult struct {
	RecordID  uuid.UUID
	Payload   *domain.Payload
	CreatedAt time.Time
}

// VerificationUseCase defines the interface for verification record operations.
type VerificationUseCase interface {
	// Ingest opens a client envelope, validates the payload, re-encrypts each
	// sensitive field independently under the storage key, derives the blind
	// index of the national ID, and persists the record in a transaction.
	// Returns ErrRecordExists when the same national ID was already ingested.
	Ingest(ctx context.Context, envelope *cryptoDomain.EncryptedEnvelope) (*domain.Record, error)

	// Search derives the blind-index token for the given national ID, performs
	// an exact-match lookup, and decrypts the matched record's payload.
	// Returns ErrRecordNotFound when no record matches.
	Search(ctx context.Context, nationalID string) (*SearchResult, error)

	// List retrieves stored records with pagination. Records are returned with
	// their encrypted columns intact; nothing is decrypted.
	List(ctx context.Context, offset, limit int) ([]*domain.Record, error)

	// PublicKeyPEM returns the PEM-encoded RSA public key clients use to wrap
	// envelope symmetric keys.
	PublicKeyPEM() (string, error)
}
