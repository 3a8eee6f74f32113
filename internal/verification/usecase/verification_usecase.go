package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
	cryptoService "github.com/idshield/verification/internal/crypto/service"
	"github.com/idshield/verification/internal/database"
	apperrors "github.com/idshield/verification/internal/errors"
	"github.com/idshield/verification/internal/verification/domain"
)

// verificationUseCase implements VerificationUseCase.
type verificationUseCase struct {
	txManager    database.TxManager
	recordRepo   RecordRepository
	envelope     cryptoService.Envelope
	aeadManager  cryptoService.AEADManager
	blindIndexer *cryptoService.BlindIndexer
	keyring      *cryptoDomain.Keyring
	algorithm    cryptoDomain.Algorithm
}

// NewVerificationUseCase creates a new VerificationUseCase.
func NewVerificationUseCase(
	txManager database.TxManager,
	recordRepo RecordRepository,
	envelope cryptoService.Envelope,
	aeadManager cryptoService.AEADManager,
	blindIndexer *cryptoService.BlindIndexer,
	keyring *cryptoDomain.Keyring,
	algorithm cryptoDomain.Algorithm,
) VerificationUseCase {
	return &verificationUseCase{
		txManager:    txManager,
		recordRepo:   recordRepo,
		envelope:     envelope,
		aeadManager:  aeadManager,
		blindIndexer: blindIndexer,
		keyring:      keyring,
		algorithm:    algorithm,
	}
}

// storageCipher builds the AEAD cipher for column encryption under the storage key.
func (v *verificationUseCase) storageCipher() (cryptoService.AEAD, error) {
	return v.aeadManager.CreateCipher(v.keyring.StorageKey(), v.algorithm)
}

// encryptColumn encrypts one field value into an independent encrypted column.
func encryptColumn(cipher cryptoService.AEAD, value []byte) (domain.EncryptedColumn, error) {
	ciphertext, nonce, tag, err := cipher.Encrypt(value)
	if err != nil {
		return domain.EncryptedColumn{}, apperrors.Wrap(err, "failed to encrypt column")
	}
	return domain.EncryptedColumn{Ciphertext: ciphertext, Nonce: nonce, Tag: tag}, nil
}

// decryptColumn decrypts one stored column. Any failure means the stored data
// no longer authenticates and is reported as an integrity error, never as a
// client input problem.
func decryptColumn(cipher cryptoService.AEAD, column domain.EncryptedColumn) ([]byte, error) {
	plaintext, err := cipher.Decrypt(column.Ciphertext, column.Nonce, column.Tag)
	if err != nil {
		return nil, cryptoDomain.ErrDataIntegrity
	}
	return plaintext, nil
}

// Ingest opens a client envelope, validates the payload, re-encrypts each
// sensitive field independently under the storage key, derives the blind index
// of the national ID, and persists the record in a transaction.
func (v *verificationUseCase) Ingest(
	ctx context.Context,
	envelope *cryptoDomain.EncryptedEnvelope,
) (*domain.Record, error) {
	plaintext, err := v.envelope.Open(envelope, v.keyring.PrivateKey())
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(plaintext)

	payload, err := domain.ParsePayload(plaintext)
	if err != nil {
		return nil, err
	}

	// Canonical form of the full payload for the third column.
	payloadJSON, err := payload.Marshal()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal payload")
	}
	defer cryptoDomain.Zero(payloadJSON)

	cipher, err := v.storageCipher()
	if err != nil {
		return nil, err
	}

	// Each column gets its own fresh nonce.
	encryptedNationalID, err := encryptColumn(cipher, []byte(payload.NationalID))
	if err != nil {
		return nil, err
	}
	encryptedName, err := encryptColumn(cipher, []byte(payload.Name))
	if err != nil {
		return nil, err
	}
	encryptedPayload, err := encryptColumn(cipher, payloadJSON)
	if err != nil {
		return nil, err
	}

	record := &domain.Record{
		ID:                  uuid.Must(uuid.NewV7()),
		EncryptedNationalID: encryptedNationalID,
		EncryptedName:       encryptedName,
		EncryptedPayload:    encryptedPayload,
		IndexToken:          v.blindIndexer.Derive(payload.NationalID),
		CreatedAt:           time.Now().UTC(),
		UpdatedAt:           time.Now().UTC(),
	}

	err = v.txManager.WithTx(ctx, func(ctx context.Context) error {
		return v.recordRepo.Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// Search derives the blind-index token for the given national ID, performs an
// exact-match lookup, and decrypts the matched record's payload.
func (v *verificationUseCase) Search(ctx context.Context, nationalID string) (*SearchResult, error) {
	token := v.blindIndexer.Derive(nationalID)

	record, err := v.recordRepo.GetByIndexToken(ctx, token)
	if err != nil {
		return nil, err
	}

	cipher, err := v.storageCipher()
	if err != nil {
		return nil, err
	}

	payloadJSON, err := decryptColumn(cipher, record.EncryptedPayload)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(payloadJSON)

	payload, err := domain.ParsePayload(payloadJSON)
	if err != nil {
		// The column decrypted but no longer parses; stored data is damaged.
		return nil, cryptoDomain.ErrDataIntegrity
	}

	return &SearchResult{
		RecordID:  record.ID,
		Payload:   payload,
		CreatedAt: record.CreatedAt,
	}, nil
}

// List retrieves stored records with pagination.
func (v *verificationUseCase) List(ctx context.Context, offset, limit int) ([]*domain.Record, error) {
	return v.recordRepo.List(ctx, offset, limit)
}

// PublicKeyPEM returns the PEM-encoded RSA public key clients use to wrap
// envelope symmetric keys.
func (v *verificationUseCase) PublicKeyPEM() (string, error) {
	return v.keyring.PublicKeyPEM()
}
