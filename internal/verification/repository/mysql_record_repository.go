package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/idshield/verification/internal/database"
	apperrors "github.com/idshield/verification/internal/errors"
	"github.com/idshield/verification/internal/verification/domain"
)

// MySQLRecordRepository handles verification record persistence for MySQL.
type MySQLRecordRepository struct {
	db *sql.DB
}

// NewMySQLRecordRepository creates a new MySQL record repository instance.
func NewMySQLRecordRepository(db *sql.DB) *MySQLRecordRepository {
	return &MySQLRecordRepository{db: db}
}

// Create inserts a new verification record.
func (r *MySQLRecordRepository) Create(ctx context.Context, record *domain.Record) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO verification_records
			  (id, national_id_ciphertext, national_id_nonce, national_id_tag,
			   name_ciphertext, name_nonce, name_tag,
			   payload_ciphertext, payload_nonce, payload_tag,
			   index_token, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	// Convert UUID to bytes for MySQL BINARY(16)
	uuidBytes, err := record.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		uuidBytes,
		record.EncryptedNationalID.Ciphertext,
		record.EncryptedNationalID.Nonce,
		record.EncryptedNationalID.Tag,
		record.EncryptedName.Ciphertext,
		record.EncryptedName.Nonce,
		record.EncryptedName.Tag,
		record.EncryptedPayload.Ciphertext,
		record.EncryptedPayload.Nonce,
		record.EncryptedPayload.Tag,
		record.IndexToken,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrRecordExists
		}
		return apperrors.Wrap(err, "failed to create record")
	}
	return nil
}

// GetByIndexToken retrieves a verification record by its blind-index token.
func (r *MySQLRecordRepository) GetByIndexToken(
	ctx context.Context,
	indexToken string,
) (*domain.Record, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, national_id_ciphertext, national_id_nonce, national_id_tag,
			  name_ciphertext, name_nonce, name_tag,
			  payload_ciphertext, payload_nonce, payload_tag,
			  index_token, created_at, updated_at
			  FROM verification_records
			  WHERE index_token = ?`

	var record domain.Record
	var idBytes []byte
	err := querier.QueryRowContext(ctx, query, indexToken).Scan(
		&idBytes,
		&record.EncryptedNationalID.Ciphertext,
		&record.EncryptedNationalID.Nonce,
		&record.EncryptedNationalID.Tag,
		&record.EncryptedName.Ciphertext,
		&record.EncryptedName.Nonce,
		&record.EncryptedName.Tag,
		&record.EncryptedPayload.Ciphertext,
		&record.EncryptedPayload.Nonce,
		&record.EncryptedPayload.Tag,
		&record.IndexToken,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get record by index token")
	}

	// Convert bytes back to UUID
	if err := record.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &record, nil
}

// List retrieves verification records ordered by creation time descending with pagination.
func (r *MySQLRecordRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Record, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, national_id_ciphertext, national_id_nonce, national_id_tag,
			  name_ciphertext, name_nonce, name_tag,
			  payload_ciphertext, payload_nonce, payload_tag,
			  index_token, created_at, updated_at
			  FROM verification_records
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list records")
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []*domain.Record
	for rows.Next() {
		var record domain.Record
		var idBytes []byte
		err := rows.Scan(
			&idBytes,
			&record.EncryptedNationalID.Ciphertext,
			&record.EncryptedNationalID.Nonce,
			&record.EncryptedNationalID.Tag,
			&record.EncryptedName.Ciphertext,
			&record.EncryptedName.Nonce,
			&record.EncryptedName.Tag,
			&record.EncryptedPayload.Ciphertext,
			&record.EncryptedPayload.Nonce,
			&record.EncryptedPayload.Tag,
			&record.IndexToken,
			&record.CreatedAt,
			&record.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan record")
		}

		if err := record.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating records")
	}

	if records == nil {
		records = make([]*domain.Record, 0)
	}

	return records, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
