// Package repository implements verification record persistence with dual
// database support (PostgreSQL and MySQL). Each record stores three
// independently encrypted columns plus a deterministic blind-index token used
// for exact-match lookup.
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

// PostgreSQLRecordRepository handles verification record persistence for PostgreSQL.
type PostgreSQLRecordRepository struct {
	db *sql.DB
}

// NewPostgreSQLRecordRepository creates a new PostgreSQL record repository instance.
func NewPostgreSQLRecordRepository(db *sql.DB) *PostgreSQLRecordRepository {
	return &PostgreSQLRecordRepository{db: db}
}

// Create inserts a new verification record.
func (r *PostgreSQLRecordRepository) Create(ctx context.Context, record *domain.Record) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO verification_records
			  (id, national_id_ciphertext, national_id_nonce, national_id_tag,
			   name_ciphertext, name_nonce, name_tag,
			   payload_ciphertext, payload_nonce, payload_tag,
			   index_token, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID,
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
		// Unique constraint violation on index_token means the same national ID
		// was already ingested.
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrRecordExists
		}
		return apperrors.Wrap(err, "failed to create record")
	}
	return nil
}

// GetByIndexToken retrieves a verification record by its blind-index token.
func (r *PostgreSQLRecordRepository) GetByIndexToken(
	ctx context.Context,
	indexToken string,
) (*domain.Record, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, national_id_ciphertext, national_id_nonce, national_id_tag,
			  name_ciphertext, name_nonce, name_tag,
			  payload_ciphertext, payload_nonce, payload_tag,
			  index_token, created_at, updated_at
			  FROM verification_records
			  WHERE index_token = $1`

	var record domain.Record
	err := querier.QueryRowContext(ctx, query, indexToken).Scan(
		&record.ID,
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

	return &record, nil
}

// List retrieves verification records ordered by creation time descending with pagination.
func (r *PostgreSQLRecordRepository) List(
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
			  LIMIT $1 OFFSET $2`

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
		err := rows.Scan(
			&record.ID,
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

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
