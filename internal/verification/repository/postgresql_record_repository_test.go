package repository

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
	"github.com/idshield/verification/internal/verification/domain"
)

var recordColumns = []string{
	"id",
	"national_id_ciphertext", "national_id_nonce", "national_id_tag",
	"name_ciphertext", "name_nonce", "name_tag",
	"payload_ciphertext", "payload_nonce", "payload_tag",
	"index_token", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func newTestRecord(t *testing.T) *domain.Record {
	t.Helper()
	column := func(seed byte) domain.EncryptedColumn {
		ciphertext := make([]byte, 24)
		nonce := make([]byte, cryptoDomain.NonceSize)
		tag := make([]byte, cryptoDomain.TagSize)
		for i := range ciphertext {
			ciphertext[i] = seed
		}
		return domain.EncryptedColumn{Ciphertext: ciphertext, Nonce: nonce, Tag: tag}
	}

	return &domain.Record{
		ID:                  uuid.Must(uuid.NewV7()),
		EncryptedNationalID: column(0x01),
		EncryptedName:       column(0x02),
		EncryptedPayload:    column(0x03),
		IndexToken:          strings.Repeat("ab", 32),
		CreatedAt:           time.Now().UTC(),
		UpdatedAt:           time.Now().UTC(),
	}
}

func recordRow(record *domain.Record) *sqlmock.Rows {
	return sqlmock.NewRows(recordColumns).AddRow(
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
		record.CreatedAt,
		record.UpdatedAt,
	)
}

func TestPostgreSQLRecordRepository_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLRecordRepository(db)
		record := newTestRecord(t)

		mock.ExpectExec("INSERT INTO verification_records").
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Create(context.Background(), record)
		assert.NoError(t, err)
	})

	t.Run("duplicate index token", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLRecordRepository(db)
		record := newTestRecord(t)

		mock.ExpectExec("INSERT INTO verification_records").
			WillReturnError(&duplicateError{msg: `pq: duplicate key value violates unique constraint "verification_records_index_token_key"`})

		err := repo.Create(context.Background(), record)
		assert.ErrorIs(t, err, domain.ErrRecordExists)
	})

	t.Run("database error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLRecordRepository(db)
		record := newTestRecord(t)

		mock.ExpectExec("INSERT INTO verification_records").
			WillReturnError(assert.AnError)

		err := repo.Create(context.Background(), record)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrRecordExists)
	})
}

func TestPostgreSQLRecordRepository_GetByIndexToken(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLRecordRepository(db)
		record := newTestRecord(t)

		mock.ExpectQuery("SELECT (.+) FROM verification_records").
			WithArgs(record.IndexToken).
			WillReturnRows(recordRow(record))

		got, err := repo.GetByIndexToken(context.Background(), record.IndexToken)
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
		assert.Equal(t, record.EncryptedNationalID, got.EncryptedNationalID)
		assert.Equal(t, record.EncryptedName, got.EncryptedName)
		assert.Equal(t, record.EncryptedPayload, got.EncryptedPayload)
		assert.Equal(t, record.IndexToken, got.IndexToken)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLRecordRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM verification_records").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByIndexToken(context.Background(), "missing-token")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})
}

func TestPostgreSQLRecordRepository_List(t *testing.T) {
	t.Run("returns records", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLRecordRepository(db)
		record := newTestRecord(t)

		mock.ExpectQuery("SELECT (.+) FROM verification_records").
			WithArgs(10, 0).
			WillReturnRows(recordRow(record))

		records, err := repo.List(context.Background(), 0, 10)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, record.ID, records[0].ID)
	})

	t.Run("empty result returns empty slice", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLRecordRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM verification_records").
			WillReturnRows(sqlmock.NewRows(recordColumns))

		records, err := repo.List(context.Background(), 0, 10)
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})
}

func TestIsPostgreSQLUniqueViolation(t *testing.T) {
	assert.False(t, isPostgreSQLUniqueViolation(nil))
	assert.False(t, isPostgreSQLUniqueViolation(assert.AnError))
	assert.True(t, isPostgreSQLUniqueViolation(&duplicateError{msg: "pq: duplicate key value"}))
	assert.True(t, isPostgreSQLUniqueViolation(&duplicateError{msg: "violates unique constraint"}))
}

// duplicateError simulates driver errors in tests.
type duplicateError struct {
	msg string
}

func (e *duplicateError) Error() string {
	return e.msg
}
