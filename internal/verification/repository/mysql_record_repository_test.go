package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idshield/verification/internal/verification/domain"
)

func mysqlRecordRow(t *testing.T, record *domain.Record) *sqlmock.Rows {
	t.Helper()
	idBytes, err := record.ID.MarshalBinary()
	require.NoError(t, err)

	return sqlmock.NewRows(recordColumns).AddRow(
		idBytes,
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

func TestMySQLRecordRepository_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLRecordRepository(db)
		record := newTestRecord(t)

		mock.ExpectExec("INSERT INTO verification_records").
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Create(context.Background(), record)
		assert.NoError(t, err)
	})

	t.Run("duplicate index token", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLRecordRepository(db)
		record := newTestRecord(t)

		mock.ExpectExec("INSERT INTO verification_records").
			WillReturnError(&duplicateError{msg: "Error 1062: Duplicate entry 'abab' for key 'index_token'"})

		err := repo.Create(context.Background(), record)
		assert.ErrorIs(t, err, domain.ErrRecordExists)
	})
}

func TestMySQLRecordRepository_GetByIndexToken(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLRecordRepository(db)
		record := newTestRecord(t)

		mock.ExpectQuery("SELECT (.+) FROM verification_records").
			WithArgs(record.IndexToken).
			WillReturnRows(mysqlRecordRow(t, record))

		got, err := repo.GetByIndexToken(context.Background(), record.IndexToken)
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
		assert.Equal(t, record.EncryptedPayload, got.EncryptedPayload)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLRecordRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM verification_records").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByIndexToken(context.Background(), "missing-token")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})
}

func TestMySQLRecordRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLRecordRepository(db)
	record := newTestRecord(t)

	mock.ExpectQuery("SELECT (.+) FROM verification_records").
		WithArgs(10, 0).
		WillReturnRows(mysqlRecordRow(t, record))

	records, err := repo.List(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)
}

func TestIsMySQLUniqueViolation(t *testing.T) {
	assert.False(t, isMySQLUniqueViolation(nil))
	assert.False(t, isMySQLUniqueViolation(assert.AnError))
	assert.True(t, isMySQLUniqueViolation(&duplicateError{msg: "Error 1062: Duplicate entry"}))
}
