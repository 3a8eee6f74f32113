package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
)

func TestAEADManagerService_CreateCipher(t *testing.T) {
	manager := NewAEADManager()

	t.Run("aes-gcm", func(t *testing.T) {
		cipher, err := manager.CreateCipher(newTestKey(t), cryptoDomain.AESGCM)
		require.NoError(t, err)
		assert.IsType(t, &AESGCMCipher{}, cipher)
	})

	t.Run("chacha20-poly1305", func(t *testing.T) {
		cipher, err := manager.CreateCipher(newTestKey(t), cryptoDomain.ChaCha20)
		require.NoError(t, err)
		assert.IsType(t, &ChaCha20Poly1305Cipher{}, cipher)
	})

	t.Run("invalid key size", func(t *testing.T) {
		_, err := manager.CreateCipher(make([]byte, 16), cryptoDomain.AESGCM)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := manager.CreateCipher(newTestKey(t), cryptoDomain.Algorithm("des"))
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})
}

func TestGenerateKey(t *testing.T) {
	key1, err := GenerateKey()
	require.NoError(t, err)
	key2, err := GenerateKey()
	require.NoError(t, err)

	assert.Len(t, key1, cryptoDomain.KeySize)
	assert.Len(t, key2, cryptoDomain.KeySize)
	assert.NotEqual(t, key1, key2)
}
