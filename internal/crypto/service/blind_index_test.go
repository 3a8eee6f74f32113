package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
)

func TestNewBlindIndexer(t *testing.T) {
	t.Run("valid secret", func(t *testing.T) {
		indexer, err := NewBlindIndexer([]byte("index-secret"), nil)
		require.NoError(t, err)
		assert.NotNil(t, indexer)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := NewBlindIndexer(nil, nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrMissingSecret)
	})
}

func TestBlindIndexer_Derive(t *testing.T) {
	indexer, err := NewBlindIndexer([]byte("index-secret"), nil)
	require.NoError(t, err)

	t.Run("deterministic", func(t *testing.T) {
		first := indexer.Derive("12345678901")
		second := indexer.Derive("12345678901")
		assert.Equal(t, first, second)
	})

	t.Run("hex encoded token", func(t *testing.T) {
		token := indexer.Derive("12345678901")
		assert.Len(t, token, 64)
		assert.Regexp(t, "^[0-9a-f]+$", token)
	})

	t.Run("distinct values yield distinct tokens", func(t *testing.T) {
		assert.NotEqual(t, indexer.Derive("12345678901"), indexer.Derive("12345678902"))
	})

	t.Run("distinct secrets yield distinct tokens", func(t *testing.T) {
		other, err := NewBlindIndexer([]byte("another-secret"), nil)
		require.NoError(t, err)
		assert.NotEqual(t, indexer.Derive("12345678901"), other.Derive("12345678901"))
	})

	t.Run("default normalizer trims surrounding space", func(t *testing.T) {
		assert.Equal(t, indexer.Derive("12345678901"), indexer.Derive("  12345678901\n"))
	})
}

func TestNormalizers(t *testing.T) {
	t.Run("trim", func(t *testing.T) {
		assert.Equal(t, "abc", NormalizeTrim(" abc\t"))
	})

	t.Run("digits", func(t *testing.T) {
		assert.Equal(t, "12345678901", NormalizeDigits("123.456.789-01"))
	})

	t.Run("none", func(t *testing.T) {
		assert.Equal(t, " abc ", NormalizeNone(" abc "))
	})

	t.Run("digits normalizer makes formatting irrelevant", func(t *testing.T) {
		indexer, err := NewBlindIndexer([]byte("index-secret"), NormalizeDigits)
		require.NoError(t, err)
		assert.Equal(t, indexer.Derive("123.456.789-01"), indexer.Derive("12345678901"))
	})
}
