package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncryptedEnvelope_Validate(t *testing.T) {
	valid := func() *EncryptedEnvelope {
		return &EncryptedEnvelope{
			Ciphertext: []byte("ciphertext"),
			WrappedKey: []byte("wrapped-key"),
			Nonce:      make([]byte, NonceSize),
			AuthTag:    make([]byte, TagSize),
		}
	}

	t.Run("valid envelope", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing ciphertext", func(t *testing.T) {
		e := valid()
		e.Ciphertext = nil
		assert.ErrorIs(t, e.Validate(), ErrMalformedInput)
	})

	t.Run("missing wrapped key", func(t *testing.T) {
		e := valid()
		e.WrappedKey = nil
		assert.ErrorIs(t, e.Validate(), ErrMalformedInput)
	})

	t.Run("wrong nonce length", func(t *testing.T) {
		e := valid()
		e.Nonce = make([]byte, NonceSize-1)
		assert.ErrorIs(t, e.Validate(), ErrMalformedInput)
	})

	t.Run("wrong tag length", func(t *testing.T) {
		e := valid()
		e.AuthTag = make([]byte, TagSize+1)
		assert.ErrorIs(t, e.Validate(), ErrMalformedInput)
	})
}
