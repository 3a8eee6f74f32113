package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	t.Run("overwrites all bytes", func(t *testing.T) {
		b := []byte{1, 2, 3, 4, 5}
		Zero(b)
		assert.Equal(t, []byte{0, 0, 0, 0, 0}, b)
	})

	t.Run("handles nil slice", func(t *testing.T) {
		assert.NotPanics(t, func() { Zero(nil) })
	})

	t.Run("handles empty slice", func(t *testing.T) {
		b := []byte{}
		assert.NotPanics(t, func() { Zero(b) })
	})
}
