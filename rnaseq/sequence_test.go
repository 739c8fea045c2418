package rnaseq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence(t *testing.T) {
	t.Run("NewCoercesTAndCase", func(t *testing.T) {
		seq, err := New("acgtun")
		assert.NoError(t, err)
		assert.Equal(t, "ACGUUN", seq.Raw())
		assert.Equal(t, 6, seq.Len())
	})

	t.Run("RejectsUnknownBase", func(t *testing.T) {
		_, err := New("ACGX")
		assert.Error(t, err)
	})

	t.Run("CanPair", func(t *testing.T) {
		assert.True(t, CanPair(A, U))
		assert.True(t, CanPair(G, U))
		assert.False(t, CanPair(A, G))
		assert.False(t, CanPair(N, A))
	})

	t.Run("FromFASTA", func(t *testing.T) {
		seq, err := FromFASTA(">demo\nGGGAAACCC\n")
		assert.NoError(t, err)
		assert.Equal(t, "GGGAAACCC", seq.Raw())
	})
}
