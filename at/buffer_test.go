package at_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i4.energy/across/atcmd/at"
)

func TestLineBuffer(t *testing.T) {
	t.Run("drops CR and LF", func(t *testing.T) {
		b := at.NewLineBuffer(16)
		for _, c := range []byte("AT\r\nI") {
			require.NoError(t, b.Append(c))
		}
		assert.Equal(t, "ATI", b.String())
		assert.Equal(t, 3, b.Len())
	})

	t.Run("rejects once full", func(t *testing.T) {
		b := at.NewLineBuffer(2)
		require.NoError(t, b.Append('A'))
		require.NoError(t, b.Append('T'))
		assert.ErrorIs(t, b.Append('I'), at.ErrBufferFull)
		assert.ErrorIs(t, b.Append(at.CR), at.ErrBufferFull)
		assert.Equal(t, "AT", b.String())
	})

	t.Run("CR and LF do not use capacity", func(t *testing.T) {
		b := at.NewLineBuffer(1)
		require.NoError(t, b.Append(at.CR))
		require.NoError(t, b.Append(at.LF))
		require.NoError(t, b.Append('A'))
		assert.Equal(t, 1, b.Len())
	})

	t.Run("reset empties content and keeps capacity", func(t *testing.T) {
		b := at.NewLineBuffer(4)
		require.NoError(t, b.Append('A'))
		b.Reset()
		assert.Equal(t, "", b.String())
		assert.Equal(t, 0, b.Len())
		assert.Equal(t, 4, b.Cap())
	})

	t.Run("trim suffix", func(t *testing.T) {
		b := at.NewLineBuffer(8)
		for _, c := range []byte("ATI;") {
			require.NoError(t, b.Append(c))
		}
		assert.False(t, b.TrimSuffix([]byte("#")))
		assert.False(t, b.TrimSuffix(nil))
		assert.True(t, b.TrimSuffix([]byte(";")))
		assert.Equal(t, "ATI", b.String())
	})

	t.Run("negative capacity behaves as zero", func(t *testing.T) {
		b := at.NewLineBuffer(-1)
		assert.ErrorIs(t, b.Append('A'), at.ErrBufferFull)
	})
}
