package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedUtils(t *testing.T) {
	t.Run("dereferenceSeed: nil の場合は 0 を返すのだ", func(t *testing.T) {
		assert.Equal(t, int64(0), DereferenceSeed(nil))
	})

	t.Run("dereferenceSeed: 値がある場合はその値を返すのだ", func(t *testing.T) {
		var val int64 = 999
		assert.Equal(t, int64(999), DereferenceSeed(&val))
	})

	t.Run("SeedToInt32Ptr: nil は nil のままなのだ", func(t *testing.T) {
		assert.Nil(t, SeedToInt32Ptr(nil))
	})

	t.Run("SeedToInt32Ptr: int32 に変換するのだ", func(t *testing.T) {
		v := int64(1234)
		got := SeedToInt32Ptr(&v)
		require.NotNil(t, got)
		assert.Equal(t, int32(1234), *got)
	})
}

func TestParseSeed(t *testing.T) {
	t.Run("空文字は指定なし", func(t *testing.T) {
		got, err := ParseSeed("  ")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("数値を解釈する", func(t *testing.T) {
		got, err := ParseSeed("42")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(42), *got)
	})

	t.Run("数値以外はエラー", func(t *testing.T) {
		_, err := ParseSeed("abc")
		assert.ErrorContains(t, err, "seed")
	})
}
