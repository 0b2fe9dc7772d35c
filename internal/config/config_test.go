package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("既定値が入る", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "test-key")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-key", cfg.Gemini.APIKey)
		assert.Equal(t, "gemini-2.5-flash-image", cfg.Gemini.Model)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 3*time.Minute, cfg.Server.WriteTimeout)
		assert.Equal(t, int64(10*1024*1024), cfg.App.MaxUploadSize)
		assert.Equal(t, 2*time.Minute, cfg.App.GenerationTimeout)
		assert.False(t, cfg.S3.Enabled)
	})

	t.Run("環境変数で上書きできる", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "test-key")
		t.Setenv("GEMINI_MODEL", "gemini-custom")
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("APP_GENERATION_TIMEOUT", "45s")
		t.Setenv("S3_ENABLED", "true")
		t.Setenv("S3_BUCKET_NAME", "views")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "gemini-custom", cfg.Gemini.Model)
		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, 45*time.Second, cfg.App.GenerationTimeout)
		assert.True(t, cfg.S3.Enabled)
		assert.Equal(t, "views", cfg.S3.BucketName)
	})

	t.Run("API_KEY にフォールバックする", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("API_KEY", "fallback-key")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "fallback-key", cfg.Gemini.APIKey)
	})

	t.Run("APIキーが無ければエラー", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("API_KEY", "")

		_, err := Load()
		assert.ErrorContains(t, err, "GEMINI_API_KEY")
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Gemini: GeminiConfig{APIKey: "k"},
			Server: ServerConfig{WriteTimeout: time.Minute},
			App:    AppConfig{MaxUploadSize: 1, GenerationTimeout: 30 * time.Second},
		}
	}

	require.NoError(t, valid().Validate())

	c := valid()
	c.Gemini.CompressQuality = 101
	assert.Error(t, c.Validate())

	c = valid()
	c.App.MaxUploadSize = 0
	assert.Error(t, c.Validate())

	c = valid()
	c.App.RateLimitRPS = -1
	assert.Error(t, c.Validate())

	t.Run("生成タイムアウトが0以下ならエラー", func(t *testing.T) {
		for _, d := range []time.Duration{0, -time.Second} {
			c := valid()
			c.App.GenerationTimeout = d
			assert.ErrorContains(t, c.Validate(), "APP_GENERATION_TIMEOUT")
		}
	})

	t.Run("生成タイムアウトが書き込みタイムアウト以上ならエラー", func(t *testing.T) {
		c := valid()
		c.App.GenerationTimeout = time.Minute
		assert.ErrorContains(t, c.Validate(), "SERVER_WRITE_TIMEOUT")

		// 書き込みタイムアウト無しなら比較しない
		c.Server.WriteTimeout = 0
		assert.NoError(t, c.Validate())
	})

	t.Run("レート制限が有効なのに burst が0ならエラー", func(t *testing.T) {
		c := valid()
		c.App.RateLimitRPS = 5
		c.App.RateLimitBurst = 0
		assert.ErrorContains(t, c.Validate(), "APP_RATE_LIMIT_BURST")

		c.App.RateLimitBurst = 1
		assert.NoError(t, c.Validate())

		// レート制限が無効なら burst は問わない
		c.App.RateLimitRPS = 0
		c.App.RateLimitBurst = 0
		assert.NoError(t, c.Validate())
	})

	c = valid()
	c.S3.Enabled = true
	assert.ErrorContains(t, c.Validate(), "S3_BUCKET_NAME")
}
