package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Gemini GeminiConfig
	S3     S3Config
	App    AppConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type GeminiConfig struct {
	APIKey string
	Model  string
	// CompressQuality が 1 以上なら入力画像を JPEG に再圧縮して送信する
	CompressQuality int
}

type S3Config struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	Prefix          string
}

type AppConfig struct {
	LogLevel          string
	MaxUploadSize     int64
	GenerationTimeout time.Duration
	RateLimitRPS      float64
	RateLimitBurst    int
}

// Load は .env と環境変数から設定を読み込みます。
func Load() (*Config, error) {
	// .env は任意。存在しなければ環境変数のみを使う
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	apiKey := v.GetString("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = v.GetString("API_KEY")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetString("SERVER_PORT"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
		},
		Gemini: GeminiConfig{
			APIKey:          apiKey,
			Model:           v.GetString("GEMINI_MODEL"),
			CompressQuality: v.GetInt("GEMINI_COMPRESS_QUALITY"),
		},
		S3: S3Config{
			Enabled:         v.GetBool("S3_ENABLED"),
			Endpoint:        v.GetString("S3_ENDPOINT"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("S3_BUCKET_NAME"),
			Region:          v.GetString("S3_REGION"),
			Prefix:          v.GetString("S3_PREFIX"),
		},
		App: AppConfig{
			LogLevel:          v.GetString("LOG_LEVEL"),
			MaxUploadSize:     v.GetInt64("APP_MAX_UPLOAD_SIZE"),
			GenerationTimeout: v.GetDuration("APP_GENERATION_TIMEOUT"),
			RateLimitRPS:      v.GetFloat64("APP_RATE_LIMIT_RPS"),
			RateLimitBurst:    v.GetInt("APP_RATE_LIMIT_BURST"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 3*time.Minute)
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash-image")
	v.SetDefault("GEMINI_COMPRESS_QUALITY", 0)
	v.SetDefault("S3_ENABLED", false)
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_BUCKET_NAME", "tryon-views")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_PREFIX", "tryon/")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_MAX_UPLOAD_SIZE", 10*1024*1024) // 10MB
	v.SetDefault("APP_GENERATION_TIMEOUT", 2*time.Minute)
	v.SetDefault("APP_RATE_LIMIT_RPS", 0.5)
	v.SetDefault("APP_RATE_LIMIT_BURST", 3)
}

// Validate は起動に必要な設定が揃っているかを確認します。
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY (or API_KEY) is required")
	}
	if c.Gemini.CompressQuality < 0 || c.Gemini.CompressQuality > 100 {
		return fmt.Errorf("GEMINI_COMPRESS_QUALITY must be between 0 and 100, got %d", c.Gemini.CompressQuality)
	}
	if c.App.MaxUploadSize <= 0 {
		return fmt.Errorf("APP_MAX_UPLOAD_SIZE must be positive")
	}
	if c.App.GenerationTimeout <= 0 {
		return fmt.Errorf("APP_GENERATION_TIMEOUT must be positive, got %s", c.App.GenerationTimeout)
	}
	// 504 を書き込めるよう、生成のタイムアウトは書き込みタイムアウトより短くする
	if c.Server.WriteTimeout > 0 && c.App.GenerationTimeout >= c.Server.WriteTimeout {
		return fmt.Errorf("APP_GENERATION_TIMEOUT (%s) must be shorter than SERVER_WRITE_TIMEOUT (%s)",
			c.App.GenerationTimeout, c.Server.WriteTimeout)
	}
	if c.App.RateLimitRPS < 0 || c.App.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit settings must not be negative")
	}
	if c.App.RateLimitRPS > 0 && c.App.RateLimitBurst < 1 {
		return fmt.Errorf("APP_RATE_LIMIT_BURST must be at least 1 when APP_RATE_LIMIT_RPS is set")
	}
	if c.S3.Enabled && c.S3.BucketName == "" {
		return fmt.Errorf("S3_BUCKET_NAME is required when S3_ENABLED is true")
	}
	return nil
}
