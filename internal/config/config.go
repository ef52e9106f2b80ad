package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Write access policies for content mutation routes.
const (
	WriteAccessAdmin         = "admin"
	WriteAccessAuthenticated = "authenticated"
)

// MinJWTSecretLength is the minimum accepted length of the token signing secret.
const MinJWTSecretLength = 32

// Token lifetime bounds.
const (
	MinTokenTTL = 24 * time.Hour
	MaxTokenTTL = 7 * 24 * time.Hour
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServerPort  string `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	SwaggerHost string `env:"SWAGGER_HOST"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"mysql"`
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"user:password@tcp(localhost:3306)/agridynamic?charset=utf8mb4&parseTime=True&loc=Local"`
	ResetDB     bool   `env:"RESET_DB"`

	RedisAddr string `env:"REDIS_ADDR"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`
	RedisPass string `env:"REDIS_PASSWORD"`

	JWTSecret   string        `env:"JWT_SECRET,required"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	WriteAccess string        `env:"WRITE_ACCESS" envDefault:"admin"`

	// Media host (S3 compatible)
	S3Endpoint          string `env:"S3_ENDPOINT"`
	S3Region            string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Bucket            string `env:"S3_BUCKET"`
	S3AccessKey         string `env:"S3_ACCESS_KEY"`
	S3SecretKey         string `env:"S3_SECRET_KEY"`
	MediaPublicURL      string `env:"MEDIA_PUBLIC_URL"`
	MediaMaxUploadBytes int64  `env:"MEDIA_MAX_UPLOAD_BYTES" envDefault:"5242880"`
	MediaMaxDimension   int    `env:"MEDIA_MAX_DIMENSION" envDefault:"2000"`

	// Outbound mail
	SMTPHost         string `env:"SMTP_HOST"`
	SMTPPort         int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername     string `env:"SMTP_USERNAME"`
	SMTPPassword     string `env:"SMTP_PASSWORD"`
	MailFrom         string `env:"MAIL_FROM"`
	AdminNotifyEmail string `env:"ADMIN_NOTIFY_EMAIL"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// IsProduction reports whether diagnostic details must be hidden from responses.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// ServerAddr returns the listen address.
func (c Config) ServerAddr() string {
	return ":" + c.ServerPort
}

// CacheEnabled returns true if Redis caching is configured.
func (c Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// MediaEnabled returns true if the media host is configured.
func (c Config) MediaEnabled() bool {
	return c.S3Bucket != "" && c.MediaPublicURL != ""
}

// MailEnabled returns true if outbound mail is configured.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// Sender returns the From address for outbound mail.
func (c Config) Sender() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return c.SMTPUsername
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes long, got %d bytes", MinJWTSecretLength, len(c.JWTSecret))
	}
	if c.TokenTTL < MinTokenTTL || c.TokenTTL > MaxTokenTTL {
		return fmt.Errorf("TOKEN_TTL must be between %s and %s, got %s", MinTokenTTL, MaxTokenTTL, c.TokenTTL)
	}
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER %q is not supported", c.DBDriver)
	}
	switch c.WriteAccess {
	case WriteAccessAdmin, WriteAccessAuthenticated:
	default:
		return fmt.Errorf("WRITE_ACCESS must be %q or %q, got %q", WriteAccessAdmin, WriteAccessAuthenticated, c.WriteAccess)
	}
	if c.MediaMaxUploadBytes <= 0 {
		return fmt.Errorf("MEDIA_MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}
